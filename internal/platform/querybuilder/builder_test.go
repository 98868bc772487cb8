package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("public_id", "name").
		From("leagues").
		Where(Eq("status", "active"), ILike("name", "%premier%")).
		OrderBy("public_id").
		Limit(20).
		Offset(40).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT public_id, name FROM leagues WHERE status = $1 AND name ILIKE $2 ORDER BY public_id LIMIT 20 OFFSET 40"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "active" || args[1] != "%premier%" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_UpsertSuffix(t *testing.T) {
	query, args, err := InsertInto("badges").
		Columns("public_id", "name").
		Values("b1", "Top Scorer").
		Suffix("ON CONFLICT (public_id) DO UPDATE SET name = EXCLUDED.name").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO badges (public_id, name) VALUES ($1, $2) ON CONFLICT (public_id) DO UPDATE SET name = EXCLUDED.name"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("users").
		Set("status", "suspended").
		SetExpr("updated_at", "NOW()").
		Where(Eq("public_id", "u1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE users SET status = $1, updated_at = NOW() WHERE public_id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "suspended" || args[1] != "u1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("boosters").
		Where(Eq("public_id", "bo1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM boosters WHERE public_id = $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "bo1" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("boosters").ToSQL(); err == nil {
		t.Fatalf("expected error for unconditional delete")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		PublicID string `db:"public_id"`
		Name     string `db:"name"`
		internal string
	}
	_ = row{}.internal

	query, args, err := InsertModel("clubs", row{PublicID: "c1", Name: "Arsenal"}, "")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}

	wantQuery := "INSERT INTO clubs (public_id, name) VALUES ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "c1" || args[1] != "Arsenal" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
