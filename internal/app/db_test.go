package app

import "testing"

func TestConnString(t *testing.T) {
	raw := "postgres://u:p@localhost:5432/fantasy_platform?sslmode=disable"

	got := connString(raw, true)
	if got == raw {
		t.Fatalf("expected disable_prepared_binary_result to be appended, got %s", got)
	}
	if connString(raw, false) != raw {
		t.Fatalf("expected url unchanged when flag is off")
	}

	withParam := raw + "&disable_prepared_binary_result=no"
	if connString(withParam, true) != withParam {
		t.Fatalf("expected an explicit parameter to win")
	}
}

func TestDatabaseName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/fantasy_platform?sslmode=disable", "fantasy_platform"},
		{"host=localhost dbname=fantasy_platform sslmode=disable", "fantasy_platform"},
		{"host=localhost dbname='quoted_name'", "quoted_name"},
		{"postgres://u:p@localhost:5432/", ""},
	}

	for _, tc := range cases {
		if got := databaseName(tc.in); got != tc.want {
			t.Fatalf("databaseName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
