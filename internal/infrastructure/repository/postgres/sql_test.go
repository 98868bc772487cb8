package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("sql.ErrNoRows must be not found")
	}
	if !isNotFound(fmt.Errorf("wrap: %w", sql.ErrNoRows)) {
		t.Fatalf("wrapped sql.ErrNoRows must be not found")
	}
	if isNotFound(fmt.Errorf("boom")) {
		t.Fatalf("arbitrary error must not be not found")
	}
}

func TestIsDuplicate(t *testing.T) {
	dup := &pq.Error{Code: "23505"}
	if !isDuplicate(dup) {
		t.Fatalf("unique violation must be duplicate")
	}
	if !isDuplicate(fmt.Errorf("wrap: %w", dup)) {
		t.Fatalf("wrapped unique violation must be duplicate")
	}
	if isDuplicate(&pq.Error{Code: "23503"}) {
		t.Fatalf("foreign key violation must not be duplicate")
	}
	if isDuplicate(fmt.Errorf("boom")) {
		t.Fatalf("arbitrary error must not be duplicate")
	}
}
