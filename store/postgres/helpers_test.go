package postgres

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jozzer182/Yuva/resource"
)

func TestTable_QuotesIdentifiers(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"jobs", `"jobs"`},
		{"app.jobs", `"app"."jobs"`},
		{`we"ird`, `"we""ird"`},
	}
	for _, tt := range tests {
		if got := table(resource.Collection{Name: tt.name}); got != tt.want {
			t.Errorf("table(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	missing := &pgconn.PgError{Code: "42P01", Message: `relation "jobs" does not exist`}
	err := describe(missing)
	if !strings.Contains(err.Error(), "table does not exist") {
		t.Errorf("describe = %v", err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Error("describe lost the driver error")
	}

	plain := errors.New("boom")
	if got := describe(plain); got != plain {
		t.Errorf("describe(plain) = %v, want unchanged", got)
	}
}
