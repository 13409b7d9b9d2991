package repositories

import (
	"testing"

	"github.com/Masterminds/squirrel"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ana", "Ana"},
		{"100%", `100\%`},
		{"ana_lima", `ana\_lima`},
		{`a\b`, `a\\b`},
		{`%_\`, `\%\_\\`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStudentSearchPatternIsLiteral(t *testing.T) {
	sql, args, err := squirrel.ILike{"name": "%" + escapeLike("50%_off") + "%"}.ToSql()
	if err != nil {
		t.Fatalf("to sql: %v", err)
	}
	if sql != "name ILIKE ?" {
		t.Fatalf("sql = %q", sql)
	}
	if len(args) != 1 || args[0] != `%50\%\_off%` {
		t.Fatalf("args = %v", args)
	}
}
