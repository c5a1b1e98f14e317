package repository

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

// TestBuildWhereSkipsEmpty проверяет пропуск пустых условий и нумерацию параметров.
func TestBuildWhereSkipsEmpty(t *testing.T) {
	userID := uuid.New()
	success := true

	where, args := buildWhere(
		clause("patient_id = $%d", (*uuid.UUID)(nil)),
		clause("user_id = $%d", &userID),
		searchClause("name ILIKE $%d", "  "),
		clause("success = $%d", &success),
	)

	if where != " WHERE user_id = $1 AND success = $2" {
		t.Fatalf("unexpected where: %q", where)
	}
	if !reflect.DeepEqual(args, []interface{}{userID, true}) {
		t.Fatalf("unexpected args: %v", args)
	}
	if got := limitOffset(len(args)); got != " LIMIT $3 OFFSET $4" {
		t.Fatalf("unexpected limit clause: %q", got)
	}
}

// TestBuildWhereEmpty проверяет отсутствие WHERE без условий.
func TestBuildWhereEmpty(t *testing.T) {
	where, args := buildWhere()
	if where != "" || len(args) != 0 {
		t.Fatalf("expected empty where, got %q %v", where, args)
	}
}

// TestSearchClauseEscapes проверяет экранирование шаблонов LIKE.
func TestSearchClauseEscapes(t *testing.T) {
	cond := searchClause("name ILIKE $%d", " 50%_dal ")
	if !cond.ok {
		t.Fatal("expected condition to be active")
	}
	if cond.value != `%50\%\_dal%` {
		t.Fatalf("unexpected pattern: %v", cond.value)
	}
}
