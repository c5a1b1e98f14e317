package repository

import (
	"fmt"
	"strings"
)

type condition struct {
	format string
	value  interface{}
	ok     bool
}

func clause[T any](format string, value *T) condition {
	if value == nil {
		return condition{}
	}
	return condition{format: format, value: *value, ok: true}
}

func searchClause(format, term string) condition {
	term = strings.TrimSpace(term)
	if term == "" {
		return condition{}
	}
	return condition{format: format, value: "%" + escapeLike(term) + "%", ok: true}
}

// buildWhere собирает WHERE с позиционными параметрами, пропуская пустые условия.
func buildWhere(conditions ...condition) (string, []interface{}) {
	clauses := make([]string, 0, len(conditions))
	args := make([]interface{}, 0, len(conditions))

	for _, cond := range conditions {
		if !cond.ok {
			continue
		}
		args = append(args, cond.value)
		clauses = append(clauses, fmt.Sprintf(cond.format, len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func limitOffset(argCount int) string {
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount+1, argCount+2)
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
