package query

import (
	"fmt"
	"strings"
)

var operators = []string{">=", "<=", "!=", "=", ">", "<", "~"}

// FieldQuery represents a single field-based query condition
type FieldQuery struct {
	Field    string // Field name to query (e.g., "Type", "ParentMap")
	Operator string // Comparison operator: "=", "!=", ">", "<", ">=", "<=", "~"
	Value    string // Value to compare against, parsed per field kind
}

// Parse reads a condition such as "Type=2", "ID>=100" or "Name~Water".
// The leftmost operator wins; at the same position the longer one does.
func Parse(expr string) (FieldQuery, error) {
	at, op := -1, ""
	for _, candidate := range operators {
		i := strings.Index(expr, candidate)
		if i < 0 {
			continue
		}
		if at < 0 || i < at || (i == at && len(candidate) > len(op)) {
			at, op = i, candidate
		}
	}
	if at < 0 {
		return FieldQuery{}, fmt.Errorf("no operator in condition %q", expr)
	}
	q := FieldQuery{
		Field:    strings.TrimSpace(expr[:at]),
		Operator: op,
		Value:    strings.TrimSpace(expr[at+len(op):]),
	}
	return q, q.Validate()
}

// Validate checks if the query is properly formed
func (q *FieldQuery) Validate() error {
	if q.Field == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	if q.Operator == "" {
		return fmt.Errorf("operator cannot be empty")
	}
	for _, op := range operators {
		if q.Operator == op {
			return nil
		}
	}
	return fmt.Errorf("invalid operator: %s", q.Operator)
}

func (q FieldQuery) String() string {
	return q.Field + q.Operator + q.Value
}
