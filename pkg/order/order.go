// Package order produces the physical field sequence of a record for one
// version by splicing relocated fields into the declaration order.
//
// A relocation says "from version V this field is stored after field P". When
// P itself moves in the same version the two moves depend on each other, so
// moves are applied in order of how many moving predecessors they depend on.
package order

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ssargent/wowformats/pkg/inspect"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/version"
)

// ErrCyclicMove marks move declarations that depend on each other in a loop.
// It is always wrapped in a *schema.ConfigError.
var ErrCyclicMove = errors.New("cyclic field move")

// ActiveMove returns the move with the greatest In not after v.
func ActiveMove(f schema.Field, v version.Version) (schema.Move, bool) {
	var (
		best  schema.Move
		found bool
	)
	for _, mv := range f.Moves {
		if mv.In > v {
			continue
		}
		if !found || mv.In >= best.In {
			best, found = mv, true
		}
	}
	return best, found
}

type pendingMove struct {
	field    inspect.Field
	move     schema.Move
	chain    []string // moving predecessors, nearest first
	position int      // index in the base order
}

// Order applies every move active in v to fields, which must be in base
// (declaration) order. The input slice is not modified.
func Order(fields []inspect.Field, v version.Version) ([]inspect.Field, error) {
	present := make(map[string]bool, len(fields))
	for _, f := range fields {
		present[f.Name] = true
	}

	moving := make(map[string]schema.Move)
	var pending []*pendingMove
	for i, f := range fields {
		if mv, ok := ActiveMove(f.Field, v); ok {
			moving[f.Name] = mv
			pending = append(pending, &pendingMove{field: f, move: mv, position: i})
		}
	}

	working := append([]inspect.Field(nil), fields...)
	if len(pending) == 0 {
		return working, nil
	}

	// Resolve every chain first so a cycle is reported before anything moves.
	for _, pm := range pending {
		chain, err := precedence(pm.field.Field, moving, present)
		if err != nil {
			return nil, err
		}
		pm.chain = chain
	}

	sort.SliceStable(pending, func(i, j int) bool {
		if len(pending[i].chain) != len(pending[j].chain) {
			return len(pending[i].chain) < len(pending[j].chain)
		}
		return pending[i].position < pending[j].position
	})

	for _, pm := range pending {
		working = remove(working, pm.field.Name)
		at := indexOf(working, pm.move.After)
		if at < 0 {
			return nil, schema.Errorf(pm.field.Owner, pm.field.Name, "predecessor %q disappeared while ordering", pm.move.After)
		}
		working = insert(working, at+1, pm.field)
	}
	return working, nil
}

// precedence walks the comes-after references of f through other moving
// fields until it reaches one that stays in place.
func precedence(f schema.Field, moving map[string]schema.Move, present map[string]bool) ([]string, error) {
	var chain []string
	visited := map[string]bool{f.Name: true}

	cur := moving[f.Name].After
	for {
		if !present[cur] {
			return nil, schema.Errorf(f.Owner, f.Name, "moves after %q, which is not stored in this version", cur)
		}
		mv, ok := moving[cur]
		if !ok {
			return chain, nil
		}
		if visited[cur] {
			return nil, &schema.ConfigError{
				Schema: f.Owner,
				Field:  f.Name,
				Reason: fmt.Sprintf("%v through %s", ErrCyclicMove, describe(f.Name, chain, cur)),
				Err:    ErrCyclicMove,
			}
		}
		visited[cur] = true
		chain = append(chain, cur)
		cur = mv.After
	}
}

func describe(start string, chain []string, repeated string) string {
	path := start
	for _, name := range chain {
		path += " -> " + name
	}
	return path + " -> " + repeated
}

func indexOf(fields []inspect.Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func remove(fields []inspect.Field, name string) []inspect.Field {
	i := indexOf(fields, name)
	if i < 0 {
		return fields
	}
	return append(fields[:i], fields[i+1:]...)
}

func insert(fields []inspect.Field, at int, f inspect.Field) []inspect.Field {
	fields = append(fields, inspect.Field{})
	copy(fields[at+1:], fields[at:])
	fields[at] = f
	return fields
}
