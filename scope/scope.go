package scope

import "strings"

// Applier is implemented by query builders to receive scope fragments.
// This interface lives in the scope package so that orm can import scope
// without creating circular dependencies.
type Applier interface {
	ApplyWhere(clause string, args []any)
	ApplyOrderBy(clause string)
	ApplyGroupBy(clause string)
	ApplyHaving(clause string, args []any)
	ApplyLimit(n int)
	ApplyOffset(n int)
}

type scopeKind int

const (
	kindWhere scopeKind = iota
	kindOrderBy
	kindGroupBy
	kindHaving
	kindLimit
	kindOffset
)

// Scope represents a single query condition fragment.
// Scopes are immutable and safe to reuse across queries.
type Scope struct {
	kind   scopeKind
	clause string
	args   []any
	n      int
}

// Apply dispatches this Scope to the given Applier.
func (s Scope) Apply(a Applier) {
	switch s.kind {
	case kindWhere:
		a.ApplyWhere(s.clause, s.args)
	case kindOrderBy:
		a.ApplyOrderBy(s.clause)
	case kindGroupBy:
		a.ApplyGroupBy(s.clause)
	case kindHaving:
		a.ApplyHaving(s.clause, s.args)
	case kindLimit:
		a.ApplyLimit(s.n)
	case kindOffset:
		a.ApplyOffset(s.n)
	}
}

// Where returns a Scope that adds a WHERE clause fragment.
//
//	scope.Where("magazine_id = ?", 3)
//	scope.Where("author_id = ? AND magazine_id = ?", 1, 3)
func Where(clause string, args ...any) Scope {
	return Scope{kind: kindWhere, clause: clause, args: args}
}

// OrderBy returns a Scope that appends to the ORDER BY clause.
//
//	scope.OrderBy("id DESC")
func OrderBy(clause string) Scope {
	return Scope{kind: kindOrderBy, clause: clause}
}

// GroupBy returns a Scope that appends grouping columns.
//
//	scope.GroupBy("authors.id", "authors.name")
func GroupBy(columns ...string) Scope {
	return Scope{kind: kindGroupBy, clause: strings.Join(columns, ", ")}
}

// Having returns a Scope that adds a HAVING clause fragment. It only has
// an effect together with GroupBy.
//
//	scope.Having("COUNT(articles.id) > ?", 1)
func Having(clause string, args ...any) Scope {
	return Scope{kind: kindHaving, clause: clause, args: args}
}

// Limit returns a Scope that sets the LIMIT.
func Limit(n int) Scope {
	return Scope{kind: kindLimit, n: n}
}

// Offset returns a Scope that sets the OFFSET.
func Offset(n int) Scope {
	return Scope{kind: kindOffset, n: n}
}

// In returns a WHERE scope with an IN clause, expanding the slice into
// individual placeholders. An empty slice matches nothing.
//
//	scope.In("id", []int64{1, 2, 3})  // → WHERE id IN (?, ?, ?)
func In[T any](column string, values []T) Scope {
	if len(values) == 0 {
		return Where("1 = 0")
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return Where(column+" IN ("+repeatJoin("?", len(values))+")", args...)
}

// Scopes is a named slice of Scope.
type Scopes []Scope

// Append adds scopes and returns a new Scopes. The receiver is not modified.
func (ss Scopes) Append(scopes ...Scope) Scopes {
	return append(append(Scopes(nil), ss...), scopes...)
}

// Combine creates a Scopes from the given scopes.
//
//	scope.Combine(scope.Limit(10), scope.Offset(20))
func Combine(scopes ...Scope) Scopes {
	return Scopes(scopes)
}

func repeatJoin(s string, count int) string {
	if count <= 0 {
		return ""
	}
	parts := make([]string, count)
	for i := range parts {
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}
