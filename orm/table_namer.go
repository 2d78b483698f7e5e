package orm

import (
	"reflect"

	"github.com/mickamy/pressroom/internal/naming"
)

// TableNamer can be implemented by model structs to override the
// auto-derived table name.
type TableNamer interface {
	TableName() string
}

// ResolveTableName returns the table name for type T.
// If T implements TableNamer (value or pointer receiver), that name is used;
// otherwise fallback is returned.
func ResolveTableName[T any](fallback string) string {
	var zero T
	if tn, ok := any(&zero).(TableNamer); ok {
		return tn.TableName()
	}
	return fallback
}

// InferTableName derives the table name of T from its type name as a
// snake_case plural ("Author" -> "authors", "PressRelease" ->
// "press_releases"), unless T implements TableNamer.
func InferTableName[T any]() string {
	name := reflect.TypeFor[T]().Name()
	return ResolveTableName[T](naming.TableName(name))
}
