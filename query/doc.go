// Package query provides per-table query factories for the pressroom
// models. Each factory returns an *orm.Query bound to the given Querier;
// rows are scanned by column name.
package query
