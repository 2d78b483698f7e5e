package orm

import (
	"context"
	"fmt"
)

// JoinPair holds a source–target pair read from a join table.
type JoinPair[S, T comparable] struct {
	Source S
	Target T
}

// QueryJoinTable reads (sourceCol, targetCol) rows from the given join table
// where sourceCol IN (sourceIDs), in the table's primary key order.
func QueryJoinTable[S, T comparable](
	ctx context.Context, db Querier, table, pkCol, sourceCol, targetCol string, sourceIDs []S,
) ([]JoinPair[S, T], error) {
	if len(sourceIDs) == 0 {
		return nil, nil
	}

	d := db.Dialect()
	qi := d.QuoteIdent

	args := make([]any, len(sourceIDs))
	for i, id := range sourceIDs {
		args[i] = id
	}

	query := fmt.Sprintf(
		"SELECT %s, %s FROM %s WHERE %s IN (%s) ORDER BY %s",
		qi(sourceCol), qi(targetCol), qi(table), qi(sourceCol),
		repeatPlaceholders(len(sourceIDs)), qi(pkCol),
	)

	rows, err := db.QueryContext(ctx, rebind(d, query), args...)
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()

	var pairs []JoinPair[S, T]
	for rows.Next() {
		var p JoinPair[S, T]
		if err := rows.Scan(&p.Source, &p.Target); err != nil {
			return nil, err //nolint:wrapcheck // pass through
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err() //nolint:wrapcheck // pass through
}

// UniqueTargets extracts deduplicated target values from a slice of JoinPair,
// in order of first appearance.
func UniqueTargets[S, T comparable](pairs []JoinPair[S, T]) []T {
	targets := make([]T, len(pairs))
	for i, p := range pairs {
		targets[i] = p.Target
	}
	return Unique(targets)
}

// Unique returns values without duplicates, in order of first appearance.
func Unique[T comparable](values []T) []T {
	return UniqueBy(values, func(v T) T { return v })
}

// UniqueBy returns items without duplicates according to key, keeping the
// first item seen for each key.
func UniqueBy[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	result := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, it)
	}
	return result
}
