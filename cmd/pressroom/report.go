package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mickamy/pressroom/model"
	"github.com/mickamy/pressroom/repo"
)

// printReport writes every author's articles, magazines and topic areas,
// every magazine's contributors, and the top publisher.
func printReport(ctx context.Context, w io.Writer, r *repo.Repositories) error {
	authors, err := r.Authors.All(ctx)
	if err != nil {
		return err
	}
	magazines, err := r.Magazines.All(ctx)
	if err != nil {
		return err
	}
	var counts [3]int64
	for i, count := range []func(context.Context) (int64, error){r.Authors.Count, r.Magazines.Count, r.Articles.Count} {
		if counts[i], err = count(ctx); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "%d authors, %d magazines, %d articles\n", counts[0], counts[1], counts[2])

	for i := range authors {
		a := &authors[i]
		written, err := r.Authors.Articles(ctx, a)
		if err != nil {
			return err
		}
		mags, err := r.Authors.Magazines(ctx, a)
		if err != nil {
			return err
		}
		topics, err := r.Authors.TopicAreas(ctx, a)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s\n", a.Name)
		fmt.Fprintf(w, "  articles:    %s\n", join(written, func(x model.Article) string { return x.Title }))
		fmt.Fprintf(w, "  magazines:   %s\n", join(mags, func(x model.Magazine) string { return x.Name }))
		fmt.Fprintf(w, "  topic areas: %s\n", strings.Join(topics, ", "))
	}

	for i := range magazines {
		m := &magazines[i]
		contributors, err := r.Magazines.Contributors(ctx, m)
		if err != nil {
			return err
		}
		regulars, err := r.Magazines.ContributingAuthors(ctx, m)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s (%s)\n", m.Name, m.Category)
		fmt.Fprintf(w, "  contributors:         %s\n", join(contributors, func(x model.Author) string { return x.Name }))
		fmt.Fprintf(w, "  contributing authors: %s\n", join(regulars, func(x model.Author) string { return x.Name }))
	}

	top, err := r.Magazines.TopPublisher(ctx)
	if err != nil {
		return err
	}
	if top == nil {
		fmt.Fprintln(w, "\ntop publisher: none")
		return nil
	}
	fmt.Fprintf(w, "\ntop publisher: %s\n", top.Name)
	return nil
}

func join[T any](items []T, name func(T) string) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = name(it)
	}
	return strings.Join(names, ", ")
}
