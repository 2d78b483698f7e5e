package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mickamy/pressroom/repo"
	"github.com/mickamy/pressroom/scope"
)

// pageOptions selects one page of the article listing.
type pageOptions struct {
	page     int
	size     int
	authorID int64
}

func (o pageOptions) scopes() (scope.Scopes, error) {
	if o.page < 1 || o.size < 1 {
		return nil, errors.New("page and page size must be at least 1")
	}
	s := scope.Combine(scope.Limit(o.size), scope.Offset((o.page-1)*o.size))
	if o.authorID != 0 {
		s = s.Append(scope.Where("author_id = ?", o.authorID))
	}
	return s, nil
}

// printArticles writes one page of articles in store order as
// "id<TAB>title" lines.
func printArticles(ctx context.Context, w io.Writer, r *repo.Repositories, o pageOptions) error {
	scopes, err := o.scopes()
	if err != nil {
		return err
	}
	articles, err := r.Articles.All(ctx, scopes...)
	if err != nil {
		return err
	}
	for _, a := range articles {
		fmt.Fprintf(w, "%d\t%s\n", a.ID, a.Title)
	}
	return nil
}
