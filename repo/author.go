package repo

import (
	"context"
	"fmt"

	"github.com/mickamy/pressroom/model"
	"github.com/mickamy/pressroom/orm"
	"github.com/mickamy/pressroom/query"
	"github.com/mickamy/pressroom/scope"
	"github.com/mickamy/pressroom/store"
)

// AuthorRepository persists authors and answers questions about their work.
type AuthorRepository struct {
	p *store.Provider
}

// NewAuthorRepository returns an AuthorRepository backed by p.
func NewAuthorRepository(p *store.Provider) *AuthorRepository {
	return &AuthorRepository{p: p}
}

// Create builds an author named name and saves it.
func (r *AuthorRepository) Create(ctx context.Context, name string) (*model.Author, error) {
	return r.Save(ctx, &model.Author{Name: name})
}

// Save inserts a when it has no ID yet and updates it by ID otherwise.
// It returns a itself.
func (r *AuthorRepository) Save(ctx context.Context, a *model.Author) (*model.Author, error) {
	err := r.p.Do(ctx, func(db orm.Querier) error {
		if a.Persisted() {
			return query.Authors(db).Update(ctx, a)
		}
		return query.Authors(db).Create(ctx, a)
	})
	if err != nil {
		return nil, fmt.Errorf("repo: save author: %w", err)
	}
	return a, nil
}

// FindByID returns the author with the given id, or nil if there is none.
func (r *AuthorRepository) FindByID(ctx context.Context, id int64) (*model.Author, error) {
	var a *model.Author
	err := r.p.Do(ctx, func(db orm.Querier) error {
		v, err := query.Authors(db).Where("id = ?", id).First(ctx)
		a, err = found(v, err)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("repo: find author %d: %w", id, err)
	}
	return a, nil
}

// All returns every author in store order, narrowed by scopes.
func (r *AuthorRepository) All(ctx context.Context, scopes ...scope.Scope) ([]model.Author, error) {
	var authors []model.Author
	err := r.p.Do(ctx, func(db orm.Querier) (err error) {
		authors, err = query.Authors(db).Scopes(scopes...).OrderBy("id").All(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("repo: list authors: %w", err)
	}
	return authors, nil
}

// Count returns the number of stored authors.
func (r *AuthorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.p.Do(ctx, func(db orm.Querier) (err error) {
		n, err = query.Authors(db).Count(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("repo: count authors: %w", err)
	}
	return n, nil
}

// Articles returns the articles written by a, oldest first.
func (r *AuthorRepository) Articles(ctx context.Context, a *model.Author) ([]model.Article, error) {
	var articles []model.Article
	err := r.p.Do(ctx, func(db orm.Querier) (err error) {
		articles, err = query.Articles(db).Where("author_id = ?", a.ID).OrderBy("id").All(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("repo: articles of author %d: %w", a.ID, err)
	}
	return articles, nil
}

// Magazines returns each magazine a has written for once, ordered by a's
// first article in it.
func (r *AuthorRepository) Magazines(ctx context.Context, a *model.Author) ([]model.Magazine, error) {
	magazines := []model.Magazine{}
	err := r.p.Do(ctx, func(db orm.Querier) error {
		pairs, err := orm.QueryJoinTable[int64, int64](
			ctx, db, query.ArticlesTable, "id", "author_id", "magazine_id", []int64{a.ID},
		)
		if err != nil {
			return err
		}
		ids := orm.UniqueTargets(pairs)
		if len(ids) == 0 {
			return nil
		}

		rows, err := query.Magazines(db).Scopes(scope.In("id", ids)).All(ctx)
		if err != nil {
			return err
		}
		byID := make(map[int64]model.Magazine, len(rows))
		for _, m := range rows {
			byID[m.ID] = m
		}
		magazines = make([]model.Magazine, 0, len(ids))
		for _, id := range ids {
			if m, ok := byID[id]; ok {
				magazines = append(magazines, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo: magazines of author %d: %w", a.ID, err)
	}
	return magazines, nil
}

// TopicAreas returns the distinct categories of the magazines a writes for.
func (r *AuthorRepository) TopicAreas(ctx context.Context, a *model.Author) ([]string, error) {
	var categories []string
	err := r.p.Do(ctx, func(db orm.Querier) error {
		q := query.Articles(db).
			Join("Magazine").
			Where("articles.author_id = ?", a.ID).
			OrderBy("articles.id")
		all, err := orm.Pluck[model.Article, string](ctx, q, "magazines.category")
		if err != nil {
			return err
		}
		categories = orm.Unique(all)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo: topic areas of author %d: %w", a.ID, err)
	}
	return categories, nil
}
