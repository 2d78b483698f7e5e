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

// MagazineRepository persists magazines and answers questions about who
// writes for them.
type MagazineRepository struct {
	p *store.Provider
}

// NewMagazineRepository returns a MagazineRepository backed by p.
func NewMagazineRepository(p *store.Provider) *MagazineRepository {
	return &MagazineRepository{p: p}
}

// Create builds a magazine and saves it.
func (r *MagazineRepository) Create(ctx context.Context, name, category string) (*model.Magazine, error) {
	return r.Save(ctx, &model.Magazine{Name: name, Category: category})
}

// Save inserts m when it has no ID yet and updates it by ID otherwise.
// It returns m itself.
func (r *MagazineRepository) Save(ctx context.Context, m *model.Magazine) (*model.Magazine, error) {
	err := r.p.Do(ctx, func(db orm.Querier) error {
		if m.Persisted() {
			return query.Magazines(db).Update(ctx, m)
		}
		return query.Magazines(db).Create(ctx, m)
	})
	if err != nil {
		return nil, fmt.Errorf("repo: save magazine: %w", err)
	}
	return m, nil
}

// FindByID returns the magazine with the given id, or nil if there is none.
func (r *MagazineRepository) FindByID(ctx context.Context, id int64) (*model.Magazine, error) {
	var m *model.Magazine
	err := r.p.Do(ctx, func(db orm.Querier) error {
		v, err := query.Magazines(db).Where("id = ?", id).First(ctx)
		m, err = found(v, err)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("repo: find magazine %d: %w", id, err)
	}
	return m, nil
}

// All returns every magazine in store order, narrowed by scopes.
func (r *MagazineRepository) All(ctx context.Context, scopes ...scope.Scope) ([]model.Magazine, error) {
	var magazines []model.Magazine
	err := r.p.Do(ctx, func(db orm.Querier) (err error) {
		magazines, err = query.Magazines(db).Scopes(scopes...).OrderBy("id").All(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("repo: list magazines: %w", err)
	}
	return magazines, nil
}

// Count returns the number of stored magazines.
func (r *MagazineRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.p.Do(ctx, func(db orm.Querier) (err error) {
		n, err = query.Magazines(db).Count(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("repo: count magazines: %w", err)
	}
	return n, nil
}

// Articles returns the articles published in m, oldest first.
func (r *MagazineRepository) Articles(ctx context.Context, m *model.Magazine) ([]model.Article, error) {
	var articles []model.Article
	err := r.p.Do(ctx, func(db orm.Querier) (err error) {
		articles, err = query.Articles(db).Where("magazine_id = ?", m.ID).OrderBy("id").All(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("repo: articles of magazine %d: %w", m.ID, err)
	}
	return articles, nil
}

// Contributors returns every author with at least one article in m, each
// once, ordered by their first article there.
func (r *MagazineRepository) Contributors(ctx context.Context, m *model.Magazine) ([]model.Author, error) {
	var authors []model.Author
	err := r.p.Do(ctx, func(db orm.Querier) error {
		rows, err := query.Authors(db).
			Join("Articles").
			Where("articles.magazine_id = ?", m.ID).
			OrderBy("articles.id").
			All(ctx)
		if err != nil {
			return err
		}
		authors = orm.UniqueBy(rows, func(a model.Author) int64 { return a.ID })
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo: contributors of magazine %d: %w", m.ID, err)
	}
	return authors, nil
}

// ArticleTitles returns the titles of m's articles in article order.
// Repeated titles are kept.
func (r *MagazineRepository) ArticleTitles(ctx context.Context, m *model.Magazine) ([]string, error) {
	var titles []string
	err := r.p.Do(ctx, func(db orm.Querier) (err error) {
		q := query.Articles(db).Where("magazine_id = ?", m.ID).OrderBy("id")
		titles, err = orm.Pluck[model.Article, string](ctx, q, "title")
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("repo: article titles of magazine %d: %w", m.ID, err)
	}
	return titles, nil
}

// ContributingAuthors returns the authors with more than one article in m,
// most prolific first. Authors with the same count keep store order.
func (r *MagazineRepository) ContributingAuthors(ctx context.Context, m *model.Magazine) ([]model.Author, error) {
	var authors []model.Author
	err := r.p.Do(ctx, func(db orm.Querier) (err error) {
		authors, err = query.Authors(db).
			Join("Articles").
			Where("articles.magazine_id = ?", m.ID).
			Scopes(
				scope.GroupBy("authors.id", "authors.name"),
				scope.Having("COUNT(articles.id) > ?", 1),
			).
			OrderBy("COUNT(articles.id) DESC").
			OrderBy("authors.id").
			All(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("repo: contributing authors of magazine %d: %w", m.ID, err)
	}
	return authors, nil
}

// TopPublisher returns the magazine with the most articles. Ties go to the
// magazine stored first. It returns nil when there are no magazines.
func (r *MagazineRepository) TopPublisher(ctx context.Context) (*model.Magazine, error) {
	var m *model.Magazine
	err := r.p.Do(ctx, func(db orm.Querier) error {
		v, err := query.Magazines(db).
			LeftJoin("Articles").
			GroupBy("magazines.id, magazines.name, magazines.category").
			OrderBy("COUNT(articles.id) DESC").
			OrderBy("magazines.id").
			First(ctx)
		m, err = found(v, err)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("repo: top publisher: %w", err)
	}
	return m, nil
}
