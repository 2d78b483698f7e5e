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

// ArticleRepository persists articles and resolves what they reference.
type ArticleRepository struct {
	p *store.Provider
}

// NewArticleRepository returns an ArticleRepository backed by p.
func NewArticleRepository(p *store.Provider) *ArticleRepository {
	return &ArticleRepository{p: p}
}

// Create builds an article by author in magazine and saves it. Both must
// already be persisted; the store rejects unknown references.
func (r *ArticleRepository) Create(ctx context.Context, title string, author *model.Author, magazine *model.Magazine) (*model.Article, error) {
	return r.Save(ctx, &model.Article{Title: title, AuthorID: author.ID, MagazineID: magazine.ID})
}

// Save inserts a when it has no ID yet and updates it by ID otherwise.
// It returns a itself.
func (r *ArticleRepository) Save(ctx context.Context, a *model.Article) (*model.Article, error) {
	err := r.p.Do(ctx, func(db orm.Querier) error {
		if a.Persisted() {
			return query.Articles(db).Update(ctx, a)
		}
		return query.Articles(db).Create(ctx, a)
	})
	if err != nil {
		return nil, fmt.Errorf("repo: save article: %w", err)
	}
	return a, nil
}

// Delete removes a's row. The in-memory ID is left as it was. Deleting an
// article that was never saved does nothing.
func (r *ArticleRepository) Delete(ctx context.Context, a *model.Article) error {
	if !a.Persisted() {
		return nil
	}
	err := r.p.Do(ctx, func(db orm.Querier) error {
		return query.Articles(db).Where("id = ?", a.ID).Delete(ctx)
	})
	if err != nil {
		return fmt.Errorf("repo: delete article %d: %w", a.ID, err)
	}
	return nil
}

// FindByID returns the article with the given id, or nil if there is none.
func (r *ArticleRepository) FindByID(ctx context.Context, id int64) (*model.Article, error) {
	var a *model.Article
	err := r.p.Do(ctx, func(db orm.Querier) error {
		v, err := query.Articles(db).Where("id = ?", id).First(ctx)
		a, err = found(v, err)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("repo: find article %d: %w", id, err)
	}
	return a, nil
}

// All returns every article in store order, narrowed by scopes.
func (r *ArticleRepository) All(ctx context.Context, scopes ...scope.Scope) ([]model.Article, error) {
	return r.list(ctx, "list articles", scopes...)
}

// Count returns the number of stored articles.
func (r *ArticleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.p.Do(ctx, func(db orm.Querier) (err error) {
		n, err = query.Articles(db).Count(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("repo: count articles: %w", err)
	}
	return n, nil
}

// FindByAuthor returns the articles written by author.
func (r *ArticleRepository) FindByAuthor(ctx context.Context, author *model.Author) ([]model.Article, error) {
	return r.list(ctx, fmt.Sprintf("articles by author %d", author.ID), scope.Where("author_id = ?", author.ID))
}

// FindByMagazine returns the articles published in magazine.
func (r *ArticleRepository) FindByMagazine(ctx context.Context, magazine *model.Magazine) ([]model.Article, error) {
	return r.list(ctx, fmt.Sprintf("articles in magazine %d", magazine.ID), scope.Where("magazine_id = ?", magazine.ID))
}

// Author resolves a's author. It returns nil if the author row is gone.
func (r *ArticleRepository) Author(ctx context.Context, a *model.Article) (*model.Author, error) {
	return NewAuthorRepository(r.p).FindByID(ctx, a.AuthorID)
}

// Magazine resolves a's magazine. It returns nil if the magazine row is gone.
func (r *ArticleRepository) Magazine(ctx context.Context, a *model.Article) (*model.Magazine, error) {
	return NewMagazineRepository(r.p).FindByID(ctx, a.MagazineID)
}

func (r *ArticleRepository) list(ctx context.Context, op string, scopes ...scope.Scope) ([]model.Article, error) {
	var articles []model.Article
	err := r.p.Do(ctx, func(db orm.Querier) (err error) {
		articles, err = query.Articles(db).Scopes(scopes...).OrderBy("id").All(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("repo: %s: %w", op, err)
	}
	return articles, nil
}
