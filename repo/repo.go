// Package repo implements the pressroom model operations: persistence of
// authors, magazines and articles plus the queries across them.
//
// Every method opens its own connection through the store.Provider and
// closes it before returning. Lookups by id return (nil, nil) when the row
// does not exist; every other failure is returned wrapped.
package repo

import (
	"errors"

	"github.com/mickamy/pressroom/orm"
	"github.com/mickamy/pressroom/store"
)

// Repositories groups the per-entity repositories sharing one Provider.
type Repositories struct {
	Authors   *AuthorRepository
	Magazines *MagazineRepository
	Articles  *ArticleRepository
}

// New returns the repositories backed by p.
func New(p *store.Provider) *Repositories {
	return &Repositories{
		Authors:   NewAuthorRepository(p),
		Magazines: NewMagazineRepository(p),
		Articles:  NewArticleRepository(p),
	}
}

// found maps orm.ErrNotFound to an absent result.
func found[T any](v T, err error) (*T, error) {
	if errors.Is(err, orm.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
