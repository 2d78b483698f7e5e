// Package model holds the entities persisted by pressroom.
//
// An ID of zero marks an entity that has not been saved yet; the store
// assigns the ID on the first successful insert.
package model

// Author writes articles.
type Author struct {
	ID   int64  `db:"id,primaryKey"`
	Name string `db:"name"`
}

// Persisted reports whether a has been saved.
func (a Author) Persisted() bool { return a.ID != 0 }

// Magazine publishes articles. Category is a free-text classification
// such as "Technology".
type Magazine struct {
	ID       int64  `db:"id,primaryKey"`
	Name     string `db:"name"`
	Category string `db:"category"`
}

// Persisted reports whether m has been saved.
func (m Magazine) Persisted() bool { return m.ID != 0 }

// Article belongs to exactly one Author and one Magazine.
type Article struct {
	ID         int64  `db:"id,primaryKey"`
	Title      string `db:"title"`
	AuthorID   int64  `db:"author_id"`
	MagazineID int64  `db:"magazine_id"`
}

// Persisted reports whether a has been saved.
func (a Article) Persisted() bool { return a.ID != 0 }
