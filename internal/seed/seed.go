// Package seed loads the sample authors, magazines and articles used by the
// seed and debug commands.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mickamy/pressroom/model"
	"github.com/mickamy/pressroom/repo"
	"github.com/mickamy/pressroom/store"
)

var (
	authorNames = []string{"Kelly Brian", "Mwarika Mwaura", "Bob Johnson"}

	magazineDefs = []struct{ name, category string }{
		{"Tech Today", "Technology"},
		{"Science Weekly", "Science"},
		{"Business Insights", "Business"},
	}

	// articleDefs index into authorNames and magazineDefs.
	articleDefs = []struct {
		title            string
		author, magazine int
	}{
		{"Python Programming", 0, 0},
		{"Machine Learning", 0, 0},
		{"Quantum Physics", 1, 1},
		{"Neuroscience", 1, 1},
		{"Stock Market", 2, 2},
		{"Startup Funding", 2, 2},
		{"AI Ethics", 0, 1},
		{"Data Science", 0, 1},
		{"Blockchain", 1, 0},
		{"Cybersecurity", 2, 0},
	}
)

// Data is what Run stored, in creation order.
type Data struct {
	Authors   []*model.Author
	Magazines []*model.Magazine
	Articles  []*model.Article
}

// Run empties the tables and stores the sample data set.
func Run(ctx context.Context, p *store.Provider) (*Data, error) {
	if err := store.Truncate(ctx, p); err != nil {
		return nil, err
	}

	r := repo.New(p)
	data := &Data{}

	for _, name := range authorNames {
		a, err := r.Authors.Create(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		data.Authors = append(data.Authors, a)
	}

	for _, def := range magazineDefs {
		m, err := r.Magazines.Create(ctx, def.name, def.category)
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		data.Magazines = append(data.Magazines, m)
	}

	for _, def := range articleDefs {
		a, err := r.Articles.Create(ctx, def.title, data.Authors[def.author], data.Magazines[def.magazine])
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		data.Articles = append(data.Articles, a)
	}

	log.Info().
		Int("authors", len(data.Authors)).
		Int("magazines", len(data.Magazines)).
		Int("articles", len(data.Articles)).
		Msg("Database seeded")

	return data, nil
}
