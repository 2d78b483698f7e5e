package store

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mickamy/pressroom/orm"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Tables lists the pressroom tables, referencing tables first.
var Tables = []string{"articles", "authors", "magazines"}

// Statements returns the DDL statements that (re)create the schema for the
// given dialect, in execution order.
func Statements(d orm.Dialect) ([]string, error) {
	data, err := schemaFS.ReadFile("schema/" + d.Name() + ".sql")
	if err != nil {
		return nil, fmt.Errorf("store: no schema for %s: %w", d.Name(), err)
	}

	var stmts []string
	for _, s := range strings.Split(string(data), ";") {
		if s = strings.TrimSpace(s); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts, nil
}

// ApplySchema drops and re-creates the pressroom tables. Existing rows are
// lost; running it twice leaves the same empty schema.
func ApplySchema(ctx context.Context, p *Provider) error {
	stmts, err := Statements(p.Dialect())
	if err != nil {
		return err
	}

	err = p.Transaction(ctx, func(tx *orm.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("store: apply schema: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Debug().Str("driver", p.Driver()).Int("statements", len(stmts)).Msg("Schema applied")
	return nil
}

// Truncate deletes every row from the pressroom tables in one transaction.
func Truncate(ctx context.Context, p *Provider) error {
	return p.Transaction(ctx, func(tx *orm.Tx) error {
		for _, table := range Tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+tx.Dialect().QuoteIdent(table)); err != nil {
				return fmt.Errorf("store: truncate %s: %w", table, err)
			}
		}
		return nil
	})
}
