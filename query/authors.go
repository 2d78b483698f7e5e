package query

import (
	"database/sql"

	"github.com/mickamy/pressroom/model"
	"github.com/mickamy/pressroom/orm"
)

// AuthorsTable is the table backing model.Author.
var AuthorsTable = orm.InferTableName[model.Author]()

var authorsColumns = []string{"id", "name"}

func scanAuthor(rows *sql.Rows) (model.Author, error) {
	cols, err := rows.Columns()
	if err != nil {
		return model.Author{}, err //nolint:wrapcheck // pass through
	}
	var v model.Author
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "name":
			dest[i] = &v.Name
		default:
			dest[i] = new(any)
		}
	}
	err = rows.Scan(dest...)
	return v, err //nolint:wrapcheck // pass through
}

func authorColumnValuePairs(v *model.Author, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "name"}, []any{v.ID, v.Name}
	}
	return []string{"name"}, []any{v.Name}
}

func setAuthorPK(v *model.Author, id int64) {
	v.ID = id
}

// Authors returns a query over the authors table. The "Articles" join
// reaches the author's articles.
func Authors(db orm.Querier) *orm.Query[model.Author] {
	q := orm.NewQuery[model.Author](db, AuthorsTable, authorsColumns, "id", scanAuthor, authorColumnValuePairs, setAuthorPK)
	q.RegisterJoin("Articles", orm.JoinConfig{
		TargetTable:  ArticlesTable,
		TargetColumn: "author_id",
		SourceTable:  AuthorsTable,
		SourceColumn: "id",
	})
	return q
}
