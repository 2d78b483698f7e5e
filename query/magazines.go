package query

import (
	"database/sql"

	"github.com/mickamy/pressroom/model"
	"github.com/mickamy/pressroom/orm"
)

// MagazinesTable is the table backing model.Magazine.
var MagazinesTable = orm.InferTableName[model.Magazine]()

var magazinesColumns = []string{"id", "name", "category"}

func scanMagazine(rows *sql.Rows) (model.Magazine, error) {
	cols, err := rows.Columns()
	if err != nil {
		return model.Magazine{}, err //nolint:wrapcheck // pass through
	}
	var v model.Magazine
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "name":
			dest[i] = &v.Name
		case "category":
			dest[i] = &v.Category
		default:
			dest[i] = new(any)
		}
	}
	err = rows.Scan(dest...)
	return v, err //nolint:wrapcheck // pass through
}

func magazineColumnValuePairs(v *model.Magazine, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "name", "category"}, []any{v.ID, v.Name, v.Category}
	}
	return []string{"name", "category"}, []any{v.Name, v.Category}
}

func setMagazinePK(v *model.Magazine, id int64) {
	v.ID = id
}

// Magazines returns a query over the magazines table. The "Articles" join
// reaches the magazine's articles.
func Magazines(db orm.Querier) *orm.Query[model.Magazine] {
	q := orm.NewQuery[model.Magazine](db, MagazinesTable, magazinesColumns, "id", scanMagazine, magazineColumnValuePairs, setMagazinePK)
	q.RegisterJoin("Articles", orm.JoinConfig{
		TargetTable:  ArticlesTable,
		TargetColumn: "magazine_id",
		SourceTable:  MagazinesTable,
		SourceColumn: "id",
	})
	return q
}
