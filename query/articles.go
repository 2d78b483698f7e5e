package query

import (
	"database/sql"

	"github.com/mickamy/pressroom/model"
	"github.com/mickamy/pressroom/orm"
)

// ArticlesTable is the table backing model.Article.
var ArticlesTable = orm.InferTableName[model.Article]()

var articlesColumns = []string{"id", "title", "author_id", "magazine_id"}

func scanArticle(rows *sql.Rows) (model.Article, error) {
	cols, err := rows.Columns()
	if err != nil {
		return model.Article{}, err //nolint:wrapcheck // pass through
	}
	var v model.Article
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "title":
			dest[i] = &v.Title
		case "author_id":
			dest[i] = &v.AuthorID
		case "magazine_id":
			dest[i] = &v.MagazineID
		default:
			dest[i] = new(any)
		}
	}
	err = rows.Scan(dest...)
	return v, err //nolint:wrapcheck // pass through
}

func articleColumnValuePairs(v *model.Article, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "title", "author_id", "magazine_id"},
			[]any{v.ID, v.Title, v.AuthorID, v.MagazineID}
	}
	return []string{"title", "author_id", "magazine_id"},
		[]any{v.Title, v.AuthorID, v.MagazineID}
}

func setArticlePK(v *model.Article, id int64) {
	v.ID = id
}

// Articles returns a query over the articles table. The "Magazine" join
// reaches the magazine an article was published in.
func Articles(db orm.Querier) *orm.Query[model.Article] {
	q := orm.NewQuery[model.Article](db, ArticlesTable, articlesColumns, "id", scanArticle, articleColumnValuePairs, setArticlePK)
	q.RegisterJoin("Magazine", orm.JoinConfig{
		TargetTable:  MagazinesTable,
		TargetColumn: "id",
		SourceTable:  ArticlesTable,
		SourceColumn: "magazine_id",
	})
	return q
}
