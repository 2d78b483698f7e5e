package orm_test

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/mickamy/pressroom/orm"
	"github.com/mickamy/pressroom/scope"
)

type testPost struct {
	ID       int64
	Title    string
	AuthorID int64
}

var testPostColumns = []string{"id", "title", "author_id"}

func scanTestPost(_ *sql.Rows) (testPost, error) {
	return testPost{}, nil
}

func testPostColValPairs(p *testPost, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "title", "author_id"}, []any{p.ID, p.Title, p.AuthorID}
	}
	return []string{"title", "author_id"}, []any{p.Title, p.AuthorID}
}

func setTestPostPK(p *testPost, id int64) {
	p.ID = id
}

func newTestQuery(tq *orm.TestQuerier) *orm.Query[testPost] {
	q := orm.NewQuery[testPost](tq, "posts", testPostColumns, "id", scanTestPost, testPostColValPairs, setTestPostPK)
	q.RegisterJoin("Author", orm.JoinConfig{
		TargetTable:  "writers",
		TargetColumn: "id",
		SourceTable:  "posts",
		SourceColumn: "author_id",
	})
	return q
}

// --- SELECT ---

func TestBuildSelectAll(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.SQLite)
	_, _ = newTestQuery(tq).All(t.Context())

	got := tq.LastQuery()
	want := `SELECT "id", "title", "author_id" FROM "posts"`
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
}

func TestBuildSelectWhere(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.MySQL)
	_, _ = newTestQuery(tq).Where("author_id = ?", 3).Where("title <> ?", "").All(t.Context())

	got := tq.LastQuery()
	want := "SELECT `id`, `title`, `author_id` FROM `posts` WHERE author_id = ? AND title <> ?"
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
	if len(got.Args) != 2 || got.Args[0] != 3 {
		t.Errorf("Args = %v", got.Args)
	}
}

func TestBuildSelectFull(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.SQLite)
	_, _ = newTestQuery(tq).
		Where("author_id = ?", 1).
		OrderBy("id DESC").
		Limit(5).
		Offset(10).
		All(t.Context())

	got := tq.LastQuery()
	want := `SELECT "id", "title", "author_id" FROM "posts" WHERE author_id = ? ORDER BY id DESC LIMIT 5 OFFSET 10`
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
}

func TestBuildSelectJoinQualifiesColumns(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.SQLite)
	_, _ = newTestQuery(tq).Join("Author").Where("writers.name = ?", "kelly").All(t.Context())

	got := tq.LastQuery()
	want := `SELECT "posts"."id" AS "id", "posts"."title" AS "title", "posts"."author_id" AS "author_id" ` +
		`FROM "posts" INNER JOIN "writers" ON "writers"."id" = "posts"."author_id" WHERE writers.name = ?`
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
}

func TestBuildSelectLeftJoin(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.MySQL)
	_, _ = newTestQuery(tq).LeftJoin("Author").Select("posts.id").All(t.Context())

	got := tq.LastQuery()
	want := "SELECT posts.id FROM `posts` LEFT JOIN `writers` ON `writers`.`id` = `posts`.`author_id`"
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
}

func TestUnknownJoinIsIgnored(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.SQLite)
	_, _ = newTestQuery(tq).Join("Nope").All(t.Context())

	want := `SELECT "id", "title", "author_id" FROM "posts"`
	if got := tq.LastQuery().SQL; got != want {
		t.Errorf("SQL = %q, want %q", got, want)
	}
}

func TestBuildSelectGroupByHaving(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.PostgreSQL)
	_, _ = newTestQuery(tq).
		Where("title <> ?", "").
		GroupBy("author_id").
		Having("COUNT(*) > ?", 1).
		OrderBy("COUNT(*) DESC").
		Select("author_id").
		All(t.Context())

	got := tq.LastQuery()
	want := `SELECT author_id FROM "posts" WHERE title <> $1 GROUP BY author_id HAVING COUNT(*) > $2 ORDER BY COUNT(*) DESC`
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
	if len(got.Args) != 2 || got.Args[0] != "" || got.Args[1] != 1 {
		t.Errorf("Args = %v", got.Args)
	}
}

func TestHavingWithoutGroupByIsDropped(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.SQLite)
	_, _ = newTestQuery(tq).Having("COUNT(*) > ?", 1).All(t.Context())

	got := tq.LastQuery()
	want := `SELECT "id", "title", "author_id" FROM "posts"`
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
	if len(got.Args) != 0 {
		t.Errorf("Args = %v, want none", got.Args)
	}
}

// --- Scopes ---

func TestBuildSelectWithScopes(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.SQLite)
	_, _ = newTestQuery(tq).Scopes(
		scope.Where("author_id = ?", 2),
		scope.In("id", []int64{1, 2, 3}),
		scope.GroupBy("author_id", "id"),
		scope.Having("COUNT(*) > ?", 0),
		scope.OrderBy("id DESC"),
		scope.Limit(5),
		scope.Offset(10),
	).All(t.Context())

	got := tq.LastQuery()
	want := `SELECT "id", "title", "author_id" FROM "posts" WHERE author_id = ? AND id IN (?, ?, ?) ` +
		`GROUP BY author_id, id HAVING COUNT(*) > ? ORDER BY id DESC LIMIT 5 OFFSET 10`
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
	if len(got.Args) != 5 {
		t.Errorf("Args = %v, want 5 args", got.Args)
	}
}

// --- Immutability ---

func TestQueryImmutability(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.SQLite)
	base := newTestQuery(tq)

	_ = base.Where("title = ?", "x")
	_ = base.OrderBy("id")
	_ = base.GroupBy("author_id")
	_ = base.Having("COUNT(*) > ?", 1)
	_ = base.Join("Author")
	_ = base.Limit(10)
	_ = base.Offset(5)

	_, _ = base.All(t.Context())

	want := `SELECT "id", "title", "author_id" FROM "posts"`
	if got := tq.LastQuery().SQL; got != want {
		t.Errorf("base query was mutated: SQL = %q", got)
	}
}

// --- Pluck ---

func TestPluckSQL(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.PostgreSQL)
	_, err := orm.Pluck[testPost, string](t.Context(), newTestQuery(tq).Where("author_id = ?", 4).OrderBy("id"), "title")
	if err == nil {
		t.Fatal("expected the mock query error, got nil")
	}

	got := tq.LastQuery()
	want := `SELECT title FROM "posts" WHERE author_id = $1 ORDER BY id`
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
}

// --- COUNT ---

func TestBuildCount(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.SQLite)
	_, _ = newTestQuery(tq).Where("author_id = ?", 1).Count(t.Context())

	want := `SELECT COUNT(*) FROM "posts" WHERE author_id = ?`
	if got := tq.LastQuery().SQL; got != want {
		t.Errorf("SQL = %q, want %q", got, want)
	}
}

// --- INSERT ---

func TestBuildInsertSQLite(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.SQLite)
	p := testPost{Title: "hello", AuthorID: 2}
	if err := newTestQuery(tq).Create(t.Context(), &p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got := tq.LastQuery()
	want := `INSERT INTO "posts" ("title", "author_id") VALUES (?, ?)`
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
	if len(got.Args) != 2 || got.Args[0] != "hello" || got.Args[1] != int64(2) {
		t.Errorf("Args = %v", got.Args)
	}
	if p.ID != 7 {
		t.Errorf("ID = %d, want the LastInsertId 7", p.ID)
	}
}

func TestBuildInsertPostgreSQL(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.PostgreSQL)
	p := testPost{Title: "hello", AuthorID: 2}
	_ = newTestQuery(tq).Create(t.Context(), &p)

	want := `INSERT INTO "posts" ("title", "author_id") VALUES ($1, $2) RETURNING "id"`
	if got := tq.LastQuery().SQL; got != want {
		t.Errorf("SQL = %q, want %q", got, want)
	}
}

// --- UPDATE ---

func TestBuildUpdate(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.MySQL)
	p := testPost{ID: 1, Title: "bye", AuthorID: 2}
	if err := newTestQuery(tq).Update(t.Context(), &p); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got := tq.LastQuery()
	want := "UPDATE `posts` SET `title` = ?, `author_id` = ? WHERE `id` = ?"
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
	if len(got.Args) != 3 || got.Args[0] != "bye" || got.Args[2] != int64(1) {
		t.Errorf("Args = %v", got.Args)
	}
}

func TestBuildUpdatePostgreSQL(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.PostgreSQL)
	p := testPost{ID: 1, Title: "bye"}
	_ = newTestQuery(tq).Update(t.Context(), &p)

	want := `UPDATE "posts" SET "title" = $1, "author_id" = $2 WHERE "id" = $3`
	if got := tq.LastQuery().SQL; got != want {
		t.Errorf("SQL = %q, want %q", got, want)
	}
}

func TestUpdateWithoutPrimaryKey(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.SQLite)
	err := newTestQuery(tq).Update(t.Context(), &testPost{Title: "x"})
	if !errors.Is(err, orm.ErrNoPrimaryKey) {
		t.Fatalf("err = %v, want ErrNoPrimaryKey", err)
	}
	if len(tq.Queries) != 0 {
		t.Errorf("executed %d queries, want none", len(tq.Queries))
	}
}

// --- DELETE ---

func TestBuildDelete(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.PostgreSQL)
	_ = newTestQuery(tq).Where("id = ?", 1).Delete(t.Context())

	want := `DELETE FROM "posts" WHERE id = $1`
	if got := tq.LastQuery().SQL; got != want {
		t.Errorf("SQL = %q, want %q", got, want)
	}
}

func TestDeleteWithoutWhereReturnsError(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.SQLite)
	if err := newTestQuery(tq).Delete(t.Context()); err == nil {
		t.Fatal("expected error for Delete without WHERE, got nil")
	}
}

// --- First ---

func TestFirstAddsLimit(t *testing.T) {
	t.Parallel()

	tq := orm.NewTestQuerier(orm.SQLite)
	_, _ = newTestQuery(tq).First(t.Context())

	want := `SELECT "id", "title", "author_id" FROM "posts" LIMIT 1`
	if got := tq.LastQuery().SQL; got != want {
		t.Errorf("SQL = %q, want %q", got, want)
	}
}
