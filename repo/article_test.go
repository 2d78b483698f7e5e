package repo_test

import (
	"testing"

	"github.com/mickamy/pressroom/model"
)

func TestArticleRoundTripAndResolve(t *testing.T) {
	t.Parallel()

	r := newRepos(t)
	ctx := t.Context()

	a := mustAuthor(t, r, "Mwarika Mwaura")
	m := mustMagazine(t, r, "Science Weekly", "Science")
	art := mustArticle(t, r, "Quantum Physics", a, m)

	got, err := r.Articles.FindByID(ctx, art.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	want := model.Article{ID: art.ID, Title: "Quantum Physics", AuthorID: a.ID, MagazineID: m.ID}
	if got == nil || *got != want {
		t.Fatalf("FindByID = %+v, want %+v", got, want)
	}

	author, err := r.Articles.Author(ctx, got)
	if err != nil {
		t.Fatalf("Author: %v", err)
	}
	if author == nil || *author != *a {
		t.Errorf("Author = %+v, want %+v", author, *a)
	}
	magazine, err := r.Articles.Magazine(ctx, got)
	if err != nil {
		t.Fatalf("Magazine: %v", err)
	}
	if magazine == nil || *magazine != *m {
		t.Errorf("Magazine = %+v, want %+v", magazine, *m)
	}
}

func TestArticleSaveTwiceUpdates(t *testing.T) {
	t.Parallel()

	r := newRepos(t)
	ctx := t.Context()

	a := mustAuthor(t, r, "Bob Johnson")
	m := mustMagazine(t, r, "Business Insights", "Business")
	other := mustMagazine(t, r, "Tech Today", "Technology")

	art := &model.Article{Title: "Draft", AuthorID: a.ID, MagazineID: m.ID}
	if _, err := r.Articles.Save(ctx, art); err != nil {
		t.Fatalf("Save: %v", err)
	}
	id := art.ID

	art.Title = "Startup Funding"
	art.MagazineID = other.ID
	if _, err := r.Articles.Save(ctx, art); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if art.ID != id {
		t.Errorf("id changed from %d to %d", id, art.ID)
	}

	n, err := r.Articles.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
	moved, err := r.Articles.FindByMagazine(ctx, other)
	if err != nil {
		t.Fatalf("FindByMagazine: %v", err)
	}
	if len(moved) != 1 || moved[0] != *art {
		t.Errorf("FindByMagazine = %+v, want [%+v]", moved, *art)
	}
}

func TestArticleDelete(t *testing.T) {
	t.Parallel()

	r := newRepos(t)
	ctx := t.Context()

	a := mustAuthor(t, r, "Kelly Brian")
	m := mustMagazine(t, r, "Tech Today", "Technology")
	art := mustArticle(t, r, "Blockchain", a, m)
	keep := mustArticle(t, r, "Cybersecurity", a, m)
	id := art.ID

	if err := r.Articles.Delete(ctx, art); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if art.ID != id {
		t.Errorf("Delete changed the in-memory id to %d", art.ID)
	}

	got, err := r.Articles.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got != nil {
		t.Errorf("FindByID after Delete = %+v, want nil", got)
	}
	if still, err := r.Articles.FindByID(ctx, keep.ID); err != nil || still == nil {
		t.Errorf("FindByID(kept) = %+v, %v", still, err)
	}

	// A second delete finds nothing to remove.
	if err := r.Articles.Delete(ctx, art); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestArticleDeleteTransientIsNoop(t *testing.T) {
	t.Parallel()

	r := newRepos(t)
	if err := r.Articles.Delete(t.Context(), &model.Article{Title: "never saved"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestArticleFindByAuthorAndMagazine(t *testing.T) {
	t.Parallel()

	r := newRepos(t)
	ctx := t.Context()

	kelly := mustAuthor(t, r, "Kelly Brian")
	bob := mustAuthor(t, r, "Bob Johnson")
	tech := mustMagazine(t, r, "Tech Today", "Technology")
	biz := mustMagazine(t, r, "Business Insights", "Business")

	k1 := mustArticle(t, r, "Python Programming", kelly, tech)
	b1 := mustArticle(t, r, "Stock Market", bob, biz)
	k2 := mustArticle(t, r, "Machine Learning", kelly, tech)
	b2 := mustArticle(t, r, "Cybersecurity", bob, tech)

	byKelly, err := r.Articles.FindByAuthor(ctx, kelly)
	if err != nil {
		t.Fatalf("FindByAuthor: %v", err)
	}
	if len(byKelly) != 2 || byKelly[0].ID != k1.ID || byKelly[1].ID != k2.ID {
		t.Errorf("FindByAuthor = %+v", byKelly)
	}

	inTech, err := r.Articles.FindByMagazine(ctx, tech)
	if err != nil {
		t.Fatalf("FindByMagazine: %v", err)
	}
	if len(inTech) != 3 || inTech[2].ID != b2.ID {
		t.Errorf("FindByMagazine = %+v", inTech)
	}

	all, err := r.Articles.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 4 || all[1].ID != b1.ID {
		t.Errorf("All = %+v", all)
	}
}

func TestArticleUnknownReferencesRejected(t *testing.T) {
	t.Parallel()

	r := newRepos(t)
	ghostAuthor := &model.Author{ID: 99, Name: "ghost"}
	ghostMagazine := &model.Magazine{ID: 99, Name: "ghost", Category: "none"}

	if _, err := r.Articles.Create(t.Context(), "orphan", ghostAuthor, ghostMagazine); err == nil {
		t.Fatal("expected a foreign key error, got nil")
	}
}

func TestArticleIDNotReusedAfterDelete(t *testing.T) {
	t.Parallel()

	r := newRepos(t)
	ctx := t.Context()

	a := mustAuthor(t, r, "Kelly Brian")
	m := mustMagazine(t, r, "Tech Today", "Technology")
	mustArticle(t, r, "first", a, m)
	last := mustArticle(t, r, "last", a, m)

	if err := r.Articles.Delete(ctx, last); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	fresh := mustArticle(t, r, "fresh", a, m)
	if fresh.ID == last.ID {
		t.Fatalf("new article reused deleted id %d", last.ID)
	}

	got, err := r.Articles.FindByID(ctx, last.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got != nil {
		t.Errorf("FindByID(deleted id) = %+v, want nil", got)
	}
}
