package memoryDB

import (
	"context"
	"errors"
	"testing"

	"github.com/rkandala/newsrag/internal/rag/vectorDB"
)

func doc(id string, vec []float32, symbol string) vectorDB.Document {
	return vectorDB.Document{
		ID:     id,
		Vector: vec,
		Text:   "text-" + id,
		Metadata: vectorDB.Metadata{
			Symbol: symbol,
			Source: "moneycontrol",
		},
	}
}

func TestUpsert_OverwritesExistingID(t *testing.T) {
	ctx := context.Background()
	store := New(2)

	if err := store.Upsert(ctx, []vectorDB.Document{doc("a", []float32{1, 0}, "TCS")}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	updated := doc("a", []float32{0, 1}, "INFY")
	updated.Text = "rewritten"
	if err := store.Upsert(ctx, []vectorDB.Document{updated}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	n, _ := store.Count(ctx, nil)
	if n != 1 {
		t.Errorf("Count = %d, want 1 after overwriting the same id", n)
	}

	hits, err := store.Search(ctx, []float32{0, 1}, 1, nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if hits[0].Text != "rewritten" || hits[0].Metadata.Symbol != "INFY" {
		t.Errorf("overwrite was not atomic: %+v", hits[0])
	}
}

func TestUpsert_DimensionMismatch(t *testing.T) {
	store := New(3)
	err := store.Upsert(context.Background(), []vectorDB.Document{doc("a", []float32{1, 0}, "")})

	var dimErr *vectorDB.DimensionMismatchError
	if !errors.As(err, &dimErr) {
		t.Fatalf("want DimensionMismatchError, got %v", err)
	}
	if dimErr.Want != 3 || dimErr.Got != 2 {
		t.Errorf("got Want=%d Got=%d", dimErr.Want, dimErr.Got)
	}
}

func TestSearch_FilterAndOrdering(t *testing.T) {
	ctx := context.Background()
	store := New(2)

	docs := []vectorDB.Document{
		doc("close", []float32{1, 0.1}, "TCS"),
		doc("closer", []float32{1, 0.01}, "TCS"),
		doc("far", []float32{0, 1}, "TCS"),
		doc("other-symbol", []float32{1, 0}, "INFY"),
	}
	if err := store.Upsert(ctx, docs); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	hits, err := store.Search(ctx, []float32{1, 0}, 10, &vectorDB.Filter{Symbol: "TCS"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(hits) != 3 {
		t.Fatalf("got %d hits, want 3 TCS hits", len(hits))
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Score > hits[i-1].Score {
			t.Errorf("hits not in descending score order: %v then %v", hits[i-1].Score, hits[i].Score)
		}
	}
	if hits[0].ID != "closer" {
		t.Errorf("best hit = %s, want closer", hits[0].ID)
	}
	for _, h := range hits {
		if h.Metadata.Symbol != "TCS" {
			t.Errorf("filter leaked symbol %s", h.Metadata.Symbol)
		}
	}
}

func TestSearch_TieBreakByID(t *testing.T) {
	ctx := context.Background()
	store := New(2)

	// identical vectors, identical scores
	docs := []vectorDB.Document{
		doc("bbb", []float32{1, 0}, ""),
		doc("aaa", []float32{1, 0}, ""),
		doc("ccc", []float32{1, 0}, ""),
	}
	if err := store.Upsert(ctx, docs); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	hits, _ := store.Search(ctx, []float32{1, 0}, 10, nil)
	want := []string{"aaa", "bbb", "ccc"}
	for i, h := range hits {
		if h.ID != want[i] {
			t.Errorf("tie-break position %d = %s, want %s", i, h.ID, want[i])
		}
	}
}

func TestSearch_NegativeSimilarityClampedToZero(t *testing.T) {
	ctx := context.Background()
	store := New(2)
	store.Upsert(ctx, []vectorDB.Document{doc("opposite", []float32{-1, 0}, "")})

	hits, _ := store.Search(ctx, []float32{1, 0}, 1, nil)
	if hits[0].Score != 0 {
		t.Errorf("Score = %v, want 0 for opposite vectors", hits[0].Score)
	}
}

func TestSearch_TopKTruncates(t *testing.T) {
	ctx := context.Background()
	store := New(2)
	for _, d := range []vectorDB.Document{
		doc("a", []float32{1, 0}, ""),
		doc("b", []float32{1, 0.1}, ""),
		doc("c", []float32{1, 0.2}, ""),
	} {
		store.Upsert(ctx, []vectorDB.Document{d})
	}

	hits, _ := store.Search(ctx, []float32{1, 0}, 2, nil)
	if len(hits) != 2 {
		t.Errorf("got %d hits, want 2", len(hits))
	}
}

func TestCount_WithFilter(t *testing.T) {
	ctx := context.Background()
	store := New(2)
	store.Upsert(ctx, []vectorDB.Document{
		doc("1", []float32{1, 0}, "TCS"),
		doc("2", []float32{1, 0}, "TCS"),
		doc("3", []float32{1, 0}, "INFY"),
	})

	if n, _ := store.Count(ctx, &vectorDB.Filter{Symbol: "TCS"}); n != 2 {
		t.Errorf("filtered Count = %d, want 2", n)
	}
	if n, _ := store.Count(ctx, nil); n != 3 {
		t.Errorf("total Count = %d, want 3", n)
	}
}

func TestReset_EmptiesStore(t *testing.T) {
	ctx := context.Background()
	store := New(2)
	store.Upsert(ctx, []vectorDB.Document{doc("1", []float32{1, 0}, "")})

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n, _ := store.Count(ctx, nil); n != 0 {
		t.Errorf("Count = %d after Reset, want 0", n)
	}

	hits, err := store.Search(ctx, []float32{1, 0}, 5, nil)
	if err != nil {
		t.Fatalf("search on empty store: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("empty store returned %d hits", len(hits))
	}
}
