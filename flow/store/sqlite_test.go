package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "checkpoints.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSQLiteStore_SaveAndList(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	first := Checkpoint{
		ID:          "cp-1",
		ExecutionID: "run-1",
		NodeID:      "a",
		Completed:   []string{"a"},
		Variables:   map[string]any{"count": float64(3), "city": "Oslo"},
		Retries:     map[string]int{"a": 2},
		CreatedAt:   time.Now().Add(-time.Minute),
	}
	second := Checkpoint{
		ID:          "cp-2",
		ExecutionID: "run-1",
		NodeID:      "b",
		Completed:   []string{"a", "b"},
		CreatedAt:   time.Now(),
	}

	if err := st.Save(ctx, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := st.Save(ctx, second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	cps, err := st.List(ctx, "run-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(cps) != 2 {
		t.Fatalf("List() = %d checkpoints, want 2", len(cps))
	}
	if cps[0].ID != "cp-1" || cps[1].ID != "cp-2" {
		t.Errorf("List order = %s, %s; want cp-1, cp-2", cps[0].ID, cps[1].ID)
	}

	got := cps[0]
	if got.NodeID != "a" {
		t.Errorf("NodeID = %s, want a", got.NodeID)
	}
	if len(got.Completed) != 1 || got.Completed[0] != "a" {
		t.Errorf("Completed = %v, want [a]", got.Completed)
	}
	if got.Variables["city"] != "Oslo" {
		t.Errorf("Variables[city] = %v, want Oslo", got.Variables["city"])
	}
	if got.Retries["a"] != 2 {
		t.Errorf("Retries[a] = %d, want 2", got.Retries["a"])
	}
}

func TestSQLiteStore_Latest(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	if _, err := st.Latest(ctx, "run-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest() on empty store error = %v, want ErrNotFound", err)
	}

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"cp-1", "cp-2", "cp-3"} {
		cp := Checkpoint{
			ID:          id,
			ExecutionID: "run-1",
			NodeID:      id,
			Completed:   []string{"a"},
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := st.Save(ctx, cp); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}

	latest, err := st.Latest(ctx, "run-1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.ID != "cp-3" {
		t.Errorf("Latest().ID = %s, want cp-3", latest.ID)
	}
}

func TestSQLiteStore_SaveIsIdempotentPerID(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	cp := Checkpoint{
		ID:          "cp-1",
		ExecutionID: "run-1",
		NodeID:      "a",
		Completed:   []string{"a"},
		CreatedAt:   time.Now(),
	}
	if err := st.Save(ctx, cp); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}

	cp.NodeID = "b"
	if err := st.Save(ctx, cp); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	cps, err := st.List(ctx, "run-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(cps) != 1 {
		t.Fatalf("List() = %d checkpoints after duplicate save, want 1", len(cps))
	}
	if cps[0].NodeID != "b" {
		t.Errorf("NodeID = %s, want b (replaced)", cps[0].NodeID)
	}
}

func TestSQLiteStore_NilMapsRoundTrip(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	cp := Checkpoint{
		ID:          "cp-1",
		ExecutionID: "run-1",
		NodeID:      "a",
		CreatedAt:   time.Now(),
	}
	if err := st.Save(ctx, cp); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := st.Latest(ctx, "run-1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if got.Completed == nil || len(got.Completed) != 0 {
		t.Errorf("Completed = %#v, want empty non-nil slice", got.Completed)
	}
	if got.Variables == nil || got.Retries == nil {
		t.Errorf("Variables/Retries = %v/%v, want empty maps", got.Variables, got.Retries)
	}
}

func TestSQLiteStore_Ping(t *testing.T) {
	st := newTestSQLiteStore(t)
	if err := st.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
