package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// newTestMySQLStore connects to the MySQL instance named by FLOWGRID_MYSQL_DSN,
// e.g. "root:secret@tcp(127.0.0.1:3306)/flowgrid_test". The tests are skipped
// when the variable is unset.
func newTestMySQLStore(t *testing.T) *MySQLStore {
	t.Helper()
	dsn := os.Getenv("FLOWGRID_MYSQL_DSN")
	if dsn == "" {
		t.Skip("FLOWGRID_MYSQL_DSN not set; skipping MySQL integration tests")
	}
	st, err := NewMySQLStore(dsn)
	if err != nil {
		t.Fatalf("NewMySQLStore() error = %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestMySQLStore_SaveListLatest(t *testing.T) {
	st := newTestMySQLStore(t)
	ctx := context.Background()

	// A fresh execution ID keeps runs of this test isolated from each other.
	execID := "test-" + uuid.NewString()
	base := time.Now().Add(-time.Hour).Truncate(time.Microsecond)

	for i := 0; i < 3; i++ {
		cp := Checkpoint{
			ID:          uuid.NewString(),
			ExecutionID: execID,
			NodeID:      fmt.Sprintf("node-%d", i),
			Completed:   []string{"a", "b"}[:1+i%2],
			Variables:   map[string]any{"step": float64(i)},
			Retries:     map[string]int{"a": i},
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := st.Save(ctx, cp); err != nil {
			t.Fatalf("Save(%d) error = %v", i, err)
		}
	}

	cps, err := st.List(ctx, execID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(cps) != 3 {
		t.Fatalf("List() = %d checkpoints, want 3", len(cps))
	}
	for i, cp := range cps {
		if want := fmt.Sprintf("node-%d", i); cp.NodeID != want {
			t.Errorf("checkpoint %d NodeID = %s, want %s", i, cp.NodeID, want)
		}
	}

	latest, err := st.Latest(ctx, execID)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.NodeID != "node-2" {
		t.Errorf("Latest().NodeID = %s, want node-2", latest.NodeID)
	}
	if latest.Variables["step"] != float64(2) {
		t.Errorf("Latest().Variables[step] = %v, want 2", latest.Variables["step"])
	}
}

func TestMySQLStore_LatestNotFound(t *testing.T) {
	st := newTestMySQLStore(t)

	if _, err := st.Latest(context.Background(), "missing-"+uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest() error = %v, want ErrNotFound", err)
	}
}
