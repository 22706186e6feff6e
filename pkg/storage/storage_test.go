package storage

import (
	"testing"
	"time"

	"github.com/webauto/engine/pkg/types"
)

func TestFileStore_SaveAndLoad(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	record := types.ExecutionRecord{
		ExecutionID: "exec-1",
		WorkflowID:  "wf-1",
		Status:      types.StatusCompleted,
		StartedAt:   time.Now(),
		Variables:   map[string]interface{}{"x": float64(1)},
	}
	if err := store.Save(record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load("exec-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.ExecutionID != "exec-1" || got.Status != types.StatusCompleted {
		t.Errorf("got %+v", got)
	}
}

func TestFileStore_SaveOverwritesPriorRecord(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())

	if err := store.Save(types.ExecutionRecord{ExecutionID: "exec-1", Status: types.StatusRunning}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(types.ExecutionRecord{ExecutionID: "exec-1", Status: types.StatusCompleted}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load("exec-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Status != types.StatusCompleted {
		t.Errorf("Status = %v, want completed (latest write should win)", got.Status)
	}
}

func TestFileStore_LoadMissing(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())
	_, err := store.Load("does-not-exist")
	if err != ErrExecutionNotFound {
		t.Errorf("got error %v, want ErrExecutionNotFound", err)
	}
}

func TestFileStore_List(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())
	store.Save(types.ExecutionRecord{ExecutionID: "exec-1"})
	store.Save(types.ExecutionRecord{ExecutionID: "exec-2"})

	records, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestFileStore_Delete(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())
	store.Save(types.ExecutionRecord{ExecutionID: "exec-1"})

	if err := store.Delete("exec-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load("exec-1"); err != ErrExecutionNotFound {
		t.Errorf("got error %v, want ErrExecutionNotFound after delete", err)
	}

	if err := store.Delete("already-gone"); err != nil {
		t.Errorf("Delete() of a missing record should be a no-op, got %v", err)
	}
}
