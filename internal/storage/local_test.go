package storage

import (
	"context"
	"errors"
	"testing"
)

func TestLocalStorage_PutGet(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}

	ctx := context.Background()
	content := []byte(`{"chart":"cpu"}`)

	objectPath := "snapshots/cpu/1700000000000.json"
	if err := store.Put(ctx, objectPath, content); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	exists, err := store.Exists(ctx, objectPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected object to exist")
	}

	got, err := store.Get(ctx, objectPath)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("got %q, want %q", got, content)
	}
}

func TestLocalStorage_GetMissing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}

	_, err = store.Get(context.Background(), "nope/missing.json")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestLocalStorage_DeleteIdempotent(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}

	ctx := context.Background()
	objectPath := "snapshots/cpu/1.json"
	if err := store.Put(ctx, objectPath, []byte("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := store.Delete(ctx, objectPath); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	// Second delete mirrors S3 semantics: no error.
	if err := store.Delete(ctx, objectPath); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}

	exists, err := store.Exists(ctx, objectPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected object to be gone")
	}
}

func TestLocalStorage_ListObjects(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}

	ctx := context.Background()
	paths := []string{
		"snapshots/cpu/1.json",
		"snapshots/cpu/2.json",
		"snapshots/mem/1.json",
	}
	for _, p := range paths {
		if err := store.Put(ctx, p, []byte("x")); err != nil {
			t.Fatalf("Put %s failed: %v", p, err)
		}
	}

	objects, err := store.ListObjects(ctx, "snapshots/cpu")
	if err != nil {
		t.Fatalf("ListObjects failed: %v", err)
	}
	if len(objects) != 2 {
		t.Fatalf("expected 2 objects, got %d: %v", len(objects), objects)
	}

	objects, err = store.ListObjects(ctx, "does/not/exist")
	if err != nil {
		t.Fatalf("ListObjects on missing prefix failed: %v", err)
	}
	if len(objects) != 0 {
		t.Fatalf("expected empty list, got %v", objects)
	}
}
