package storage

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLocalStore_SaveOpenRemove(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	name, size, err := store.Save(strings.NewReader("%PDF-1.4 test"), ".PDF")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasSuffix(name, ".pdf") {
		t.Errorf("extension should be lower-cased, got %s", name)
	}
	if size != int64(len("%PDF-1.4 test")) {
		t.Errorf("unexpected size %d", size)
	}

	rc, err := store.Open(name)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "%PDF-1.4 test" {
		t.Errorf("unexpected content %q", body)
	}

	if err := store.Remove(name); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := store.Open(name); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound after remove, got %v", err)
	}
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, _ := NewLocalStore(t.TempDir())

	if _, err := store.Open("../etc/passwd"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound for traversal, got %v", err)
	}
}
