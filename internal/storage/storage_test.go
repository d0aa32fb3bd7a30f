package storage

import (
	"errors"
	"testing"
)

type snap struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Save("orders", snap{Name: "a", Count: 3}); err != nil {
		t.Fatalf("save: %v", err)
	}

	var got snap
	if err := s.Load("orders", &got); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "a" || got.Count != 3 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestFileStore_LoadMissingReturnsNotFound(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	var got snap
	if err := s.Load("nothing", &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Save("orders", snap{Count: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("orders", snap{Count: 2}); err != nil {
		t.Fatal(err)
	}

	var got snap
	if err := s.Load("orders", &got); err != nil {
		t.Fatal(err)
	}
	if got.Count != 2 {
		t.Fatalf("expected overwrite to win, got count=%d", got.Count)
	}
}

func TestFileStore_DeleteMissingIsNoError(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("nothing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestFileStore_DeleteRemoves(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save("auth", snap{Count: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("auth"); err != nil {
		t.Fatal(err)
	}

	var got snap
	if err := s.Load("auth", &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}
}
