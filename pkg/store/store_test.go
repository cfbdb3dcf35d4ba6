package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// stores under test share one behavioral contract.
func testStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("save and load", func(t *testing.T) {
		if err := s.Save(ctx, "page:/about", []byte("<h1>About</h1>"), time.Time{}); err != nil {
			t.Fatal(err)
		}
		data, err := s.Load(ctx, "page:/about")
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "<h1>About</h1>" {
			t.Errorf("data = %q", data)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := s.Save(ctx, "k", []byte("v1"), time.Time{}); err != nil {
			t.Fatal(err)
		}
		if err := s.Save(ctx, "k", []byte("v2"), time.Time{}); err != nil {
			t.Fatal(err)
		}
		data, err := s.Load(ctx, "k")
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "v2" {
			t.Errorf("data = %q, want v2", data)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Load(ctx, "nope")
		if !IsMissing(err) {
			t.Errorf("err = %v, want key-missing", err)
		}
	})

	t.Run("expired entry", func(t *testing.T) {
		if err := s.Save(ctx, "ttl", []byte("x"), time.Now().Add(-time.Second)); err != nil {
			t.Fatal(err)
		}
		_, err := s.Load(ctx, "ttl")
		if !IsMissing(err) {
			t.Errorf("err = %v, want key-missing for expired entry", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.Save(ctx, "gone", []byte("x"), time.Time{}); err != nil {
			t.Fatal(err)
		}
		if err := s.Delete(ctx, "gone"); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Load(ctx, "gone"); !IsMissing(err) {
			t.Errorf("err = %v, want key-missing after delete", err)
		}
		// Deleting again is not an error.
		if err := s.Delete(ctx, "gone"); err != nil {
			t.Errorf("second delete: %v", err)
		}
	})

	t.Run("keys by prefix", func(t *testing.T) {
		for _, k := range []string{"scroll:/a", "scroll:/b", "other:x"} {
			if err := s.Save(ctx, k, []byte("y"), time.Time{}); err != nil {
				t.Fatal(err)
			}
		}
		keys, err := s.Keys(ctx, "scroll:")
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"scroll:/a", "scroll:/b"}
		if !reflect.DeepEqual(keys, want) {
			t.Errorf("keys = %v, want %v", keys, want)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	testStoreContract(t, s)
}

func TestMemoryStoreClosed(t *testing.T) {
	s := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), "k", []byte("v"), time.Time{}); err == nil {
		t.Error("expected error on closed store")
	}
	// Idempotent close.
	if err := s.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestMemoryStoreCopiesData(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	ctx := context.Background()

	buf := []byte("original")
	if err := s.Save(ctx, "k", buf, time.Time{}); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'X'

	data, err := s.Load(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "original" {
		t.Errorf("data = %q, caller mutation leaked into store", data)
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStoreContract(t, s)
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "page:/home", []byte("home"), time.Time{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	data, err := s2.Load(ctx, "page:/home")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "home" {
		t.Errorf("data = %q, want home", data)
	}
}
