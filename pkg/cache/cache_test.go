package cache

import (
	"errors"
	"os"
	"testing"
	"time"
)

func TestGetSetRoundTrip(t *testing.T) {
	c, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := c.Set("key", payload{Name: "numpy", Count: 3}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got payload
	ok, err := c.Get("key", &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want hit")
	}
	if got.Name != "numpy" || got.Count != 3 {
		t.Errorf("Get() = %+v", got)
	}
}

func TestGetMiss(t *testing.T) {
	c, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var v string
	ok, err := c.Get("absent", &v)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true, want miss")
	}
}

func TestGetExpired(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, time.Hour)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := c.Set("key", "value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Age the entry past its TTL by backdating the file.
	old := time.Now().Add(-2 * time.Hour)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if err := os.Chtimes(dir+"/"+e.Name(), old, old); err != nil {
			t.Fatal(err)
		}
	}

	var v string
	ok, err := c.Get("key", &v)
	if ok {
		t.Error("Get() ok = true, want expired")
	}
	if !errors.Is(err, ErrExpired) {
		t.Errorf("Get() error = %v, want ErrExpired", err)
	}
}

func TestNamespace(t *testing.T) {
	c, err := New(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	a := c.Namespace("a:")
	b := c.Namespace("b:")

	if err := a.Set("key", "from-a"); err != nil {
		t.Fatal(err)
	}

	var v string
	if ok, _ := b.Get("key", &v); ok {
		t.Error("namespaced caches should not share keys")
	}
	if ok, _ := a.Get("key", &v); !ok || v != "from-a" {
		t.Errorf("Get() = (%v, %q)", ok, v)
	}
}

func TestDelete(t *testing.T) {
	c, err := New(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := c.Set("key", 1); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete("key"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	var v int
	if ok, _ := c.Get("key", &v); ok {
		t.Error("entry survived Delete")
	}

	// Deleting a missing key is fine.
	if err := c.Delete("missing"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}
