package registry

import (
	"testing"

	"github.com/microsync/microsync/pkg/errors"
)

// testItem is a simple type for testing
type testItem struct {
	Name  string
	Value string
}

func TestNew(t *testing.T) {
	reg := New[testItem]()

	if reg == nil {
		t.Fatal("New() returned nil")
	}

	if reg.Count() != 0 {
		t.Errorf("New registry should be empty, got count %d", reg.Count())
	}
}

func TestRegister(t *testing.T) {
	reg := New[testItem]()

	t.Run("register valid item", func(t *testing.T) {
		err := reg.Register("item1", testItem{Name: "test", Value: "value1"})

		if err != nil {
			t.Fatalf("Register() error = %v, want nil", err)
		}

		if reg.Count() != 1 {
			t.Errorf("Count() = %d, want 1", reg.Count())
		}
	})

	t.Run("register with empty name", func(t *testing.T) {
		err := reg.Register("", testItem{Name: "test2"})

		if !errors.IsErrorCode(err, errors.ErrInvalidInput) {
			t.Errorf("Register() with empty name should return ErrInvalidInput, got %v", err)
		}
	})

	t.Run("register duplicate", func(t *testing.T) {
		err := reg.Register("item1", testItem{Name: "test3"})

		if !errors.IsErrorCode(err, errors.ErrAlreadyExists) {
			t.Errorf("Register() duplicate should return ErrAlreadyExists, got %v", err)
		}
	})
}

func TestGet(t *testing.T) {
	reg := New[testItem]()
	item := testItem{Name: "test", Value: "value1"}
	_ = reg.Register("item1", item)

	t.Run("get existing item", func(t *testing.T) {
		got, err := reg.Get("item1")

		if err != nil {
			t.Fatalf("Get() error = %v, want nil", err)
		}

		if got != item {
			t.Errorf("Get() = %+v, want %+v", got, item)
		}
	})

	t.Run("get non-existing item", func(t *testing.T) {
		_, err := reg.Get("nonexistent")

		if !errors.IsErrorCode(err, errors.ErrNotFound) {
			t.Errorf("Get() non-existing should return ErrNotFound, got %v", err)
		}
	})
}

func TestList(t *testing.T) {
	reg := New[testItem]()
	_ = reg.Register("bravo", testItem{})
	_ = reg.Register("alpha", testItem{})

	names := reg.List()

	if len(names) != 2 || names[0] != "alpha" || names[1] != "bravo" {
		t.Errorf("List() = %v, want [alpha bravo]", names)
	}
}

func TestHas(t *testing.T) {
	reg := New[testItem]()
	_ = reg.Register("item1", testItem{})

	if !reg.Has("item1") {
		t.Error("Has() should be true for registered item")
	}
	if reg.Has("missing") {
		t.Error("Has() should be false for unregistered item")
	}
}
