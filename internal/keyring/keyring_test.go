package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestEntry_SetGetDelete(t *testing.T) {
	gokeyring.MockInit()
	entry := DatabaseEntry()

	connStr := "postgres://planner@localhost:5432/autoplan?sslmode=disable"
	if err := entry.Set(connStr); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := entry.Get()
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("Get() = %q, want %q", got, connStr)
	}

	if err := entry.Delete(); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := entry.Get(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestEntry_SetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := DatabaseEntry().Set(""); err == nil {
		t.Error("Set(\"\") should return an error")
	}
}

func TestEntry_DeleteMissing(t *testing.T) {
	gokeyring.MockInit()

	err := Entry{Service: "autoplan-test", User: "nobody"}.Delete()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestIsAvailable_WithMock(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false with the mock keyring")
	}
}
