package stores

import (
	"testing"
	"time"
)

func TestReportingStoreGetSet(t *testing.T) {
	store := NewReportingStore(time.Minute)

	if _, ok := store.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	store.Set("overview", 42)
	value, ok := store.Get("overview")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if value.(int) != 42 {
		t.Errorf("expected 42, got %v", value)
	}
}

func TestReportingStoreExpiry(t *testing.T) {
	store := NewReportingStore(10 * time.Millisecond)

	store.Set("overview", "stale")
	time.Sleep(20 * time.Millisecond)

	if _, ok := store.Get("overview"); ok {
		t.Error("expected entry to expire")
	}
}

func TestReportingStoreInvalidateAndPurge(t *testing.T) {
	store := NewReportingStore(time.Minute)

	store.Set("a", 1)
	store.Set("b", 2)

	store.Invalidate("a")
	if _, ok := store.Get("a"); ok {
		t.Error("expected invalidated key to miss")
	}
	if _, ok := store.Get("b"); !ok {
		t.Error("expected other key to survive")
	}

	store.Purge()
	if _, ok := store.Get("b"); ok {
		t.Error("expected purge to clear everything")
	}
}
