package data

import (
	"testing"
	"time"

	"github.com/savid/stream-tuner/internal/transcode"
	"github.com/savid/stream-tuner/internal/types"
)

func TestStoreOperations(t *testing.T) {
	store := NewStore()

	// Test initial state
	if store.HasData() {
		t.Error("New store should not have data")
	}

	if _, ok := store.Table(); ok {
		t.Error("Table should return false when no data")
	}

	if !store.LastSync().IsZero() {
		t.Error("LastSync should be zero before any table is set")
	}

	before := time.Now()
	table := transcode.DefaultPresetTable()
	store.SetTable(table, "builtin")

	got, ok := store.Table()
	if !ok {
		t.Fatal("Table should return true after setting data")
	}
	if got.Presets[types.QualityLow].BitrateVideo != 1000 {
		t.Errorf("Expected low bitrate 1000, got %d", got.Presets[types.QualityLow].BitrateVideo)
	}
	if !store.HasData() {
		t.Error("Store should report having data")
	}
	if store.Source() != "builtin" {
		t.Errorf("Expected source 'builtin', got %q", store.Source())
	}
	if store.LastSync().Before(before) {
		t.Error("LastSync should be updated by SetTable")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()
	done := make(chan struct{})

	go func() {
		for i := 0; i < 100; i++ {
			store.SetTable(transcode.DefaultPresetTable(), "builtin")
		}
		close(done)
	}()

	for i := 0; i < 100; i++ {
		store.Table()
		store.HasData()
	}
	<-done

	if !store.HasData() {
		t.Error("Store should have data after concurrent writes")
	}
}
