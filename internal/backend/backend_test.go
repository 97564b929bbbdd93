package backend

import (
	"context"
	"testing"

	"github.com/vitalitypact/vitalitypact/internal/store"
	"github.com/vitalitypact/vitalitypact/pkg/config"
)

func TestOpenLocal(t *testing.T) {
	dir := t.TempDir()
	opened, err := Open(context.Background(), config.StorageConfig{Backend: "local", Dir: dir}, 30, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer opened.Close()

	if opened.Name != "local" {
		t.Errorf("Name = %q, want local", opened.Name)
	}
	if _, ok := opened.Backend.(*store.Provider); !ok {
		t.Errorf("Backend = %T, want *store.Provider", opened.Backend)
	}
	if opened.Backend.ForUser("alice") == nil {
		t.Error("ForUser returned nil stores")
	}
}

func TestOpenEmptyBackendDefaultsToLocal(t *testing.T) {
	opened, err := Open(context.Background(), config.StorageConfig{Dir: t.TempDir()}, 30, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened.Name != "local" {
		t.Errorf("Name = %q, want local", opened.Name)
	}
}

func TestOpenErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
	}{
		{"unknown backend", config.StorageConfig{Backend: "floppy"}},
		{"redis without address", config.StorageConfig{Backend: "redis"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Open(context.Background(), tt.cfg, 30, nil); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
