package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.History.WindowDays != 7 {
		t.Errorf("expected default window 7, got %d", cfg.History.WindowDays)
	}
	if cfg.History.RetentionDays != 90 {
		t.Errorf("expected default retention 90, got %d", cfg.History.RetentionDays)
	}
	if cfg.Storage.Backend != "local" {
		t.Errorf("expected local backend, got %q", cfg.Storage.Backend)
	}
	if cfg.DialogueTimeout().Seconds() != 15 {
		t.Errorf("expected 15s dialogue timeout, got %s", cfg.DialogueTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "non-existent file returns defaults",
			yaml: "", // signal: don't create a file
			check: func(t *testing.T, cfg *Config) {
				if cfg.User != "default" {
					t.Errorf("expected default user, got %q", cfg.User)
				}
				if !cfg.Dialogue.Enabled {
					t.Error("expected dialogue enabled by default")
				}
			},
		},
		{
			name: "valid YAML overrides defaults",
			yaml: `
user: alice
partner: fox
history:
  window_days: 14
storage:
  backend: redis
  redis_addr: "localhost:6379"
dialogue:
  enabled: false
  model: "gpt-4o-mini"
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.User != "alice" || cfg.Partner != "fox" {
					t.Errorf("unexpected user/partner %q/%q", cfg.User, cfg.Partner)
				}
				if cfg.History.WindowDays != 14 {
					t.Errorf("expected window 14, got %d", cfg.History.WindowDays)
				}
				if cfg.History.RetentionDays != 90 {
					t.Errorf("expected retention default kept, got %d", cfg.History.RetentionDays)
				}
				if cfg.Storage.Backend != "redis" || cfg.Storage.RedisAddr != "localhost:6379" {
					t.Errorf("unexpected storage %+v", cfg.Storage)
				}
				if cfg.Dialogue.Enabled {
					t.Error("expected dialogue disabled")
				}
				if cfg.Dialogue.APIKeyEnv != "VITALITY_LLM_API_KEY" {
					t.Errorf("expected api key env default kept, got %q", cfg.Dialogue.APIKeyEnv)
				}
			},
		},
		{
			name:    "invalid YAML returns error",
			yaml:    "history: [unclosed",
			wantErr: true,
		},
		{
			name:    "window longer than retention is rejected",
			yaml:    "history:\n  window_days: 120\n",
			wantErr: true,
		},
		{
			name:    "unknown backend is rejected",
			yaml:    "storage:\n  backend: floppy\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			if tt.yaml != "" {
				if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			cfg, err := Load(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	cfgDir := filepath.Join(root, ".vitalitypact")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(cfgDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("user: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	if got := FindConfigFile(nested); got != cfgPath {
		t.Errorf("FindConfigFile() = %q, want %q", got, cfgPath)
	}
	if got := FindConfigFile(t.TempDir()); got != "" {
		t.Errorf("expected no config file, got %q", got)
	}
}

func TestDialogueAPIKey(t *testing.T) {
	t.Setenv("TEST_VITALITY_KEY", "  sk-123 ")
	cfg := DefaultConfig()
	cfg.Dialogue.APIKeyEnv = "TEST_VITALITY_KEY"
	if got := cfg.DialogueAPIKey(); got != "sk-123" {
		t.Errorf("DialogueAPIKey() = %q", got)
	}
	cfg.Dialogue.APIKeyEnv = ""
	if got := cfg.DialogueAPIKey(); got != "" {
		t.Errorf("expected empty key, got %q", got)
	}
}

func TestUserKey(t *testing.T) {
	tests := map[string]string{
		"alice":         "616c696365",
		"../etc/passwd": "2e2e2f6574632f706173737764",
		"":              "default",
	}
	for in, want := range tests {
		if got := UserKey(in); got != want {
			t.Errorf("UserKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUserKeyIsOneToOne(t *testing.T) {
	ids := []string{"Bob Smith", "bob_smith", "BOB/SMITH", "bob smith", "Alice", "alice", "..", "default", ""}
	seen := make(map[string]string)
	for _, id := range ids {
		key := UserKey(id)
		if prev, ok := seen[key]; ok {
			t.Errorf("UserKey(%q) = UserKey(%q) = %q", id, prev, key)
		}
		seen[key] = id
		if strings.ContainsAny(key, "/\\. ") {
			t.Errorf("UserKey(%q) = %q is not path-safe", id, key)
		}
	}
}

func TestDataDir(t *testing.T) {
	if !strings.HasSuffix(DataDir(), filepath.Join(".local", "share", "vitalitypact")) {
		t.Errorf("unexpected data dir %q", DataDir())
	}
}
