package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dario.cat/mergo"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("APP_TOKEN_SIGN_KEY", "env-sign-key")
	t.Setenv("APP_TOKEN_DURATION", "24h")
	t.Setenv("SERVER_ADDRESS", "0.0.0.0:9090")
	t.Setenv("STORAGE_DB_DATABASE_URI", "postgres://localhost:5432/tasks")
	t.Setenv("MAILER_BASE_URL", "https://mail.example.com")

	cfg := &StructuredConfig{}
	if err := parseEnv(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.TokenSignKey != "env-sign-key" {
		t.Errorf("expected sign key from env, got %q", cfg.App.TokenSignKey)
	}
	if cfg.App.TokenDuration != 24*time.Hour {
		t.Errorf("expected 24h duration, got %v", cfg.App.TokenDuration)
	}
	if cfg.Server.HTTPAddress != "0.0.0.0:9090" {
		t.Errorf("expected address from env, got %q", cfg.Server.HTTPAddress)
	}
	if cfg.Storage.DB.DSN != "postgres://localhost:5432/tasks" {
		t.Errorf("expected DSN from env, got %q", cfg.Storage.DB.DSN)
	}
	if cfg.Mailer.BaseURL != "https://mail.example.com" {
		t.Errorf("expected mailer URL from env, got %q", cfg.Mailer.BaseURL)
	}
}

func TestParseJSON(t *testing.T) {
	content := `{
		"app": {"token_sign_key": "json-key", "token_duration": "48h", "bcrypt_cost": 10},
		"server": {"http_address": "localhost:3000", "request_timeout": "15s"},
		"storage": {"db": {"dsn": "tasks.db"}},
		"mailer": {"base_url": "https://mail.example.com", "api_key": "k", "from": "noreply@example.com"}
	}`

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp config failed: %v", err)
	}

	cfg, err := parseJSON(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.TokenSignKey != "json-key" {
		t.Errorf("expected json-key, got %q", cfg.App.TokenSignKey)
	}
	if cfg.App.TokenDuration != 48*time.Hour {
		t.Errorf("expected 48h, got %v", cfg.App.TokenDuration)
	}
	if cfg.App.BcryptCost != 10 {
		t.Errorf("expected cost 10, got %d", cfg.App.BcryptCost)
	}
	if cfg.Server.RequestTimeout != 15*time.Second {
		t.Errorf("expected 15s timeout, got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Storage.DB.DSN != "tasks.db" {
		t.Errorf("expected sqlite path, got %q", cfg.Storage.DB.DSN)
	}
}

func TestParseJSON_MissingFile(t *testing.T) {
	if _, err := parseJSON("/nonexistent/config.json"); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestMergePriority(t *testing.T) {
	// env-style config merged first must win over later sources
	envCfg := &StructuredConfig{App: App{TokenSignKey: "from-env"}}
	jsonCfg := &StructuredConfig{
		App:     App{TokenSignKey: "from-json", TokenIssuer: "json-issuer"},
		Storage: Storage{DB: DB{DSN: "tasks.db"}},
	}

	merged := new(StructuredConfig)
	for _, cfg := range []*StructuredConfig{envCfg, jsonCfg} {
		if err := mergo.Merge(merged, cfg); err != nil {
			t.Fatalf("merge failed: %v", err)
		}
	}

	if merged.App.TokenSignKey != "from-env" {
		t.Errorf("expected earlier source to win, got %q", merged.App.TokenSignKey)
	}
	if merged.App.TokenIssuer != "json-issuer" {
		t.Errorf("expected gap filled from later source, got %q", merged.App.TokenIssuer)
	}
	if merged.Storage.DB.DSN != "tasks.db" {
		t.Errorf("expected DSN from later source, got %q", merged.Storage.DB.DSN)
	}
}

func TestValidate(t *testing.T) {
	valid := StructuredConfig{
		App:     App{TokenSignKey: "key"},
		Server:  Server{HTTPAddress: "localhost:8080"},
		Storage: Storage{DB: DB{DSN: "tasks.db"}},
	}
	if err := valid.validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	t.Run("missing sign key", func(t *testing.T) {
		cfg := valid
		cfg.App.TokenSignKey = ""
		if err := cfg.validate(); !errors.Is(err, ErrMissingTokenSignKey) {
			t.Fatalf("expected ErrMissingTokenSignKey, got %v", err)
		}
	})

	t.Run("missing DSN", func(t *testing.T) {
		cfg := valid
		cfg.Storage.DB.DSN = ""
		if err := cfg.validate(); !errors.Is(err, ErrMissingDatabaseDSN) {
			t.Fatalf("expected ErrMissingDatabaseDSN, got %v", err)
		}
	})

	t.Run("missing address", func(t *testing.T) {
		cfg := valid
		cfg.Server.HTTPAddress = ""
		if err := cfg.validate(); !errors.Is(err, ErrMissingServerAddress) {
			t.Fatalf("expected ErrMissingServerAddress, got %v", err)
		}
	})
}

func TestNetAddress(t *testing.T) {
	t.Run("valid localhost", func(t *testing.T) {
		var addr NetAddress
		if err := addr.Set("localhost:8080"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if addr.String() != "localhost:8080" {
			t.Errorf("expected localhost:8080, got %s", addr.String())
		}
	})

	t.Run("valid ip", func(t *testing.T) {
		var addr NetAddress
		if err := addr.Set("127.0.0.1:9000"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("zero value renders empty", func(t *testing.T) {
		var addr NetAddress
		if addr.String() != "" {
			t.Errorf("expected empty string, got %q", addr.String())
		}
	})

	invalid := []string{"no-port", "localhost:notaport", "localhost:0", "nothost:8080", "a:b:c"}
	for _, in := range invalid {
		t.Run("rejects "+in, func(t *testing.T) {
			var addr NetAddress
			if err := addr.Set(in); err == nil {
				t.Errorf("expected error for %q, got nil", in)
			}
		})
	}
}

func TestDurationUnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{`"72h"`, 72 * time.Hour},
		{`"30m"`, 30 * time.Minute},
		{`1000000000`, time.Second},
	}

	for _, tt := range tests {
		var d Duration
		if err := d.UnmarshalJSON([]byte(tt.in)); err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.in, err)
		}
		if time.Duration(d) != tt.want {
			t.Errorf("expected %v, got %v", tt.want, time.Duration(d))
		}
	}

	var d Duration
	if err := d.UnmarshalJSON([]byte(`"not-a-duration"`)); err == nil {
		t.Error("expected error for malformed duration, got nil")
	}
}
