package internal

import (
	"log/slog"
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.App.Output != OutputJSON {
		t.Errorf("default output = %q, want %q", cfg.App.Output, OutputJSON)
	}
	if cfg.Library.SkillsDir != "skills" {
		t.Errorf("default skills dir = %q", cfg.Library.SkillsDir)
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestOutputValidation(t *testing.T) {
	cfg := NewDefaultConfig()

	cfg.App.Output = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty output should normalise: %v", err)
	}
	if cfg.App.Output != OutputJSON {
		t.Errorf("normalised output = %q, want %q", cfg.App.Output, OutputJSON)
	}

	cfg.App.Output = OutputHuman
	if err := cfg.Validate(); err != nil {
		t.Fatalf("human output should pass: %v", err)
	}

	cfg.App.Output = "yaml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown output mode should fail")
	}
}

func TestLibraryConfig_RequiresRoot(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Library.Root = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty library root should fail")
	}
}

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv("ANSUZ_DB_PATH", "/tmp/override.db")
	t.Setenv("ANSUZ_ROOT", "/srv/library")
	t.Setenv("ANSUZ_OUTPUT", "human")
	t.Setenv("ANSUZ_LOG_LEVEL", "debug")

	cfg := NewDefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.SQLite.Path != "/tmp/override.db" {
		t.Errorf("db path = %q", cfg.SQLite.Path)
	}
	if cfg.Library.Root != "/srv/library" {
		t.Errorf("root = %q", cfg.Library.Root)
	}
	if cfg.App.Output != OutputHuman {
		t.Errorf("output = %q", cfg.App.Output)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v", cfg.App.LogLevel)
	}
}

func TestApplyEnv_UnsetLeavesDefaults(t *testing.T) {
	t.Setenv("ANSUZ_DB_PATH", "")
	t.Setenv("ANSUZ_ROOT", "")

	cfg := NewDefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.SQLite.Path != "./ansuz.db" {
		t.Errorf("db path = %q, want default", cfg.SQLite.Path)
	}
	if cfg.Library.Root != "." {
		t.Errorf("root = %q, want default", cfg.Library.Root)
	}
}

func TestApplyEnv_BadLogLevel(t *testing.T) {
	t.Setenv("ANSUZ_LOG_LEVEL", "shouting")

	cfg := NewDefaultConfig()
	if err := cfg.ApplyEnv(); err == nil {
		t.Fatal("unknown log level should error")
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, c := range cases {
		got, err := ParseLogLevel(c.in)
		if err != nil {
			t.Errorf("ParseLogLevel(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if _, err := ParseLogLevel("loud"); err == nil {
		t.Error("ParseLogLevel should reject unknown names")
	}
}
