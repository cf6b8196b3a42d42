package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "VISION_BACKEND", "VISION_MODEL", "OLLAMA_URL",
		"MAX_IMAGE_DIMENSION", "UPLOADS_DIR", "OUTPUTS_DIR", "DATABASE_PATH"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Backend != "ollama" {
		t.Errorf("Expected default backend ollama, got %s", cfg.Backend)
	}
	if cfg.MaxDimension != 1568 {
		t.Errorf("Expected default max dimension 1568, got %d", cfg.MaxDimension)
	}
	if cfg.DatabasePath == "" {
		t.Error("Expected a default database path")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("VISION_BACKEND", "openrouter")
	t.Setenv("VISION_MODEL", "qwen/qwen2.5-vl-72b-instruct")
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("MAX_IMAGE_DIMENSION", "1024")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Port)
	}
	if cfg.Backend != "openrouter" {
		t.Errorf("Expected backend openrouter, got %s", cfg.Backend)
	}
	if cfg.Model != "qwen/qwen2.5-vl-72b-instruct" {
		t.Errorf("Unexpected model %s", cfg.Model)
	}
	if cfg.MaxDimension != 1024 {
		t.Errorf("Expected max dimension 1024, got %d", cfg.MaxDimension)
	}
}

func TestLoadIgnoresBadInt(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Expected fallback port for unparseable value, got %d", cfg.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ollama ok", Config{Backend: "ollama", OllamaURL: "http://localhost:11434"}, false},
		{"ollama missing url", Config{Backend: "ollama"}, true},
		{"openrouter ok", Config{Backend: "openrouter", APIKey: "sk-test"}, false},
		{"openrouter missing key", Config{Backend: "openrouter"}, true},
		{"unknown backend", Config{Backend: "gemini"}, true},
		{"negative dimension", Config{Backend: "ollama", OllamaURL: "x", MaxDimension: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
