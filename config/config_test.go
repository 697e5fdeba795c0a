package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type testSettings struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Pipeline      struct {
		ChunkSize int `yaml:"chunk_size" mapstructure:"chunk_size"`
	} `yaml:"pipeline" mapstructure:"pipeline"`
}

type mockFS struct {
	files map[string]bool
	env   map[string]string
	home  string
}

func (m *mockFS) Exists(path string) bool        { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error      { return nil }
func (m *mockFS) Getenv(key string) string       { return m.env[key] }
func (m *mockFS) UserConfigDir() (string, error) { return m.home, nil }

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to production", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "production" {
			t.Errorf("expected 'production', got %q", cfg.Environment)
		}
		if cfg.Logging.Level != "warn" {
			t.Errorf("expected logging level warn, got %q", cfg.Logging.Level)
		}
		if cfg.Logging.ServiceName != "svc" {
			t.Errorf("expected logging service name svc, got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("debug forces debug level", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Debug: true}
		cfg.Logging.Level = "error"
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug level, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	valid := func(env string) ServiceConfig {
		cfg := ServiceConfig{Name: "svc", Environment: env}
		cfg.Logging.ApplyDefaults()
		return cfg
	}
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", valid("development"), false, ""},
		{"valid production", valid("production"), false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "invalid"}, true, "environment must be one of"},
		{"invalid logging", ServiceConfig{Name: "svc", Environment: "staging"}, true, "logging:"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yml")
	content := `
name: cypherstream
environment: staging
logging:
  level: info
pipeline:
  chunk_size: 512
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	var cfg testSettings
	if err := LoadConfig("cstest", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "cypherstream" {
		t.Errorf("expected name 'cypherstream', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging level 'info', got %q", cfg.Logging.Level)
	}
	if cfg.Pipeline.ChunkSize != 512 {
		t.Errorf("expected chunk size 512, got %d", cfg.Pipeline.ChunkSize)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yml")
	if err := os.WriteFile(path, []byte("pipeline:\n  chunk_size: 512\n"), 0o644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	t.Setenv("CSTEST_PIPELINE_CHUNK_SIZE", "64")
	t.Setenv("CSTEST_LOGGING_LEVEL", "error")

	var cfg testSettings
	if err := LoadConfig("cstest", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Pipeline.ChunkSize != 64 {
		t.Errorf("expected env override 64, got %d", cfg.Pipeline.ChunkSize)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected env override 'error', got %q", cfg.Logging.Level)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.cstest")
	if err := os.WriteFile(envPath, []byte("CSTEST_NAME=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("CSTEST_NAME") })

	var cfg testSettings
	if err := LoadConfig("cstest", &cfg, WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "from-dotenv" {
		t.Errorf("expected name from .env, got %q", cfg.Name)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	var cfg testSettings
	err := LoadConfig("cstest", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err == nil {
		t.Fatal("expected error for explicit missing settings file")
	}
	if !strings.Contains(err.Error(), "/nonexistent/path.yml") {
		t.Errorf("expected path in error, got %q", err.Error())
	}
}

func TestLoadConfigNothingFound(t *testing.T) {
	fs := &mockFS{files: map[string]bool{}, env: map[string]string{}}
	var cfg testSettings
	if err := LoadConfig("cstest-none", &cfg, WithFileSystem(fs)); err != nil {
		t.Fatalf("expected success with no settings, got %v", err)
	}
	if cfg.Name != "" {
		t.Errorf("expected empty settings, got name %q", cfg.Name)
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(path, []byte("pipeline: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	var cfg testSettings
	if err := LoadConfig("cstest", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed settings file")
	}
}

func TestResolverOrder(t *testing.T) {
	tests := []struct {
		name     string
		fs       *mockFS
		opts     LoaderConfig
		want     string
		explicit bool
	}{
		{
			name: "explicit path wins",
			fs: &mockFS{
				files: map[string]bool{"./svc.yml": true},
				env:   map[string]string{"SVC_SETTINGS": "/env.yml"},
			},
			opts:     LoaderConfig{ConfigFile: "/explicit.yml"},
			want:     "/explicit.yml",
			explicit: true,
		},
		{
			name: "env var before discovery",
			fs: &mockFS{
				files: map[string]bool{"./svc.yml": true},
				env:   map[string]string{"SVC_SETTINGS": "/env.yml"},
			},
			want:     "/env.yml",
			explicit: true,
		},
		{
			name: "working directory",
			fs: &mockFS{
				files: map[string]bool{"./svc.yml": true, "/xdg/svc/config.yml": true},
				env:   map[string]string{"XDG_CONFIG_HOME": "/xdg"},
			},
			want: "./svc.yml",
		},
		{
			name: "xdg config home",
			fs: &mockFS{
				files: map[string]bool{"/xdg/svc/config.yml": true},
				env:   map[string]string{"XDG_CONFIG_HOME": "/xdg"},
			},
			want: "/xdg/svc/config.yml",
		},
		{
			name: "user config dir fallback",
			fs: &mockFS{
				files: map[string]bool{"/home/u/.config/svc/config.yml": true},
				env:   map[string]string{},
				home:  "/home/u/.config",
			},
			want: "/home/u/.config/svc/config.yml",
		},
		{
			name: "nothing found",
			fs:   &mockFS{files: map[string]bool{}, env: map[string]string{}},
			want: "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resolver := &Resolver{FileSystem: tc.fs}
			got := resolver.ResolveFiles("svc", tc.opts)
			if got.ConfigFile != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got.ConfigFile)
			}
			if got.Explicit != tc.explicit {
				t.Errorf("expected explicit=%v, got %v", tc.explicit, got.Explicit)
			}
		})
	}
}

func TestResolverEnvFile(t *testing.T) {
	fs := &mockFS{files: map[string]bool{".env.svc": true}, env: map[string]string{}}
	resolver := &Resolver{FileSystem: fs}
	if got := resolver.ResolveFiles("svc", LoaderConfig{}).EnvFile; got != ".env.svc" {
		t.Errorf("expected .env.svc, got %q", got)
	}
}

func TestSettingsEnvVar(t *testing.T) {
	if got := SettingsEnvVar("cypher-stream"); got != "CYPHER_STREAM_SETTINGS" {
		t.Errorf("unexpected env var %q", got)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("PIPELINE_CHUNK_SIZE")
	want := []string{
		"pipeline_chunk_size",
		"pipeline.chunk.size",
		"pipeline.chunk_size",
		"pipeline_chunk.size",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if single := generateEnvKeyVariants("NAME"); !reflect.DeepEqual(single, []string{"name"}) {
		t.Errorf("unexpected single-part variants %v", single)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/settings.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/settings.yml" {
		t.Errorf("expected settings path, got %q", lc.ConfigFile)
	}
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env path, got %q", lc.EnvFile)
	}
}
