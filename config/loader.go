package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/cypherstream/logger"
)

// FileSystem abstracts the lookups the loader performs (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	Getenv(key string) string
	UserConfigDir() (string, error)
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (rfs *RealFileSystem) Getenv(key string) string {
	return os.Getenv(key)
}

func (rfs *RealFileSystem) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// Resolver handles finding and resolving settings and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved settings and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
	// Explicit is true when ConfigFile was named by an option or
	// environment variable rather than discovered.
	Explicit bool
}

// SettingsEnvVar returns the environment variable naming an explicit
// settings file for serviceName, e.g. CYPHERSTREAM_SETTINGS.
func SettingsEnvVar(serviceName string) string {
	return envPrefix(serviceName) + "SETTINGS"
}

// ResolveFiles finds the settings and env files for a service.
// Explicit paths win, then the settings environment variable, then the
// search locations.
func (cr *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
		Explicit:   opts.ConfigFile != "",
	}

	if resolved.ConfigFile == "" {
		if p := cr.FileSystem.Getenv(SettingsEnvVar(serviceName)); p != "" {
			resolved.ConfigFile = p
			resolved.Explicit = true
		}
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.findConfigFile(serviceName)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.findEnvFile(serviceName)
	}

	return resolved
}

// SearchPaths lists the locations searched for a settings file, in order.
func (cr *Resolver) SearchPaths(serviceName string) []string {
	paths := []string{
		fmt.Sprintf("./%s.yml", serviceName),
		fmt.Sprintf("./%s.yaml", serviceName),
	}
	if dir := cr.FileSystem.Getenv("XDG_CONFIG_HOME"); dir != "" {
		paths = append(paths, filepath.Join(dir, serviceName, "config.yml"))
	} else if dir, err := cr.FileSystem.UserConfigDir(); err == nil && dir != "" {
		paths = append(paths, filepath.Join(dir, serviceName, "config.yml"))
	}
	return paths
}

func (cr *Resolver) findConfigFile(serviceName string) string {
	for _, path := range cr.SearchPaths(serviceName) {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

func (cr *Resolver) findEnvFile(serviceName string) string {
	path := fmt.Sprintf(".env.%s", serviceName)
	if cr.FileSystem.Exists(path) {
		return path
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct settings file path (optional)
	EnvFile    string // Direct env file path (optional)
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit settings file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// LoadConfig loads settings for a service into cfg. A YAML file is read
// first, then a .env file is loaded into the process environment, then
// environment variables carrying the service prefix override file values:
// CYPHERSTREAM_PIPELINE_CHUNK_SIZE sets pipeline.chunk_size.
//
// A missing discovered file is not an error. An explicitly named file
// that is missing or unreadable is.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	return loadFromResolvedFiles(serviceName, cfg, files, lc.FileSystem)
}

func loadFromResolvedFiles(serviceName string, cfg interface{}, files ResolvedFiles, fs FileSystem) error {
	log := logger.Get("config")
	v := viper.New()

	// 1. YAML settings (base configuration)
	if files.ConfigFile != "" {
		if !fs.Exists(files.ConfigFile) {
			if files.Explicit {
				return fmt.Errorf("settings file %s not found", files.ConfigFile)
			}
		} else {
			v.SetConfigFile(files.ConfigFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read settings file %s: %w", files.ConfigFile, err)
			}
			log.Debug("settings file loaded", logger.Fields(logger.FieldPath, files.ConfigFile))
		}
	}

	// 2. .env file into the process environment
	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			log.Warn("failed to load .env file", logger.Fields(logger.FieldPath, files.EnvFile, logger.FieldError, err.Error()))
		}
	}

	// 3. Prefixed environment variables
	bindEnvVars(v, envPrefix(serviceName), fs.Getenv, os.Environ())

	// 4. Unmarshal into config struct
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal settings for %s: %w", serviceName, err)
	}

	return nil
}

func envPrefix(serviceName string) string {
	return strings.ToUpper(strings.ReplaceAll(serviceName, "-", "_")) + "_"
}

// bindEnvVars sets a viper key for every environment variable carrying
// prefix, converting UPPER_CASE_WITH_UNDERSCORES into the nested key
// variants viper may expect. Values are read through getenv so a .env file
// loaded after the process started is honoured.
func bindEnvVars(v *viper.Viper, prefix string, getenv func(string) string, environ []string) {
	for _, env := range environ {
		key, _, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		name := strings.TrimPrefix(key, prefix)
		if name == "" || name == "SETTINGS" {
			continue
		}
		value := getenv(key)
		for _, variant := range generateEnvKeyVariants(name) {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants creates the possible nested keys for an
// environment variable name.
//
//	PIPELINE_CHUNK_SIZE -> [pipeline_chunk_size, pipeline.chunk.size, pipeline.chunk_size, pipeline_chunk.size]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")

	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}

	// Progressive nesting: a.b_c_d, a.b.c_d, ...
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}

	// Trailing nesting: a_b_c.d
	for i := len(parts) - 1; i >= 1; i-- {
		prefix := strings.Join(parts[:i], "_")
		suffix := strings.Join(parts[i:], ".")
		variants = append(variants, prefix+"."+suffix)
	}

	return removeDuplicates(variants)
}

func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}

	return result
}
