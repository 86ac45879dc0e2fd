package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jcodify/blockreg/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys.
const (
	KeyBaseDir      = "base_dir"
	KeyBuildDir     = "build_dir"
	KeySrcDir       = "src_dir"
	KeyManifestFile = "manifest_file"
	KeyIgnore       = "ignore"
	KeyIndexPath    = "index_path"
	KeyLogLevel     = "log_level"
)

// Default values applied by Load.
const (
	DefaultBuildDir     = "/blocks/build"
	DefaultSrcDir       = "/blocks/src"
	DefaultManifestFile = "block.json"
	DefaultIndexPath    = "/blocks/index.json"
	DefaultLogLevel     = "info"
)

// DefaultIgnore lists the directory globs skipped while scanning trees.
var DefaultIgnore = []string{"**/node_modules", "**/.git"}

// Settings is the resolved view of the configuration used by commands.
type Settings struct {
	BaseDir      string
	BuildDir     string
	SrcDir       string
	ManifestFile string
	Ignore       []string
	IndexPath    string
	LogLevel     string
}

// BuildRoot returns the absolute build tree root.
func (s Settings) BuildRoot() string { return joinBase(s.BaseDir, s.BuildDir) }

// SourceRoot returns the absolute source tree root.
func (s Settings) SourceRoot() string { return joinBase(s.BaseDir, s.SrcDir) }

// IndexFile returns the absolute path of the block index file.
func (s Settings) IndexFile() string { return joinBase(s.BaseDir, s.IndexPath) }

// joinBase resolves p against base. Tree directories are written with a
// leading slash relative to the base directory, so an absolute-looking p is
// still joined unless it already lives under base.
func joinBase(base, p string) string {
	if base == "" {
		return filepath.Clean(p)
	}
	base = strings.TrimRight(base, `/\`)
	cleaned := filepath.Clean(p)
	if filepath.IsAbs(cleaned) && strings.HasPrefix(cleaned, filepath.Clean(base)+string(filepath.Separator)) {
		return cleaned
	}
	return filepath.Join(base, cleaned)
}

// Dir returns the path to the config directory (~/.blockreg/).
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.blockreg/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyBuildDir, DefaultBuildDir)
	viper.SetDefault(KeySrcDir, DefaultSrcDir)
	viper.SetDefault(KeyManifestFile, DefaultManifestFile)
	viper.SetDefault(KeyIgnore, DefaultIgnore)
	viper.SetDefault(KeyIndexPath, DefaultIndexPath)
	viper.SetDefault(KeyLogLevel, DefaultLogLevel)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the settings resolved from flags, environment, the config
// file, and defaults, in that order of precedence. An empty base dir resolves
// to the working directory.
func Current() (Settings, error) {
	s := Settings{
		BaseDir:      viper.GetString(KeyBaseDir),
		BuildDir:     viper.GetString(KeyBuildDir),
		SrcDir:       viper.GetString(KeySrcDir),
		ManifestFile: viper.GetString(KeyManifestFile),
		Ignore:       ignoreList(),
		IndexPath:    viper.GetString(KeyIndexPath),
		LogLevel:     viper.GetString(KeyLogLevel),
	}

	if s.BaseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Settings{}, fmt.Errorf("resolving working directory: %w", err)
		}
		s.BaseDir = wd
	}
	abs, err := filepath.Abs(s.BaseDir)
	if err != nil {
		return Settings{}, fmt.Errorf("resolving base directory %s: %w", s.BaseDir, err)
	}
	s.BaseDir = abs

	if s.ManifestFile == "" {
		s.ManifestFile = DefaultManifestFile
	}
	if strings.ContainsRune(s.ManifestFile, '/') || strings.ContainsRune(s.ManifestFile, filepath.Separator) {
		return Settings{}, fmt.Errorf("%s must be a file name, got %q", KeyManifestFile, s.ManifestFile)
	}

	return s, nil
}

// Keys lists the settings understood by Set, in display order.
func Keys() []string {
	return []string{KeyBaseDir, KeyBuildDir, KeySrcDir, KeyManifestFile, KeyIgnore, KeyIndexPath, KeyLogLevel}
}

// Get returns a config value by key. Returns empty string if not set.
// List values are joined with commas, the same form Set accepts.
func Get(key string) string {
	if key == KeyIgnore {
		return strings.Join(ignoreList(), ",")
	}
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("unknown key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	if key == KeyIgnore {
		viper.Set(key, splitList(value))
	} else {
		viper.Set(key, value)
	}

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// ignoreList returns the ignore globs. A string value, as set through
// BLOCKREG_IGNORE, is split on commas like the argument to Set.
func ignoreList() []string {
	if v, ok := viper.Get(KeyIgnore).(string); ok {
		return splitList(v)
	}
	return viper.GetStringSlice(KeyIgnore)
}

// splitList turns "a, b,c" into ["a" "b" "c"].
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
