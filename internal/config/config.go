package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/stackgen-labs/stackgen/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyPackageManager     = "package_manager"
	KeyLogLevel           = "log_level"
	KeyClientTemplate     = "client.template"
	KeyClientRewriteEntry = "client.rewrite_entry"
	KeyClientReadme       = "client.readme"
	KeyServerPort         = "server.port"
	KeyServerMongoURL     = "server.mongo_url"
)

// Keys lists every recognized key in display order.
var Keys = []string{
	KeyPackageManager,
	KeyLogLevel,
	KeyClientTemplate,
	KeyClientRewriteEntry,
	KeyClientReadme,
	KeyServerPort,
	KeyServerMongoURL,
}

// Settings is the resolved view of the configuration used by scaffolding.
type Settings struct {
	PackageManager     string
	LogLevel           string
	ClientTemplate     string
	ClientRewriteEntry bool
	ClientReadme       bool
	ServerPort         int
	ServerMongoURL     string
}

// Dir returns the path to the config directory. STACKGEN_HOME overrides the
// default of ~/.stackgen.
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("home")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.stackgen/config.yaml).
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
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyPackageManager, "npm")
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyClientTemplate, "") // empty: use the catalog template
	viper.SetDefault(KeyClientRewriteEntry, true)
	viper.SetDefault(KeyClientReadme, true)
	viper.SetDefault(KeyServerPort, 5000)
	viper.SetDefault(KeyServerMongoURL, "mongodb://localhost:27017/db")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// IsKnown reports whether key is one of the recognized configuration keys.
func IsKnown(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Current resolves the loaded configuration into Settings.
func Current() Settings {
	return Settings{
		PackageManager:     viper.GetString(KeyPackageManager),
		LogLevel:           viper.GetString(KeyLogLevel),
		ClientTemplate:     viper.GetString(KeyClientTemplate),
		ClientRewriteEntry: viper.GetBool(KeyClientRewriteEntry),
		ClientReadme:       viper.GetBool(KeyClientReadme),
		ServerPort:         viper.GetInt(KeyServerPort),
		ServerMongoURL:     viper.GetString(KeyServerMongoURL),
	}
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnown(key) {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys, ", "))
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

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
