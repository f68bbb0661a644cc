package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	keyPort         = "server.port"
	keyBaseDir      = "books.base_dir"
	keyBatchPattern = "books.batch_pattern"
	keyDataFile     = "books.data_file"
	keyMaxWorkers   = "search.max_workers"
	keyDefaultLimit = "search.default_limit"
	keyKVDBPath     = "database.kvdb_path"
	keyLogLevel     = "log.level"
)

type Config struct {
	config *viper.Viper
}

// Load reads config/config.<env>.yaml from the project root. Environment variables
// take precedence over the file, and a missing file only produces a warning.
func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	setDefaults(viperConfig)
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyPort, "8080")
	v.SetDefault(keyBaseDir, "from_pdf")
	v.SetDefault(keyBatchPattern, "out*")
	v.SetDefault(keyDataFile, "gyazo_info.json")
	v.SetDefault(keyMaxWorkers, 50)
	v.SetDefault(keyDefaultLimit, 5)
	v.SetDefault(keyKVDBPath, ".booksearch/history.db")
	v.SetDefault(keyLogLevel, "info")
}

func (c *Config) GetPort() string {
	return c.getString("PORT", keyPort)
}

func (c *Config) GetBaseDir() string {
	return c.getString("BASE_DIR", keyBaseDir)
}

// SetBaseDir overrides the configured base directory, e.g. from a command line flag.
func (c *Config) SetBaseDir(baseDir string) {
	c.config.Set(keyBaseDir, baseDir)
	c.config.Set("BASE_DIR", baseDir)
}

func (c *Config) GetBatchPattern() string {
	return c.getString("BATCH_PATTERN", keyBatchPattern)
}

func (c *Config) GetDataFile() string {
	return c.getString("DATA_FILE", keyDataFile)
}

func (c *Config) GetMaxWorkers() int {
	return c.getPositiveInt("MAX_WORKERS", keyMaxWorkers)
}

func (c *Config) GetDefaultLimit() int {
	return c.getPositiveInt("DEFAULT_LIMIT", keyDefaultLimit)
}

func (c *Config) GetKVDBPath() string {
	return c.getString("KVDB_PATH", keyKVDBPath)
}

func (c *Config) GetLogLevel() string {
	return c.getString("LOG_LEVEL", keyLogLevel)
}

func (c *Config) getString(envKey string, fileKey string) string {
	value := c.config.GetString(envKey)
	if len(value) == 0 {
		value = c.config.GetString(fileKey)
	}

	return value
}

func (c *Config) getPositiveInt(envKey string, fileKey string) int {
	value := c.config.GetInt(envKey)
	if value <= 0 {
		value = c.config.GetInt(fileKey)
	}
	if value <= 0 {
		value = 1
	}

	return value
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
