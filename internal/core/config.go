package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dcrodman/imgscramble/internal/encryption"
)

// Config contains all of the configuration options available to the
// imgscramble tools.
type Config struct {
	// Hex key used to derive the round schedule.
	Key string `mapstructure:"key"`
	// Enable the substitution stage after diffusion.
	Permute bool `mapstructure:"permute"`
	// Number of rounds of each stage, 1 through 8.
	Rounds int `mapstructure:"rounds"`
	// Number of blocks transformed concurrently. 0 uses one worker per CPU.
	Workers int `mapstructure:"workers"`

	Logging struct {
		// Full path to file to which logs will be written. Blank will write to stdout.
		LogFilePath string `mapstructure:"log_file_path"`
		// Minimum level of a log required to be written. Options: trace, debug, info, warn, error
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"logging"`

	Database struct {
		// Ledger backend. Options: sqlite, postgres, none
		Engine string `mapstructure:"engine"`
		// Path of the sqlite database file, relative to the config directory.
		Filename string `mapstructure:"filename"`
		// Hostname of the Postgres database instance.
		Host string `mapstructure:"host"`
		// Port on host on which the Postgres instance is accepting connections.
		Port int `mapstructure:"port"`
		// Name of the database in Postgres.
		Name string `mapstructure:"name"`
		// Username and password of a user with full RW privileges to Name.
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		// Set to verify-full if the Postgres instance supports SSL.
		SSLMode string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	configDir string
}

const (
	envVarPrefix = "IMGSCRAMBLE"

	// DefaultKey is the key used when none is configured.
	DefaultKey = "80b33216c772547c5b0b34dc6adf55d9"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("key", DefaultKey)
	v.SetDefault("permute", false)
	v.SetDefault("rounds", encryption.MaxRounds)
	v.SetDefault("workers", 0)
	v.SetDefault("logging.log_level", "info")
	v.SetDefault("logging.log_file_path", "")
	v.SetDefault("database.engine", "sqlite")
	v.SetDefault("database.filename", "imgscramble.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "imgscramble")
	v.SetDefault("database.sslmode", "disable")
}

// LoadConfig reads config.yaml from configPath (if present), layers
// IMGSCRAMBLE_* environment variables on top and finally any flags in flags
// that were explicitly set. Flag names map onto config keys with dashes
// replaced by underscores.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envVarPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, database.host can be set using: <envVarPrefix>_DATABASE_HOST
	for _, k := range v.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := v.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			return nil, fmt.Errorf("error binding %s to %s: %w", k, envVarPrefix+"_"+envVar, err)
		}
	}

	if flags != nil {
		known := make(map[string]bool)
		for _, k := range v.AllKeys() {
			known[k] = true
		}
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if bindErr == nil && f.Changed && known[key] {
				bindErr = v.BindPFlag(key, f)
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("error binding flags: %w", bindErr)
		}
	}

	config := &Config{configDir: configPath}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config object: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the values that cannot be caught by the type system.
func (c *Config) Validate() error {
	if c.Rounds < 1 || c.Rounds > encryption.MaxRounds {
		return fmt.Errorf("rounds must be between 1 and %d, got %d", encryption.MaxRounds, c.Rounds)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch strings.ToLower(c.Database.Engine) {
	case "sqlite", "postgres", "none":
	default:
		return fmt.Errorf("unsupported database engine: %s", c.Database.Engine)
	}
	return nil
}

// CryptOptions returns the options for building an encryption.ImageCrypt.
func (c *Config) CryptOptions() encryption.Options {
	return encryption.Options{
		Key:     c.Key,
		Permute: c.Permute,
		Rounds:  c.Rounds,
		Workers: c.Workers,
	}
}

const databaseURITemplate = "host=%s port=%d dbname=%s user=%s password=%s sslmode=%s"

// DatabaseURL returns a database URL generated from the provided config values.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		databaseURITemplate,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.Username,
		c.Database.Password,
		c.Database.SSLMode,
	)
}

// QualifiedPath resolves relative paths against the config directory.
func (c *Config) QualifiedPath(p string) string {
	if filepath.IsAbs(p) || c.configDir == "" {
		return p
	}
	return filepath.Join(c.configDir, p)
}
