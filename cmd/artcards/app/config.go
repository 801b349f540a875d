package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/errors"
)

// envPrefix namespaces the environment variables read by viper,
// e.g. ARTCARDS_WORKBOOK.
const envPrefix = "ARTCARDS"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Inventory configuration
	Workbook    string
	StateDB     string
	BatchSize   int
	RateLimit   float64
	Schedule    string
	ScryfallURL string
	UserAgent   string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.artcards.yaml or ./.artcards.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(os.Getenv(envPrefix + "_CONFIG"))
}

// loadConfig builds the configuration, reading configFile when given and
// searching the standard locations otherwise.
func loadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, &errors.ConfigError{
				Component: "config file",
				Message:   "cannot read " + configFile,
				Err:       err,
			}
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".artcards")
		// A missing config file is fine
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Workbook:    v.GetString("workbook"),
		StateDB:     v.GetString("state_db"),
		BatchSize:   v.GetInt("batch_size"),
		RateLimit:   v.GetFloat64("rate_limit"),
		Schedule:    v.GetString("schedule"),
		ScryfallURL: v.GetString("scryfall_url"),
		UserAgent:   v.GetString("user_agent"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("workbook", "artcards.xlsx")
	v.SetDefault("state_db", "artcards.db")
	v.SetDefault("batch_size", constants.PriceBatchSize)
	v.SetDefault("rate_limit", constants.DefaultRateLimit)
	v.SetDefault("schedule", constants.DefaultSchedule)
	v.SetDefault("scryfall_url", constants.ScryfallAPIURL)
	v.SetDefault("user_agent", constants.DefaultUserAgent)
}

// Validate checks the values a command cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.Workbook == "":
		return &errors.ConfigError{Component: "workbook", Message: "path is empty"}
	case c.StateDB == "":
		return &errors.ConfigError{Component: "state_db", Message: "path is empty"}
	case c.BatchSize <= 0:
		return &errors.ConfigError{Component: "batch_size", Message: "must be positive"}
	case c.RateLimit <= 0:
		return &errors.ConfigError{Component: "rate_limit", Message: "must be positive"}
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files. godotenv never
// overrides a variable that is already set, so .env.local is loaded first
// and wins over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
