package config

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration. Defaults reproduce a bare
// run in a directory holding the five yearly files.
type Config struct {
	InputDir      string   `mapstructure:"input_dir"`
	InputFiles    []string `mapstructure:"input_files"`
	MergedCSVPath string   `mapstructure:"merged_csv_path"`
	OutputDir     string   `mapstructure:"output_dir"`
	XLSXPath      string   `mapstructure:"xlsx_output_path"`

	SplitSeed    int64   `mapstructure:"split_seed"`
	TestFraction float64 `mapstructure:"test_fraction"`

	LogLevel string `mapstructure:"log_level"`

	PostgresEnabled    bool   `mapstructure:"postgres_enabled"`
	PostgresHost       string `mapstructure:"postgres_host"`
	PostgresPort       string `mapstructure:"postgres_port"`
	PostgresUser       string `mapstructure:"postgres_user"`
	PostgresPassword   string `mapstructure:"postgres_password"`
	PostgresDB         string `mapstructure:"postgres_db"`
	PostgresSSLMode    string `mapstructure:"postgres_sslmode"`
	PostgresMaxRetries int    `mapstructure:"postgres_max_retries"`
}

// DefaultInputFiles are the yearly survey files, in merge order.
var DefaultInputFiles = []string{"2015.csv", "2016.csv", "2017.csv", "2018.csv", "2019.csv"}

// Load reads an optional .env file, then layers defaults, an optional
// config file and HAPPINESS_* environment variables, in that order.
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	v := viper.New()
	v.SetEnvPrefix("HAPPINESS")
	v.AutomaticEnv()

	v.SetDefault("input_dir", ".")
	v.SetDefault("input_files", DefaultInputFiles)
	v.SetDefault("merged_csv_path", "world_happiness_report.csv")
	v.SetDefault("output_dir", "vizualization")
	v.SetDefault("xlsx_output_path", "")
	v.SetDefault("split_seed", 42)
	v.SetDefault("test_fraction", 0.2)
	v.SetDefault("log_level", "info")

	v.SetDefault("postgres_enabled", false)
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", "5432")
	v.SetDefault("postgres_user", "happiness")
	v.SetDefault("postgres_password", "happiness123")
	v.SetDefault("postgres_db", "happiness_db")
	v.SetDefault("postgres_sslmode", "disable")
	v.SetDefault("postgres_max_retries", 3)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %q: %w", cfgFile, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	c.InputFiles = splitList(c.InputFiles)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if len(c.InputFiles) == 0 {
		return fmt.Errorf("config: input_files is empty")
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("config: test_fraction %v must be in (0, 1)", c.TestFraction)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("config: output_dir is empty")
	}
	return nil
}

// InputPaths joins InputDir with every input file name.
func (c *Config) InputPaths() []string {
	paths := make([]string, len(c.InputFiles))
	for i, f := range c.InputFiles {
		paths[i] = filepath.Join(c.InputDir, f)
	}
	return paths
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// splitList accepts both list values and a single comma-separated string,
// which is how environment variables arrive.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
