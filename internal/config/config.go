// Package config loads gostspec settings from YAML files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"gostspec/internal/blob"
	"gostspec/internal/core"
	"gostspec/internal/params"
)

// Config is the complete gostspec configuration.
type Config struct {
	Storage    core.StorageOptions `yaml:"storage"`
	Blob       blob.Options        `yaml:"blob"`
	Schedules  core.ScheduleNames  `yaml:"schedules"`
	Parameters params.Names        `yaml:"parameters"`
	Log        LogConfig           `yaml:"log"`
	Metrics    MetricsConfig       `yaml:"metrics"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// MetricsConfig configures metrics exposure.
type MetricsConfig struct {
	// Addr is the listen address of the /metrics endpoint; empty disables it.
	Addr string `yaml:"addr"`
	// TracePath receives JSON trace lines when set.
	TracePath string `yaml:"trace_path"`
}

// DefaultConfig returns a Config with the stock names and local storage.
func DefaultConfig() *Config {
	return &Config{
		Storage:    core.StorageOptions{Driver: core.StorageSQLite, SQLitePath: "gostspec.db"},
		Blob:       blob.Options{Driver: blob.DriverFilesystem, FSRoot: "exports"},
		Schedules:  core.DefaultScheduleNames(),
		Parameters: params.DefaultNames(),
		Log:        LogConfig{Level: "info", Format: "text"},
	}
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate checks that the configuration can be used to open stores and run
// the services.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case core.StorageMemory, core.StorageSQLite, core.StoragePostgres:
	default:
		return fmt.Errorf("storage.driver %q is not one of memory, sqlite, postgres", c.Storage.Driver)
	}
	switch c.Blob.Driver {
	case blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.Blob.S3.Bucket == "" {
			return fmt.Errorf("blob.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("blob.driver %q is not one of fs, s3, memory", c.Blob.Driver)
	}
	if !contains(logLevels, c.Log.Level) {
		return fmt.Errorf("log.level %q is not one of %s", c.Log.Level, strings.Join(logLevels, ", "))
	}
	if !contains(logFormats, c.Log.Format) {
		return fmt.Errorf("log.format %q is not one of %s", c.Log.Format, strings.Join(logFormats, ", "))
	}
	if n := strings.Count(c.Schedules.HeaderTemplate, "%s"); n != 1 {
		return fmt.Errorf("schedules.header must contain exactly one %%s, found %d", n)
	}
	if c.Schedules.Position == c.Schedules.Template {
		return fmt.Errorf("schedules.position and schedules.template must differ")
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// LoadFromFile reads a YAML file over DefaultConfig. Values left empty in the
// file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	layer, err := readLayer(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Merge(layer)
	return cfg, nil
}

// readLayer decodes a file without defaults so that only the values it sets
// take part in a merge.
func readLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	layer := &Config{}
	if err := yaml.Unmarshal(data, layer); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return layer, nil
}

// SaveToFile writes the configuration as YAML, creating parent directories.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Merge overlays the non-zero values of other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Storage.Driver != "" {
		c.Storage.Driver = other.Storage.Driver
	}
	setString(&c.Storage.SQLitePath, other.Storage.SQLitePath)
	setString(&c.Storage.PostgresDSN, other.Storage.PostgresDSN)

	if other.Blob.Driver != "" {
		c.Blob.Driver = other.Blob.Driver
	}
	setString(&c.Blob.FSRoot, other.Blob.FSRoot)
	setString(&c.Blob.S3.Bucket, other.Blob.S3.Bucket)
	setString(&c.Blob.S3.Region, other.Blob.S3.Region)
	setString(&c.Blob.S3.Endpoint, other.Blob.S3.Endpoint)
	setString(&c.Blob.S3.AccessKeyID, other.Blob.S3.AccessKeyID)
	setString(&c.Blob.S3.SecretAccessKey, other.Blob.S3.SecretAccessKey)
	setString(&c.Blob.S3.SessionToken, other.Blob.S3.SessionToken)
	if other.Blob.S3.PathStyle {
		c.Blob.S3.PathStyle = true
	}

	c.Schedules = other.Schedules.Fill(c.Schedules)
	c.Parameters = other.Parameters.Fill(c.Parameters)

	setString(&c.Log.Level, other.Log.Level)
	setString(&c.Log.Format, other.Log.Format)
	setString(&c.Metrics.Addr, other.Metrics.Addr)
	setString(&c.Metrics.TracePath, other.Metrics.TracePath)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Env variables read by ApplyEnv.
const (
	EnvStorageDriver  = "GOSTSPEC_STORAGE_DRIVER"
	EnvSQLitePath     = "GOSTSPEC_SQLITE_PATH"
	EnvPostgresDSN    = "GOSTSPEC_POSTGRES_DSN"
	EnvBlobDriver     = "GOSTSPEC_BLOB_DRIVER"
	EnvBlobFSRoot     = "GOSTSPEC_BLOB_FS_ROOT"
	EnvBlobS3Bucket   = "GOSTSPEC_BLOB_S3_BUCKET"
	EnvBlobS3Region   = "GOSTSPEC_BLOB_S3_REGION"
	EnvBlobS3Endpoint = "GOSTSPEC_BLOB_S3_ENDPOINT"
	EnvBlobS3Path     = "GOSTSPEC_BLOB_S3_PATH_STYLE"
	EnvLogLevel       = "GOSTSPEC_LOG_LEVEL"
	EnvLogFormat      = "GOSTSPEC_LOG_FORMAT"
	EnvMetricsAddr    = "GOSTSPEC_METRICS_ADDR"
)

// ApplyEnv overlays non-empty GOSTSPEC_* variables returned by getenv. A nil
// getenv reads the process environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvStorageDriver); v != "" {
		c.Storage.Driver = core.StorageDriver(strings.ToLower(v))
	}
	setString(&c.Storage.SQLitePath, getenv(EnvSQLitePath))
	setString(&c.Storage.PostgresDSN, getenv(EnvPostgresDSN))
	if v := getenv(EnvBlobDriver); v != "" {
		c.Blob.Driver = blob.Driver(strings.ToLower(v))
	}
	setString(&c.Blob.FSRoot, getenv(EnvBlobFSRoot))
	setString(&c.Blob.S3.Bucket, getenv(EnvBlobS3Bucket))
	setString(&c.Blob.S3.Region, getenv(EnvBlobS3Region))
	setString(&c.Blob.S3.Endpoint, getenv(EnvBlobS3Endpoint))
	if v := getenv(EnvBlobS3Path); v != "" {
		c.Blob.S3.PathStyle = strings.EqualFold(v, "true")
	}
	setString(&c.Log.Level, strings.ToLower(getenv(EnvLogLevel)))
	setString(&c.Log.Format, strings.ToLower(getenv(EnvLogFormat)))
	setString(&c.Metrics.Addr, getenv(EnvMetricsAddr))
}
