package config

import (
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/input-output-hk/catalyst-forge-libs/usd/errors"
)

// Environment variable names.
const (
	EnvPrefix         = "USD_PREFIX"
	EnvBackend        = "USD_BACKEND"
	EnvRoot           = "USD_ROOT"
	EnvMinioEndpoint  = "USD_MINIO_ENDPOINT"
	EnvMinioBucket    = "USD_MINIO_BUCKET"
	EnvMinioAccessKey = "USD_MINIO_ACCESS_KEY"
	EnvMinioSecretKey = "USD_MINIO_SECRET_KEY" //nolint:gosec // This is an env var name, not a credential
	EnvMinioUseSSL    = "USD_MINIO_USE_SSL"
	EnvLogLevel       = "USD_LOG_LEVEL"
)

// FileConfig mirrors the TOML file. Unset keys stay nil and keep their default.
type FileConfig struct {
	Volume struct {
		Prefix  *string `toml:"prefix"`
		Backend *string `toml:"backend"`
		Root    *string `toml:"root"`
	} `toml:"volume"`

	Minio struct {
		Endpoint  *string `toml:"endpoint"`
		Bucket    *string `toml:"bucket"`
		AccessKey *string `toml:"access_key"`
		SecretKey *string `toml:"secret_key"`
		UseSSL    *bool   `toml:"use_ssl"`
		KeyPrefix *string `toml:"key_prefix"`
	} `toml:"minio"`

	Log struct {
		Level *string `toml:"level"`
	} `toml:"log"`
}

// Loader loads configuration from file, environment, and applies defaults.
type Loader struct {
	configPath string // empty = no file
}

// NewLoader creates a new config loader. A missing file at configPath is not
// an error; an empty configPath skips the file.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load loads configuration with priority: defaults < file < env.
// The result is not validated; call Config.Validate.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	fileCfg, err := l.loadFile()
	if err != nil {
		return nil, err
	}
	if fileCfg != nil {
		mergeFileConfig(cfg, fileCfg)
	}

	if err := applyEnvVars(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile reads and parses the config file.
// Returns nil if no config file exists.
func (l *Loader) loadFile() (*FileConfig, error) {
	if l.configPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapWithContext(err, errors.CodeIO, "failed to read config file",
			map[string]interface{}{"path": l.configPath})
	}

	var fileCfg FileConfig
	if err := toml.Unmarshal(data, &fileCfg); err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeInvalidConfig, "invalid TOML in config file",
			map[string]interface{}{"path": l.configPath})
	}

	return &fileCfg, nil
}

// mergeFileConfig merges non-nil FileConfig values into cfg.
func mergeFileConfig(cfg *Config, file *FileConfig) {
	// Volume
	if file.Volume.Prefix != nil {
		cfg.Volume.Prefix = *file.Volume.Prefix
	}
	if file.Volume.Backend != nil {
		cfg.Volume.Backend = *file.Volume.Backend
	}
	if file.Volume.Root != nil {
		cfg.Volume.Root = *file.Volume.Root
	}

	// MinIO
	if file.Minio.Endpoint != nil {
		cfg.Minio.Endpoint = *file.Minio.Endpoint
	}
	if file.Minio.Bucket != nil {
		cfg.Minio.Bucket = *file.Minio.Bucket
	}
	if file.Minio.AccessKey != nil {
		cfg.Minio.AccessKey = *file.Minio.AccessKey
	}
	if file.Minio.SecretKey != nil {
		cfg.Minio.SecretKey = *file.Minio.SecretKey
	}
	if file.Minio.UseSSL != nil {
		cfg.Minio.UseSSL = *file.Minio.UseSSL
	}
	if file.Minio.KeyPrefix != nil {
		cfg.Minio.KeyPrefix = *file.Minio.KeyPrefix
	}

	// Log
	if file.Log.Level != nil {
		cfg.Log.Level = *file.Log.Level
	}
}

// applyEnvVars applies environment variable overrides to cfg.
func applyEnvVars(cfg *Config) error {
	if v := os.Getenv(EnvPrefix); v != "" {
		cfg.Volume.Prefix = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Volume.Backend = v
	}
	if v := os.Getenv(EnvRoot); v != "" {
		cfg.Volume.Root = v
	}
	if v := os.Getenv(EnvMinioEndpoint); v != "" {
		cfg.Minio.Endpoint = v
	}
	if v := os.Getenv(EnvMinioBucket); v != "" {
		cfg.Minio.Bucket = v
	}
	if v := os.Getenv(EnvMinioAccessKey); v != "" {
		cfg.Minio.AccessKey = v
	}
	if v := os.Getenv(EnvMinioSecretKey); v != "" {
		cfg.Minio.SecretKey = v
	}
	if v := os.Getenv(EnvMinioUseSSL); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.WrapWithContext(err, errors.CodeInvalidConfig, "invalid boolean in environment",
				map[string]interface{}{"name": EnvMinioUseSSL})
		}
		cfg.Minio.UseSSL = b
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	return nil
}
