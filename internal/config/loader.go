package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is looked up in the working directory and its parents.
	ProjectConfigFile = "gostspec.yaml"
	// UserConfigDir is the user-level config directory below $HOME.
	UserConfigDir = ".config/gostspec"
	// UserConfigFile is the file name inside UserConfigDir.
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence.
type Loader struct {
	logger  *slog.Logger
	home    string
	workdir string
	getenv  func(string) string
}

// NewLoader creates a loader bound to the process home, working directory and
// environment.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	home, _ := os.UserHomeDir()
	wd, _ := os.Getwd()
	return &Loader{logger: logger, home: home, workdir: wd, getenv: os.Getenv}
}

// Load builds the configuration in order:
//  1. defaults
//  2. user config (~/.config/gostspec/config.yaml)
//  3. explicit path, or gostspec.yaml in the working directory or a parent
//  4. GOSTSPEC_* environment variables
//
// An explicit path that cannot be read is an error; missing implicit files
// are skipped.
func (l *Loader) Load(explicit string) (*Config, error) {
	cfg := DefaultConfig()

	if path := l.userConfigPath(); path != "" {
		if layer, err := readLayer(path); err == nil {
			l.logger.Debug("loaded user config", slog.String("path", path))
			cfg.Merge(layer)
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("failed to load user config", slog.String("path", path), slog.String("error", err.Error()))
		}
	}

	if explicit != "" {
		layer, err := readLayer(explicit)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("loaded config", slog.String("path", explicit))
		cfg.Merge(layer)
	} else if path := l.findProjectConfig(); path != "" {
		layer, err := readLayer(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("loaded project config", slog.String("path", path))
		cfg.Merge(layer)
	} else {
		l.logger.Debug("no project config found")
	}

	cfg.ApplyEnv(l.getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EnsureUserConfig writes the default configuration to the user config path
// unless a file already exists there. It returns the path.
func (l *Loader) EnsureUserConfig() (string, error) {
	path := l.userConfigPath()
	if path == "" {
		return "", errors.New("no home directory")
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := DefaultConfig().SaveToFile(path); err != nil {
		return "", err
	}
	l.logger.Info("created default user config", slog.String("path", path))
	return path, nil
}

func (l *Loader) userConfigPath() string {
	if l.home == "" {
		return ""
	}
	return filepath.Join(l.home, UserConfigDir, UserConfigFile)
}

func (l *Loader) findProjectConfig() string {
	if l.workdir == "" {
		return ""
	}
	dir := l.workdir
	for {
		path := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
