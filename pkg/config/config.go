// Package config loads generator settings from the project's
// .entidraw.yaml file. CLI flags override file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = ".entidraw.yaml"

// Config is the persisted tool configuration.
type Config struct {
	// AppName names the generated application and artifacts.
	AppName string `yaml:"appName"`
	// BasePackage is the Java base package of the spring target.
	BasePackage string `yaml:"basePackage"`
	// OutDir is where generate writes artifact bundles.
	OutDir string `yaml:"outDir"`
	// Targets restricts generation to the listed targets; empty means all.
	Targets []string `yaml:"targets"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		AppName:     "entidraw",
		BasePackage: "com.entidraw.app",
		OutDir:      "./generated",
	}
}

// Load reads the config file at path. A missing file yields the defaults;
// a malformed one is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.AppName == "" {
		cfg.AppName = Default().AppName
	}
	if cfg.BasePackage == "" {
		cfg.BasePackage = Default().BasePackage
	}
	if cfg.OutDir == "" {
		cfg.OutDir = Default().OutDir
	}
	return cfg, nil
}
