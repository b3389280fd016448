package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".fragnav.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .fragnav.yaml configuration file.
// The same structure can be written in TOML when the file name ends in ".toml".
type File struct {
	// Navigator holds the navigator settings.
	Navigator NavigatorConfig `yaml:"navigator,omitempty" toml:"navigator"`

	// Crawl holds the settings of "fragnav crawl".
	Crawl CrawlFile `yaml:"crawl,omitempty" toml:"crawl"`

	// Pages declares the navigable pages in registration order.
	Pages []PageConfig `yaml:"pages,omitempty" toml:"pages"`
}

// NavigatorConfig holds the navigator settings of the configuration file.
type NavigatorConfig struct {
	ParamSeparator string `yaml:"paramSeparator,omitempty" toml:"param_separator"`
	ValueSeparator string `yaml:"valueSeparator,omitempty" toml:"value_separator"`
	HomePage       string `yaml:"homePage,omitempty" toml:"home_page"`
	Layout         string `yaml:"layout,omitempty" toml:"layout"`
	Header         string `yaml:"header,omitempty" toml:"header"`
	Footer         string `yaml:"footer,omitempty" toml:"footer"`
	LogLevel       string `yaml:"logLevel,omitempty" toml:"log_level"`
}

// PageConfig declares one page.
type PageConfig struct {
	// ID is the page identifier.
	ID string `yaml:"id" toml:"id"`

	// Name overrides the URI name derived from the identifier.
	Name string `yaml:"name,omitempty" toml:"name"`

	// Title is shown by layouts.
	Title string `yaml:"title,omitempty" toml:"title"`

	// Crawlable marks the page fragment with "!".
	Crawlable bool `yaml:"crawlable,omitempty" toml:"crawlable"`

	// Warning makes the page ask for confirmation before it is left.
	Warning string `yaml:"warning,omitempty" toml:"warning"`

	// Params declares the parameter slots.
	Params []ParamConfig `yaml:"params,omitempty" toml:"params"`

	// Links are fragments the page links to, followed by "fragnav crawl".
	Links []string `yaml:"links,omitempty" toml:"links"`
}

// ParamConfig declares one parameter slot.
// A slot is named when Name is set and positional otherwise.
type ParamConfig struct {
	// Name of a named slot.
	Name string `yaml:"name,omitempty" toml:"name"`

	// Position of a positional slot.
	Position *int `yaml:"position,omitempty" toml:"position"`

	// Kind is the value kind: string, int, int64, float64, bool, entity or enum.
	Kind string `yaml:"kind,omitempty" toml:"kind"`

	// Required makes the slot mandatory.
	Required bool `yaml:"required,omitempty" toml:"required"`

	// Entity is the entity type tag of entity slots.
	Entity string `yaml:"entity,omitempty" toml:"entity"`

	// Symbols are the accepted values of enum slots.
	Symbols []string `yaml:"symbols,omitempty" toml:"symbols"`
}

// Key returns the slot key used to store the value on a dynamic page.
func (p ParamConfig) Key() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Position != nil {
		return fmt.Sprintf("#%d", *p.Position)
	}
	return ""
}

// LoadConfigFile loads the configuration file.
// Files ending in ".toml" are decoded as TOML, everything else as YAML.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .fragnav.yaml in the current directory
// 3. Look for .fragnav.yaml in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
