/*
Package config loads the gateway configuration: listen address, the operation to path route
table, the default dictionary window and the engine settings.

TOML is the primary format; the same layout in YAML is accepted too and picked by file
extension. Loading is strict: a missing or malformed file, or a value that fails validation,
returns a *ConfigError and the caller is expected to exit.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bastiangx/nlpserve/internal/utils"
	"github.com/charmbracelet/log"
)

const (
	StyleEnvelope = "envelope"
	StyleLegacy   = "legacy"
)

// Config holds the entire config structure
type Config struct {
	Host          string     `toml:"default_host" yaml:"default_host"`
	Port          int        `toml:"default_port" yaml:"default_port"`
	MaxWindow     int        `toml:"default_max_window" yaml:"default_max_window"`
	EnvelopeStyle string     `toml:"envelope_style" yaml:"envelope_style"`
	RoutePath     RoutePaths `toml:"route_path" yaml:"route_path"`
	MockPath      MockPaths  `toml:"mock_path" yaml:"mock_path"`
	Engine        Engine     `toml:"engine" yaml:"engine"`
	Log           Log        `toml:"log" yaml:"log"`
}

// RoutePaths has the NLP subsystem routes.
type RoutePaths struct {
	SentSplit string `toml:"sent_split" yaml:"sent_split"`
	AddWords  string `toml:"add_words" yaml:"add_words"`
	Seg       string `toml:"seg" yaml:"seg"`
	CWS       string `toml:"cws,omitempty" yaml:"cws,omitempty"`
	POS       string `toml:"pos" yaml:"pos"`
	NER       string `toml:"ner" yaml:"ner"`
	SRL       string `toml:"srl" yaml:"srl"`
	DEP       string `toml:"dep" yaml:"dep"`
	SDP       string `toml:"sdp" yaml:"sdp"`
	SDPG      string `toml:"sdpg" yaml:"sdpg"`
	All       string `toml:"all" yaml:"all"`
}

// MockPaths has the identity subsystem routes.
type MockPaths struct {
	Login       string `toml:"login" yaml:"login"`
	Logout      string `toml:"logout" yaml:"logout"`
	GetUserInfo string `toml:"get_user_info" yaml:"get_user_info"`
	GetPermCode string `toml:"get_prem_code" yaml:"get_prem_code"`
	GetMenuList string `toml:"get_menu_list" yaml:"get_menu_list"`
}

// Engine selects and configures the pipeline engine.
type Engine struct {
	Name     string `toml:"name" yaml:"name"`
	DictPath string `toml:"dict_path" yaml:"dict_path"`
	Upstream string `toml:"upstream" yaml:"upstream"`
	Timeout  string `toml:"timeout" yaml:"timeout"`
}

// Log holds logging options.
type Log struct {
	Level     string `toml:"level" yaml:"level"`
	Timestamp bool   `toml:"timestamp" yaml:"timestamp"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Host:          "0.0.0.0",
		Port:          8000,
		MaxWindow:     4,
		EnvelopeStyle: StyleEnvelope,
		RoutePath: RoutePaths{
			SentSplit: "/sent_split",
			AddWords:  "/add_words",
			Seg:       "/seg",
			POS:       "/pos",
			NER:       "/ner",
			SRL:       "/srl",
			DEP:       "/dep",
			SDP:       "/sdp",
			SDPG:      "/sdpg",
			All:       "/all",
		},
		MockPath: MockPaths{
			Login:       "/basic-api/login",
			Logout:      "/basic-api/logout",
			GetUserInfo: "/basic-api/getUserInfo",
			GetPermCode: "/basic-api/getPermCode",
			GetMenuList: "/basic-api/getMenuList",
		},
		Engine: Engine{
			Name:    "lexicon",
			Timeout: "30s",
		},
		Log: Log{
			Level:     "info",
			Timestamp: true,
		},
	}
}

// Load reads the config at path once, applies environment overrides and validates it.
// Scalar keys absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	if !utils.FileExists(path) {
		return nil, &ConfigError{Field: "path", Message: fmt.Sprintf("config file %s not found", path)}
	}
	cfg := DefaultConfig()
	// Routes must come from the file; a missing one fails validation.
	cfg.RoutePath = RoutePaths{}
	cfg.MockPath = MockPaths{}

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = utils.LoadTOMLFile(path, cfg)
	case ".yml", ".yaml":
		err = utils.LoadYAMLFile(path, cfg)
	default:
		return nil, &ConfigError{Field: "path", Message: fmt.Sprintf("unsupported config format %q", filepath.Ext(path))}
	}
	if err != nil {
		return nil, &ConfigError{Field: "path", Message: "malformed config " + path, Err: err}
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Debugf("Loaded config from %s", path)
	return cfg, nil
}

// LoadWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. config.toml, config.yml or config.yaml in the working directory
// 3. Default path: [UserConfigDir]/nlpserve/config.toml
//
// Only the first existing file is read and any error in it is returned.
// Finding no file at all is a *ConfigError too.
func LoadWithPriority(customPath string) (*Config, string, error) {
	if customPath != "" {
		cfg, err := Load(customPath)
		return cfg, customPath, err
	}
	candidates := []string{"config.toml", "config.yml", "config.yaml"}
	if p, err := GetDefaultConfigPath(); err == nil {
		candidates = append(candidates, p)
	}
	for _, p := range candidates {
		if utils.FileExists(p) {
			cfg, err := Load(p)
			return cfg, p, err
		}
	}
	return nil, "", &ConfigError{
		Field:   "path",
		Message: fmt.Sprintf("no config file found (tried %s), run 'nlpserve config init'", strings.Join(candidates, ", ")),
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	for _, dir := range []string{
		filepath.Join(homeDir, ".config", "nlpserve"),
		filepath.Join(homeDir, "Library", "Application Support", "nlpserve"),
	} {
		if utils.DirExists(dir) {
			return dir, nil
		}
	}
	return filepath.Join(homeDir, ".config", "nlpserve"), nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// Save writes cfg to path, TOML or YAML by extension.
func Save(cfg *Config, path string) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return utils.SaveYAMLFile(cfg, path)
	default:
		return utils.SaveTOMLFile(cfg, path)
	}
}

// Validate checks every field the gateway depends on.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return &ConfigError{Field: "default_port", Message: fmt.Sprintf("port %d out of range", c.Port)}
	}
	if c.MaxWindow <= 0 {
		return &ConfigError{Field: "default_max_window", Message: "must be positive"}
	}
	switch c.EnvelopeStyle {
	case StyleEnvelope, StyleLegacy:
	case "":
		c.EnvelopeStyle = StyleEnvelope
	default:
		return &ConfigError{Field: "envelope_style", Message: fmt.Sprintf("unknown style %q", c.EnvelopeStyle)}
	}
	if strings.TrimSpace(c.Engine.Name) == "" {
		return &ConfigError{Field: "engine.name", Message: "engine is required"}
	}
	if _, err := c.Engine.TimeoutDuration(); err != nil {
		return &ConfigError{Field: "engine.timeout", Message: "invalid duration", Err: err}
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return &ConfigError{Field: "log.level", Message: "unknown level", Err: err}
		}
	}
	_, err := newRouteTable(c)
	return err
}

// Routes builds the route table. It must only be called on a validated Config.
func (c *Config) Routes() RouteTable {
	t, err := newRouteTable(c)
	if err != nil {
		log.Errorf("Route table built from invalid config: %v", err)
	}
	return t
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TimeoutDuration parses Timeout. Empty means no timeout.
func (e Engine) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(e.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative timeout %s", e.Timeout)
	}
	return d, nil
}
