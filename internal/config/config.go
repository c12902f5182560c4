package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Olivia010207/NPS/internal/report"
	"github.com/Olivia010207/NPS/internal/survey"
)

// Global configuration structure.
type Global struct {
	// Loading
	StatusColumn string `mapstructure:"status_column" yaml:"status_column" toml:"status_column"`
	ValidStatus  string `mapstructure:"valid_status" yaml:"valid_status" toml:"valid_status"`
	IDColumn     string `mapstructure:"id_column" yaml:"id_column" toml:"id_column"`
	Sheet        string `mapstructure:"sheet" yaml:"sheet" toml:"sheet"`

	// Analysis
	MaxRank         int      `mapstructure:"max_rank" yaml:"max_rank" toml:"max_rank"`
	MergeOther      bool     `mapstructure:"merge_other" yaml:"merge_other" toml:"merge_other"`
	OtherKeywords   []string `mapstructure:"other_keywords" yaml:"other_keywords" toml:"other_keywords"`
	OtherLabel      string   `mapstructure:"other_label" yaml:"other_label" toml:"other_label"`
	FreeTextMarkers []string `mapstructure:"free_text_markers" yaml:"free_text_markers" toml:"free_text_markers"`

	// Derived questions registered after loading, e.g. income groups.
	DerivedQuestions []survey.DerivedQuestion `mapstructure:"derived_questions" yaml:"derived_questions,omitempty" toml:"derived_questions,omitempty"`

	// Output and runtime
	OutputDir    string `mapstructure:"output_dir" yaml:"output_dir" toml:"output_dir"`
	ServerAddr   string `mapstructure:"server_addr" yaml:"server_addr" toml:"server_addr"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat    string `mapstructure:"log_format" yaml:"log_format" toml:"log_format"`
	BatchWorkers int    `mapstructure:"batch_workers" yaml:"batch_workers" toml:"batch_workers"`
}

// Dir returns ~/.nps.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".nps"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.nps/config.yaml, creating the directory if necessary. A
// .toml extension selects TOML, anything else YAML.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	var (
		b   []byte
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		b, err = toml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal toml: %w", err)
		}
	} else {
		b, err = yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file (cfgFile or ~/.nps/config.yaml) > defaults.
// A .env file in the working directory is applied to the environment first.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("NPS")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.MaxRank <= 0 {
		c.MaxRank = 5
	}
	if c.BatchWorkers <= 0 {
		c.BatchWorkers = 4
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("status_column", d.StatusColumn)
	v.SetDefault("valid_status", d.ValidStatus)
	v.SetDefault("id_column", d.IDColumn)
	v.SetDefault("sheet", d.Sheet)
	v.SetDefault("max_rank", d.MaxRank)
	v.SetDefault("merge_other", d.MergeOther)
	v.SetDefault("other_keywords", d.OtherKeywords)
	v.SetDefault("other_label", d.OtherLabel)
	v.SetDefault("free_text_markers", d.FreeTextMarkers)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("server_addr", d.ServerAddr)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("batch_workers", d.BatchWorkers)
}

// Default returns the built-in configuration.
func Default() *Global {
	load := survey.DefaultLoadOptions()
	rs := report.DefaultSettings()
	return &Global{
		StatusColumn:    load.StatusColumn,
		ValidStatus:     load.ValidStatus,
		IDColumn:        load.IDColumn,
		MaxRank:         rs.MaxRank,
		MergeOther:      rs.MergeOther,
		OtherKeywords:   rs.OtherKeywords,
		OtherLabel:      rs.OtherLabel,
		FreeTextMarkers: rs.FreeTextMarkers,
		OutputDir:       "results",
		ServerAddr:      ":8080",
		LogLevel:        "info",
		LogFormat:       "text",
		BatchWorkers:    4,
	}
}

// LoadOptions converts the loading keys into survey.LoadOptions.
func (c *Global) LoadOptions() survey.LoadOptions {
	opt := survey.DefaultLoadOptions()
	opt.StatusColumn = c.StatusColumn
	opt.ValidStatus = c.ValidStatus
	opt.IDColumn = c.IDColumn
	opt.Sheet = c.Sheet
	opt.Derived = c.DerivedQuestions
	return opt
}

// ReportSettings converts the analysis keys into report.Settings.
func (c *Global) ReportSettings() report.Settings {
	return report.Settings{
		MaxRank:         c.MaxRank,
		FreeTextMarkers: c.FreeTextMarkers,
		MergeOther:      c.MergeOther,
		OtherKeywords:   c.OtherKeywords,
		OtherLabel:      c.OtherLabel,
	}
}

// setters maps scalar and list keys to their parsers. derived_questions is
// edited in the config file directly.
var setters = map[string]func(c *Global, val string) error{
	"status_column": func(c *Global, v string) error { c.StatusColumn = v; return nil },
	"valid_status":  func(c *Global, v string) error { c.ValidStatus = v; return nil },
	"id_column":     func(c *Global, v string) error { c.IDColumn = v; return nil },
	"sheet":         func(c *Global, v string) error { c.Sheet = v; return nil },
	"other_label":   func(c *Global, v string) error { c.OtherLabel = v; return nil },
	"output_dir":    func(c *Global, v string) error { c.OutputDir = v; return nil },
	"server_addr":   func(c *Global, v string) error { c.ServerAddr = v; return nil },
	"max_rank": func(c *Global, v string) error {
		i, err := strconv.Atoi(v)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid int for max_rank: %v", v)
		}
		c.MaxRank = i
		return nil
	},
	"batch_workers": func(c *Global, v string) error {
		i, err := strconv.Atoi(v)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid int for batch_workers: %v", v)
		}
		c.BatchWorkers = i
		return nil
	},
	"merge_other": func(c *Global, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid bool for merge_other: %w", err)
		}
		c.MergeOther = b
		return nil
	},
	"other_keywords":    func(c *Global, v string) error { c.OtherKeywords = splitList(v); return nil },
	"free_text_markers": func(c *Global, v string) error { c.FreeTextMarkers = splitList(v); return nil },
	"log_level": func(c *Global, v string) error {
		switch strings.ToLower(v) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(v)
			return nil
		}
		return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", v)
	},
	"log_format": func(c *Global, v string) error {
		switch strings.ToLower(v) {
		case "text", "json":
			c.LogFormat = strings.ToLower(v)
			return nil
		}
		return fmt.Errorf("invalid log_format: %s (use text or json)", v)
	},
}

// Set assigns one key from its string form. Lists are comma-separated.
func (c *Global) Set(key, val string) error {
	fn, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown key: %s (settable: %s)", key, strings.Join(Keys(), ", "))
	}
	return fn(c, val)
}

// Keys lists the keys accepted by Set, sorted.
func Keys() []string {
	out := make([]string, 0, len(setters))
	for k := range setters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
