package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"

	"github.com/gerunddev/omd2tex/internal/document"
	"github.com/gerunddev/omd2tex/internal/element"
	"github.com/gerunddev/omd2tex/internal/parser"
)

// Config represents the omd2tex configuration
type Config struct {
	SearchDir  string   `json:"search_dir"`
	IgnoreDirs []string `json:"ignore_dirs,omitempty"`
	ExportDir  string   `json:"export_dir"`
	LogFile    string   `json:"log_file"`
	LogLevel   string   `json:"log_level,omitempty"`

	Makefile         bool   `json:"makefile"`
	CreatePreamble   bool   `json:"create_preamble"`
	ParseFrontMatter bool   `json:"parse_frontmatter"`
	DocumentClass    string `json:"document_class"`
	// Project writes every included note to its own .tex file
	Project bool `json:"project"`

	MaxFileRecursion  int  `json:"max_file_recursion"`
	MaxQuoteRecursion int  `json:"max_quote_recursion"`
	PassIfNotFound    bool `json:"pass_if_not_found"`
	MergeLists        bool `json:"merge_lists"`

	ParseFiles      bool `json:"parse_files"`
	ParseImages     bool `json:"parse_images"`
	ParseQuotes     bool `json:"parse_quotes"`
	ParseHeadlines  bool `json:"parse_headlines"`
	ParseSplitLines bool `json:"parse_split_lines"`
	ParseCaptions   bool `json:"parse_captions"`

	Numeration       bool `json:"numeration"`
	GlobalLevelAlign bool `json:"global_level_align"`
	CleanHighlight   bool `json:"clean_highlight"`
	CleanNumeration  bool `json:"clean_numeration"`

	ListItemSep        string     `json:"list_itemsep"`
	SplitLineWidth     string     `json:"splitline_width"`
	ImageWidth         string     `json:"image_width"`
	ImageHeight        string     `json:"image_height"`
	ImageAspectBorders [2]float64 `json:"image_aspect_borders"`

	Preamble document.PreambleOptions `json:"preamble"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		SearchDir:  filepath.Join(home, "Obsidian"),
		IgnoreDirs: []string{".trash", ".obsidian", ".plugins", ".smart-env", ".reference-map", "LaTeX"},
		ExportDir:  filepath.Join(home, "Obsidian", "LaTeX"),
		LogFile:    "/tmp/omd2tex.log",
		LogLevel:   "info",

		Makefile:         true,
		CreatePreamble:   true,
		ParseFrontMatter: true,
		DocumentClass:    element.Article,

		MaxFileRecursion:  5,
		MaxQuoteRecursion: 5,
		PassIfNotFound:    true,
		MergeLists:        true,

		ParseFiles:      true,
		ParseImages:     true,
		ParseQuotes:     true,
		ParseHeadlines:  true,
		ParseSplitLines: true,
		ParseCaptions:   true,

		Numeration:       true,
		GlobalLevelAlign: true,
		CleanHighlight:   true,

		ListItemSep:        "0pt",
		SplitLineWidth:     "0.5pt",
		ImageWidth:         "8cm",
		ImageHeight:        "8cm",
		ImageAspectBorders: [2]float64{0.6, 1.8},

		Preamble: document.DefaultPreambleOptions(),
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(xdg.ConfigHome, "omd2tex", "config.json")
	}
	return filepath.Join(home, ".config", "omd2tex", "config.json")
}

// StateFilePath returns the path to the export state file
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.DataHome, "omd2tex", "state.json")
}

// Load reads configuration from the config path. Keys missing from the file keep their
// default values.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the config path
func (c *Config) Save() error {
	configPath := ConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var documentClasses = map[string]bool{
	"article":      true,
	"report":       true,
	"book":         true,
	element.Beamer: true,
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SearchDir == "" {
		return fmt.Errorf("search_dir cannot be empty")
	}
	if c.ExportDir == "" {
		return fmt.Errorf("export_dir cannot be empty")
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file cannot be empty")
	}
	if c.MaxFileRecursion < 0 {
		return fmt.Errorf("max_file_recursion cannot be negative")
	}
	if c.MaxQuoteRecursion < 0 {
		return fmt.Errorf("max_quote_recursion cannot be negative")
	}
	if !documentClasses[c.DocumentClass] {
		return fmt.Errorf("invalid document_class '%s': must be one of: article, report, book, beamer", c.DocumentClass)
	}
	if b := c.ImageAspectBorders; b[0] <= 0 || b[0] >= b[1] {
		return fmt.Errorf("invalid image_aspect_borders %v: need 0 < low < high", b)
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level '%s': %w", c.LogLevel, err)
		}
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.SearchDir, err = expandPath(c.SearchDir)
	if err != nil {
		return fmt.Errorf("failed to expand search_dir: %w", err)
	}

	c.ExportDir, err = expandPath(c.ExportDir)
	if err != nil {
		return fmt.Errorf("failed to expand export_dir: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// Level returns the configured log level, info when unset
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// SearchIgnoreDirs returns the directories the file search skips. The export directory
// is added when it lies inside the search root so generated files are never included.
func (c *Config) SearchIgnoreDirs() []string {
	dirs := append([]string(nil), c.IgnoreDirs...)
	rel, err := filepath.Rel(c.SearchDir, c.ExportDir)
	if err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		dirs = append(dirs, filepath.Base(rel))
	}
	return dirs
}

// ParserOptions converts the configuration into parser options
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		MaxFileRecursion:  c.MaxFileRecursion,
		MaxQuoteRecursion: c.MaxQuoteRecursion,
		PassIfNotFound:    c.PassIfNotFound,
		MergeLists:        c.MergeLists,
		ParseFiles:        c.ParseFiles,
		ParseImages:       c.ParseImages,
		ParseQuotes:       c.ParseQuotes,
		ParseHeadlines:    c.ParseHeadlines,
		ParseSplitLines:   c.ParseSplitLines,
		ParseCaptions:     c.ParseCaptions,
	}
}

// RenderOptions converts the configuration into element rendering options
func (c *Config) RenderOptions() element.Options {
	return element.Options{
		DocumentClass:    c.DocumentClass,
		Numeration:       c.Numeration,
		GlobalLevelAlign: c.GlobalLevelAlign,
		CleanHighlight:   c.CleanHighlight,
		CleanNumeration:  c.CleanNumeration,
		ListItemSep:      c.ListItemSep,
		SplitLineWidth:   c.SplitLineWidth,
		ImageWidth:       c.ImageWidth,
		ImageHeight:      c.ImageHeight,
		AspectBorders:    c.ImageAspectBorders,
	}
}

// DocumentOptions converts the configuration into whole-document render options
func (c *Config) DocumentOptions() document.Options {
	return document.Options{
		Parser:           c.ParserOptions(),
		Render:           c.RenderOptions(),
		Preamble:         c.Preamble,
		ParseFrontMatter: c.ParseFrontMatter,
		CreatePreamble:   c.CreatePreamble,
		Makefile:         c.Makefile,
	}
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
