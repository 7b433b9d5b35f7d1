package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Capture modes.
const (
	ModeSingle = "single"
	ModeAll    = "all"
	ModeMulti  = "multi"
)

//go:embed schema.json
var schemaJSON []byte

// Config represents the shotlog configuration
type Config struct {
	OutputDir     string  `json:"outputDir,omitempty" yaml:"outputDir,omitempty"`
	CaseName      string  `json:"caseName,omitempty" yaml:"caseName,omitempty"`
	Version       string  `json:"version,omitempty" yaml:"version,omitempty"`
	Hotkey        string  `json:"hotkey,omitempty" yaml:"hotkey,omitempty"`
	Mode          string  `json:"mode,omitempty" yaml:"mode,omitempty"`
	Displays      []int   `json:"displays,omitempty" yaml:"displays,omitempty"` // Monitor indices for multi mode, 0-based
	Caption       string  `json:"caption,omitempty" yaml:"caption,omitempty"`
	Timestamp     *bool   `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	IncrementStep int     `json:"incrementStep,omitempty" yaml:"incrementStep,omitempty"`
	DeleteImages  *bool   `json:"deleteImages,omitempty" yaml:"deleteImages,omitempty"`
	Workbook      *bool   `json:"workbook,omitempty" yaml:"workbook,omitempty"`
	HideShell     *bool   `json:"hideShell,omitempty" yaml:"hideShell,omitempty"`
	TriggerDir    string  `json:"triggerDir,omitempty" yaml:"triggerDir,omitempty"`     // Directory watched for trigger files
	TriggerRate   float64 `json:"triggerRate,omitempty" yaml:"triggerRate,omitempty"`   // Max captures per second, 0 = unlimited
	TriggerBurst  int     `json:"triggerBurst,omitempty" yaml:"triggerBurst,omitempty"`
	Journal       string  `json:"journal,omitempty" yaml:"journal,omitempty"`           // SQLite journal path
	LogFile       string  `json:"logFile,omitempty" yaml:"logFile,omitempty"`
	ImageHeight   int     `json:"imageHeight,omitempty" yaml:"imageHeight,omitempty"`   // Workbook image height in pixels
	WidthSafety   float64 `json:"widthSafety,omitempty" yaml:"widthSafety,omitempty"`
	Overwrite     *bool   `json:"overwrite,omitempty" yaml:"overwrite,omitempty"`
	Verbose       *bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor       *bool   `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// boolPtr returns a pointer to a bool value
func boolPtr(b bool) *bool {
	return &b
}

// BoolPtr is exported version of boolPtr for external use
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetTimestamp returns whether image names carry a timestamp, defaulting to true
func (c *Config) GetTimestamp() bool {
	return getBool(c.Timestamp, true)
}

// GetDeleteImages returns whether source images are deleted at stop, defaulting to false
func (c *Config) GetDeleteImages() bool {
	return getBool(c.DeleteImages, false)
}

// GetWorkbook returns whether a workbook is emitted at stop, defaulting to false
func (c *Config) GetWorkbook() bool {
	return getBool(c.Workbook, false)
}

// GetHideShell returns whether the taskbar is hidden while capturing, defaulting to false
func (c *Config) GetHideShell() bool {
	return getBool(c.HideShell, false)
}

// GetOverwrite returns whether an existing document may be replaced, defaulting to false
func (c *Config) GetOverwrite() bool {
	return getBool(c.Overwrite, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// DocumentName returns the evidence document file name.
func (c *Config) DocumentName() string {
	return fmt.Sprintf("%s_%s.docx", c.CaseName, c.Version)
}

// WorkbookName returns the companion workbook file name.
func (c *Config) WorkbookName() string {
	return fmt.Sprintf("%s_%s.xlsx", c.CaseName, c.Version)
}

// Validate checks semantic rules that the schema cannot express.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Hotkey) == "" {
		problems = append(problems, "hotkey must not be empty")
	}
	if strings.TrimSpace(c.CaseName) == "" {
		problems = append(problems, "case name must not be empty")
	}
	if strings.ContainsAny(c.CaseName, `\/:*?"<>|`) {
		problems = append(problems, fmt.Sprintf("case name %q contains characters not allowed in file names", c.CaseName))
	}
	if strings.ContainsAny(c.Version, `\/:*?"<>|`) {
		problems = append(problems, fmt.Sprintf("version %q contains characters not allowed in file names", c.Version))
	}
	switch c.Mode {
	case ModeSingle, ModeAll, ModeMulti:
	default:
		problems = append(problems, fmt.Sprintf("unknown mode %q (want single, all or multi)", c.Mode))
	}
	if c.IncrementStep < 1 {
		problems = append(problems, "increment step must be at least 1")
	}
	for _, d := range c.Displays {
		if d < 0 {
			problems = append(problems, fmt.Sprintf("display index %d is negative", d))
		}
	}
	if c.WidthSafety <= 0 || c.WidthSafety > 1 {
		problems = append(problems, "width safety must be in (0, 1]")
	}
	if c.TriggerRate < 0 {
		problems = append(problems, "trigger rate must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".shotlog.yaml",
	"shotlog.yaml",
	".shotlog.yml",
	".shotlog.json",
	"shotlog.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	jsonData, err := toJSON(path, data)
	if err != nil {
		return nil, err
	}
	if err := ValidateSchema(jsonData); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(jsonData, config); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}

// toJSON normalises YAML config files to JSON so one schema serves both.
func toJSON(path string, data []byte) ([]byte, error) {
	if !isYAML(path) {
		return data, nil
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: invalid YAML: %w", path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return json.Marshal(doc)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ValidateSchema checks a JSON config document against the embedded schema.
func ValidateSchema(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(errs, "; "))
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.OutputDir != "" {
		result.OutputDir = other.OutputDir
	}
	if other.CaseName != "" {
		result.CaseName = other.CaseName
	}
	if other.Version != "" {
		result.Version = other.Version
	}
	if other.Hotkey != "" {
		result.Hotkey = other.Hotkey
	}
	if other.Mode != "" {
		result.Mode = other.Mode
	}
	if other.Caption != "" {
		result.Caption = other.Caption
	}
	if other.IncrementStep > 0 {
		result.IncrementStep = other.IncrementStep
	}
	if other.TriggerDir != "" {
		result.TriggerDir = other.TriggerDir
	}
	if other.TriggerRate > 0 {
		result.TriggerRate = other.TriggerRate
	}
	if other.TriggerBurst > 0 {
		result.TriggerBurst = other.TriggerBurst
	}
	if other.Journal != "" {
		result.Journal = other.Journal
	}
	if other.LogFile != "" {
		result.LogFile = other.LogFile
	}
	if other.ImageHeight > 0 {
		result.ImageHeight = other.ImageHeight
	}
	if other.WidthSafety > 0 {
		result.WidthSafety = other.WidthSafety
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Timestamp != nil {
		result.Timestamp = other.Timestamp
	}
	if other.DeleteImages != nil {
		result.DeleteImages = other.DeleteImages
	}
	if other.Workbook != nil {
		result.Workbook = other.Workbook
	}
	if other.HideShell != nil {
		result.HideShell = other.HideShell
	}
	if other.Overwrite != nil {
		result.Overwrite = other.Overwrite
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Displays) > 0 {
		result.Displays = append([]int(nil), other.Displays...)
	}

	return &result
}

// SaveConfig saves the configuration to a file, as YAML or JSON by extension
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
