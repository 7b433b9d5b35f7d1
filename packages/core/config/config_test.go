package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsDefault())
	assert.Equal(t, "Evidence_v1.docx", cfg.DocumentName())
	assert.Equal(t, "Evidence_v1.xlsx", cfg.WorkbookName())
	assert.True(t, cfg.GetTimestamp())
	assert.False(t, cfg.GetWorkbook())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{
			name:    "empty hotkey",
			modify:  func(c *Config) { c.Hotkey = "  " },
			wantErr: "hotkey must not be empty",
		},
		{
			name:    "unknown mode",
			modify:  func(c *Config) { c.Mode = "panorama" },
			wantErr: `unknown mode "panorama"`,
		},
		{
			name:    "zero increment",
			modify:  func(c *Config) { c.IncrementStep = 0 },
			wantErr: "increment step must be at least 1",
		},
		{
			name:    "bad case name",
			modify:  func(c *Config) { c.CaseName = "a/b" },
			wantErr: "case name",
		},
		{
			name:    "negative display",
			modify:  func(c *Config) { c.Displays = []int{0, -1} },
			wantErr: "display index -1 is negative",
		},
		{
			name:    "width safety out of range",
			modify:  func(c *Config) { c.WidthSafety = 1.5 },
			wantErr: "width safety",
		},
		{
			name:   "multi mode with displays",
			modify: func(c *Config) { c.Mode = ModeMulti; c.Displays = []int{2, 0} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".shotlog.yaml")
	content := `caseName: Login
version: v2
mode: multi
displays: [2, 0]
workbook: true
incrementStep: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "Login", cfg.CaseName)
	assert.Equal(t, "v2", cfg.Version)
	assert.Equal(t, ModeMulti, cfg.Mode)
	assert.Equal(t, []int{2, 0}, cfg.Displays)
	assert.True(t, cfg.GetWorkbook())
	assert.Equal(t, 5, cfg.IncrementStep)
	// Unset fields keep their defaults.
	assert.Equal(t, "home", cfg.Hotkey)
	assert.Equal(t, 200, cfg.ImageHeight)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shotlog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hotkey": "f9", "deleteImages": true}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "f9", cfg.Hotkey)
	assert.True(t, cfg.GetDeleteImages())
}

func TestLoadConfig_SchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown key", "c.yaml", "hotkeys: home\n"},
		{"bad mode", "c.yaml", "mode: panorama\n"},
		{"wrong type", "c.json", `{"incrementStep": "two"}`},
		{"zero step", "c.json", `{"incrementStep": 0}`},
		{"invalid yaml", "c.yaml", "mode: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestFindAndLoadConfig_NoFile(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.IsDefault())
}

func TestConfig_Merge(t *testing.T) {
	base := DefaultConfig()
	base.Displays = []int{1}

	merged := base.Merge(&Config{
		CaseName:  "Checkout",
		Workbook:  BoolPtr(true),
		Timestamp: BoolPtr(false),
		Displays:  []int{0, 2},
	})

	assert.Equal(t, "Checkout", merged.CaseName)
	assert.Equal(t, "v1", merged.Version)
	assert.True(t, merged.GetWorkbook())
	assert.False(t, merged.GetTimestamp())
	assert.Equal(t, []int{0, 2}, merged.Displays)
	// The receiver is untouched.
	assert.Equal(t, "Evidence", base.CaseName)
	assert.True(t, base.GetTimestamp())

	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"shotlog.yaml", "shotlog.json"} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CaseName = "Payments"
			cfg.Mode = ModeAll

			path := filepath.Join(dir, name)
			require.NoError(t, cfg.SaveConfig(path))

			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, "Payments", loaded.CaseName)
			assert.Equal(t, ModeAll, loaded.Mode)
		})
	}
}
