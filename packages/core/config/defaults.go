package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		OutputDir:     ".",
		CaseName:      "Evidence",
		Version:       "v1",
		Hotkey:        "home",
		Mode:          ModeSingle,
		Displays:      nil,
		Timestamp:     boolPtr(true),
		IncrementStep: 1,
		DeleteImages:  boolPtr(false),
		Workbook:      boolPtr(false),
		HideShell:     boolPtr(false),
		TriggerBurst:  1,
		LogFile:       "shotlog.log",
		ImageHeight:   200,
		WidthSafety:   0.98,
		Overwrite:     boolPtr(false),
		Verbose:       boolPtr(false),
		NoColor:       boolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.OutputDir == defaults.OutputDir &&
		c.CaseName == defaults.CaseName &&
		c.Version == defaults.Version &&
		c.Hotkey == defaults.Hotkey &&
		c.Mode == defaults.Mode &&
		len(c.Displays) == 0 &&
		c.Caption == defaults.Caption &&
		c.GetTimestamp() == defaults.GetTimestamp() &&
		c.IncrementStep == defaults.IncrementStep &&
		c.GetDeleteImages() == defaults.GetDeleteImages() &&
		c.GetWorkbook() == defaults.GetWorkbook() &&
		c.GetHideShell() == defaults.GetHideShell() &&
		c.TriggerDir == defaults.TriggerDir &&
		c.TriggerRate == defaults.TriggerRate &&
		c.Journal == defaults.Journal &&
		c.ImageHeight == defaults.ImageHeight &&
		c.WidthSafety == defaults.WidthSafety
}
