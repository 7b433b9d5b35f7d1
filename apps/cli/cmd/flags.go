package cmd

import (
	"os"
	"strconv"

	"github.com/abdul-hamid-achik/shotlog/packages/core/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configFlag       string
	outputDirFlag    string
	caseFlag         string
	docVersionFlag   string
	hotkeyFlag       string
	modeFlag         string
	displaysFlag     []int
	captionFlag      string
	timestampFlag    bool
	stepFlag         int
	deleteImagesFlag bool
	workbookFlag     bool
	hideShellFlag    bool
	triggerDirFlag   string
	triggerRateFlag  float64
	triggerBurstFlag int
	journalFlag      string
	logFileFlag      string
	imageHeightFlag  int
	overwriteFlag    bool
	verboseFlag      bool
	noColorFlag      bool
	outputFlag       string
	outputFileFlag   string
	noStdinFlag      bool
)

// flagEnv maps session flags to the environment variables they fall back to.
var flagEnv = map[string]string{
	"config":        "SHOTLOG_CONFIG",
	"dir":           "SHOTLOG_DIR",
	"case":          "SHOTLOG_CASE",
	"doc-version":   "SHOTLOG_DOC_VERSION",
	"hotkey":        "SHOTLOG_HOTKEY",
	"mode":          "SHOTLOG_MODE",
	"caption":       "SHOTLOG_CAPTION",
	"timestamp":     "SHOTLOG_TIMESTAMP",
	"step":          "SHOTLOG_STEP",
	"delete-images": "SHOTLOG_DELETE_IMAGES",
	"workbook":      "SHOTLOG_WORKBOOK",
	"hide-taskbar":  "SHOTLOG_HIDE_TASKBAR",
	"trigger-dir":   "SHOTLOG_TRIGGER_DIR",
	"trigger-rate":  "SHOTLOG_TRIGGER_RATE",
	"journal":       "SHOTLOG_JOURNAL",
	"log-file":      "SHOTLOG_LOG_FILE",
	"overwrite":     "SHOTLOG_OVERWRITE",
	"no-color":      "SHOTLOG_NO_COLOR",
	"output":        "SHOTLOG_OUTPUT",
}

func registerSessionFlags(cmd *cobra.Command) {
	defaults := config.DefaultConfig()
	f := cmd.Flags()

	f.StringVar(&configFlag, "config", getEnvString("SHOTLOG_CONFIG", ""), "Path to config file (env: SHOTLOG_CONFIG)")

	// Document flags
	f.StringVarP(&outputDirFlag, "dir", "d", getEnvString("SHOTLOG_DIR", defaults.OutputDir), "Output folder for images and documents (env: SHOTLOG_DIR)")
	f.StringVarP(&caseFlag, "case", "c", getEnvString("SHOTLOG_CASE", defaults.CaseName), "Test case name, used in file names and the heading (env: SHOTLOG_CASE)")
	f.StringVar(&docVersionFlag, "doc-version", getEnvString("SHOTLOG_DOC_VERSION", defaults.Version), "Document version suffix (env: SHOTLOG_DOC_VERSION)")
	f.BoolVar(&overwriteFlag, "overwrite", getEnvBool("SHOTLOG_OVERWRITE", false), "Replace an existing document instead of refusing to start (env: SHOTLOG_OVERWRITE)")
	f.BoolVar(&workbookFlag, "workbook", getEnvBool("SHOTLOG_WORKBOOK", false), "Write an Excel workbook when the session stops (env: SHOTLOG_WORKBOOK)")
	f.IntVar(&imageHeightFlag, "image-height", defaults.ImageHeight, "Workbook image height in pixels")
	f.BoolVar(&deleteImagesFlag, "delete-images", getEnvBool("SHOTLOG_DELETE_IMAGES", false), "Delete image files after the document is saved (env: SHOTLOG_DELETE_IMAGES)")

	// Capture flags
	f.StringVarP(&modeFlag, "mode", "m", getEnvString("SHOTLOG_MODE", defaults.Mode), "Capture mode: single, all, multi (env: SHOTLOG_MODE)")
	f.IntSliceVar(&displaysFlag, "display", nil, "Display index to capture (repeatable; see 'shotlog displays')")
	f.StringVar(&captionFlag, "caption", getEnvString("SHOTLOG_CAPTION", ""), "Caption for captures (env: SHOTLOG_CAPTION)")
	f.BoolVar(&timestampFlag, "timestamp", getEnvBool("SHOTLOG_TIMESTAMP", true), "Add a timestamp to image file names (env: SHOTLOG_TIMESTAMP)")
	f.IntVar(&stepFlag, "step", getEnvInt("SHOTLOG_STEP", defaults.IncrementStep), "Screenshot number increment per capture (env: SHOTLOG_STEP)")
	f.BoolVar(&hideShellFlag, "hide-taskbar", getEnvBool("SHOTLOG_HIDE_TASKBAR", false), "Hide the taskbar while the session runs (env: SHOTLOG_HIDE_TASKBAR)")

	// Trigger flags
	f.StringVar(&hotkeyFlag, "hotkey", getEnvString("SHOTLOG_HOTKEY", defaults.Hotkey), "Word typed on stdin that triggers a capture (env: SHOTLOG_HOTKEY)")
	f.StringVar(&triggerDirFlag, "trigger-dir", getEnvString("SHOTLOG_TRIGGER_DIR", ""), "Capture whenever a file is dropped in this folder (env: SHOTLOG_TRIGGER_DIR)")
	f.Float64Var(&triggerRateFlag, "trigger-rate", getEnvFloat("SHOTLOG_TRIGGER_RATE", 0), "Max captures per second, 0 for unlimited (env: SHOTLOG_TRIGGER_RATE)")
	f.IntVar(&triggerBurstFlag, "trigger-burst", defaults.TriggerBurst, "Captures allowed in a burst when rate limited")
	f.BoolVar(&noStdinFlag, "no-stdin", false, "Do not read commands from stdin")

	// Diagnostics flags
	f.StringVar(&journalFlag, "journal", getEnvString("SHOTLOG_JOURNAL", ""), "SQLite journal of sessions and captures (env: SHOTLOG_JOURNAL)")
	f.StringVar(&logFileFlag, "log-file", getEnvString("SHOTLOG_LOG_FILE", defaults.LogFile), "Diagnostic log file (env: SHOTLOG_LOG_FILE)")
	f.BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output, also logs to stderr")
	f.BoolVar(&noColorFlag, "no-color", getEnvBool("SHOTLOG_NO_COLOR", false), "Disable colored output (env: SHOTLOG_NO_COLOR)")
	f.StringVarP(&outputFlag, "output", "o", getEnvString("SHOTLOG_OUTPUT", "console"), "Output format: console, json (env: SHOTLOG_OUTPUT)")
	f.StringVar(&outputFileFlag, "output-file", "", "Write output to file (default: stdout)")

	registerSessionCompletions(cmd)
}

// flagConfig returns a config holding only the settings given on the
// command line or through the environment, for merging over the file config.
func flagConfig(flags *pflag.FlagSet) *config.Config {
	set := func(name string) bool { return isSet(flags, name) }

	c := &config.Config{}
	if set("dir") {
		c.OutputDir = outputDirFlag
	}
	if set("case") {
		c.CaseName = caseFlag
	}
	if set("doc-version") {
		c.Version = docVersionFlag
	}
	if set("hotkey") {
		c.Hotkey = hotkeyFlag
	}
	if set("mode") {
		c.Mode = modeFlag
	}
	if set("display") {
		c.Displays = displaysFlag
	}
	if set("caption") {
		c.Caption = captionFlag
	}
	if set("step") {
		c.IncrementStep = stepFlag
	}
	if set("trigger-dir") {
		c.TriggerDir = triggerDirFlag
	}
	if set("trigger-rate") {
		c.TriggerRate = triggerRateFlag
	}
	if set("trigger-burst") {
		c.TriggerBurst = triggerBurstFlag
	}
	if set("journal") {
		c.Journal = journalFlag
	}
	if set("log-file") {
		c.LogFile = logFileFlag
	}
	if set("image-height") {
		c.ImageHeight = imageHeightFlag
	}
	if set("timestamp") {
		c.Timestamp = config.BoolPtr(timestampFlag)
	}
	if set("delete-images") {
		c.DeleteImages = config.BoolPtr(deleteImagesFlag)
	}
	if set("workbook") {
		c.Workbook = config.BoolPtr(workbookFlag)
	}
	if set("hide-taskbar") {
		c.HideShell = config.BoolPtr(hideShellFlag)
	}
	if set("overwrite") {
		c.Overwrite = config.BoolPtr(overwriteFlag)
	}
	if set("verbose") {
		c.Verbose = config.BoolPtr(verboseFlag)
	}
	if set("no-color") {
		c.NoColor = config.BoolPtr(noColorFlag)
	}
	return c
}

// isSet reports whether a flag was given explicitly or via its variable.
func isSet(flags *pflag.FlagSet, name string) bool {
	if flags.Changed(name) {
		return true
	}
	if key, ok := flagEnv[name]; ok {
		return os.Getenv(key) != ""
	}
	return false
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
