// Package cli holds the driver-facing plumbing shared by cmd/novac: version
// reporting, a minimal structured logger, on-disk config loading, and
// terminal detection for colorized diagnostics.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Version information for the novac binary.
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-03"
	CommitSHA = "unknown" // set via -ldflags at release build time
)

// VersionInfo contains version and build information.
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	CommitSHA string `json:"commit_sha"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// GetVersionInfo returns structured version information.
func GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version:   Version,
		BuildDate: BuildDate,
		CommitSHA: CommitSHA,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// PrintVersion prints version information in a consistent format.
func PrintVersion(jsonOutput bool) {
	info := GetVersionInfo()

	if jsonOutput {
		data, err := json.MarshalIndent(info, "", "  ")
		if err == nil {
			fmt.Println(string(data))
			return
		}
		fmt.Fprintf(os.Stderr, "Error: failed to marshal version info to JSON: %v\n", err)
	}

	fmt.Printf("novac v%s\n", info.Version)
	fmt.Printf("Build Date: %s\n", info.BuildDate)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		fmt.Printf("Commit: %s\n", info.CommitSHA)
	}
	fmt.Printf("Go Version: %s\n", info.GoVersion)
	fmt.Printf("Platform: %s/%s\n", info.Platform, info.Arch)
}

// CheckMinimumVersion reports an error if the running novac's own version
// does not satisfy constraint (e.g. "--require-version >=0.1.0" in a build
// script that wants to fail fast against a stale toolchain rather than
// produce IR the rest of the pipeline cannot consume).
func CheckMinimumVersion(constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(Version)
	if err != nil {
		return fmt.Errorf("invalid novac version %q: %w", Version, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("novac %s does not satisfy required version %q", Version, constraint)
	}
	return nil
}

// ExitWithError prints an error message and exits with code 1.
func ExitWithError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// Logger provides structured logging for the driver. When Color is true
// (set once at startup from IsTerminal(os.Stderr.Fd())) level prefixes are
// ANSI-colored; piped output never is.
type Logger struct {
	Verbose   bool
	DebugMode bool
	Color     bool
}

// NewLogger creates a new logger instance.
func NewLogger(verbose, debug bool) *Logger {
	return &Logger{
		Verbose:   verbose,
		DebugMode: debug,
		Color:     IsTerminal(os.Stderr.Fd()),
	}
}

func (l *Logger) tag(level, color string) string {
	if !l.Color {
		return "[" + level + "]"
	}
	return color + "[" + level + "]\x1b[0m"
}

// Info logs an info message; suppressed unless Verbose is set.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.Verbose {
		fmt.Fprintf(os.Stderr, "%s %s: %s\n", l.tag("INFO", "\x1b[36m"), time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	}
}

// Debug logs a debug message; suppressed unless DebugMode is set.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.DebugMode {
		fmt.Fprintf(os.Stderr, "%s %s: %s\n", l.tag("DEBUG", "\x1b[90m"), time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	}
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", l.tag("WARN", "\x1b[33m"), fmt.Sprintf(format, args...))
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", l.tag("ERROR", "\x1b[31m"), fmt.Sprintf(format, args...))
}

// Config represents on-disk driver configuration, merged with whatever
// flags the user passes on the command line.
type Config struct {
	Verbose     bool     `json:"verbose"`
	Debug       bool     `json:"debug"`
	IncludeDirs []string `json:"include_dirs"`
	Defines     []string `json:"defines"`
	WorkDir     string   `json:"work_dir"`
}

// LoadConfig loads configuration from file, returning defaults if
// configPath is empty or the file does not exist.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{WorkDir: "."}

	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// HandleError logs err (if non-nil) through logger and exits with code 1.
func HandleError(err error, logger *Logger) {
	if err == nil {
		return
	}
	if logger != nil {
		logger.Error("%v", err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
