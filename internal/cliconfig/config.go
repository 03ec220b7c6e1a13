package cliconfig

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bft-labs/packship/internal/app"
	"github.com/bft-labs/packship/internal/domain"
	"github.com/bft-labs/packship/internal/group"
	"github.com/bft-labs/packship/internal/manifest"
	"github.com/bft-labs/packship/internal/scan"
	"github.com/bft-labs/packship/internal/testgen"
	"github.com/bft-labs/packship/pkg/log"
)

// DefaultOutputDir is where manifests go when no output dir is configured.
const DefaultOutputDir = "groups"

// Config holds CLI configuration for packship.
type Config struct {
	SourceDir       string
	CreateTestFiles bool
	TestFilesDir    string

	MinFiles         int
	MaxFiles         int
	MinFileSizeBytes int64
	MaxFileSizeBytes int64
	Seed             uint64

	// Exactly one of MaxGroupSizeMegabytes and MaxGroupSizeBytes is set by
	// the user; Validate derives MaxGroupSizeBytes from megabytes.
	MaxGroupSizeMegabytes int64
	MaxGroupSizeBytes     int64

	Method         string
	ValidateGroups bool

	OutputDir   string
	Format      string
	SplitGroups bool
	Checksum    bool
	SortNames   bool

	LogFilepath string
	LogLevel    string
	Quiet       bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		MinFiles:         testgen.DefaultMinFiles,
		MaxFiles:         testgen.DefaultMaxFiles,
		MinFileSizeBytes: testgen.DefaultMinFileSizeBytes,
		MaxFileSizeBytes: testgen.DefaultMaxFileSizeBytes,
		Method:           domain.MethodCompact.String(),
		OutputDir:        DefaultOutputDir,
		Format:           manifest.FormatJSON,
		LogLevel:         zerolog.LevelInfoValue,
	}
}

func invalid(field, format string, args ...interface{}) error {
	return &domain.InvalidConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the configuration for errors and sets derived defaults.
// Calling it again on a validated Config is a no-op.
func (c *Config) Validate() error {
	switch {
	case c.SourceDir != "" && c.CreateTestFiles:
		return invalid("source", "--source-dir and --create-test-files are mutually exclusive")
	case c.SourceDir == "" && !c.CreateTestFiles:
		return invalid("source", "one of --source-dir or --create-test-files is required")
	}

	if err := c.validateCeiling(); err != nil {
		return err
	}

	if c.Method == "" {
		c.Method = domain.MethodCompact.String()
	}
	m, err := domain.ParseMethod(c.Method)
	if err != nil {
		return err
	}
	c.Method = m.String()

	format, err := manifest.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	c.Format = format

	if c.CreateTestFiles {
		if err := c.GenerateOptions(nil).Validate(); err != nil {
			return err
		}
	}

	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.SourceDir != "" && samePath(c.SourceDir, c.OutputDir) {
		return invalid("output dir", "must differ from the source dir %q", c.SourceDir)
	}
	if c.TestFilesDir != "" && samePath(c.TestFilesDir, c.OutputDir) {
		return invalid("output dir", "must differ from the test files dir %q", c.TestFilesDir)
	}

	if c.LogLevel == "" {
		c.LogLevel = zerolog.LevelInfoValue
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return invalid("log level", "%v", err)
	}

	return nil
}

func (c *Config) validateCeiling() error {
	if c.MaxGroupSizeMegabytes < 0 {
		return invalid("max group size", "megabytes must not be negative")
	}
	if c.MaxGroupSizeBytes < 0 {
		return invalid("max group size", "bytes must not be negative")
	}
	if c.MaxGroupSizeMegabytes > math.MaxInt64/testgen.BytesInMB {
		return invalid("max group size", "%d megabytes overflows", c.MaxGroupSizeMegabytes)
	}

	if c.MaxGroupSizeMegabytes > 0 {
		derived := c.MaxGroupSizeMegabytes * testgen.BytesInMB
		if c.MaxGroupSizeBytes > 0 && c.MaxGroupSizeBytes != derived {
			return invalid("max group size", "--max-group-size-megabytes and --max-group-size-bytes are mutually exclusive")
		}
		c.MaxGroupSizeBytes = derived
	}
	if c.MaxGroupSizeBytes == 0 {
		return invalid("max group size", "one of --max-group-size-megabytes or --max-group-size-bytes is required")
	}
	return nil
}

// ValidateWatch checks the extra requirements of watch mode.
func (c *Config) ValidateWatch() error {
	if c.CreateTestFiles || c.SourceDir == "" {
		return invalid("source", "watch mode requires --source-dir")
	}
	return nil
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}

// GroupConfig returns the grouping settings.
func (c Config) GroupConfig(logger log.Logger) group.Config {
	return group.Config{
		MaxGroupSizeBytes: c.MaxGroupSizeBytes,
		Method:            domain.Method(c.Method),
		Logger:            logger,
	}
}

// ScanOptions returns the scanner settings.
func (c Config) ScanOptions(logger log.Logger) scan.Options {
	return scan.Options{
		Checksum:  c.Checksum,
		SortNames: c.SortNames,
		Logger:    logger,
	}
}

// GenerateOptions returns the test file generator settings.
func (c Config) GenerateOptions(logger log.Logger) testgen.Options {
	return testgen.Options{
		Dir:              c.TestFilesDir,
		MinFiles:         c.MinFiles,
		MaxFiles:         c.MaxFiles,
		MinFileSizeBytes: c.MinFileSizeBytes,
		MaxFileSizeBytes: c.MaxFileSizeBytes,
		Seed:             c.Seed,
		Logger:           logger,
	}
}

// ManifestOptions returns the manifest store settings.
func (c Config) ManifestOptions(logger log.Logger) manifest.Options {
	return manifest.Options{
		Format:      c.Format,
		SplitGroups: c.SplitGroups,
		Logger:      logger,
	}
}

// RunConfig returns the settings of one run.
func (c Config) RunConfig(logger log.Logger) app.Config {
	return app.Config{
		SourceDir:       c.SourceDir,
		CreateTestFiles: c.CreateTestFiles,
		Generate:        c.GenerateOptions(logger),
		Scan:            c.ScanOptions(logger),
		Group:           c.GroupConfig(logger),
		Validate:        c.ValidateGroups,
		OutputDir:       c.OutputDir,
		Manifest:        c.ManifestOptions(logger),
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt64 sets an int64 value if positive and flag not changed.
func (s *configSetter) setInt64(flag string, value int64, dst *int64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setUint64 sets a uint64 value if non-zero and flag not changed.
func (s *configSetter) setUint64(flag string, value uint64, dst *uint64) {
	if value == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setInt64FromString parses a string to int64 and sets the destination if valid.
func (s *configSetter) setInt64FromString(flag, value string, dst *int64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setUint64FromString parses a string to uint64 and sets the destination if valid.
func (s *configSetter) setUint64FromString(flag, value string, dst *uint64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if u == 0 {
		return nil
	}
	*dst = u
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
