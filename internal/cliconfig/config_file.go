package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with pointer bools so an absent key leaves the
// current value alone.
type FileConfig struct {
	SourceDir             string `toml:"source_dir"`
	CreateTestFiles       *bool  `toml:"create_test_files"`
	TestFilesDir          string `toml:"test_files_dir"`
	MinFiles              int    `toml:"min_files"`
	MaxFiles              int    `toml:"max_files"`
	MinFileSizeBytes      int64  `toml:"min_file_size_bytes"`
	MaxFileSizeBytes      int64  `toml:"max_file_size_bytes"`
	Seed                  uint64 `toml:"seed"`
	MaxGroupSizeMegabytes int64  `toml:"max_group_size_megabytes"`
	MaxGroupSizeBytes     int64  `toml:"max_group_size_bytes"`
	Method                string `toml:"method"`
	Validate              *bool  `toml:"validate"`
	OutputDir             string `toml:"output_dir"`
	Format                string `toml:"format"`
	SplitGroups           *bool  `toml:"split_groups"`
	Checksum              *bool  `toml:"checksum"`
	SortNames             *bool  `toml:"sort_names"`
	LogFilepath           string `toml:"log_filepath"`
	LogLevel              string `toml:"log_level"`
	Quiet                 *bool  `toml:"quiet"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.packship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".packship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("source-dir", fc.SourceDir, &cfg.SourceDir)
	s.setString("test-files-dir", fc.TestFilesDir, &cfg.TestFilesDir)
	s.setString("method", fc.Method, &cfg.Method)
	s.setString("output-dir", fc.OutputDir, &cfg.OutputDir)
	s.setString("format", fc.Format, &cfg.Format)
	s.setString("log-filepath", fc.LogFilepath, &cfg.LogFilepath)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("min-files", fc.MinFiles, &cfg.MinFiles)
	s.setInt("max-files", fc.MaxFiles, &cfg.MaxFiles)
	s.setInt64("min-file-size-bytes", fc.MinFileSizeBytes, &cfg.MinFileSizeBytes)
	s.setInt64("max-file-size-bytes", fc.MaxFileSizeBytes, &cfg.MaxFileSizeBytes)
	s.setUint64("seed", fc.Seed, &cfg.Seed)

	// A ceiling given on the command line replaces both file keys.
	if !changed["max-group-size-megabytes"] && !changed["max-group-size-bytes"] {
		s.setInt64("max-group-size-megabytes", fc.MaxGroupSizeMegabytes, &cfg.MaxGroupSizeMegabytes)
		s.setInt64("max-group-size-bytes", fc.MaxGroupSizeBytes, &cfg.MaxGroupSizeBytes)
	}

	// Same for the source selection.
	switch {
	case changed["create-test-files"]:
		cfg.SourceDir = ""
	case !changed["source-dir"]:
		s.setBool("create-test-files", fc.CreateTestFiles, &cfg.CreateTestFiles)
	}

	s.setBool("validate", fc.Validate, &cfg.ValidateGroups)
	s.setBool("split-groups", fc.SplitGroups, &cfg.SplitGroups)
	s.setBool("checksum", fc.Checksum, &cfg.Checksum)
	s.setBool("sort-names", fc.SortNames, &cfg.SortNames)
	s.setBool("quiet", fc.Quiet, &cfg.Quiet)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
