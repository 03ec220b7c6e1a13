package cliconfig

import "os"

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "PACKSHIP_"

func getenv(name string) string {
	return os.Getenv(EnvPrefix + name)
}

// ApplyEnvConfig applies configuration from environment variables (PACKSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	// An env source or ceiling replaces whatever the config file chose.
	if !changed["source-dir"] && !changed["create-test-files"] {
		if getenv("SOURCE_DIR") != "" {
			cfg.CreateTestFiles = false
		}
		if v := getenv("CREATE_TEST_FILES"); v == "true" || v == "1" {
			cfg.SourceDir = ""
		}
	}
	if !changed["max-group-size-megabytes"] && !changed["max-group-size-bytes"] {
		if getenv("MAX_GROUP_SIZE_MEGABYTES") != "" || getenv("MAX_GROUP_SIZE_BYTES") != "" {
			cfg.MaxGroupSizeMegabytes = 0
			cfg.MaxGroupSizeBytes = 0
		}
	}

	s.setString("source-dir", getenv("SOURCE_DIR"), &cfg.SourceDir)
	s.setString("test-files-dir", getenv("TEST_FILES_DIR"), &cfg.TestFilesDir)
	s.setString("method", getenv("METHOD"), &cfg.Method)
	s.setString("output-dir", getenv("OUTPUT_DIR"), &cfg.OutputDir)
	s.setString("format", getenv("FORMAT"), &cfg.Format)
	s.setString("log-filepath", getenv("LOG_FILEPATH"), &cfg.LogFilepath)
	s.setString("log-level", getenv("LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("min-files", getenv("MIN_FILES"), &cfg.MinFiles); err != nil {
		return err
	}
	if err := s.setIntFromString("max-files", getenv("MAX_FILES"), &cfg.MaxFiles); err != nil {
		return err
	}
	if err := s.setInt64FromString("min-file-size-bytes", getenv("MIN_FILE_SIZE_BYTES"), &cfg.MinFileSizeBytes); err != nil {
		return err
	}
	if err := s.setInt64FromString("max-file-size-bytes", getenv("MAX_FILE_SIZE_BYTES"), &cfg.MaxFileSizeBytes); err != nil {
		return err
	}
	if err := s.setUint64FromString("seed", getenv("SEED"), &cfg.Seed); err != nil {
		return err
	}
	if !changed["max-group-size-bytes"] {
		if err := s.setInt64FromString("max-group-size-megabytes", getenv("MAX_GROUP_SIZE_MEGABYTES"), &cfg.MaxGroupSizeMegabytes); err != nil {
			return err
		}
	}
	if !changed["max-group-size-megabytes"] {
		if err := s.setInt64FromString("max-group-size-bytes", getenv("MAX_GROUP_SIZE_BYTES"), &cfg.MaxGroupSizeBytes); err != nil {
			return err
		}
	}

	if !changed["source-dir"] {
		s.setBoolFromString("create-test-files", getenv("CREATE_TEST_FILES"), &cfg.CreateTestFiles)
	}
	s.setBoolFromString("validate", getenv("VALIDATE"), &cfg.ValidateGroups)
	s.setBoolFromString("split-groups", getenv("SPLIT_GROUPS"), &cfg.SplitGroups)
	s.setBoolFromString("checksum", getenv("CHECKSUM"), &cfg.Checksum)
	s.setBoolFromString("sort-names", getenv("SORT_NAMES"), &cfg.SortNames)
	s.setBoolFromString("quiet", getenv("QUIET"), &cfg.Quiet)

	return nil
}
