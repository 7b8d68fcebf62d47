package validation

import (
	"path/filepath"

	"zimage_power/core"
	"zimage_power/styles/presets"
)

// Names of the standard startup checks.
const (
	CheckEnvFile       = "Environment File"
	CheckConfiguration = "Configuration"
	CheckStylePresets  = "Style Presets"
	CheckOutputDir     = "Output Directory"
	CheckDatabaseDir   = "Database Directory"
)

// EnvFileCheck warns when the .env file is missing. Defaults still apply.
func EnvFileCheck(path string) Check {
	return Check{
		Name: CheckEnvFile,
		Run: func() Outcome {
			if err := CheckFileExists(path); err != nil {
				return Warning("Using built-in defaults", core.ErrEnvFileMissing(path))
			}
			return Passed("Found %s", path)
		},
	}
}

// ConfigCheck runs Config.Validate.
func ConfigCheck(cfg *core.Config) Check {
	return Check{
		Name: CheckConfiguration,
		Run: func() Outcome {
			if err := cfg.Validate(); err != nil {
				return Failed("Invalid configuration", err)
			}
			return Passed("Listening on %s", cfg.Address())
		},
	}
}

// StylePresetsCheck loads the style catalog the server will use.
func StylePresetsCheck(cfg *core.Config) Check {
	return Check{
		Name:     CheckStylePresets,
		Requires: []string{CheckConfiguration},
		Run: func() Outcome {
			if cfg.StylesFile == "" {
				catalog, err := presets.Default()
				if err != nil {
					return Failed("Built-in presets are broken", err)
				}
				return Passed("%d built-in styles", len(catalog.AllNames()))
			}
			catalog, err := presets.LoadFile(cfg.StylesFile)
			if err != nil {
				return Failed("Cannot load "+cfg.StylesFile, err)
			}
			return Passed("%d styles from %s", len(catalog.AllNames()), cfg.StylesFile)
		},
	}
}

// WritableDirCheck verifies that dir can be created and written.
func WritableDirCheck(name, envVar, dir string) Check {
	return Check{
		Name:     name,
		Requires: []string{CheckConfiguration},
		Run: func() Outcome {
			if err := CheckWritableDir(dir); err != nil {
				return Failed("Not writable", core.ErrDirectoryNotUsable(envVar, dir, err.Error()))
			}
			return Passed("%s", dir)
		},
	}
}

// StartupChecks returns the checks main runs before serving.
func StartupChecks(cfg *core.Config, envPath string) []Check {
	return []Check{
		EnvFileCheck(envPath),
		ConfigCheck(cfg),
		StylePresetsCheck(cfg),
		WritableDirCheck(CheckOutputDir, core.EnvOutputDir, cfg.OutputDir),
		WritableDirCheck(CheckDatabaseDir, core.EnvDBPath, filepath.Dir(cfg.DBPath)),
	}
}
