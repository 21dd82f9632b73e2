package config

const (
	defaultDataDir             = "~/.local/share/recovr/data"
	defaultLogDir              = "~/.local/share/recovr/logs"
	defaultTempDir             = "~/.local/share/recovr/tmp"
	defaultPythonBinary        = "python3"
	defaultMatcherScript       = "../matching-service/image_matcher_api.py"
	defaultMinMatchCountItem   = 10
	defaultMinMatchCountSearch = 1
	defaultThreshold           = 0.7
	defaultThresholdCap        = 0.6
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

func defaultUploadDirs() []string {
	return []string{
		"../public/uploads",
		"uploads",
		"../uploads",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			TempDir:    defaultTempDir,
			UploadDirs: defaultUploadDirs(),
		},
		Matcher: Matcher{
			PythonBinary: defaultPythonBinary,
			ScriptPath:   defaultMatcherScript,
		},
		Matching: Matching{
			MinMatchCountItem:   defaultMinMatchCountItem,
			MinMatchCountSearch: defaultMinMatchCountSearch,
			DefaultThreshold:    defaultThreshold,
			ThresholdCap:        defaultThresholdCap,
		},
		Notifications: Notifications{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
