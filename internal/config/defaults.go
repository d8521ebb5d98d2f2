package config

const (
	defaultConfigPath      = "~/.config/subfetch/config.toml"
	projectConfigName      = "subfetch.toml"
	defaultStateDir        = "~/.local/share/subfetch"
	defaultLogDir          = "~/.local/share/subfetch/logs"
	defaultIndexBaseURL    = "http://sub.xmp.sandai.net:8000/subxl"
	defaultIndexUserAgent  = "subfetch/dev"
	defaultIndexTimeout    = 30
	defaultSearchCacheTTL  = 600
	defaultMaxPerVideo     = 0
	defaultFFprobeBinary   = "ffprobe"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	envIndexURL            = "SUBFETCH_INDEX_URL"
	envLogLevel            = "SUBFETCH_LOG_LEVEL"
	maxIndexTimeoutSeconds = 600
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Index: Index{
			BaseURL:         defaultIndexBaseURL,
			UserAgent:       defaultIndexUserAgent,
			TimeoutSeconds:  defaultIndexTimeout,
			CacheTTLSeconds: defaultSearchCacheTTL,
		},
		Subtitles: Subtitles{
			MaxPerVideo: defaultMaxPerVideo,
		},
		Probe: Probe{
			Enabled:       true,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
