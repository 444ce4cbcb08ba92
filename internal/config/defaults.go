package config

const (
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultStateDir         = "~/.local/share/vjoin"
	defaultLogDir           = "~/.local/share/vjoin/logs"
	defaultPlaceholderSlots = 3
	defaultInsertPolicy     = "placeholder-fill"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	maxPlaceholderSlots     = 64
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Join: Join{
			PlaceholderSlots: defaultPlaceholderSlots,
			InsertPolicy:     defaultInsertPolicy,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
