package config

const (
	defaultAddonsRoot       = "~/MFS2020 Addons/Airports"
	defaultFeedRoot         = "~/sceneryRSS"
	defaultDestRoot         = "~/MFS2020&2024 Addons/Airports"
	defaultLogDir           = "~/.local/share/simtagger/logs"
	defaultHistoryPath      = "~/.local/share/simtagger/history.db"
	defaultAcceptedTag      = "MSFS 2020/2024"
	defaultSpaceMarginBytes = int64(250) * 1024 * 1024
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AddonsRoot: defaultAddonsRoot,
			FeedRoot:   defaultFeedRoot,
			DestRoot:   defaultDestRoot,
			LogDir:     defaultLogDir,
		},
		Matching: Matching{
			AcceptedTag: defaultAcceptedTag,
		},
		Relocation: Relocation{
			SpaceMarginBytes: defaultSpaceMarginBytes,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
