package config

const (
	defaultLedgerDir = "~/.local/share/subsample"
	defaultLogDir    = "~/.local/share/subsample/logs"
	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	// DefaultSeed matches the tool's historical fixed seed so unconfigured
	// runs stay reproducible.
	DefaultSeed = 42
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LedgerDir: defaultLedgerDir,
			LogDir:    defaultLogDir,
		},
		Sampling: Sampling{
			DefaultSeed: DefaultSeed,
		},
		Materialize: Materialize{
			CheckFreeSpace: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
