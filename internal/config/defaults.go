package config

const (
	defaultIndexFilename      = ".snapsort-index.json"
	defaultMaxAttempts        = 3
	defaultRetryBaseMS        = 100
	defaultRetryMaxMS         = 2000
	defaultEpsilonKM          = 1.0
	defaultMinPoints          = 3
	defaultMaxPlaceDistanceKM = 50.0
	defaultGazetteerPath      = "~/.local/share/snapsort/gazetteer.db"
	defaultLogFormat          = "auto"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Organize: Organize{
			IndexFilename: defaultIndexFilename,
		},
		Transfer: Transfer{
			MaxAttempts:      defaultMaxAttempts,
			RetryBaseMS:      defaultRetryBaseMS,
			RetryMaxMS:       defaultRetryMaxMS,
			VerifyAfterWrite: true,
		},
		Cluster: Cluster{
			EpsilonKM:          defaultEpsilonKM,
			MinPoints:          defaultMinPoints,
			MaxPlaceDistanceKM: defaultMaxPlaceDistanceKM,
			GazetteerPath:      defaultGazetteerPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
