package config

const (
	defaultDataDir            = "~/.local/share/traitvote"
	defaultOutputDir          = "."
	defaultHistoryFile        = "history.db"
	defaultQuorum             = 3
	defaultNearMissSimilarity = 0.5
	defaultWorkers            = 4
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Panel: Panel{
			Sources: []string{"claude", "gpt5", "gemini", "deepseek", "grok"},
		},
		Proposals: Proposals{
			Quorum:             defaultQuorum,
			NearMissSimilarity: defaultNearMissSimilarity,
		},
		Aggregation: Aggregation{
			Workers: defaultWorkers,
		},
		Paths: Paths{
			DataDir:   defaultDataDir,
			OutputDir: defaultOutputDir,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
