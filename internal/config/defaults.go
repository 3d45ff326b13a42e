package config

const (
	defaultConfigPath   = "~/.config/diareval/config.toml"
	defaultOutputDir    = "~/.local/share/diareval/reports"
	defaultLogDir       = "~/.local/share/diareval/logs"
	defaultChunkSeconds = 10.0
	defaultWorkers      = 4
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Values accepted by evaluation.missing_hypothesis.
const (
	MissingHypothesisSkip  = "skip"
	MissingHypothesisEmpty = "empty"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Evaluation: Evaluation{
			Normalize:         true,
			ChunkSeconds:      defaultChunkSeconds,
			Workers:           defaultWorkers,
			MissingHypothesis: MissingHypothesisSkip,
		},
		// Level stays empty so DIAREVAL_LOG_LEVEL can fill it during normalize.
		Logging: Logging{
			Format: defaultLogFormat,
		},
	}
}
