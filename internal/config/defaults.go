package config

const (
	defaultWorkDir             = "~/.local/share/scenesync"
	defaultLogDir              = "~/.local/share/scenesync/logs"
	defaultSimilarityThreshold = 85
	defaultCoarseFloor         = 40
	defaultCoarseMargin        = 15
	defaultSearchPad           = 20
	defaultBackend             = "faster-whisper"
	defaultModel               = "base"
	defaultDevice              = "cpu"
	defaultComputeType         = "int8"
	defaultTimeoutSeconds      = 1800
	defaultFPS                 = 30
	defaultWidth               = 1920
	defaultHeight              = 1080
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Matching: Matching{
			SimilarityThreshold: defaultSimilarityThreshold,
			CoarseFloor:         defaultCoarseFloor,
			CoarseMargin:        defaultCoarseMargin,
			SearchPad:           defaultSearchPad,
		},
		Transcriber: Transcriber{
			Backend:        defaultBackend,
			Model:          defaultModel,
			Device:         defaultDevice,
			ComputeType:    defaultComputeType,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Video: Video{
			FPS:    defaultFPS,
			Width:  defaultWidth,
			Height: defaultHeight,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
