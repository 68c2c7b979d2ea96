package config

const (
	defaultConfigPath           = "~/.config/bilingo/config.toml"
	defaultStateDir             = "~/.local/share/bilingo"
	defaultLogDir               = "~/.local/share/bilingo/logs"
	defaultLogRetentionDays     = 30
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultFontName             = "Arial"
	defaultFontSize             = 60
	defaultTextColor            = "white"
	defaultWidth                = 1920
	defaultHeight               = 1080
	defaultBackgroundOpacity    = 0.5
	defaultSentencePause        = 0.5
	defaultSlidePause           = 0.5
	defaultFrameRate            = 24
	defaultSpeed                = 1.0
	defaultTTSTimeoutSeconds    = 30
	defaultFreeTTSBaseURL       = "https://translate.google.com"
	defaultLanguage1            = "English"
	defaultLanguage2            = "French"
	defaultWorkers              = 1
	defaultNotifyTimeoutSeconds = 10
	maxSpeed                    = 4.0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Render: Render{
			FontName:          defaultFontName,
			FontSize:          defaultFontSize,
			TextColor:         defaultTextColor,
			Width:             defaultWidth,
			Height:            defaultHeight,
			BackgroundOpacity: defaultBackgroundOpacity,
		},
		Timing: Timing{
			SentencePause: defaultSentencePause,
			SlidePause:    defaultSlidePause,
			FrameRate:     defaultFrameRate,
		},
		TTS: TTS{
			Provider:       string(ProviderPrimary),
			Speed:          defaultSpeed,
			TimeoutSeconds: defaultTTSTimeoutSeconds,
			BaseURL:        defaultFreeTTSBaseURL,
		},
		Languages: Languages{
			Language1: defaultLanguage1,
			Language2: defaultLanguage2,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Pipeline: Pipeline{
			Workers: defaultWorkers,
		},
		Notify: Notify{
			TimeoutSeconds: defaultNotifyTimeoutSeconds,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			Dir:           defaultLogDir,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
