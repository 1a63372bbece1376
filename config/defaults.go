package config

const (
	defaultStoragePath     = "~/.local/share/storyboard/storyboard.db"
	defaultSlotKey         = "storyboardData"
	defaultQuotaBytes      = 10 << 20
	defaultLogLevel        = "warn"
	defaultLogFormat       = "console"
	defaultRendererURL     = "http://localhost:3000"
	defaultRendererTimeout = 120
	defaultMarginMM        = 10
	defaultPageFormat      = "a4"
	defaultOrientation     = "portrait"
	defaultImageQuality    = 0.98
	defaultScale           = 2
)

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Storage: Storage{
			Path:       defaultStoragePath,
			SlotKey:    defaultSlotKey,
			QuotaBytes: defaultQuotaBytes,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		PDF: PDF{
			RendererURL:    defaultRendererURL,
			TimeoutSeconds: defaultRendererTimeout,
			MarginMM:       defaultMarginMM,
			Format:         defaultPageFormat,
			Orientation:    defaultOrientation,
			ImageQuality:   defaultImageQuality,
			Scale:          defaultScale,
		},
	}
}
