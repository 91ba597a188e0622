package config

const (
	defaultStagingDir        = "~/.local/share/albumreel/staging"
	defaultOutputDir         = "~/albumreel"
	defaultLogDir            = "~/.local/share/albumreel/logs"
	defaultImmichTimeout     = 60
	defaultWidth             = 1920
	defaultHeight            = 1080
	defaultFPS               = 30
	defaultImageDuration     = 6.0
	defaultCrossfadeDuration = 1.5
	defaultFadeDuration      = 2.0
	defaultBatchSize         = 20
	defaultZoomFactor        = 1.08
	defaultVideoCodec        = "libx264"
	defaultVideoCRF          = 20
	defaultVideoPreset       = "medium"
	defaultPixelFormat       = "yuv420p"
	defaultAudioCodec        = "aac"
	defaultAudioBitrate      = "192k"
	defaultAudioCrossfade    = 4.0
	defaultAudioFadeIn       = 2.0
	defaultAudioFadeOut      = 5.0
	defaultNotifyTimeout     = 10
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
		},
		Immich: Immich{
			RequestTimeout: defaultImmichTimeout,
		},
		Slideshow: Slideshow{
			Width:             defaultWidth,
			Height:            defaultHeight,
			FPS:               defaultFPS,
			ImageDuration:     defaultImageDuration,
			CrossfadeDuration: defaultCrossfadeDuration,
			FadeDuration:      defaultFadeDuration,
			BatchSize:         defaultBatchSize,
			ZoomEnabled:       true,
			ZoomFactor:        defaultZoomFactor,
			Codec:             defaultVideoCodec,
			CRF:               defaultVideoCRF,
			Preset:            defaultVideoPreset,
			PixelFormat:       defaultPixelFormat,
		},
		Audio: Audio{
			Codec:             defaultAudioCodec,
			Bitrate:           defaultAudioBitrate,
			CrossfadeDuration: defaultAudioCrossfade,
			FadeIn:            defaultAudioFadeIn,
			FadeOut:           defaultAudioFadeOut,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
