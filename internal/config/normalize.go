package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeImmich()
	c.normalizeSlideshow()
	c.normalizeAudio()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeImmich() {
	c.Immich.URL = strings.TrimRight(strings.TrimSpace(c.Immich.URL), "/")
	c.Immich.APIKey = strings.TrimSpace(c.Immich.APIKey)
	if c.Immich.APIKey == "" {
		if value, ok := os.LookupEnv("IMMICH_API_KEY"); ok {
			c.Immich.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Immich.URL == "" {
		if value, ok := os.LookupEnv("IMMICH_URL"); ok {
			c.Immich.URL = strings.TrimRight(strings.TrimSpace(value), "/")
		}
	}
	if c.Immich.RequestTimeout <= 0 {
		c.Immich.RequestTimeout = defaultImmichTimeout
	}
}

func (c *Config) normalizeSlideshow() {
	if c.Slideshow.Codec == "" {
		c.Slideshow.Codec = defaultVideoCodec
	}
	if c.Slideshow.Preset == "" {
		c.Slideshow.Preset = defaultVideoPreset
	}
	if c.Slideshow.PixelFormat == "" {
		c.Slideshow.PixelFormat = defaultPixelFormat
	}
	if c.Slideshow.CRF <= 0 {
		c.Slideshow.CRF = defaultVideoCRF
	}
	if c.Slideshow.FPS <= 0 {
		c.Slideshow.FPS = defaultFPS
	}
	if c.Slideshow.BatchSize <= 0 {
		c.Slideshow.BatchSize = defaultBatchSize
	}
	if c.Slideshow.ZoomFactor <= 1 {
		c.Slideshow.ZoomFactor = defaultZoomFactor
	}
}

func (c *Config) normalizeAudio() {
	c.Audio.Codec = strings.TrimSpace(c.Audio.Codec)
	if c.Audio.Codec == "" {
		c.Audio.Codec = defaultAudioCodec
	}
	c.Audio.Bitrate = strings.TrimSpace(c.Audio.Bitrate)
	if c.Audio.Bitrate == "" {
		c.Audio.Bitrate = defaultAudioBitrate
	}
	if c.Audio.CrossfadeDuration < 0 {
		c.Audio.CrossfadeDuration = 0
	}
	if c.Audio.FadeIn < 0 {
		c.Audio.FadeIn = 0
	}
	if c.Audio.FadeOut < 0 {
		c.Audio.FadeOut = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
