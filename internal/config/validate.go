package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateImmich(); err != nil {
		return err
	}
	if err := c.validateSlideshow(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateImmich() error {
	if c.Immich.URL == "" {
		// Commands that never touch the server validate lazily; an empty URL
		// only fails when the client is constructed.
		return nil
	}
	parsed, err := url.Parse(c.Immich.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("immich.url %q is not a valid URL", c.Immich.URL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("immich.url must use http or https, got %q", parsed.Scheme)
	}
	return nil
}

func (c *Config) validateSlideshow() error {
	s := c.Slideshow
	if s.Width <= 0 || s.Height <= 0 {
		return errors.New("slideshow.width and slideshow.height must be positive")
	}
	if s.Width%2 != 0 || s.Height%2 != 0 {
		return errors.New("slideshow.width and slideshow.height must be even")
	}
	if s.ImageDuration <= 0 {
		return errors.New("slideshow.image_duration must be positive")
	}
	if s.CrossfadeDuration < 0 {
		return errors.New("slideshow.crossfade_duration must be >= 0")
	}
	if s.CrossfadeDuration >= s.ImageDuration {
		return errors.New("slideshow.crossfade_duration must be shorter than slideshow.image_duration")
	}
	if s.FadeDuration < 0 {
		return errors.New("slideshow.fade_duration must be >= 0")
	}
	if s.BatchSize < 2 {
		return errors.New("slideshow.batch_size must be at least 2")
	}
	if s.ZoomEnabled && s.ZoomFactor <= 1 {
		return errors.New("slideshow.zoom_factor must be greater than 1 when zoom is enabled")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if strings.TrimSpace(c.Audio.Codec) == "" {
		return errors.New("audio.codec must be set")
	}
	if c.Audio.CrossfadeDuration < 0 {
		return errors.New("audio.crossfade_duration must be >= 0")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}
