package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"albumreel/internal/config"
	"albumreel/internal/logging"
	"albumreel/internal/services/immich"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// immichClient builds an API client, failing when the server connection is
// not configured.
func (c *commandContext) immichClient() (*immich.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Immich.URL == "" {
		return nil, fmt.Errorf("immich url not configured; set [immich] url or export IMMICH_URL")
	}
	if cfg.Immich.APIKey == "" {
		return nil, fmt.Errorf("immich api key not configured; set [immich] api_key or export IMMICH_API_KEY")
	}
	timeout := time.Duration(cfg.Immich.RequestTimeout) * time.Second
	return immich.New(cfg.Immich.URL, cfg.Immich.APIKey, timeout)
}
