package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"asciivid/internal/ascii"
	"asciivid/internal/config"
	"asciivid/internal/logging"
	"asciivid/internal/outputs"
	"asciivid/internal/preflight"
	"asciivid/internal/progress"
	"asciivid/internal/sampler"
	"asciivid/internal/services"
	"asciivid/internal/session"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
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
		if c.logLevelFlag != nil {
			if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
				cfg.Logging.Level = strings.ToLower(level)
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// withStore opens the history for the duration of fn.
func (c *commandContext) withStore(fn func(*config.Config, *outputs.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	store, err := outputs.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

// converter builds a converter tuned from the [convert] section.
func (c *commandContext) converter(cfg *config.Config, logger *slog.Logger, report progress.Func) *ascii.Converter {
	return ascii.NewConverter(ascii.Options{
		Chars:          cfg.Convert.Chars,
		NoiseLevel:     cfg.Convert.NoiseLevel,
		WhiteThreshold: cfg.Convert.Threshold,
		Contrast:       cfg.Convert.Contrast,
		Exposure:       ascii.IntPtr(cfg.ExposureValue()),
		OnProgress:     report,
		FFmpegBinary:   cfg.FFmpeg.FFmpegBinary,
		FFprobeBinary:  cfg.FFmpeg.FFprobeBinary,
		Logger:         logger,
	})
}

// sessionManager builds a preview session manager backed by ffmpeg seeks.
func (c *commandContext) sessionManager(cfg *config.Config, logger *slog.Logger) *session.Manager {
	timeout := time.Duration(cfg.FFmpeg.CaptureTimeoutSeconds) * time.Second
	open := func(ctx context.Context, path string) (sampler.VideoSource, error) {
		return sampler.OpenFFmpegSource(ctx, cfg.FFmpeg.FFmpegBinary, cfg.FFmpeg.FFprobeBinary, path, timeout)
	}
	return session.NewManager(open, sampler.Options{
		MaxSamples:       cfg.Preview.MaxSamples,
		SamplesPerSecond: cfg.Preview.SamplesPerSecond,
	}, logger)
}

// requireBinaries fails when ffmpeg or ffprobe cannot be found.
func requireBinaries(cfg *config.Config) error {
	missing := preflight.MissingRequired(preflight.CheckSystemDeps(cfg))
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(missing))
	for _, status := range missing {
		names = append(names, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "check binaries",
		"missing required tools: "+strings.Join(names, ", "), nil)
}

// intFlagOr returns the flag value when the user set it and fallback otherwise.
func intFlagOr(cmd *cobra.Command, name string, value, fallback int) int {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
