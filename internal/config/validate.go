package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOutputs(); err != nil {
		return err
	}
	if err := c.validateConvert(); err != nil {
		return err
	}
	if err := c.validatePreview(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateOutputs() error {
	switch c.Outputs.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("outputs.backend must be \"file\" or \"sqlite\", got %q", c.Outputs.Backend)
	}
	if c.Outputs.Capacity < 1 {
		return errors.New("outputs.capacity must be at least 1")
	}
	if c.Outputs.MaxBytes < 0 {
		return errors.New("outputs.max_bytes must be zero or positive")
	}
	return nil
}

func (c *Config) validateConvert() error {
	if c.Convert.FPS < MinFPS || c.Convert.FPS > MaxFPS {
		return fmt.Errorf("convert.fps must be between %d and %d", MinFPS, MaxFPS)
	}
	if c.Convert.Width < MinWidth || c.Convert.Width > MaxWidth {
		return fmt.Errorf("convert.width must be between %d and %d", MinWidth, MaxWidth)
	}
	if c.Convert.NoiseLevel < 0 || c.Convert.NoiseLevel > 1 {
		return errors.New("convert.noise_level must be between 0 and 1")
	}
	if c.Convert.Threshold < 1 || c.Convert.Threshold > 255 {
		return errors.New("convert.threshold must be between 1 and 255")
	}
	if c.Convert.Contrast <= 0 {
		return errors.New("convert.contrast must be positive")
	}
	return nil
}

func (c *Config) validatePreview() error {
	if c.Preview.MaxSamples < 1 {
		return errors.New("preview.max_samples must be at least 1")
	}
	if c.Preview.SamplesPerSecond < 1 {
		return errors.New("preview.samples_per_second must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
}
