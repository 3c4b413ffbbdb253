package config

const (
	defaultConfigPath            = "~/.config/asciivid/config.toml"
	projectConfigName            = "asciivid.toml"
	defaultDataDir               = "~/.local/share/asciivid"
	defaultDownloadsDir          = "~/Downloads"
	defaultOutputsBackend        = "file"
	defaultOutputsCapacity       = 20
	defaultFPS                   = 10
	defaultWidth                 = 300
	defaultChars                 = "F$V* "
	defaultNoiseLevel            = 0.15
	defaultThreshold             = 160
	defaultContrast              = 100
	defaultPreviewMaxSamples     = 100
	defaultPreviewSamplesPerSec  = 10
	defaultFFmpegBinary          = "ffmpeg"
	defaultFFprobeBinary         = "ffprobe"
	defaultCaptureTimeoutSeconds = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"

	// DefaultExposure applies when no exposure was configured at all.
	DefaultExposure = -100

	// MinFPS and MaxFPS bound export frame rates.
	MinFPS = 1
	MaxFPS = 30
	// MinWidth and MaxWidth bound the ASCII column count.
	MinWidth = 40
	MaxWidth = 720
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:      defaultDataDir,
			DownloadsDir: defaultDownloadsDir,
		},
		Outputs: Outputs{
			Backend:  defaultOutputsBackend,
			Capacity: defaultOutputsCapacity,
		},
		Convert: Convert{
			FPS:        defaultFPS,
			Width:      defaultWidth,
			Chars:      defaultChars,
			NoiseLevel: defaultNoiseLevel,
			Threshold:  defaultThreshold,
			Contrast:   defaultContrast,
		},
		Preview: Preview{
			MaxSamples:       defaultPreviewMaxSamples,
			SamplesPerSecond: defaultPreviewSamplesPerSec,
		},
		FFmpeg: FFmpeg{
			FFmpegBinary:          defaultFFmpegBinary,
			FFprobeBinary:         defaultFFprobeBinary,
			CaptureTimeoutSeconds: defaultCaptureTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
