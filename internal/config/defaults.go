package config

const (
	defaultWorkDir         = "~/.local/share/reelsmith/work"
	defaultOutputDir       = "~/Videos/reelsmith"
	defaultLogDir          = "~/.local/share/reelsmith/logs"
	defaultLibraryPath     = "~/.local/share/reelsmith/library.db"
	defaultWidth           = 1080
	defaultHeight          = 1920
	defaultFrameRate       = 24
	defaultVideoCodec      = "libx264"
	defaultPreset          = "ultrafast"
	defaultCRF             = 23
	defaultPixelFormat     = "yuv420p"
	defaultAudioCodec      = "aac"
	defaultAudioBitrate    = "192k"
	defaultClipCount       = 10
	defaultClipSeconds     = 4.0
	defaultSampleRate      = 44100
	defaultChannels        = 2
	defaultFadeSeconds     = 1.0
	defaultVolumeLow       = 0.15
	defaultVolumeMedium    = 0.25
	defaultVolumeHigh      = 0.40
	defaultFontSize        = 80
	defaultCaptionColor    = "white"
	defaultShadowColor     = "black"
	defaultShadowOffset    = 2
	defaultCaptionPosition = "bottom"
	defaultBandHeight      = 200
	defaultCaptionMargin   = 240
	defaultWindowWords     = 6
	defaultIntroPath       = "~/.local/share/reelsmith/branding/intro.mp4"
	defaultOutroPath       = "~/.local/share/reelsmith/branding/outro.mp4"
	defaultStaleHours      = 24
	defaultMinFreeMiB      = 512
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:     defaultWorkDir,
			OutputDir:   defaultOutputDir,
			LogDir:      defaultLogDir,
			LibraryPath: defaultLibraryPath,
		},
		Render: Render{
			Width:        defaultWidth,
			Height:       defaultHeight,
			FrameRate:    defaultFrameRate,
			VideoCodec:   defaultVideoCodec,
			Preset:       defaultPreset,
			CRF:          defaultCRF,
			PixelFormat:  defaultPixelFormat,
			AudioCodec:   defaultAudioCodec,
			AudioBitrate: defaultAudioBitrate,
		},
		Background: Background{
			ClipCount:   defaultClipCount,
			ClipSeconds: defaultClipSeconds,
		},
		Audio: Audio{
			SampleRate:     defaultSampleRate,
			Channels:       defaultChannels,
			FadeInSeconds:  defaultFadeSeconds,
			FadeOutSeconds: defaultFadeSeconds,
			VolumeLow:      defaultVolumeLow,
			VolumeMedium:   defaultVolumeMedium,
			VolumeHigh:     defaultVolumeHigh,
		},
		Captions: Captions{
			FontSize:     defaultFontSize,
			Color:        defaultCaptionColor,
			ShadowColor:  defaultShadowColor,
			ShadowOffset: defaultShadowOffset,
			Position:     defaultCaptionPosition,
			BandHeight:   defaultBandHeight,
			Margin:       defaultCaptionMargin,
			WindowWords:  defaultWindowWords,
			WriteSRT:     true,
		},
		Branding: Branding{
			IntroPath: defaultIntroPath,
			OutroPath: defaultOutroPath,
		},
		Workspace: Workspace{
			StaleHours: defaultStaleHours,
			MinFreeMiB: defaultMinFreeMiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
