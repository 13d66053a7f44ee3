package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reelsmith/internal/request"
	"reelsmith/internal/services"
)

// requestFlags binds request fields to command flags. A --request file is
// loaded first; explicitly set flags override its values.
type requestFlags struct {
	file       string
	scriptFile string
	values     request.Request
}

func (f *requestFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	v := &f.values
	flags.StringVarP(&f.file, "request", "r", "", "YAML request file")
	flags.StringVar(&f.scriptFile, "script-file", "", "Read the caption script from a file")
	flags.StringVarP(&v.Topic, "topic", "t", "", "Topic used for clip and music lookup")
	flags.StringVar(&v.Script, "script", "", "Caption script text")
	flags.StringVar(&v.Narration, "narration", "", "Narration audio file")
	flags.StringVar(&v.Music, "music", "", "Background music file (default: random track from the library)")
	flags.StringVarP(&v.Output, "output", "o", "", "Output file (default: derived from topic, language, and time)")
	flags.StringVar(&v.Language, "language", "", "Narration language (default en)")
	flags.StringVar(&v.VoiceChoice, "voice", "", "Voice name passed to the narration synthesizer")
	flags.Float64Var(&v.VoiceSpeed, "voice-speed", 0, "Voice speed passed to the narration synthesizer")
	flags.IntVar(&v.ClipCount, "clip-count", 0, "Maximum number of distinct background clips")
	flags.IntVar(&v.FontSize, "font-size", 0, "Caption font size in pixels")
	flags.StringVar(&v.SubtitleColor, "subtitle-color", "", "Caption colour (name or #rrggbb)")
	flags.StringVar(&v.SubtitlePosition, "subtitle-position", "", "Caption position: top, center, bottom")
	flags.StringVar(&v.MusicVolume, "music-volume", "", "Music volume: low, medium, high")
	flags.StringVar(&v.CaptionStyle, "caption-style", "", "Caption segmentation: word or sentence")
	flags.StringVar(&v.Branding, "branding", "", "Attach intro and outro: yes or no")
	flags.IntVar(&v.LengthSec, "length", 0, "Requested length in seconds (informational)")
	flags.StringVar(&v.FilenameMode, "filename-mode", "", "Output naming: auto or manual")
	flags.StringVar(&v.CustomFilename, "custom-filename", "", "File name used when --filename-mode=manual")
	flags.Uint64Var(&v.Seed, "seed", 0, "Random seed for clip order and music choice (0 = time based)")
}

func (f *requestFlags) resolve(cmd *cobra.Command) (request.Request, error) {
	var req request.Request
	if path := strings.TrimSpace(f.file); path != "" {
		loaded, err := request.Load(path)
		if err != nil {
			return request.Request{}, err
		}
		req = loaded
	}

	v := f.values
	overrides := map[string]func(){
		"topic":             func() { req.Topic = v.Topic },
		"script":            func() { req.Script = v.Script },
		"narration":         func() { req.Narration = v.Narration },
		"music":             func() { req.Music = v.Music },
		"output":            func() { req.Output = v.Output },
		"language":          func() { req.Language = v.Language },
		"voice":             func() { req.VoiceChoice = v.VoiceChoice },
		"voice-speed":       func() { req.VoiceSpeed = v.VoiceSpeed },
		"clip-count":        func() { req.ClipCount = v.ClipCount },
		"font-size":         func() { req.FontSize = v.FontSize },
		"subtitle-color":    func() { req.SubtitleColor = v.SubtitleColor },
		"subtitle-position": func() { req.SubtitlePosition = v.SubtitlePosition },
		"music-volume":      func() { req.MusicVolume = v.MusicVolume },
		"caption-style":     func() { req.CaptionStyle = v.CaptionStyle },
		"branding":          func() { req.Branding = v.Branding },
		"length":            func() { req.LengthSec = v.LengthSec },
		"filename-mode":     func() { req.FilenameMode = v.FilenameMode },
		"custom-filename":   func() { req.CustomFilename = v.CustomFilename },
		"seed":              func() { req.Seed = v.Seed },
	}
	for name, apply := range overrides {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	if path := strings.TrimSpace(f.scriptFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return request.Request{}, services.Wrap(services.ErrInput, "request", "script", fmt.Sprintf("read %s", path), err)
		}
		req.Script = string(data)
	}
	return req, nil
}
