package request

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"reelsmith/internal/config"
	"reelsmith/internal/services"
	"reelsmith/internal/textutil"
)

// Request is one render job as submitted by a user.
type Request struct {
	Topic            string  `yaml:"topic" validate:"required,max=200"`
	Language         string  `yaml:"language" validate:"omitempty,min=2,max=35"`
	VoiceChoice      string  `yaml:"voice_choice" validate:"omitempty,max=100"`
	VoiceSpeed       float64 `yaml:"voice_speed" validate:"omitempty,gt=0,lte=4"`
	ClipCount        int     `yaml:"clip_count" validate:"omitempty,min=1,max=200"`
	FontSize         int     `yaml:"font_size" validate:"omitempty,min=8,max=400"`
	SubtitleColor    string  `yaml:"subtitle_color" validate:"omitempty,max=32"`
	SubtitlePosition string  `yaml:"subtitle_position" validate:"omitempty,oneof=top center bottom"`
	MusicVolume      string  `yaml:"music_volume" validate:"omitempty,oneof=low medium high"`
	CaptionStyle     string  `yaml:"caption_style" validate:"omitempty,oneof=word sentence"`
	Branding         string  `yaml:"branding" validate:"omitempty,oneof=yes no"`
	LengthSec        int     `yaml:"length_sec" validate:"omitempty,min=1,max=600"`

	Script         string `yaml:"script"`
	Narration      string `yaml:"narration"`
	Music          string `yaml:"music"`
	Output         string `yaml:"output"`
	FilenameMode   string `yaml:"filename_mode" validate:"omitempty,oneof=auto manual"`
	CustomFilename string `yaml:"custom_filename" validate:"required_if=FilenameMode manual,max=200"`
	Seed           uint64 `yaml:"seed"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Load reads a YAML request file. Unknown keys are rejected. Relative asset
// paths are resolved against the file's directory.
func Load(path string) (Request, error) {
	file, err := os.Open(path)
	if err != nil {
		return Request{}, services.Wrap(services.ErrInput, "request", "load", "open request file", err)
	}
	defer file.Close()

	var req Request
	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(&req); err != nil {
		return Request{}, services.Wrap(services.ErrInput, "request", "load", "parse request file", err)
	}

	base := filepath.Dir(path)
	for _, field := range []*string{&req.Narration, &req.Music, &req.Output} {
		if v := strings.TrimSpace(*field); v != "" && !filepath.IsAbs(v) && !strings.HasPrefix(v, "~") {
			*field = filepath.Join(base, v)
		}
	}
	return req, nil
}

// ApplyDefaults fills empty fields from configuration.
func (r *Request) ApplyDefaults(cfg *config.Config) {
	r.Topic = strings.TrimSpace(r.Topic)
	r.Language = defaultString(strings.ToLower(r.Language), "en")
	if r.VoiceSpeed == 0 {
		r.VoiceSpeed = 1
	}
	r.SubtitlePosition = defaultString(strings.ToLower(r.SubtitlePosition), cfg.Captions.Position)
	r.MusicVolume = defaultString(strings.ToLower(r.MusicVolume), "medium")
	r.CaptionStyle = defaultString(strings.ToLower(r.CaptionStyle), "sentence")
	r.Branding = defaultString(strings.ToLower(r.Branding), "no")
	r.FilenameMode = defaultString(strings.ToLower(r.FilenameMode), "auto")
	r.SubtitleColor = defaultString(r.SubtitleColor, cfg.Captions.Color)
	if r.ClipCount == 0 {
		r.ClipCount = cfg.Background.ClipCount
	}
	if r.FontSize == 0 {
		r.FontSize = cfg.Captions.FontSize
	}
}

// Validate checks field constraints and reports every violation as one
// input error.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return services.Wrap(services.ErrInput, "request", "validate", "invalid request", err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return services.Wrap(services.ErrInput, "request", "validate", strings.Join(problems, "; "), nil)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %v)", fe.Field(), fe.Param(), fe.Value())
	case "min", "gt":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// BrandingEnabled reports whether intro and outro should be attached.
func (r Request) BrandingEnabled() bool {
	return strings.EqualFold(r.Branding, "yes")
}

// OutputPath resolves the destination file. An explicit output wins; manual
// mode uses the custom filename; auto mode builds
// {topic}_{language}_{YYYYmmdd_HHMM}.mp4.
func (r Request) OutputPath(outputDir string, now time.Time) (string, error) {
	if out := strings.TrimSpace(r.Output); out != "" {
		expanded, err := config.ExpandPath(out)
		if err != nil {
			return "", services.Wrap(services.ErrInput, "request", "output", "expand output path", err)
		}
		return expanded, nil
	}
	var name string
	if strings.EqualFold(r.FilenameMode, "manual") {
		name = textutil.SanitizeFileName(strings.TrimSuffix(r.CustomFilename, ".mp4"))
		if name == "" {
			return "", services.Wrap(services.ErrInput, "request", "output", "custom_filename is empty after sanitizing", nil)
		}
	} else {
		name = fmt.Sprintf("%s_%s_%s", textutil.Slug(r.Topic), textutil.Slug(r.Language), now.Format("20060102_1504"))
	}
	return filepath.Join(outputDir, name+".mp4"), nil
}

func defaultString(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
