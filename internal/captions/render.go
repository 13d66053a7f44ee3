package captions

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reelsmith/internal/logging"
	"reelsmith/internal/services"
)

// Anchor positions the caption band on the canvas.
type Anchor string

const (
	AnchorTop    Anchor = "top"
	AnchorCenter Anchor = "center"
	AnchorBottom Anchor = "bottom"
)

// Style controls caption appearance.
type Style struct {
	FontPath     string
	FontSize     float64
	Color        string
	ShadowColor  string
	ShadowOffset int
	Anchor       Anchor
	Width        int
	BandHeight   int
	Margin       int
	Uppercase    bool
	Language     string
}

// merge returns s with every non-zero field of o applied on top.
func (s Style) merge(o Style) Style {
	if o.FontSize > 0 {
		s.FontSize = o.FontSize
	}
	if o.Color != "" {
		s.Color = o.Color
	}
	if o.ShadowColor != "" {
		s.ShadowColor = o.ShadowColor
	}
	if o.ShadowOffset > 0 {
		s.ShadowOffset = o.ShadowOffset
	}
	if o.Anchor != "" {
		s.Anchor = o.Anchor
	}
	return s
}

// Overlay is a rendered caption and the interval it covers.
type Overlay struct {
	Index    int
	Image    *image.RGBA
	Start    float64
	Duration float64
	Anchor   Anchor
}

// End returns Start + Duration.
func (o Overlay) End() float64 { return o.Start + o.Duration }

// horizontal padding kept clear on each side of the band.
const sidePadding = 40

// Renderer draws caption units onto transparent bands.
type Renderer struct {
	style    Style
	font     *opentype.Font
	fallback bool
	upper    cases.Caser
	logger   *slog.Logger
	faces    map[float64]font.Face
}

// NewRenderer parses the configured font and colours. A font that cannot be
// loaded is replaced with Go Regular and reported once as a warning. Invalid
// colours are input errors.
func NewRenderer(style Style, logger *slog.Logger) (*Renderer, error) {
	logger = logging.NewComponentLogger(logger, "captions")
	if style.Width <= 0 || style.BandHeight <= 0 {
		return nil, services.Wrap(services.ErrInput, "captions", "renderer", "caption band has no size", nil)
	}
	if style.FontSize <= 0 {
		return nil, services.Wrap(services.ErrInput, "captions", "renderer", "font size must be positive", nil)
	}
	if style.Anchor == "" {
		style.Anchor = AnchorBottom
	}
	if _, err := ParseColor(style.Color); err != nil {
		return nil, err
	}
	if _, err := ParseColor(style.ShadowColor); err != nil {
		return nil, err
	}

	r := &Renderer{style: style, logger: logger, faces: map[float64]font.Face{}}
	f, err := loadFont(style.FontPath)
	if err != nil {
		logging.WarnWithContext(logger, "caption font unavailable; using built-in face", "caption_font_fallback",
			logging.String("font_path", style.FontPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "set captions.font_path to a readable TTF/OTF file"),
			logging.String(logging.FieldImpact, "captions render in Go Regular"),
		)
		r.fallback = true
		f, err = opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("parse built-in font: %w", err)
		}
	}
	r.font = f

	tag := language.Und
	if lang := strings.TrimSpace(style.Language); lang != "" {
		if parsed, perr := language.Parse(lang); perr == nil {
			tag = parsed
		}
	}
	r.upper = cases.Upper(tag)
	return r, nil
}

// FellBack reports whether the built-in face replaced the configured font.
func (r *Renderer) FellBack() bool { return r.fallback }

// Style returns the renderer defaults.
func (r *Renderer) Style() Style { return r.style }

// Render draws one unit. The band is at least the configured height and grows
// when wrapped text needs more lines.
func (r *Renderer) Render(unit Unit) (Overlay, error) {
	style := r.style.merge(unit.Style)
	face, err := r.face(style.FontSize)
	if err != nil {
		return Overlay{}, err
	}
	fill, err := ParseColor(style.Color)
	if err != nil {
		return Overlay{}, err
	}
	shadow, err := ParseColor(style.ShadowColor)
	if err != nil {
		return Overlay{}, err
	}

	text := strings.TrimSpace(unit.Text)
	if style.Uppercase {
		text = r.upper.String(text)
	}
	lines := wrap(face, text, style.Width-2*sidePadding)

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()
	blockHeight := lineHeight*len(lines) + style.ShadowOffset
	height := max(style.BandHeight, blockHeight)

	img := image.NewRGBA(image.Rect(0, 0, style.Width, height))
	top := (height - blockHeight) / 2
	for i, line := range lines {
		width := font.MeasureString(face, line).Ceil()
		x := (style.Width - width) / 2
		baseline := top + i*lineHeight + ascent
		if style.ShadowOffset > 0 {
			drawText(img, face, shadow, line, x+style.ShadowOffset, baseline+style.ShadowOffset)
		}
		drawText(img, face, fill, line, x, baseline)
	}

	return Overlay{
		Index:    unit.Index,
		Image:    img,
		Start:    unit.Start,
		Duration: unit.Duration(),
		Anchor:   style.Anchor,
	}, nil
}

// RenderAll renders every unit and pads each band to the tallest one so the
// overlay sequence composites at a single position.
func (r *Renderer) RenderAll(units []Unit) ([]Overlay, error) {
	overlays := make([]Overlay, 0, len(units))
	tallest := 0
	for _, unit := range units {
		ov, err := r.Render(unit)
		if err != nil {
			return nil, fmt.Errorf("render caption %d: %w", unit.Index, err)
		}
		tallest = max(tallest, ov.Image.Bounds().Dy())
		overlays = append(overlays, ov)
	}
	for i, ov := range overlays {
		bounds := ov.Image.Bounds()
		if bounds.Dy() == tallest {
			continue
		}
		padded := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), tallest))
		offset := (tallest - bounds.Dy()) / 2
		draw.Draw(padded, bounds.Add(image.Pt(0, offset)), ov.Image, bounds.Min, draw.Src)
		overlays[i].Image = padded
	}
	return overlays, nil
}

func (r *Renderer) face(size float64) (font.Face, error) {
	if face, ok := r.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	r.faces[size] = face
	return face, nil
}

func loadFont(path string) (*opentype.Font, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return opentype.Parse(goregular.TTF)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return opentype.Parse(data)
}

func drawText(dst *image.RGBA, face font.Face, c color.Color, text string, x, baseline int) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
}

// wrap breaks text into lines no wider than limit. A single word wider than
// the limit stays on its own line.
func wrap(face font.Face, text string, limit int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(face, candidate).Ceil() <= limit {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// ParseColor accepts a CSS/SVG colour name or #rgb, #rrggbb, #rrggbbaa hex.
func ParseColor(value string) (color.Color, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if c, ok := colornames.Map[v]; ok {
		return c, nil
	}
	if hex, ok := strings.CutPrefix(v, "#"); ok {
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) == 6 {
			hex += "ff"
		}
		if len(hex) == 8 {
			if n, err := strconv.ParseUint(hex, 16, 32); err == nil {
				return color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
			}
		}
	}
	return nil, services.Wrap(services.ErrInput, "captions", "color", fmt.Sprintf("unrecognized colour %q", value), nil)
}
