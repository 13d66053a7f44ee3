package compose

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"reelsmith/internal/captions"
	"reelsmith/internal/media/ffmpeg"
	"reelsmith/internal/services"
)

// SavePNG encodes img to path.
func SavePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return file.Close()
}

// Frame locates the background picture shown at a timeline position: the
// source file and the offset into it.
type Frame struct {
	Path   string
	Offset float64
}

// Preview writes a PNG of the frame at time t: the background picture grabbed
// with ffmpeg plus the caption active at t.
func (p *Pipeline) Preview(ctx context.Context, background Frame, overlays []captions.Overlay, t float64, spec Spec, workDir, out string) error {
	if p.FFmpeg == nil {
		return services.Wrap(services.ErrConfiguration, "compose", "preview", "ffmpeg runner not configured", nil)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return services.Wrap(services.ErrResource, "compose", "preview", "create work directory", err)
	}
	framePath := filepath.Join(workDir, "frame.png")
	args := []string{"-ss", ffmpeg.Seconds(background.Offset), "-i", background.Path, "-frames:v", "1", framePath}
	if err := p.FFmpeg.Run(ctx, args...); err != nil {
		return services.Wrap(services.ErrEncode, "compose", "preview", "extract background frame", err)
	}
	frame, err := loadPNG(framePath)
	if err != nil {
		return services.Wrap(services.ErrEncode, "compose", "preview", "decode background frame", err)
	}
	still := Still(frame, overlays, t, spec.Canvas.Width, spec.Canvas.Height, spec.Margin)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return services.Wrap(services.ErrResource, "compose", "preview", "create preview directory", err)
	}
	if err := SavePNG(out, still); err != nil {
		return services.Wrap(services.ErrResource, "compose", "preview", "write preview", err)
	}
	return nil
}

func loadPNG(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return png.Decode(file)
}
