package compose

import (
	"image"
	"image/color"
	stddraw "image/draw"
	"sort"

	"golang.org/x/image/draw"

	"reelsmith/internal/captions"
)

// OverlayAt returns the overlay whose half-open interval [Start, End)
// contains t. Overlays must be sorted by Start and must not overlap.
func OverlayAt(overlays []captions.Overlay, t float64) (captions.Overlay, bool) {
	i := sort.Search(len(overlays), func(i int) bool {
		return overlays[i].End() > t
	})
	if i < len(overlays) && overlays[i].Start <= t {
		return overlays[i], true
	}
	return captions.Overlay{}, false
}

// OverlayY returns the top edge of a caption band of height bandHeight on a
// canvas of height canvasHeight.
func OverlayY(anchor captions.Anchor, canvasHeight, bandHeight, margin int) int {
	switch anchor {
	case captions.AnchorTop:
		return margin
	case captions.AnchorCenter:
		return (canvasHeight - bandHeight) / 2
	default:
		return canvasHeight - bandHeight - margin
	}
}

// Still composites the frame shown at time t: the background scaled to cover
// the canvas and center-cropped, as ffmpeg.FillFilter does for the encode,
// with the active caption, if any, drawn over it. A nil background is
// rendered black.
func Still(background image.Image, overlays []captions.Overlay, t float64, width, height, margin int) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, width, height))
	stddraw.Draw(frame, frame.Bounds(), image.NewUniform(color.Black), image.Point{}, stddraw.Src)
	if background != nil {
		draw.CatmullRom.Scale(frame, frame.Bounds(), background, coverCrop(background.Bounds(), width, height), draw.Over, nil)
	}
	ov, ok := OverlayAt(overlays, t)
	if !ok || ov.Image == nil {
		return frame
	}
	band := ov.Image.Bounds()
	x := (width - band.Dx()) / 2
	y := OverlayY(ov.Anchor, height, band.Dy(), margin)
	stddraw.Draw(frame, band.Add(image.Pt(x, y)), ov.Image, band.Min, stddraw.Over)
	return frame
}

// coverCrop returns the centered region of src with the canvas aspect ratio.
func coverCrop(src image.Rectangle, width, height int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 || width <= 0 || height <= 0 {
		return src
	}
	cw, ch := sw, sh
	if sw*height > sh*width {
		cw = max(1, sh*width/height)
	} else {
		ch = max(1, sw*height/width)
	}
	x := src.Min.X + (sw-cw)/2
	y := src.Min.Y + (sh-ch)/2
	return image.Rect(x, y, x+cw, y+ch)
}
