package ffmpeg_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelsmith/internal/media/ffmpeg"
)

func TestWriteConcatListEscapesAndTrims(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "list.txt")
	entries := []ffmpeg.ConcatEntry{
		{Path: "/clips/it's.mp4", OutPoint: 3},
		{Path: "/clips/b.mp4", InPoint: 0.5, OutPoint: 2},
		{Path: "/captions/0001.png", Duration: 1.25},
	}
	if err := ffmpeg.WriteConcatList(list, entries); err != nil {
		t.Fatalf("WriteConcatList returned error: %v", err)
	}
	data, err := os.ReadFile(list)
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	want := strings.Join([]string{
		"ffconcat version 1.0",
		`file '/clips/it'\''s.mp4'`,
		"outpoint 3.000",
		"file '/clips/b.mp4'",
		"inpoint 0.500",
		"outpoint 2.000",
		"file '/captions/0001.png'",
		"duration 1.250",
		"",
	}, "\n")
	if string(data) != want {
		t.Fatalf("unexpected concat list:\n%s\nwant:\n%s", data, want)
	}
}

func TestWriteConcatListRejectsEmpty(t *testing.T) {
	if err := ffmpeg.WriteConcatList(filepath.Join(t.TempDir(), "x.txt"), nil); err == nil {
		t.Fatal("expected error for empty list")
	}
}

func TestFiltersUseCanvas(t *testing.T) {
	canvas := ffmpeg.Canvas{Width: 1080, Height: 1920, FrameRate: 24}
	fill := ffmpeg.FillFilter(canvas)
	if !strings.Contains(fill, "crop=1080:1920") || !strings.HasSuffix(fill, "fps=24") {
		t.Fatalf("unexpected fill filter %q", fill)
	}
	fit := ffmpeg.FitFilter(canvas)
	if !strings.Contains(fit, "pad=1080:1920") {
		t.Fatalf("unexpected fit filter %q", fit)
	}
}

func TestEncoderArgs(t *testing.T) {
	enc := ffmpeg.Encoder{VideoCodec: "libx264", Preset: "ultrafast", CRF: 23, PixelFormat: "yuv420p", AudioCodec: "aac", AudioBitrate: "192k", SampleRate: 44100, Channels: 2}
	if got := strings.Join(enc.VideoArgs(), " "); got != "-c:v libx264 -preset ultrafast -crf 23 -pix_fmt yuv420p" {
		t.Fatalf("unexpected video args %q", got)
	}
	if got := strings.Join(enc.AudioArgs(), " "); got != "-c:a aac -b:a 192k -ar 44100 -ac 2" {
		t.Fatalf("unexpected audio args %q", got)
	}
}

func TestCommandReportsMissingBinary(t *testing.T) {
	cmd := ffmpeg.NewCommand(filepath.Join(t.TempDir(), "missing-ffmpeg"), nil)
	if err := cmd.Run(context.Background(), "-i", "in.mp4", "out.mp4"); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestRunnerFuncAdapter(t *testing.T) {
	var got []string
	runner := ffmpeg.RunnerFunc(func(_ context.Context, args ...string) error {
		got = args
		return nil
	})
	if err := runner.Run(context.Background(), "-i", "a"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(got) != 2 || got[1] != "a" {
		t.Fatalf("unexpected args %v", got)
	}
}
