package ffmpeg

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ConcatEntry is one file directive in a concat demuxer script. InPoint,
// OutPoint, and Duration are written only when positive.
type ConcatEntry struct {
	Path     string
	InPoint  float64
	OutPoint float64
	Duration float64
}

// WriteConcatList writes a concat demuxer script. Consumers must pass
// "-f concat -safe 0" because entries use absolute paths.
func WriteConcatList(path string, entries []ConcatEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("concat list %s: no entries", path)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create concat list: %w", err)
	}
	w := bufio.NewWriter(file)
	fmt.Fprintln(w, "ffconcat version 1.0")
	for _, entry := range entries {
		fmt.Fprintf(w, "file %s\n", quote(entry.Path))
		if entry.InPoint > 0 {
			fmt.Fprintf(w, "inpoint %s\n", Seconds(entry.InPoint))
		}
		if entry.OutPoint > 0 {
			fmt.Fprintf(w, "outpoint %s\n", Seconds(entry.OutPoint))
		}
		if entry.Duration > 0 {
			fmt.Fprintf(w, "duration %s\n", Seconds(entry.Duration))
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("write concat list: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close concat list: %w", err)
	}
	return nil
}

// ConcatInput returns the input flags for a concat script.
func ConcatInput(listPath string) []string {
	return []string{"-f", "concat", "-safe", "0", "-i", listPath}
}

func quote(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}
