package library

import (
	"context"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"reelsmith/internal/media/ffprobe"
)

// MusicDir is the asset_dir subdirectory holding background music.
const MusicDir = "music"

var (
	videoExtensions = map[string]bool{".mp4": true, ".mov": true, ".mkv": true, ".webm": true, ".m4v": true}
	musicExtensions = map[string]bool{".mp3": true, ".wav": true, ".m4a": true, ".aac": true, ".ogg": true, ".flac": true}
)

// KindForPath classifies a file by extension.
func KindForPath(path string) (Kind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case videoExtensions[ext]:
		return KindVideo, true
	case musicExtensions[ext]:
		return KindMusic, true
	default:
		return "", false
	}
}

// Found is a media file discovered under an asset directory.
type Found struct {
	Path  string
	Kind  Kind
	Topic string
}

// Walk lists media under root laid out as <root>/<topic>/<clip> and
// <root>/music/<track>. Files directly under root are catalogued without a topic.
func Walk(root string) ([]Found, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("walk assets: empty root")
	}
	var found []Found
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		kind, ok := KindForPath(path)
		if !ok {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		topic := ""
		if parts := strings.Split(filepath.ToSlash(rel), "/"); len(parts) > 1 {
			topic = parts[0]
		}
		if topic == MusicDir {
			if kind != KindMusic {
				return nil
			}
			topic = ""
		} else if kind != KindVideo {
			return nil
		}
		found = append(found, Found{Path: path, Kind: kind, Topic: topic})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk assets: %w", err)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found, nil
}

// ScanResult summarizes a Scan.
type ScanResult struct {
	Added   int
	Skipped []string
}

// Scan catalogues every media file under root. When probe is set, each file
// is probed for its duration and unreadable files are skipped.
func (s *Store) Scan(ctx context.Context, root string, probe ffprobe.ProbeFunc) (ScanResult, error) {
	found, err := Walk(root)
	if err != nil {
		return ScanResult{}, err
	}
	var result ScanResult
	for _, f := range found {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		asset := Asset{Path: f.Path, Kind: f.Kind, Topic: f.Topic}
		if probe != nil {
			info, probeErr := probe(ctx, f.Path)
			if probeErr != nil {
				result.Skipped = append(result.Skipped, f.Path)
				continue
			}
			asset.Duration = info.DurationSeconds()
			if math.IsNaN(asset.Duration) {
				asset.Duration = 0
			}
		}
		if _, err := s.Add(ctx, asset); err != nil {
			return result, err
		}
		result.Added++
	}
	return result, nil
}

// Dir is a Repository backed directly by the asset directory layout.
type Dir struct {
	Root string
}

// Search returns files under <root>/<topic> (matched by slug), falling back
// to every file of the requested kind.
func (d Dir) Search(ctx context.Context, topic string, kind Kind) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(d.Root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("asset dir: %w", err)
	}
	found, err := Walk(d.Root)
	if err != nil {
		return nil, err
	}
	want := topicKey(topic)
	var all, matched []string
	for _, f := range found {
		if f.Kind != kind {
			continue
		}
		all = append(all, f.Path)
		if want != "" && topicKey(f.Topic) == want {
			matched = append(matched, f.Path)
		}
	}
	if len(matched) > 0 {
		return matched, nil
	}
	return all, nil
}
