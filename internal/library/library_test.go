package library_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"reelsmith/internal/library"
	"reelsmith/internal/testsupport"
)

func TestOpenRecordsSchemaVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	if store.Path() != cfg.Paths.LibraryPath {
		t.Fatalf("unexpected path %q", store.Path())
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := library.Open(cfg.Paths.LibraryPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = reopened.Close()
}

func TestAddUpsertsByPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	path := filepath.Join(cfg.Paths.AssetDir, "ocean", "a.mp4")
	first, err := store.Add(ctx, library.Asset{Path: path, Kind: library.KindVideo, Topic: "Ocean Life"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if first.ID == 0 || first.Topic != "ocean_life" {
		t.Fatalf("unexpected asset %#v", first)
	}
	second, err := store.Add(ctx, library.Asset{Path: path, Kind: library.KindVideo, Topic: "sea", Duration: 12})
	if err != nil {
		t.Fatalf("Add again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected upsert to keep id %d, got %d", first.ID, second.ID)
	}

	assets, err := store.List(ctx, "", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(assets) != 1 || assets[0].Topic != "sea" || assets[0].Duration != 12 {
		t.Fatalf("unexpected listing %#v", assets)
	}
}

func TestAddRejectsInvalidAssets(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	if _, err := store.Add(ctx, library.Asset{Kind: library.KindVideo}); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := store.Add(ctx, library.Asset{Path: "/x.mp4", Kind: "podcast"}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestRemove(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	asset, err := store.Add(ctx, library.Asset{Path: "/clips/a.mp4", Kind: library.KindVideo})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Remove(ctx, asset.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(ctx, asset.ID); !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreSearchPrefersTopicAndSkipsMissingFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	ocean := testsupport.WriteClips(t, filepath.Join(cfg.Paths.AssetDir, "ocean"), "a.mp4", "b.mp4")
	city := testsupport.WriteClips(t, filepath.Join(cfg.Paths.AssetDir, "city"), "c.mp4")
	for _, p := range ocean {
		mustAdd(t, store, library.Asset{Path: p, Kind: library.KindVideo, Topic: "ocean"})
	}
	mustAdd(t, store, library.Asset{Path: city[0], Kind: library.KindVideo, Topic: "city"})
	mustAdd(t, store, library.Asset{Path: filepath.Join(cfg.Paths.AssetDir, "ocean", "gone.mp4"), Kind: library.KindVideo, Topic: "ocean"})

	got, err := store.Search(ctx, "Ocean", library.KindVideo)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 || got[0] != ocean[0] || got[1] != ocean[1] {
		t.Fatalf("unexpected topic results %v", got)
	}

	fallback, err := store.Search(ctx, "space", library.KindVideo)
	if err != nil {
		t.Fatalf("Search fallback: %v", err)
	}
	if len(fallback) != 3 {
		t.Fatalf("expected all three existing clips, got %v", fallback)
	}

	music, err := store.Search(ctx, "ocean", library.KindMusic)
	if err != nil {
		t.Fatalf("Search music: %v", err)
	}
	if len(music) != 0 {
		t.Fatalf("expected no music, got %v", music)
	}
}

func TestScanCataloguesLayout(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	root := cfg.Paths.AssetDir
	clips := testsupport.WriteClips(t, filepath.Join(root, "ocean"), "a.mp4", "b.mov", "notes.txt")
	tracks := testsupport.WriteClips(t, filepath.Join(root, library.MusicDir), "calm.mp3", "bad.wav")
	testsupport.WriteClips(t, filepath.Join(root, ".cache"), "hidden.mp4")

	probe := testsupport.ProbeTable{Durations: map[string]float64{
		clips[0]:  8,
		clips[1]:  5,
		tracks[0]: 120,
	}}
	result, err := store.Scan(ctx, root, probe.Probe)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if result.Added != 3 {
		t.Fatalf("expected 3 added, got %d", result.Added)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != tracks[1] {
		t.Fatalf("unexpected skipped %v", result.Skipped)
	}

	videos, err := store.List(ctx, library.KindVideo, "ocean")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(videos) != 2 || videos[0].Duration != 8 {
		t.Fatalf("unexpected videos %#v", videos)
	}
	music, err := store.List(ctx, library.KindMusic, "")
	if err != nil {
		t.Fatalf("List music: %v", err)
	}
	if len(music) != 1 || music[0].Path != tracks[0] || music[0].Duration != 120 {
		t.Fatalf("unexpected music %#v", music)
	}
}

func TestDirSearch(t *testing.T) {
	root := t.TempDir()
	ocean := testsupport.WriteClips(t, filepath.Join(root, "Ocean Life"), "a.mp4")
	testsupport.WriteClips(t, filepath.Join(root, "city"), "b.mp4")
	tracks := testsupport.WriteClips(t, filepath.Join(root, library.MusicDir), "calm.mp3")
	dir := library.Dir{Root: root}
	ctx := context.Background()

	got, err := dir.Search(ctx, "ocean life", library.KindVideo)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0] != ocean[0] {
		t.Fatalf("unexpected topic match %v", got)
	}

	all, err := dir.Search(ctx, "mountains", library.KindVideo)
	if err != nil {
		t.Fatalf("Search fallback: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected fallback to all clips, got %v", all)
	}

	music, err := dir.Search(ctx, "", library.KindMusic)
	if err != nil {
		t.Fatalf("Search music: %v", err)
	}
	if len(music) != 1 || music[0] != tracks[0] {
		t.Fatalf("unexpected music %v", music)
	}

	missing := library.Dir{Root: filepath.Join(root, "absent")}
	if paths, err := missing.Search(ctx, "x", library.KindVideo); err != nil || len(paths) != 0 {
		t.Fatalf("expected empty result for missing root, got %v %v", paths, err)
	}
}

func TestKindForPath(t *testing.T) {
	if kind, ok := library.KindForPath("/a/B.MP4"); !ok || kind != library.KindVideo {
		t.Fatalf("unexpected %v %v", kind, ok)
	}
	if kind, ok := library.KindForPath("song.flac"); !ok || kind != library.KindMusic {
		t.Fatalf("unexpected %v %v", kind, ok)
	}
	if _, ok := library.KindForPath("readme.md"); ok {
		t.Fatal("expected markdown to be ignored")
	}
}

func mustAdd(t *testing.T, store *library.Store, asset library.Asset) {
	t.Helper()
	if _, err := store.Add(context.Background(), asset); err != nil {
		t.Fatalf("Add %s: %v", asset.Path, err)
	}
}

type staticRepo struct {
	paths []string
	err   error
}

func (s staticRepo) Search(context.Context, string, library.Kind) ([]string, error) {
	return s.paths, s.err
}

func TestChainReturnsFirstNonEmpty(t *testing.T) {
	chain := library.Chain{
		staticRepo{err: errors.New("catalog locked")},
		staticRepo{},
		staticRepo{paths: []string{"/a.mp4"}},
	}
	got, err := chain.Search(context.Background(), "x", library.KindVideo)
	if err != nil || len(got) != 1 || got[0] != "/a.mp4" {
		t.Fatalf("unexpected result %v %v", got, err)
	}

	empty := library.Chain{staticRepo{err: errors.New("boom")}, staticRepo{}}
	if _, err := empty.Search(context.Background(), "x", library.KindVideo); err == nil {
		t.Fatal("expected first error when nothing matched")
	}
}
