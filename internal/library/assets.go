package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"reelsmith/internal/textutil"
)

// Kind classifies a catalog asset.
type Kind string

const (
	KindVideo Kind = "video"
	KindMusic Kind = "music"
)

// ParseKind validates a kind name.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindVideo:
		return KindVideo, nil
	case KindMusic:
		return KindMusic, nil
	default:
		return "", fmt.Errorf("unknown asset kind %q (want video or music)", value)
	}
}

// Asset is one catalogued media file.
type Asset struct {
	ID       int64
	Path     string
	Kind     Kind
	Topic    string
	Duration float64
	AddedAt  time.Time
}

// ErrNotFound is returned when an asset id does not exist.
var ErrNotFound = errors.New("asset not found")

// Repository finds media for a render.
type Repository interface {
	Search(ctx context.Context, topic string, kind Kind) ([]string, error)
}

// Add inserts an asset or updates the row with the same path. Topics are
// stored as slugs so lookups ignore case and punctuation.
func (s *Store) Add(ctx context.Context, asset Asset) (Asset, error) {
	if strings.TrimSpace(asset.Path) == "" {
		return Asset{}, errors.New("add asset: empty path")
	}
	if _, err := ParseKind(string(asset.Kind)); err != nil {
		return Asset{}, fmt.Errorf("add asset: %w", err)
	}
	asset.Topic = topicKey(asset.Topic)
	if asset.AddedAt.IsZero() {
		asset.AddedAt = time.Now().UTC()
	}

	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, `
			INSERT INTO assets (path, kind, topic, duration_seconds, added_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET
				kind = excluded.kind,
				topic = excluded.topic,
				duration_seconds = excluded.duration_seconds
			RETURNING id, added_at`,
			asset.Path, string(asset.Kind), asset.Topic, asset.Duration, asset.AddedAt.Format(time.RFC3339),
		).Scan(&asset.ID, new(string))
	})
	if err != nil {
		return Asset{}, fmt.Errorf("add asset: %w", err)
	}
	return asset, nil
}

// Remove deletes an asset by id.
func (s *Store) Remove(ctx context.Context, id int64) error {
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("remove asset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("remove asset %d: %w", id, ErrNotFound)
	}
	return nil
}

// List returns assets filtered by kind and topic; empty filters match all.
func (s *Store) List(ctx context.Context, kind Kind, topic string) ([]Asset, error) {
	query := "SELECT id, path, kind, topic, duration_seconds, added_at FROM assets WHERE 1=1"
	var args []any
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, string(kind))
	}
	if strings.TrimSpace(topic) != "" {
		query += " AND topic = ?"
		args = append(args, topicKey(topic))
	}
	query += " ORDER BY kind, topic, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		var (
			a       Asset
			kindStr string
			added   string
		)
		if err := rows.Scan(&a.ID, &a.Path, &kindStr, &a.Topic, &a.Duration, &added); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		a.Kind = Kind(kindStr)
		if ts, err := time.Parse(time.RFC3339, added); err == nil {
			a.AddedAt = ts
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// Search returns existing files of kind catalogued under topic. When none
// match the topic, every existing file of that kind is returned.
func (s *Store) Search(ctx context.Context, topic string, kind Kind) ([]string, error) {
	if strings.TrimSpace(topic) != "" {
		assets, err := s.List(ctx, kind, topic)
		if err != nil {
			return nil, err
		}
		if paths := existing(assets); len(paths) > 0 {
			return paths, nil
		}
	}
	assets, err := s.List(ctx, kind, "")
	if err != nil {
		return nil, err
	}
	return existing(assets), nil
}

func existing(assets []Asset) []string {
	paths := make([]string, 0, len(assets))
	for _, a := range assets {
		if info, err := os.Stat(a.Path); err == nil && !info.IsDir() {
			paths = append(paths, a.Path)
		}
	}
	return paths
}

func topicKey(topic string) string {
	if strings.TrimSpace(topic) == "" {
		return ""
	}
	return textutil.Slug(topic)
}

// Chain searches each repository in order and returns the first non-empty result.
type Chain []Repository

// Search implements Repository.
func (c Chain) Search(ctx context.Context, topic string, kind Kind) ([]string, error) {
	var firstErr error
	for _, repo := range c {
		if repo == nil {
			continue
		}
		paths, err := repo.Search(ctx, topic, kind)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if len(paths) > 0 {
			return paths, nil
		}
	}
	return nil, firstErr
}
