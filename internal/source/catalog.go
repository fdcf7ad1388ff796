package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/llehouerou/tempo/internal/db"
	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/player"
)

// ErrNotFound is returned for unknown track or upload ids.
var ErrNotFound = errors.New("not found")

// Entry is a catalog track with its audio location.
type Entry struct {
	Track     playback.Track
	Location  string // empty when only uploads carry audio
	AddedAt   time.Time
	UpdatedAt time.Time
}

// Upload is an alternate audio file attached to a track.
type Upload struct {
	ID        string
	TrackID   string
	Location  string
	CreatedAt time.Time
}

// Catalog is a SQLite store of tracks and uploads. It resolves a track by
// its upload id first and its own location second.
type Catalog struct {
	db  *sql.DB
	now func() time.Time
}

// OpenCatalog opens the catalog database at path.
func OpenCatalog(path string) (*Catalog, error) {
	sqlDB, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	c, err := NewCatalog(sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return c, nil
}

// NewCatalog wraps an open database, creating the schema if needed.
func NewCatalog(sqlDB *sql.DB) (*Catalog, error) {
	if err := initSchema(sqlDB); err != nil {
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}
	return &Catalog{db: sqlDB, now: time.Now}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Resolve implements Resolver.
func (c *Catalog) Resolve(ctx context.Context, t playback.Track) (string, error) {
	if t.UploadID != "" {
		var loc string
		err := c.db.QueryRowContext(ctx,
			`SELECT location FROM uploads WHERE id = ?`, t.UploadID).Scan(&loc)
		switch {
		case err == nil:
			return loc, nil
		case !errors.Is(err, sql.ErrNoRows):
			return "", fmt.Errorf("resolve upload %s: %w", t.UploadID, err)
		}
	}

	var loc sql.NullString
	err := c.db.QueryRowContext(ctx,
		`SELECT location FROM tracks WHERE id = ?`, t.ID).Scan(&loc)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", ErrNotAvailable
	case err != nil:
		return "", fmt.Errorf("resolve track %s: %w", t.ID, err)
	}
	if db.NullStringValue(loc) == "" {
		// Fall back to the most recent upload.
		var up string
		err := c.db.QueryRowContext(ctx, `
			SELECT location FROM uploads WHERE track_id = ?
			ORDER BY created_at DESC LIMIT 1`, t.ID).Scan(&up)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return "", ErrNotAvailable
		case err != nil:
			return "", fmt.Errorf("resolve track %s: %w", t.ID, err)
		}
		return up, nil
	}
	return loc.String, nil
}

// Put inserts or updates a track. An empty id gets a new UUID. The stored
// entry is returned.
func (c *Catalog) Put(ctx context.Context, e Entry) (Entry, error) {
	if e.Track.ID == "" {
		e.Track.ID = uuid.NewString()
	}
	if strings.TrimSpace(e.Track.Title) == "" {
		return Entry{}, errors.New("track title is required")
	}
	now := c.now()
	err := db.WithTx(ctx, c.db, func(tx *sql.Tx) error {
		var added int64
		err := tx.QueryRowContext(ctx, `SELECT added_at FROM tracks WHERE id = ?`, e.Track.ID).Scan(&added)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			added = now.Unix()
		case err != nil:
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tracks (id, title, artist, cover_url, duration_ms, location, added_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				artist = excluded.artist,
				cover_url = excluded.cover_url,
				duration_ms = excluded.duration_ms,
				location = excluded.location,
				updated_at = excluded.updated_at`,
			e.Track.ID, e.Track.Title, e.Track.Artist, db.NullString(e.Track.CoverURL),
			e.Track.Duration.Milliseconds(), db.NullString(e.Location), added, now.Unix())
		if err != nil {
			return err
		}
		e.AddedAt = time.Unix(added, 0)
		e.UpdatedAt = time.Unix(now.Unix(), 0)
		return nil
	})
	if err != nil {
		return Entry{}, fmt.Errorf("put track %s: %w", e.Track.ID, err)
	}
	return e, nil
}

// AddUpload attaches an audio location to an existing track.
func (c *Catalog) AddUpload(ctx context.Context, trackID, location string) (Upload, error) {
	up := Upload{
		ID:        uuid.NewString(),
		TrackID:   trackID,
		Location:  location,
		CreatedAt: time.Unix(c.now().Unix(), 0),
	}
	err := db.WithTx(ctx, c.db, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM tracks WHERE id = ?`, trackID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO uploads (id, track_id, location, created_at) VALUES (?, ?, ?, ?)`,
			up.ID, up.TrackID, up.Location, up.CreatedAt.Unix())
		return err
	})
	if err != nil {
		return Upload{}, fmt.Errorf("add upload to %s: %w", trackID, err)
	}
	return up, nil
}

// Uploads lists the uploads of a track, newest first.
func (c *Catalog) Uploads(ctx context.Context, trackID string) ([]Upload, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, track_id, location, created_at FROM uploads
		WHERE track_id = ? ORDER BY created_at DESC, id`, trackID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ups []Upload
	for rows.Next() {
		var u Upload
		var created int64
		if err := rows.Scan(&u.ID, &u.TrackID, &u.Location, &created); err != nil {
			return nil, err
		}
		u.CreatedAt = time.Unix(created, 0)
		ups = append(ups, u)
	}
	return ups, rows.Err()
}

const selectEntry = `
	SELECT id, title, artist, cover_url, duration_ms, location, added_at, updated_at
	FROM tracks`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e              Entry
		cover, loc     sql.NullString
		durMS          sql.NullInt64
		added, updated int64
	)
	if err := s.Scan(&e.Track.ID, &e.Track.Title, &e.Track.Artist, &cover, &durMS, &loc, &added, &updated); err != nil {
		return Entry{}, err
	}
	e.Track.CoverURL = db.NullStringValue(cover)
	e.Track.Duration = time.Duration(db.NullInt64Value(durMS)) * time.Millisecond
	e.Location = db.NullStringValue(loc)
	e.AddedAt = time.Unix(added, 0)
	e.UpdatedAt = time.Unix(updated, 0)
	return e, nil
}

// Get returns one track.
func (c *Catalog) Get(ctx context.Context, id string) (Entry, error) {
	e, err := scanEntry(c.db.QueryRowContext(ctx, selectEntry+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// List returns every track ordered by artist then title.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, selectEntry+` ORDER BY artist COLLATE NOCASE, title COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Remove deletes a track and its uploads.
func (c *Catalog) Remove(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove track %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// entrySource exposes "artist title" strings to the fuzzy matcher.
type entrySource []Entry

func (s entrySource) String(i int) string {
	return s[i].Track.Artist + " " + s[i].Track.Title
}

func (s entrySource) Len() int { return len(s) }

// Search returns tracks fuzzily matching query, best first. A limit of 0
// means no limit.
func (c *Catalog) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		if limit > 0 && len(all) > limit {
			all = all[:limit]
		}
		return all, nil
	}
	matches := fuzzy.FindFrom(query, entrySource(all))
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]Entry, len(matches))
	for i, m := range matches {
		out[i] = all[m.Index]
	}
	return out, nil
}

// ImportFile adds a local audio file, reading its tags. The file path
// becomes the track location. Re-importing the same path updates the
// existing track.
func (c *Catalog) ImportFile(ctx context.Context, path string) (Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Entry{}, err
	}
	info, err := player.ReadTrackInfo(abs)
	if err != nil {
		return Entry{}, fmt.Errorf("read %s: %w", abs, err)
	}

	e := Entry{
		Track: playback.Track{
			Title:    info.Title,
			Artist:   info.Artist,
			Duration: info.Duration,
		},
		Location: abs,
	}
	var id string
	err = c.db.QueryRowContext(ctx, `SELECT id FROM tracks WHERE location = ?`, abs).Scan(&id)
	switch {
	case err == nil:
		e.Track.ID = id
	case !errors.Is(err, sql.ErrNoRows):
		return Entry{}, err
	}
	return c.Put(ctx, e)
}

// ImportResult summarises an ImportDir run.
type ImportResult struct {
	Imported []Entry
	Failed   map[string]error
}

// ImportDir imports every playable file under root.
func (c *Catalog) ImportDir(ctx context.Context, root string) (ImportResult, error) {
	res := ImportResult{Failed: make(map[string]error)}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !player.IsPlayable(path) {
			return nil
		}
		e, err := c.ImportFile(ctx, path)
		if err != nil {
			res.Failed[path] = err
			return nil
		}
		res.Imported = append(res.Imported, e)
		return nil
	})
	return res, err
}
