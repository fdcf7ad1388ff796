package source

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tempo/internal/db"
	"github.com/llehouerou/tempo/internal/playback"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	sqlDB, err := db.Open(":memory:")
	require.NoError(t, err)
	c, err := NewCatalog(sqlDB)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	clock := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return c
}

// writeWAV writes a silent mono 16-bit 8 kHz WAV file.
func writeWAV(t *testing.T, path string, d time.Duration) {
	t.Helper()
	samples := int(d.Seconds() * 8000)
	size := uint32(samples * 2)
	var b bytes.Buffer
	b.WriteString("RIFF")
	_ = binary.Write(&b, binary.LittleEndian, 36+size)
	b.WriteString("WAVEfmt ")
	for _, v := range []any{uint32(16), uint16(1), uint16(1), uint32(8000), uint32(16000), uint16(2), uint16(16)} {
		_ = binary.Write(&b, binary.LittleEndian, v)
	}
	b.WriteString("data")
	_ = binary.Write(&b, binary.LittleEndian, size)
	b.Write(make([]byte, size))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o600))
}

func TestCatalog_PutGet(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	e, err := c.Put(ctx, Entry{
		Track: playback.Track{
			Title:    "Blue in Green",
			Artist:   "Miles Davis",
			CoverURL: "https://img.example/kob.jpg",
			Duration: 337 * time.Second,
		},
		Location: "/music/blue.flac",
	})
	require.NoError(t, err)
	require.NotEmpty(t, e.Track.ID)

	got, err := c.Get(ctx, e.Track.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Track, got.Track)
	assert.Equal(t, "/music/blue.flac", got.Location)
	assert.Equal(t, e.AddedAt, got.AddedAt)

	// Update keeps added_at.
	e.Track.Title = "Blue In Green"
	updated, err := c.Put(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, e.AddedAt, updated.AddedAt)
	assert.True(t, updated.UpdatedAt.After(e.UpdatedAt))

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Put(ctx, Entry{Track: playback.Track{ID: "x"}})
	assert.Error(t, err)
}

func TestCatalog_ListAndRemove(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	for _, tr := range []playback.Track{
		{ID: "3", Title: "So What", Artist: "Miles Davis"},
		{ID: "1", Title: "Naima", Artist: "John Coltrane"},
		{ID: "2", Title: "Freddie Freeloader", Artist: "Miles Davis"},
	} {
		_, err := c.Put(ctx, Entry{Track: tr})
		require.NoError(t, err)
	}

	list, err := c.List(ctx)
	require.NoError(t, err)
	ids := make([]string, len(list))
	for i, e := range list {
		ids[i] = e.Track.ID
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)

	_, err = c.AddUpload(ctx, "2", "/up/ff.mp3")
	require.NoError(t, err)

	require.NoError(t, c.Remove(ctx, "2"))
	assert.ErrorIs(t, c.Remove(ctx, "2"), ErrNotFound)

	ups, err := c.Uploads(ctx, "2")
	require.NoError(t, err)
	assert.Empty(t, ups, "uploads are removed with their track")
}

func TestCatalog_Resolve(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	_, err := c.Put(ctx, Entry{Track: playback.Track{ID: "t1", Title: "One"}, Location: "/a/one.mp3"})
	require.NoError(t, err)
	_, err = c.Put(ctx, Entry{Track: playback.Track{ID: "t2", Title: "Two"}})
	require.NoError(t, err)
	_, err = c.Put(ctx, Entry{Track: playback.Track{ID: "t3", Title: "Three"}})
	require.NoError(t, err)

	up1, err := c.AddUpload(ctx, "t1", "/uploads/one-v2.mp3")
	require.NoError(t, err)
	_, err = c.AddUpload(ctx, "t2", "/uploads/two-old.mp3")
	require.NoError(t, err)
	_, err = c.AddUpload(ctx, "t2", "/uploads/two-new.mp3")
	require.NoError(t, err)

	_, err = c.AddUpload(ctx, "nope", "/x.mp3")
	assert.ErrorIs(t, err, ErrNotFound)

	tests := []struct {
		name    string
		track   playback.Track
		want    string
		wantErr error
	}{
		{"track location", playback.Track{ID: "t1"}, "/a/one.mp3", nil},
		{"upload id wins", playback.Track{ID: "t1", UploadID: up1.ID}, "/uploads/one-v2.mp3", nil},
		{"unknown upload falls back", playback.Track{ID: "t1", UploadID: "gone"}, "/a/one.mp3", nil},
		{"newest upload when no location", playback.Track{ID: "t2"}, "/uploads/two-new.mp3", nil},
		{"nothing to play", playback.Track{ID: "t3"}, "", ErrNotAvailable},
		{"unknown track", playback.Track{ID: "t9"}, "", ErrNotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Resolve(ctx, tt.track)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog_Search(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	for _, tr := range []playback.Track{
		{ID: "1", Title: "Naima", Artist: "John Coltrane"},
		{ID: "2", Title: "Giant Steps", Artist: "John Coltrane"},
		{ID: "3", Title: "So What", Artist: "Miles Davis"},
	} {
		_, err := c.Put(ctx, Entry{Track: tr})
		require.NoError(t, err)
	}

	got, err := c.Search(ctx, "giant", 0)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "2", got[0].Track.ID)

	got, err = c.Search(ctx, "coltrane", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = c.Search(ctx, "zzzz", 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = c.Search(ctx, "  ", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCatalog_Import(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeWAV(t, filepath.Join(dir, "Intro.wav"), time.Second)
	writeWAV(t, filepath.Join(dir, "sub", "Outro.wav"), 2*time.Second)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.wav"), []byte("junk"), 0o600))

	res, err := c.ImportDir(ctx, dir)
	require.NoError(t, err)
	assert.Len(t, res.Imported, 2)
	assert.Len(t, res.Failed, 1)
	assert.Contains(t, res.Failed, filepath.Join(dir, "broken.wav"))

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Intro", list[0].Track.Title)
	assert.Equal(t, time.Second, list[0].Track.Duration)

	// Importing again updates in place.
	again, err := c.ImportFile(ctx, filepath.Join(dir, "Intro.wav"))
	require.NoError(t, err)
	assert.Equal(t, list[0].Track.ID, again.Track.ID)

	src, err := c.Resolve(ctx, again.Track)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Intro.wav"), src)
}

func TestOpenCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempo", "catalog.db")
	c, err := OpenCatalog(path)
	require.NoError(t, err)
	_, err = c.Put(context.Background(), Entry{Track: playback.Track{ID: "a", Title: "A"}})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = OpenCatalog(path)
	require.NoError(t, err)
	defer c.Close()
	_, err = c.Get(context.Background(), "a")
	assert.NoError(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
