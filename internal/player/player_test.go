package player

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wavBytes builds a mono 16-bit PCM WAV of the given length at 8 kHz.
func wavBytes(d time.Duration) []byte {
	const sampleRate = 8000
	samples := int(d.Seconds() * sampleRate)
	dataSize := uint32(samples * 2)

	var b bytes.Buffer
	b.WriteString("RIFF")
	_ = binary.Write(&b, binary.LittleEndian, 36+dataSize)
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	_ = binary.Write(&b, binary.LittleEndian, uint32(16))
	_ = binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&b, binary.LittleEndian, uint16(1)) // mono
	_ = binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&b, binary.LittleEndian, uint32(sampleRate*2))
	_ = binary.Write(&b, binary.LittleEndian, uint16(2))
	_ = binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	_ = binary.Write(&b, binary.LittleEndian, dataSize)
	b.Write(make([]byte, dataSize))
	return b.Bytes()
}

func writeWAV(t *testing.T, name string, d time.Duration) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, wavBytes(d), 0o600))
	return p
}

func mediaCode(t *testing.T, err error) MediaErrorCode {
	t.Helper()
	var me *MediaError
	require.True(t, errors.As(err, &me), "error %v is not a MediaError", err)
	return me.Code
}

func TestLevelToVolume(t *testing.T) {
	tests := []struct {
		level float64
		want  float64
	}{
		{1, 0},
		{1.5, 0},
		{0.5, -1},
		{0.25, -2},
		{0, -10},
		{-1, -10},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, levelToVolume(tt.level), 1e-9, "level %v", tt.level)
	}
}

func TestIsPlayable(t *testing.T) {
	assert.True(t, IsPlayable("a.mp3"))
	assert.True(t, IsPlayable("A.FLAC"))
	assert.True(t, IsPlayable("/x/y.wav"))
	assert.False(t, IsPlayable("a.ogg"))
	assert.False(t, IsPlayable("noext"))
}

func TestSkipID3v2(t *testing.T) {
	t.Run("no tag rewinds", func(t *testing.T) {
		r := bytes.NewReader([]byte("fLaC0123456789"))
		require.NoError(t, skipID3v2(r))
		pos, _ := r.Seek(0, io.SeekCurrent)
		assert.Equal(t, int64(0), pos)
	})

	t.Run("short input rewinds", func(t *testing.T) {
		r := bytes.NewReader([]byte("ID3"))
		require.NoError(t, skipID3v2(r))
		pos, _ := r.Seek(0, io.SeekCurrent)
		assert.Equal(t, int64(0), pos)
	})

	t.Run("tag skipped", func(t *testing.T) {
		// Syncsafe size 0x01 0x00 = 128 bytes.
		header := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 1, 0}
		data := append(header, make([]byte, 128)...)
		data = append(data, []byte("fLaC")...)
		r := bytes.NewReader(data)
		require.NoError(t, skipID3v2(r))
		pos, _ := r.Seek(0, io.SeekCurrent)
		assert.Equal(t, int64(138), pos)
	})
}

func TestOpen_File(t *testing.T) {
	p := writeWAV(t, "tone.wav", time.Second)

	d, err := open(context.Background(), http.DefaultClient, p)
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, time.Second, d.format.SampleRate.D(d.streamer.Len()))

	d2, err := open(context.Background(), http.DefaultClient, "file://"+p)
	require.NoError(t, err)
	d2.Close()
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "bad.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("not a wave file at all"), 0o600))

	tests := []struct {
		name string
		src  string
		want MediaErrorCode
	}{
		{"missing file", filepath.Join(dir, "missing.mp3"), MediaErrSrcNotSupported},
		{"unknown extension", filepath.Join(dir, "song.ogg"), MediaErrSrcNotSupported},
		{"unknown scheme", "ftp://host/song.mp3", MediaErrSrcNotSupported},
		{"undecodable", garbage, MediaErrDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := open(context.Background(), http.DefaultClient, tt.src)
			require.Error(t, err)
			assert.Equal(t, tt.want, mediaCode(t, err))
		})
	}
}

func TestOpen_HTTP(t *testing.T) {
	wav := wavBytes(500 * time.Millisecond)
	mux := http.NewServeMux()
	mux.HandleFunc("/stream/ok", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(wav)
	})
	mux.HandleFunc("/stream/html", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/stream/broken.mp3", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	d, err := open(context.Background(), srv.Client(), srv.URL+"/stream/ok")
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d.format.SampleRate.D(d.streamer.Len()))
	d.Close()

	tests := []struct {
		path string
		want MediaErrorCode
	}{
		{"/stream/missing.mp3", MediaErrSrcNotSupported},
		{"/stream/html", MediaErrSrcNotSupported},
		{"/stream/broken.mp3", MediaErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := open(context.Background(), srv.Client(), srv.URL+tt.path)
			require.Error(t, err)
			assert.Equal(t, tt.want, mediaCode(t, err))
		})
	}
}

func TestOpen_HTTPCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := open(ctx, srv.Client(), srv.URL+"/a.mp3")
	require.Error(t, err)
	assert.Equal(t, MediaErrAborted, mediaCode(t, err))
}

func TestPlayer_LoadFailureEmitsTaggedError(t *testing.T) {
	p := New()
	defer p.Close()

	token := p.Load(filepath.Join(t.TempDir(), "missing.flac"))

	select {
	case e := <-p.Events():
		assert.Equal(t, EventError, e.Type)
		assert.Equal(t, token, e.Token)
		require.NotNil(t, e.Err)
		assert.Equal(t, MediaErrSrcNotSupported, e.Err.Code)
	case <-time.After(5 * time.Second):
		t.Fatal("no event after failed load")
	}
}

func TestPlayer_TokensIncrease(t *testing.T) {
	p := New()
	defer p.Close()

	dir := t.TempDir()
	first := p.Load(filepath.Join(dir, "a.mp3"))
	p.Unload()
	second := p.Load(filepath.Join(dir, "b.mp3"))
	assert.Greater(t, second, first+1)
}

func TestPlayer_NothingLoaded(t *testing.T) {
	p := New()
	defer p.Close()

	assert.ErrorIs(t, p.Play(), ErrNoSource)
	assert.ErrorIs(t, p.Seek(time.Second), ErrNoSource)
	assert.NoError(t, p.Pause())
	p.SetVolume(2)
	assert.Equal(t, 1.0, p.level)
}

func TestPlayer_SeekDoesNotBlockOnFullBuffer(t *testing.T) {
	p := New()
	defer p.Close()

	d, err := openFile(writeWAV(t, "a.wav", 2*time.Second))
	require.NoError(t, err)
	p.mu.Lock()
	p.cur = &loaded{token: 1, src: d, ctrl: &beep.Ctrl{Streamer: d.streamer, Paused: true}}
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.cur = nil
		p.mu.Unlock()
		_ = d.Close()
	}()

	for range eventBufferSize {
		p.events <- Event{Type: EventTimeUpdate, Token: 1}
	}

	done := make(chan error, 1)
	go func() { done <- p.Seek(time.Second) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Seek blocked on a full event buffer")
	}
}

func TestPlayer_CloseIdempotent(t *testing.T) {
	p := New()
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	// Loading after close must not start work.
	p.Load("whatever.mp3")
}

func TestReadTrackInfo_Fallbacks(t *testing.T) {
	p := writeWAV(t, "Some Song.wav", 2*time.Second)

	info, err := ReadTrackInfo(p)
	require.NoError(t, err)
	assert.Equal(t, "Some Song", info.Title)
	assert.Equal(t, 2*time.Second, info.Duration)
	assert.False(t, info.HasCover)

	_, err = ReadTrackInfo(filepath.Join(t.TempDir(), "nope.mp3"))
	assert.Error(t, err)
}

func TestMediaError(t *testing.T) {
	inner := errors.New("boom")
	err := error(&MediaError{Code: MediaErrNetwork, Err: inner})
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "media error: network: boom", err.Error())
	assert.Equal(t, "media error: decode", (&MediaError{Code: MediaErrDecode}).Error())
	assert.True(t, IsInterrupted(ErrInterrupted))
	assert.False(t, IsInterrupted(ErrNoSource))
}

func TestMock_RecordsCalls(t *testing.T) {
	m := NewMock()

	assert.ErrorIs(t, m.Play(), ErrNoSource)
	tok := m.Load("a")
	assert.ErrorIs(t, m.Seek(time.Second), ErrNoSource, "not ready yet")
	m.EmitReady(tok)
	<-m.Events()
	require.NoError(t, m.Play())
	assert.True(t, m.IsPlaying())
	require.NoError(t, m.Seek(3*time.Second))
	m.SetVolume(0.4)
	m.Unload()

	assert.Equal(t, []string{"a"}, m.Loads())
	assert.Equal(t, 1, m.Unloads())
	assert.Equal(t, 2, m.Plays())
	assert.Equal(t, []time.Duration{3 * time.Second}, m.Seeks())
	assert.InDelta(t, 0.4, m.Volume(), 1e-9)
	assert.Greater(t, m.Token(), tok)
	assert.False(t, m.IsPlaying())

	m.EmitReady(tok)
	e := <-m.Events()
	assert.Equal(t, EventReady, e.Type)
	assert.Equal(t, "ready", e.Type.String())
}
