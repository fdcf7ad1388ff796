package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
)

var contentTypes = map[string]string{
	"audio/mpeg":   extMP3,
	"audio/mp3":    extMP3,
	"audio/flac":   extFLAC,
	"audio/x-flac": extFLAC,
	"audio/wav":    extWAV,
	"audio/x-wav":  extWAV,
	"audio/wave":   extWAV,
}

// IsPlayable reports whether the element can decode a file with this name.
func IsPlayable(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case extMP3, extFLAC, extWAV:
		return true
	}
	return false
}

// decoded is an opened and decoded source.
type decoded struct {
	body     io.Closer
	streamer beep.StreamSeekCloser
	format   beep.Format
}

func (d *decoded) Close() error {
	err := d.streamer.Close()
	// Not every decoder closes its reader.
	_ = d.body.Close()
	return err
}

// open fetches and decodes src. Local paths, file:// URLs and http(s) URLs
// are supported. Failures are always returned as *MediaError.
func open(ctx context.Context, client *http.Client, src string) (*decoded, error) {
	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain path, including Windows drive letters.
		return openFile(src)
	}
	switch u.Scheme {
	case "file":
		return openFile(u.Path)
	case "http", "https":
		return openHTTP(ctx, client, u)
	default:
		return nil, &MediaError{Code: MediaErrSrcNotSupported, Err: fmt.Errorf("scheme %q", u.Scheme)}
	}
}

func openFile(p string) (*decoded, error) {
	ext := strings.ToLower(filepath.Ext(p))
	if !IsPlayable(p) {
		return nil, &MediaError{Code: MediaErrSrcNotSupported, Err: fmt.Errorf("unsupported format %q", ext)}
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MediaError{Code: MediaErrSrcNotSupported, Err: err}
		}
		return nil, &MediaError{Code: MediaErrNetwork, Err: err}
	}
	if ext == extFLAC {
		if err := skipID3v2(f); err != nil {
			f.Close()
			return nil, &MediaError{Code: MediaErrDecode, Err: err}
		}
	}
	return decode(f, ext)
}

func openHTTP(ctx context.Context, client *http.Client, u *url.URL) (*decoded, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &MediaError{Code: MediaErrSrcNotSupported, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &MediaError{Code: MediaErrAborted, Err: ctx.Err()}
		}
		return nil, &MediaError{Code: MediaErrNetwork, Err: err}
	}
	switch {
	case resp.StatusCode == http.StatusNotFound,
		resp.StatusCode == http.StatusGone,
		resp.StatusCode == http.StatusUnsupportedMediaType:
		resp.Body.Close()
		return nil, &MediaError{Code: MediaErrSrcNotSupported, Err: fmt.Errorf("http status %d", resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, &MediaError{Code: MediaErrNetwork, Err: fmt.Errorf("http status %d", resp.StatusCode)}
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if !IsPlayable(u.Path) {
		mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
		var ok bool
		if ext, ok = contentTypes[mt]; !ok {
			resp.Body.Close()
			return nil, &MediaError{Code: MediaErrSrcNotSupported, Err: fmt.Errorf("content type %q", mt)}
		}
	}
	return decode(resp.Body, ext)
}

func decode(rc io.ReadCloser, ext string) (*decoded, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch ext {
	case extMP3:
		streamer, format, err = mp3.Decode(rc)
	case extFLAC:
		streamer, format, err = flac.Decode(rc)
	case extWAV:
		streamer, format, err = wav.Decode(rc)
	}
	if err != nil {
		rc.Close()
		return nil, &MediaError{Code: MediaErrDecode, Err: err}
	}
	return &decoded{body: rc, streamer: streamer, format: format}, nil
}

// skipID3v2 moves past an ID3v2 tag some FLAC files carry in front of the
// stream marker. The reader is left at the start if there is none.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}
	// Syncsafe integer: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
