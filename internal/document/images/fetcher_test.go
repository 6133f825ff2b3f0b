package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smallbiznis/officecrm/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 102, 0, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	return New(Params{Config: config.Config{Document: config.DocumentConfig{
		ImageTimeout:  timeout,
		ImageMaxBytes: maxBytes,
	}}})
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	body := pngBytes(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	})
	mux.HandleFunc("/slow.png", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write(body)
	})
	mux.HandleFunc("/text", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello, not an image"))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchPNG(t *testing.T) {
	srv := testServer(t)
	f := newFetcher(time.Second, 0)

	img, err := f.Fetch(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, "PNG", img.Type)
	assert.Equal(t, srv.URL+"/ok.png", img.Name)
}

func TestFetchFailures(t *testing.T) {
	srv := testServer(t)
	f := newFetcher(100*time.Millisecond, 0)
	ctx := context.Background()

	_, err := f.Fetch(ctx, srv.URL+"/slow.png")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = f.Fetch(ctx, srv.URL+"/text")
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = f.Fetch(ctx, srv.URL+"/missing")
	assert.ErrorIs(t, err, ErrBadStatus)

	_, err = f.Fetch(ctx, " ")
	assert.ErrorIs(t, err, ErrEmptyURL)

	small := newFetcher(time.Second, 10)
	_, err = small.Fetch(ctx, srv.URL+"/ok.png")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestPrefetchSkipsFailuresWithinTimeout(t *testing.T) {
	srv := testServer(t)
	f := newFetcher(150*time.Millisecond, 0)

	start := time.Now()
	got := f.Prefetch(context.Background(), []string{
		srv.URL + "/ok.png",
		srv.URL + "/slow.png",
		srv.URL + "/ok.png",
		"",
		srv.URL + "/text",
	})
	elapsed := time.Since(start)

	require.Len(t, got, 1)
	assert.Contains(t, got, srv.URL+"/ok.png")
	assert.Less(t, elapsed, time.Second)
}

func TestPrefetchCancelled(t *testing.T) {
	srv := testServer(t)
	f := newFetcher(time.Second, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, f.Prefetch(ctx, []string{srv.URL + "/ok.png"}))
}

func TestTryFetchReturnsNilOnFailure(t *testing.T) {
	srv := testServer(t)
	f := newFetcher(time.Second, 0)
	assert.Nil(t, f.TryFetch(context.Background(), srv.URL+"/missing"))
	assert.Nil(t, f.TryFetch(context.Background(), ""))
}
