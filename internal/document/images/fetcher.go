// Package images fetches remote logo and product images for documents.
// Every failure degrades to "no image"; nothing here aborts a render.
package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/smallbiznis/officecrm/internal/config"
	"github.com/smallbiznis/officecrm/internal/document/layout"
	"github.com/smallbiznis/officecrm/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyURL        = errors.New("empty_image_url")
	ErrTooLarge        = errors.New("image_too_large")
	ErrUnsupportedType = errors.New("unsupported_image_type")
	ErrBadStatus       = errors.New("image_bad_status")
)

const (
	defaultTimeout     = 2 * time.Second
	defaultMaxBytes    = 5 << 20
	defaultConcurrency = 8
)

// Fetcher downloads images with an independent timeout per image.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	maxBytes    int64
	concurrency int
	log         *zap.Logger
	metrics     *metrics.Metrics
}

type Params struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
	Client  *http.Client     `optional:"true"`
}

func New(p Params) *Fetcher {
	f := &Fetcher{
		client:      p.Client,
		timeout:     p.Config.Document.ImageTimeout,
		maxBytes:    p.Config.Document.ImageMaxBytes,
		concurrency: p.Config.Document.ImageConcurrency,
		log:         zap.NewNop(),
		metrics:     p.Metrics,
	}
	if p.Log != nil {
		f.log = p.Log.Named("document.images")
	}
	if f.client == nil {
		f.client = &http.Client{}
	}
	if f.timeout <= 0 {
		f.timeout = defaultTimeout
	}
	if f.maxBytes <= 0 {
		f.maxBytes = defaultMaxBytes
	}
	if f.concurrency <= 0 {
		f.concurrency = defaultConcurrency
	}
	return f
}

// Fetch downloads url and returns it in a form the PDF canvas can embed.
// WebP images are converted to PNG.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*layout.Image, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrEmptyURL
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ErrTooLarge
	}

	return decode(url, data)
}

func decode(name string, data []byte) (*layout.Image, error) {
	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is("image/jpeg"):
		return &layout.Image{Name: name, Type: "JPG", Data: data}, nil
	case mtype.Is("image/png"):
		return &layout.Image{Name: name, Type: "PNG", Data: data}, nil
	case mtype.Is("image/gif"):
		return &layout.Image{Name: name, Type: "GIF", Data: data}, nil
	case mtype.Is("image/webp"):
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode webp: %w", err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		return &layout.Image{Name: name, Type: "PNG", Data: buf.Bytes()}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
	}
}

// TryFetch is Fetch with failures logged and counted instead of returned.
func (f *Fetcher) TryFetch(ctx context.Context, url string) *layout.Image {
	if strings.TrimSpace(url) == "" {
		return nil
	}
	img, err := f.Fetch(ctx, url)
	if err != nil {
		f.log.Warn("image fetch failed, continuing without it",
			zap.String("url", url),
			zap.Error(err),
		)
		f.metrics.RecordImageFetchFailure(ctx, failureReason(ctx, err))
		return nil
	}
	return img
}

// Prefetch fetches the distinct non-empty urls concurrently. Failed urls are
// absent from the result; a cancelled ctx yields an empty map.
func (f *Fetcher) Prefetch(ctx context.Context, urls []string) map[string]*layout.Image {
	unique := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}

	out := make(map[string]*layout.Image, len(unique))
	if len(unique) == 0 || ctx.Err() != nil {
		return out
	}

	results := make([]*layout.Image, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, u := range unique {
		g.Go(func() error {
			results[i] = f.TryFetch(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return make(map[string]*layout.Image)
	}
	for i, u := range unique {
		if results[i] != nil {
			out[u] = results[i]
		}
	}
	return out
}

func failureReason(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, ErrTooLarge):
		return "too_large"
	case errors.Is(err, ErrUnsupportedType):
		return "unsupported_type"
	case errors.Is(err, ErrBadStatus):
		return "bad_status"
	default:
		return "transport"
	}
}
