package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/smallbiznis/officecrm/internal/category"
	"github.com/smallbiznis/officecrm/internal/config"
	"github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/document/images"
	"github.com/smallbiznis/officecrm/internal/document/layout"
	"github.com/smallbiznis/officecrm/internal/document/render"
	"github.com/smallbiznis/officecrm/internal/observability/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// totalsTolerance is the largest difference between the persisted total and
// the re-derived grand total that is not reported.
const totalsTolerance = 0.01

type Params struct {
	fx.In

	Company  config.Company
	Renderer *render.Renderer
	Images   *images.Fetcher `optional:"true"`
	Log      *zap.Logger
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	company  config.Company
	renderer *render.Renderer
	images   *images.Fetcher
	log      *zap.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

func New(p Params) domain.Service {
	return &Service{
		company:  p.Company,
		renderer: p.Renderer,
		images:   p.Images,
		log:      p.Log.Named("document.service"),
		metrics:  p.Metrics,
		tracer:   otel.Tracer("officecrm/document"),
	}
}

func (s *Service) BuildQuotationDocument(ctx context.Context, header domain.Header, customer domain.Customer, items []domain.LineItem) (*domain.Artifact, error) {
	return s.build(ctx, domain.KindQuotation, header, customer, items)
}

func (s *Service) BuildInvoiceDocument(ctx context.Context, header domain.Header, customer domain.Customer, items []domain.LineItem) (*domain.Artifact, error) {
	return s.build(ctx, domain.KindInvoice, header, customer, items)
}

func (s *Service) build(ctx context.Context, kind domain.Kind, header domain.Header, customer domain.Customer, items []domain.LineItem) (*domain.Artifact, error) {
	ctx, span := s.tracer.Start(ctx, "document.build", trace.WithAttributes(
		attribute.String("document.kind", string(kind)),
		attribute.Int("document.items", len(items)),
	))
	defer span.End()

	if err := header.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(items) == 0 {
		span.SetStatus(codes.Error, domain.ErrEmptyItems.Error())
		return nil, domain.ErrEmptyItems
	}

	in := render.Input{
		Kind:     kind,
		Header:   header,
		Customer: customer,
		Groups:   category.GroupAndOrder(items, func(i domain.LineItem) string { return i.Category }),
	}
	in.Logo, in.Images = s.fetchImages(ctx, kind, items)

	result, err := s.renderer.Render(in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, fmt.Errorf("render %s %s: %w", kind, header.Number, err)
	}

	if header.TotalAmount > 0 && math.Abs(result.GrandTotal-header.TotalAmount) > totalsTolerance {
		s.log.Warn("document total differs from line items",
			zap.String("kind", string(kind)),
			zap.String("number", header.Number),
			zap.Float64("persisted_total", header.TotalAmount),
			zap.Float64("derived_total", result.GrandTotal),
		)
		s.metrics.RecordTotalsMismatch(ctx, string(kind))
	}

	if result.ImageFailures > 0 {
		s.log.Warn("images left out of document",
			zap.String("kind", string(kind)),
			zap.String("number", header.Number),
			zap.Int("count", result.ImageFailures),
		)
		for range result.ImageFailures {
			s.metrics.RecordImageFetchFailure(ctx, "draw")
		}
	}

	s.metrics.RecordDocumentGenerated(ctx, string(kind), result.Pages)
	span.SetAttributes(attribute.Int("document.pages", result.Pages))
	s.log.Debug("document generated",
		zap.String("kind", string(kind)),
		zap.String("number", header.Number),
		zap.Int("pages", result.Pages),
		zap.Int("bytes", len(result.Data)),
	)

	return &domain.Artifact{
		Kind:        kind,
		Filename:    header.Number + ".pdf",
		ContentType: domain.ContentTypePDF,
		Data:        result.Data,
		Pages:       result.Pages,
		GrandTotal:  result.GrandTotal,
		Breakdown:   result.Breakdown,
	}, nil
}

// fetchImages loads the logo and, for quotations, every item image. Any
// failure leaves the image out.
func (s *Service) fetchImages(ctx context.Context, kind domain.Kind, items []domain.LineItem) (*layout.Image, map[string]*layout.Image) {
	if s.images == nil {
		return nil, nil
	}

	var urls []string
	if kind == domain.KindQuotation {
		for _, item := range items {
			if u := strings.TrimSpace(item.ImageURL); u != "" {
				urls = append(urls, u)
			}
		}
	}
	logoURL := strings.TrimSpace(s.company.LogoURL)
	if logoURL != "" {
		urls = append(urls, logoURL)
	}

	fetched := s.images.Prefetch(ctx, urls)
	logo := fetched[logoURL]
	return logo, fetched
}
