package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/officecrm/internal/artifact"
	"github.com/smallbiznis/officecrm/internal/config"
	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
	followupdomain "github.com/smallbiznis/officecrm/internal/followup/domain"
	invoicedomain "github.com/smallbiznis/officecrm/internal/invoice/domain"
	leaddomain "github.com/smallbiznis/officecrm/internal/lead/domain"
	"github.com/smallbiznis/officecrm/internal/observability"
	obsmiddleware "github.com/smallbiznis/officecrm/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/officecrm/internal/observability/metrics"
	obstracing "github.com/smallbiznis/officecrm/internal/observability/tracing"
	paymentdomain "github.com/smallbiznis/officecrm/internal/payment/domain"
	productdomain "github.com/smallbiznis/officecrm/internal/product/domain"
	projectdomain "github.com/smallbiznis/officecrm/internal/project/domain"
	quotationdomain "github.com/smallbiznis/officecrm/internal/quotation/domain"
	"github.com/smallbiznis/officecrm/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// maxRequestBytes bounds JSON request bodies.
const maxRequestBytes = 4 << 20

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterRoutes()
	}),
	fx.Invoke(RunHTTP),
)

func NewEngine(obsCfg observability.Config, logCfg obsmiddleware.MiddlewareConfig, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	logCfg.ErrorClassifier = classifyErrorForLog
	r.Use(obsmiddleware.GinMiddleware(logCfg))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.Middleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	log          *zap.Logger
	leadSvc      leaddomain.Service
	followupSvc  followupdomain.Service
	productSvc   productdomain.Service
	quotationSvc quotationdomain.Service
	invoiceSvc   invoicedomain.Service
	paymentSvc   paymentdomain.Service
	projectSvc   projectdomain.Service
	documentSvc  docdomain.Service
	artifacts    artifact.Store
	limiter      ratelimit.Limiter
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Log          *zap.Logger
	LeadSvc      leaddomain.Service
	FollowupSvc  followupdomain.Service
	ProductSvc   productdomain.Service
	QuotationSvc quotationdomain.Service
	InvoiceSvc   invoicedomain.Service
	PaymentSvc   paymentdomain.Service
	ProjectSvc   projectdomain.Service
	DocumentSvc  docdomain.Service
	Artifacts    artifact.Store
	Limiter      ratelimit.Limiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:       p.Gin,
		log:          p.Log.Named("http.server"),
		leadSvc:      p.LeadSvc,
		followupSvc:  p.FollowupSvc,
		productSvc:   p.ProductSvc,
		quotationSvc: p.QuotationSvc,
		invoiceSvc:   p.InvoiceSvc,
		paymentSvc:   p.PaymentSvc,
		projectSvc:   p.ProjectSvc,
		documentSvc:  p.DocumentSvc,
		artifacts:    p.Artifacts,
		limiter:      p.Limiter,
	}
}

func (s *Server) RegisterRoutes() {
	s.engine.GET("/downloads/*key", s.DownloadArtifact)

	api := s.engine.Group("/api")
	api.Use(limitBody(maxRequestBytes))

	api.POST("/generate-pdf", s.renderLimit(), s.GeneratePDF)

	api.POST("/leads", s.CreateLead)
	api.GET("/leads", s.ListLeads)
	api.GET("/leads/:id", s.GetLead)

	api.POST("/followups", s.CreateFollowup)
	api.GET("/followups", s.ListFollowups)
	api.GET("/followups/summary", s.FollowupSummary)
	api.GET("/followups/:id", s.GetFollowup)
	api.POST("/followups/:id/complete", s.CompleteFollowup)
	api.POST("/followups/:id/cancel", s.CancelFollowup)
	api.DELETE("/followups/:id", s.DeleteFollowup)

	api.POST("/products", s.CreateProduct)
	api.GET("/products", s.ListProducts)
	api.GET("/products/:id", s.GetProduct)
	api.PATCH("/products/:id", s.UpdateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)

	api.POST("/quotations", s.CreateQuotation)
	api.GET("/quotations/:id", s.GetQuotation)
	api.POST("/quotations/:id/revisions", s.ReviseQuotation)
	api.PATCH("/quotations/:id/status", s.UpdateQuotationStatus)
	api.GET("/quotations/:id/pdf", s.QuotationPDF)
	api.POST("/quotations/:id/invoice", s.CreateInvoiceFromQuotation)

	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/:id", s.GetInvoice)
	api.PATCH("/invoices/:id/status", s.UpdateInvoiceStatus)
	api.GET("/invoices/:id/pdf", s.InvoicePDF)
	api.GET("/invoices/:id/payments", s.ListInvoicePayments)

	api.POST("/payments", s.RecordPayment)
	api.DELETE("/payments/:id", s.DeletePayment)
	api.GET("/payments/:id/receipt", s.PaymentReceipt)

	api.POST("/projects", s.CreateProject)
	api.GET("/projects/:id", s.GetProject)
	api.POST("/projects/:id/expenses", s.AddProjectExpense)
	api.GET("/projects/:id/financials", s.ProjectFinancials)
	api.GET("/projects/:id/statement", s.ProjectStatement)
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// renderLimit throttles ad hoc renders per client IP. Limiter failures let
// the request through.
func (s *Server) renderLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}

		res, err := s.limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			s.log.Warn("render rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			seconds := int(res.RetryAfter.Seconds())
			if res.RetryAfter%time.Second != 0 {
				seconds++
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}
