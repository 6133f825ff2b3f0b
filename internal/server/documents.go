package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/officecrm/internal/artifact"
	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
	"go.uber.org/zap"
)

type generatePDFResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// GeneratePDF renders a document from the request body alone and stores it.
// Nothing is read from or written to the record store.
func (s *Server) GeneratePDF(c *gin.Context) {
	var req docdomain.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	kind, header, err := req.Parse()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Set("document_kind", string(kind))

	ctx := c.Request.Context()
	doc, err := docdomain.Build(ctx, s.documentSvc, kind, header, req.Data.Customer, req.Data.Items)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	key := artifact.Key(string(kind), req.Data.Customer.CompanyName, header.Number)
	url, err := s.artifacts.Put(ctx, key, doc.ContentType, doc.Data)
	if err != nil {
		s.log.Error("store document failed", zap.String("key", key), zap.Error(err))
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	c.JSON(http.StatusOK, generatePDFResponse{
		Success:  true,
		URL:      url,
		Filename: doc.Filename,
	})
}

func (s *Server) DownloadArtifact(c *gin.Context) {
	key, err := artifact.CleanKey(c.Param("key"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	obj, err := s.artifacts.Get(c.Request.Context(), key)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}

// writePDF streams a generated document inline.
func writePDF(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
