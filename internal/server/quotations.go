package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	quotationdomain "github.com/smallbiznis/officecrm/internal/quotation/domain"
)

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) CreateQuotation(c *gin.Context) {
	var req quotationdomain.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetQuotation(c *gin.Context) {
	resp, err := s.quotationSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReviseQuotation(c *gin.Context) {
	resp, err := s.quotationSvc.Revise(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateQuotationStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.UpdateStatus(c.Request.Context(), c.Param("id"), quotationdomain.Status(req.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) QuotationPDF(c *gin.Context) {
	c.Set("document_kind", "quotation")
	doc, err := s.quotationSvc.Render(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writePDF(c, doc.Filename, doc.ContentType, doc.Data)
}
