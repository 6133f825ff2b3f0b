package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	followupdomain "github.com/smallbiznis/officecrm/internal/followup/domain"
)

func (s *Server) CreateFollowup(c *gin.Context) {
	var req followupdomain.CreateFollowupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.followupSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetFollowup(c *gin.Context) {
	resp, err := s.followupSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListFollowups(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
		LeadID string `form:"lead_id"`
		Due    string `form:"due"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.followupSvc.List(c.Request.Context(), followupdomain.ListFollowupRequest{
		Status: query.Status,
		LeadID: query.LeadID,
		Window: query.Due,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) FollowupSummary(c *gin.Context) {
	resp, err := s.followupSvc.Summary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CompleteFollowup(c *gin.Context) {
	resp, err := s.followupSvc.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CancelFollowup(c *gin.Context) {
	resp, err := s.followupSvc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteFollowup(c *gin.Context) {
	if err := s.followupSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
