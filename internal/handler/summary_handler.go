package handler

import (
	"net/http"

	"galeri/internal/middleware"
	"galeri/internal/service"
	"galeri/pkg/response"

	"github.com/gin-gonic/gin"
)

type SummaryHandler struct {
	summaryService service.SummaryService
}

func NewSummaryHandler(summaryService service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

func (h *SummaryHandler) RegisterRoutes(router *gin.RouterGroup) {
	summary := router.Group("/api/summary")
	summary.Use(middleware.RequireAuth())
	{
		summary.GET("", h.GetSummary)
	}
}

// GetSummary derives the financial report from all vehicles, transactions and settings
// @Summary      Financial summary
// @Description  Stock value, gross/net profit, estimated tax burden and per-vehicle profit breakdown
// @Tags         summary
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.SummaryResponse}
// @Router       /api/summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	report, err := h.summaryService.GetSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
