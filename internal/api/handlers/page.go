package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the single-page frontend
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": "Match Prediction Explainer",
	})
}
