package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/match-explainer/internal/models"
	"github.com/stitts-dev/match-explainer/internal/services"
	"github.com/stitts-dev/match-explainer/pkg/utils"
)

// ChartHandler handles POST /generate_chart
type ChartHandler struct {
	renderer *services.ChartRenderer
}

// NewChartHandler creates a new chart handler
func NewChartHandler(renderer *services.ChartRenderer) *ChartHandler {
	return &ChartHandler{
		renderer: renderer,
	}
}

// GenerateChart renders the comparison chart as a PNG data URI
func (h *ChartHandler) GenerateChart(c *gin.Context) {
	raw, err := readBody(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.ChartRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			reason := "invalid chart payload"
			if typeErr.Field != "" {
				reason = "invalid " + typeErr.Field
			}
			respondError(c, &services.RenderError{Reason: reason})
			return
		}
		respondError(c, services.ErrNoPayload)
		return
	}

	png, err := h.renderer.Render(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SendJSON(c, gin.H{
		"chart": services.EncodeDataURI(png),
	})
}
