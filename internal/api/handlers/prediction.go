package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/match-explainer/internal/services"
	"github.com/stitts-dev/match-explainer/pkg/utils"
)

// PredictionHandler handles saving and listing prediction records
type PredictionHandler struct {
	predictionService *services.PredictionService
	historyLimit      int
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictionService *services.PredictionService, historyLimit int) *PredictionHandler {
	if historyLimit <= 0 {
		historyLimit = services.DefaultHistoryLimit
	}
	return &PredictionHandler{
		predictionService: predictionService,
		historyLimit:      historyLimit,
	}
}

// SavePrediction handles POST /save_prediction
func (h *PredictionHandler) SavePrediction(c *gin.Context) {
	raw, err := readBody(c)
	if err != nil {
		respondError(c, err)
		return
	}

	saved, err := h.predictionService.Save(c.Request.Context(), raw)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SendJSON(c, gin.H{
		"success":  true,
		"message":  "Prediction saved successfully",
		"filename": saved.Filename,
	})
}

// GetHistorical handles GET /get_historical
func (h *PredictionHandler) GetHistorical(c *gin.Context) {
	predictions, err := h.predictionService.ListRecent(c.Request.Context(), h.historyLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SendJSON(c, gin.H{
		"predictions": predictions,
	})
}
