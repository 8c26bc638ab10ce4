package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/match-explainer/internal/services"
	"github.com/stitts-dev/match-explainer/pkg/utils"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

// ExplanationHandler handles POST /get_explanation
type ExplanationHandler struct {
	explanationService *services.ExplanationService
}

// NewExplanationHandler creates a new explanation handler
func NewExplanationHandler(explanationService *services.ExplanationService) *ExplanationHandler {
	return &ExplanationHandler{
		explanationService: explanationService,
	}
}

// GetExplanation validates the comparison and asks the candidate models for an explanation
func (h *ExplanationHandler) GetExplanation(c *gin.Context) {
	raw, err := readBody(c)
	if err != nil {
		respondError(c, err)
		return
	}

	req, err := services.ValidateComparisonPayload(raw)
	if err != nil {
		respondError(c, err)
		return
	}

	explanation, err := h.explanationService.Explain(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("X-Explanation-Model", explanation.Model)
	utils.SendJSON(c, gin.H{
		"explanation": explanation.Text,
	})
}

// readBody reads at most maxBodyBytes. Oversized bodies return
// *http.MaxBytesError; any other read failure counts as no payload.
func readBody(c *gin.Context) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, services.ErrNoPayload
	}
	return raw, nil
}
