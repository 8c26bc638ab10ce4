package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/match-explainer/internal/services"
	"github.com/stitts-dev/match-explainer/pkg/utils"
)

// respondError maps service errors onto status codes and JSON bodies.
// Upstream response bodies never reach the client.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var exhausted *services.ExhaustedError
	var renderErr *services.RenderError
	var persistErr *services.PersistenceError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		utils.SendError(c, http.StatusRequestEntityTooLarge, utils.MsgBodyTooLarge)

	case services.IsValidationError(err):
		utils.SendBadRequest(c, err.Error())

	case errors.As(err, &exhausted):
		detail := ""
		if last, ok := exhausted.Last(); ok {
			detail = last.Summary()
		}
		switch exhausted.Kind() {
		case services.FailureTimeout:
			utils.SendErrorWithDetail(c, http.StatusGatewayTimeout, utils.MsgUpstreamTimeout, detail)
		case services.FailureUnreachable:
			utils.SendErrorWithDetail(c, http.StatusServiceUnavailable, utils.MsgUpstreamDown, detail)
		default:
			utils.SendErrorWithDetail(c, http.StatusInternalServerError, utils.MsgModelsExhausted, detail)
		}

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		utils.SendError(c, http.StatusServiceUnavailable, utils.MsgRequestCancelled)

	case errors.As(err, &renderErr):
		utils.SendInternalError(c, renderErr.Error())

	case errors.As(err, &persistErr):
		if persistErr.Op == "save" {
			utils.SendInternalError(c, utils.MsgSaveFailed)
		} else {
			utils.SendInternalError(c, utils.MsgHistoryFailed)
		}

	default:
		utils.SendInternalError(c, utils.MsgInternalError)
	}
}
