package utils

// Messages returned to clients for faults the handlers do not classify.
const (
	MsgRouteNotFound    = "route not found"
	MsgInternalError    = "internal server error"
	MsgModelsExhausted  = "could not obtain a response from any available model"
	MsgUpstreamTimeout  = "upstream completion request timed out, please try again"
	MsgUpstreamDown     = "could not connect to the completion provider"
	MsgRequestCancelled = "request cancelled before a model answered"
	MsgSaveFailed       = "failed to save prediction"
	MsgHistoryFailed    = "failed to load historical predictions"
	MsgBodyTooLarge     = "request body exceeds 1 MiB"
)
