package api

type ContextKey string

const (
	CtxKeyRequestID ContextKey = "request_id"
)

const (
	HeaderRequestID  = "X-Request-ID"
	HeaderTotalCount = "X-Total-Count"
)

type MessageResponse struct {
	Message string `json:"message"`
}
