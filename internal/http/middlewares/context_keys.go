package middlewares

const (
	CtxRequestID = "request_id"
	CtxUserID    = "identity.userID"
)
