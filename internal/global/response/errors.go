package response

const CodeSuccess int32 = 200

var (
	ErrInvalidRequest  = newError(400, "invalid request")
	ErrInvalidPassword = newError(400, "email or password is incorrect")
	ErrTokenInvalid    = newError(401, "token is invalid or expired")
	ErrUnauthorized    = newError(401, "unauthorized")
	ErrForbidden       = newError(403, "permission denied")
	ErrNotFound        = newError(404, "resource not found")
	ErrAlreadyExists   = newError(409, "resource already exists")
	ErrFileTooLarge    = newError(413, "file too large")
	ErrTooManyRequests = newError(429, "too many requests")
	ErrServer          = newError(500, "internal server error")
	ErrDatabase        = newError(500, "database error")
	ErrStorage         = newError(500, "storage error")
	ErrEmbedding       = newError(502, "embedding service unavailable")
)
