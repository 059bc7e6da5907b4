package news

import "errors"

// Sentinel errors for the gateway. Handlers map these to HTTP statuses
// and stable API codes; everything else is an internal error.
var (
	ErrInvalidFormat     = errors.New("invalid request format")
	ErrRateLimitExceeded = errors.New("daily news request limit reached")
	ErrUpstream          = errors.New("upstream news provider error")
	ErrArticleNotFound   = errors.New("article not found")
	ErrForbidden         = errors.New("operation not permitted")
)

// Code returns the stable API error code for err, or empty string for
// errors that have no client-visible code.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidFormat):
		return "VAL_INVALID_FORMAT"
	case errors.Is(err, ErrRateLimitExceeded):
		return "NEWS_RATE_LIMIT_EXCEEDED"
	case errors.Is(err, ErrUpstream):
		return "NEWS_UPSTREAM_ERROR"
	case errors.Is(err, ErrArticleNotFound):
		return "NEWS_ARTICLE_NOT_FOUND"
	case errors.Is(err, ErrForbidden):
		return "AUTH_FORBIDDEN"
	default:
		return ""
	}
}
