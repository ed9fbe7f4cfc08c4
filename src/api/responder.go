package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/lost-woods/mulligan/src/decklist"
	"github.com/lost-woods/mulligan/src/mtg"
	"github.com/lost-woods/mulligan/src/session"
)

// Plain text is the default; JSON only when the client asks for it.
var offered = []string{gin.MIMEPlain, gin.MIMEJSON}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(offered...) == gin.MIMEJSON
}

func fail(c *gin.Context, status int, msg string) {
	if wantsJSON(c) {
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.String(status, msg)
}

// reply merges requestID into payload, or appends it to text.
func reply(c *gin.Context, text string, payload gin.H, requestID string) {
	c.Header("X-Request-ID", requestID)
	if !wantsJSON(c) {
		c.String(http.StatusOK, text+"\nrequest_id: "+requestID)
		return
	}
	body := make(gin.H, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["request_id"] = requestID
	c.JSON(http.StatusOK, body)
}

// statusFor maps core errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, mtg.ErrDomain),
		errors.Is(err, mtg.ErrInsufficientCards),
		errors.Is(err, mtg.ErrEmptyDeck),
		errors.Is(err, decklist.ErrInvalid),
		errors.Is(err, session.ErrTooManyMulligans):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
