package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lost-woods/mulligan/src/decklist"
	"github.com/lost-woods/mulligan/src/mtg"
	"github.com/lost-woods/mulligan/src/rng"
)

type Handlers struct {
	r        io.Reader
	health   *rng.Health
	log      *zap.SugaredLogger
	list     *decklist.List
	land     mtg.LandParams
	handSize int
}

// NewHandlers serves list. r is shared by every request and must be safe for
// concurrent use (see rng.NewShared).
func NewHandlers(r io.Reader, h *rng.Health, log *zap.SugaredLogger, list *decklist.List, land mtg.LandParams, handSize int) *Handlers {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Handlers{r: r, health: h, log: log, list: list, land: land, handSize: handSize}
}

// deck builds a fresh deck for one request.
func (h *Handlers) deck(src io.Reader) (*mtg.Deck, error) {
	return h.list.Deck(mtg.WithSource(src), mtg.WithLandParams(h.land))
}

func (h *Handlers) rngOK(c *gin.Context) bool {
	if h.health == nil {
		fail(c, http.StatusServiceUnavailable, "RNG unhealthy: missing health monitor")
		return false
	}

	ok, msg, _ := h.health.Snapshot()
	if ok {
		return true
	}

	fail(c, http.StatusServiceUnavailable, "RNG unhealthy: "+msg)
	return false
}

func (h *Handlers) requestID() (string, error) {
	id, err := uuid.NewRandomFromReader(h.r)
	if err != nil {
		if h.health != nil {
			h.health.Set(false, "error fetching random bytes for request id: "+err.Error())
		}
		return "", err
	}
	return id.String(), nil
}

/*
handle runs work behind the RNG health gate and answers with either its
error or its result plus a request id. The id is drawn from the RNG only
after the outcome is known, so it never shifts a shuffle.
*/
func (h *Handlers) handle(c *gin.Context, work func() (text string, payload gin.H, err error)) {
	if !h.rngOK(c) {
		return
	}

	text, payload, err := work()
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.log.Errorw("request failed", "path", c.FullPath(), "error", err)
		}
		fail(c, status, err.Error())
		return
	}

	requestID, err := h.requestID()
	if err != nil {
		h.log.Error(err)
		fail(c, http.StatusInternalServerError, "Error generating request id.")
		return
	}

	reply(c, text, payload, requestID)
}

func CheckHeader(headerName, expectedValue string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Auth disabled if not configured
		if expectedValue == "" {
			c.Next()
			return
		}

		if c.GetHeader(headerName) != expectedValue {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
