package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/lost-woods/mulligan/src/decklist"
	"github.com/lost-woods/mulligan/src/mtg"
	"github.com/lost-woods/mulligan/src/rng"
	"github.com/lost-woods/mulligan/src/session"
)

const maxQRSize = 1024

func (h *Handlers) Mana(c *gin.Context) {
	h.handle(c, func() (string, gin.H, error) {
		d, err := h.deck(h.r)
		if err != nil {
			return "", nil, err
		}
		m := d.AggregateMana()
		text := fmt.Sprintf("Black: %d White: %d Colorless: %d Total: %d\nCards: %d",
			m.Black, m.White, m.Colorless, m.Total(), d.Len())
		return text, gin.H{"deck": h.list.Name, "mana": m, "total": m.Total(), "cards": d.Len()}, nil
	})
}

func (h *Handlers) Lands(c *gin.Context) {
	params := h.land
	if v := c.Query("discount"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			fail(c, http.StatusBadRequest, "Invalid discount.")
			return
		}
		params.ColorlessDiscount = f
	}
	if v := c.Query("ratio"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			fail(c, http.StatusBadRequest, "Invalid ratio.")
			return
		}
		params.TargetRatio = f
	}

	h.handle(c, func() (string, gin.H, error) {
		d, err := h.deck(h.r)
		if err != nil {
			return "", nil, err
		}
		rec, err := d.RecommendLandsWith(params)
		if err != nil {
			return "", nil, err
		}
		black, white := rec.Rounded()
		return fmt.Sprintf("Need %d Swamps and %d Plains", black, white), gin.H{
			"params":         params,
			"recommendation": rec,
			"swamps":         black,
			"plains":         white,
		}, nil
	})
}

func (h *Handlers) LandPlan(c *gin.Context) {
	percent := c.DefaultQuery("percent", "57.142857")

	h.handle(c, func() (string, gin.H, error) {
		p, err := mtg.ParseProbability(percent)
		if err != nil {
			return "", nil, err
		}
		d, err := h.deck(h.r)
		if err != nil {
			return "", nil, err
		}
		plan, err := d.PlanLands(p)
		if err != nil {
			return "", nil, err
		}
		text := fmt.Sprintf("Need %d Swamps and %d Plains (%.2f lands for %d spells)",
			plan.Black, plan.White, plan.Lands, plan.Spells)
		return text, gin.H{"percent": percent, "plan": plan}, nil
	})
}

// keeper takes a fixed number of mulligans, keeps the next hand and stops
// before any steady-state draw.
type keeper struct{ mulligans int }

func (k *keeper) KeepHand(context.Context, []*mtg.Card) (bool, error) {
	if k.mulligans > 0 {
		k.mulligans--
		return false, nil
	}
	return true, nil
}

func (k *keeper) AwaitDraw(context.Context) error { return io.EOF }

type drawLog struct{ draws []session.Draw }

func (l *drawLog) Drawn(d session.Draw) { l.draws = append(l.draws, d) }
func (l *drawLog) Mulligan(int)         { l.draws = l.draws[:0] }

func (h *Handlers) Hand(c *gin.Context) {
	size := h.handSize
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			fail(c, http.StatusBadRequest, "Invalid hand size.")
			return
		}
		size = n
	}

	mulligans, err := strconv.Atoi(c.DefaultQuery("mulligans", "0"))
	if err != nil || mulligans < 0 {
		fail(c, http.StatusBadRequest, "Invalid mulligan count.")
		return
	}

	src := h.r
	if v := c.Query("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid seed.")
			return
		}
		src = rng.NewSeeded(seed)
	}

	h.handle(c, func() (string, gin.H, error) {
		d, err := h.deck(src)
		if err != nil {
			return "", nil, err
		}

		record := &drawLog{}
		s, err := session.New(d, &keeper{mulligans: mulligans}, session.Config{
			HandSize: size,
			Observer: record,
			Log:      h.log,
		})
		if err != nil {
			return "", nil, err
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := s.Run(ctx); err != nil {
			return "", nil, err
		}

		var text strings.Builder
		cards := make([]gin.H, 0, len(record.draws))
		for _, dr := range record.draws {
			fmt.Fprintf(&text, "Hand:\t%s: %05.2f%%\n", dr.Card.Name(), dr.Probability*100)
			cards = append(cards, gin.H{
				"name":        dr.Card.Name(),
				"probability": dr.Probability,
				"remaining":   dr.Remaining,
			})
		}
		return strings.TrimSuffix(text.String(), "\n"), gin.H{
			"hand_size": s.HandSize(),
			"mulligans": s.Mulligans(),
			"hand":      cards,
		}, nil
	})
}

func (h *Handlers) Export(c *gin.Context) {
	h.handle(c, func() (string, gin.H, error) {
		d, err := h.deck(h.r)
		if err != nil {
			return "", nil, err
		}
		text := decklist.ExportMTGA(d)
		return strings.TrimSuffix(text, "\n"), gin.H{"deck": h.list.Name, "mtga": text}, nil
	})
}

func (h *Handlers) ExportQR(c *gin.Context) {
	size, err := strconv.Atoi(c.DefaultQuery("size", "256"))
	if err != nil || size < 64 || size > maxQRSize {
		fail(c, http.StatusBadRequest,
			fmt.Sprintf("Size must be an integer between 64 and %d.", maxQRSize))
		return
	}

	d, err := h.deck(h.r)
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}
	png, err := decklist.QRCode(decklist.ExportMTGA(d), size)
	if err != nil {
		h.log.Error(errors.Wrap(err, "export qr"))
		fail(c, http.StatusInternalServerError, "Error generating QR code.")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handlers) Health(c *gin.Context) {
	if h.health == nil {
		fail(c, http.StatusServiceUnavailable, "UNHEALTHY: missing health monitor")
		return
	}

	ok, msg, t := h.health.Snapshot()
	if ok {
		payload := gin.H{"ok": true, "last_checked": t.Format(time.RFC3339)}
		text := fmt.Sprintf("OK (last checked %s)", t.Format(time.RFC3339))
		if s, shared := h.r.(*rng.Shared); shared {
			payload["bytes_served"] = s.Served()
			text += fmt.Sprintf(", %d bytes served", s.Served())
		}
		reply(c, text, payload, "health-check")
		return
	}

	fail(c, http.StatusServiceUnavailable,
		fmt.Sprintf("UNHEALTHY: %s (last checked %s)", msg, t.Format(time.RFC3339)))
}
