package mtg

import (
	"math"

	"github.com/pkg/errors"
)

// Mana is a pip total per color.
type Mana struct {
	Black     int `json:"black"`
	White     int `json:"white"`
	Colorless int `json:"colorless"`
}

func (m Mana) Total() int { return m.Black + m.White + m.Colorless }

// AggregateMana sums count × pips over the deck list. It ignores what has
// been drawn.
func (d *Deck) AggregateMana() Mana {
	var m Mana
	for _, e := range d.entries {
		m.Black += e.Card.black * e.Count
		m.White += e.Card.white * e.Count
		m.Colorless += e.Card.colorless * e.Count
	}
	return m
}

// LandParams are the playtesting constants behind RecommendLands.
type LandParams struct {
	// ColorlessDiscount scales each color's share of all pips. Colorless pips
	// need no colored source, so the default of 2 counts colored pips double.
	ColorlessDiscount float64 `json:"colorless_discount"`
	// TargetRatio is the number of lands per card left in the pile.
	TargetRatio float64 `json:"target_ratio"`
}

func DefaultLandParams() LandParams {
	return LandParams{ColorlessDiscount: 2, TargetRatio: 4.0 / 3.0}
}

// LandRecommendation is the heuristic number of black and white sources.
type LandRecommendation struct {
	Black float64 `json:"black"`
	White float64 `json:"white"`
}

// Rounded returns the recommendation rounded to whole cards, halves to even.
func (r LandRecommendation) Rounded() (black, white int) {
	return int(math.RoundToEven(r.Black)), int(math.RoundToEven(r.White))
}

// RecommendLands applies the deck's LandParams:
//
//	black = discount*B/total * ratio*len(pile)
//	white = discount*W/total * ratio*len(pile)
//
// It is a heuristic and not an optimizer; it also sizes by the current pile.
func (d *Deck) RecommendLands() (LandRecommendation, error) {
	return d.RecommendLandsWith(d.land)
}

// RecommendLandsWith is RecommendLands with explicit parameters.
func (d *Deck) RecommendLandsWith(p LandParams) (LandRecommendation, error) {
	m := d.AggregateMana()
	total := m.Total()
	if total == 0 {
		return LandRecommendation{}, errors.Wrap(ErrDomain, "deck has no mana pips")
	}

	target := p.TargetRatio * float64(len(d.pile))
	return LandRecommendation{
		Black: p.ColorlessDiscount * float64(m.Black) / float64(total) * target,
		White: p.ColorlessDiscount * float64(m.White) / float64(total) * target,
	}, nil
}

// LandPlan is the land count needed to hit a target land draw probability.
type LandPlan struct {
	Probability float64 `json:"probability"`
	Spells      int     `json:"spells"`
	Lands       float64 `json:"lands"`
	Black       int     `json:"black"`
	White       int     `json:"white"`
}

// PlanLands sizes the mana base so that a random card is a land with
// probability p. Spells are the cards with at least one pip; cards without
// pips are treated as lands already in the list and are not counted.
//
// The land total solves p = l/(l+spells). It is split between the colors by
// their share of colored pips, each rounded up and never below the most pips
// of that color on a single card.
func (d *Deck) PlanLands(p float64) (LandPlan, error) {
	if !(p > 0 && p < 1) {
		return LandPlan{}, errors.Wrapf(ErrDomain, "land probability %v outside (0, 1)", p)
	}
	m := d.AggregateMana()
	colored := m.Black + m.White
	if colored == 0 {
		return LandPlan{}, errors.Wrap(ErrDomain, "deck has no colored pips")
	}

	spells, maxBlack, maxWhite := 0, 0, 0
	for _, e := range d.entries {
		if e.Count == 0 || e.Card.Pips() == 0 {
			continue
		}
		spells += e.Count
		maxBlack = max(maxBlack, e.Card.black)
		maxWhite = max(maxWhite, e.Card.white)
	}

	lands := p * float64(spells) / (1 - p)
	black := int(math.Ceil(float64(m.Black) / float64(colored) * lands))
	white := int(math.Ceil(float64(m.White) / float64(colored) * lands))

	return LandPlan{
		Probability: p,
		Spells:      spells,
		Lands:       lands,
		Black:       max(black, maxBlack),
		White:       max(white, maxWhite),
	}, nil
}
