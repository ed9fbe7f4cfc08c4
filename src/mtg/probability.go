package mtg

import "github.com/pkg/errors"

// RecalcProbabilities rebuilds the probability table for the next draw as
// original count / cards left in the pile.
//
// The numerator is the count from the deck list, not the copies still in the
// pile, so once a card has been drawn its entry overstates the true chance and
// the table no longer sums to 1. RemainingProbability gives the exact value.
func (d *Deck) RecalcProbabilities() error {
	n := len(d.pile)
	if n == 0 {
		return errors.Wrap(ErrDomain, "probability over an empty pile")
	}
	probs := make(map[*Card]float64, len(d.entries))
	for _, e := range d.entries {
		if e.Count > 0 {
			probs[e.Card] = float64(e.Count) / float64(n)
		}
	}
	d.probs = probs
	return nil
}

// ProbabilityOf reads c from the table built by the last RecalcProbabilities.
// Cards not in the deck list read as 0.
func (d *Deck) ProbabilityOf(c *Card) float64 { return d.probs[c] }

// Probabilities returns a copy of the current table.
func (d *Deck) Probabilities() map[*Card]float64 {
	out := make(map[*Card]float64, len(d.probs))
	for c, p := range d.probs {
		out[c] = p
	}
	return out
}

// RemainingProbability is the exact chance that the next draw is c, given
// what is left in the pile. It is computed on the spot and never cached.
func (d *Deck) RemainingProbability(c *Card) (float64, error) {
	if len(d.pile) == 0 {
		return 0, errors.Wrap(ErrDomain, "probability over an empty pile")
	}
	return float64(d.remaining[c]) / float64(len(d.pile)), nil
}
