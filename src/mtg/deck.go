package mtg

import (
	"io"

	"github.com/pkg/errors"

	"github.com/lost-woods/mulligan/src/rng"
)

// Entry is one line of a deck list: a card type and how many copies of it.
type Entry struct {
	Card  *Card
	Count int
}

// Deck is a constructed deck list plus its remaining pile.
//
// The composition is fixed at construction. The pile shrinks from the end on
// every draw and is only refilled by Reset. The probability table is a cache
// that RecalcProbabilities rebuilds on request; draws do not touch it.
type Deck struct {
	entries   []Entry
	counts    map[*Card]int
	pile      []*Card
	remaining map[*Card]int
	probs     map[*Card]float64

	source io.Reader
	land   LandParams
}

type Option func(*Deck)

// WithSource sets the entropy stream used by Shuffle.
func WithSource(r io.Reader) Option {
	return func(d *Deck) { d.source = r }
}

// WithLandParams overrides the constants used by RecommendLands.
func WithLandParams(p LandParams) Option {
	return func(d *Deck) { d.land = p }
}

// NewDeck expands entries into a pile in list order and computes the initial
// probability table. Repeated entries for the same card are merged.
func NewDeck(entries []Entry, opts ...Option) (*Deck, error) {
	d := &Deck{
		counts: make(map[*Card]int, len(entries)),
		source: rng.NewCrypto(),
		land:   DefaultLandParams(),
	}
	for _, opt := range opts {
		opt(d)
	}

	total := 0
	for _, e := range entries {
		if e.Card == nil {
			return nil, errors.Wrap(ErrDomain, "deck entry without a card")
		}
		if e.Count < 0 {
			return nil, errors.Wrapf(ErrDomain, "card %q has negative count %d", e.Card.name, e.Count)
		}
		if _, seen := d.counts[e.Card]; !seen {
			d.entries = append(d.entries, Entry{Card: e.Card})
		}
		d.counts[e.Card] += e.Count
		total += e.Count
	}
	if total == 0 {
		return nil, errors.Wrap(ErrDomain, "deck has no cards")
	}
	for i := range d.entries {
		d.entries[i].Count = d.counts[d.entries[i].Card]
	}

	d.Reset()
	if err := d.RecalcProbabilities(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reset discards the current pile and re-expands the full composition in
// list order. The probability table is left as it was.
func (d *Deck) Reset() {
	d.pile = make([]*Card, 0, d.Size())
	d.remaining = make(map[*Card]int, len(d.entries))
	for _, e := range d.entries {
		for i := 0; i < e.Count; i++ {
			d.pile = append(d.pile, e.Card)
		}
		if e.Count > 0 {
			d.remaining[e.Card] = e.Count
		}
	}
}

// Size is the number of cards in the full composition.
func (d *Deck) Size() int {
	n := 0
	for _, e := range d.entries {
		n += e.Count
	}
	return n
}

// Len is the number of cards left in the pile.
func (d *Deck) Len() int { return len(d.pile) }

// Entries returns the composition in list order.
func (d *Deck) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Count is the original number of copies of c in the composition.
func (d *Deck) Count(c *Card) int { return d.counts[c] }

// Remaining is the number of copies of c still in the pile.
func (d *Deck) Remaining(c *Card) int { return d.remaining[c] }

// Pile returns a copy of the remaining pile; the last element is drawn next.
func (d *Deck) Pile() []*Card {
	out := make([]*Card, len(d.pile))
	copy(out, d.pile)
	return out
}

// Shuffle permutes the remaining pile using the deck's own source.
func (d *Deck) Shuffle() error {
	return d.ShuffleWith(d.source)
}

// ShuffleWith permutes the remaining pile using r. It neither refills nor
// shrinks the pile.
func (d *Deck) ShuffleWith(r io.Reader) error {
	err := rng.Shuffle(r, len(d.pile), func(i, j int) {
		d.pile[i], d.pile[j] = d.pile[j], d.pile[i]
	})
	return errors.Wrap(err, "shuffle")
}

// DrawOne removes and returns the last card of the pile.
func (d *Deck) DrawOne() (*Card, error) {
	n := len(d.pile)
	if n == 0 {
		return nil, ErrEmptyDeck
	}
	c := d.pile[n-1]
	d.pile[n-1] = nil
	d.pile = d.pile[:n-1]
	d.remaining[c]--
	return c, nil
}

// DrawN removes the last n cards of the pile and returns them in the order
// they occupied. Either all n cards are drawn or none are.
func (d *Deck) DrawN(n int) ([]*Card, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrDomain, "cannot draw %d cards", n)
	}
	if n > len(d.pile) {
		return nil, errors.Wrapf(ErrInsufficientCards, "requested %d, %d left", n, len(d.pile))
	}
	cut := len(d.pile) - n
	out := make([]*Card, n)
	copy(out, d.pile[cut:])
	for i := cut; i < len(d.pile); i++ {
		d.pile[i] = nil
	}
	d.pile = d.pile[:cut]
	for _, c := range out {
		d.remaining[c]--
	}
	return out, nil
}
