package mtg

import "github.com/pkg/errors"

// Card is one distinct card type. Decks key every table by *Card, so the
// same pointer must be used for every copy of a type.
type Card struct {
	name      string
	black     int
	white     int
	colorless int
}

func NewCard(name string, black, white, colorless int) (*Card, error) {
	if name == "" {
		return nil, errors.Wrap(ErrDomain, "card name is empty")
	}
	if black < 0 || white < 0 || colorless < 0 {
		return nil, errors.Wrapf(ErrDomain, "card %q has a negative mana cost", name)
	}
	return &Card{name: name, black: black, white: white, colorless: colorless}, nil
}

// MustCard is NewCard for static card tables; it panics on invalid input.
func MustCard(name string, black, white, colorless int) *Card {
	c, err := NewCard(name, black, white, colorless)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Card) Name() string   { return c.name }
func (c *Card) Black() int     { return c.black }
func (c *Card) White() int     { return c.white }
func (c *Card) Colorless() int { return c.colorless }

// Pips is the card's total mana value.
func (c *Card) Pips() int { return c.black + c.white + c.colorless }

func (c *Card) String() string { return c.name }
