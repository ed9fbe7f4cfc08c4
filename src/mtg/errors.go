package mtg

import "github.com/pkg/errors"

var (
	// ErrDomain marks an undefined mathematical precondition, such as a
	// probability over an empty pile or a land ratio with no mana pips.
	ErrDomain = errors.New("domain error")

	// ErrEmptyDeck is returned by DrawOne when the pile has no cards left.
	ErrEmptyDeck = errors.New("deck is empty")

	// ErrInsufficientCards is returned by DrawN when more cards are requested
	// than remain. The pile is left untouched.
	ErrInsufficientCards = errors.New("not enough cards in deck")
)
