package session

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lost-woods/mulligan/src/mtg"
)

// ErrTooManyMulligans ends a session whose hand size reached zero.
var ErrTooManyMulligans = errors.New("too many mulligans")

// Player makes the decisions of a session.
type Player interface {
	// KeepHand is asked after every opening draw. Returning false takes a mulligan.
	KeepHand(ctx context.Context, hand []*mtg.Card) (bool, error)
	// AwaitDraw blocks until the next steady-state draw is wanted. io.EOF
	// ends the session cleanly; any other error is returned from Run.
	AwaitDraw(ctx context.Context) error
}

// Observer is told about every card drawn and every mulligan taken.
type Observer interface {
	Drawn(d Draw)
	Mulligan(handSize int)
}

// Draw reports one card leaving the pile. Probability is the card's entry in
// the table recalculated just before the draw.
type Draw struct {
	State       State
	Card        *mtg.Card
	Probability float64
	Remaining   int
}

type Config struct {
	HandSize int
	Observer Observer
	Log      *zap.SugaredLogger
}

func DefaultConfig() Config {
	return Config{HandSize: 7}
}

// Session runs the draw/mulligan protocol over one deck. It is not safe for
// concurrent use and runs at most once.
type Session struct {
	deck   *mtg.Deck
	player Player
	obs    Observer
	log    *zap.SugaredLogger

	state     State
	started   bool
	handSize  int
	mulligans int
	hand      []*mtg.Card
	drawn     int
}

func New(deck *mtg.Deck, player Player, cfg Config) (*Session, error) {
	if deck == nil || player == nil {
		return nil, errors.New("session needs a deck and a player")
	}
	if cfg.HandSize < 1 {
		return nil, errors.Wrapf(mtg.ErrDomain, "hand size %d", cfg.HandSize)
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop().Sugar()
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	return &Session{
		deck:     deck,
		player:   player,
		obs:      cfg.Observer,
		log:      cfg.Log,
		handSize: cfg.HandSize,
	}, nil
}

func (s *Session) State() State   { return s.state }
func (s *Session) HandSize() int  { return s.handSize }
func (s *Session) Mulligans() int { return s.mulligans }

// Drawn counts steady-state draws.
func (s *Session) Drawn() int { return s.drawn }

// Hand returns the kept opening hand, in draw order.
func (s *Session) Hand() []*mtg.Card {
	out := make([]*mtg.Card, len(s.hand))
	copy(out, s.hand)
	return out
}

// Run shuffles, deals an opening hand, offers mulligans until one is kept,
// then draws one card per AwaitDraw until the player or ctx stops it.
func (s *Session) Run(ctx context.Context) error {
	if s.started {
		return errors.New("session already ran")
	}
	s.started = true

	s.enter(AwaitingShuffle)
	if err := s.deck.Shuffle(); err != nil {
		return err
	}

	for {
		s.enter(OpeningDraw)
		hand, err := s.drawHand()
		if err != nil {
			return err
		}

		s.enter(MulliganPrompt)
		keep, err := s.player.KeepHand(ctx, hand)
		if err != nil {
			return stopped(err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if keep {
			s.hand = hand
			break
		}

		s.mulligans++
		s.handSize--
		s.obs.Mulligan(s.handSize)
		s.log.Debugw("mulligan", "mulligans", s.mulligans, "hand_size", s.handSize)
		if s.handSize == 0 {
			return errors.Wrapf(ErrTooManyMulligans, "hand size reached zero after %d mulligans", s.mulligans)
		}

		s.enter(Reshuffle)
		s.deck.Reset()
		if err := s.deck.Shuffle(); err != nil {
			return err
		}
	}

	s.enter(SteadyDraw)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.player.AwaitDraw(ctx); err != nil {
			return stopped(err)
		}
		// An interrupt that lands while the player is deciding draws nothing.
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.draw(); err != nil {
			return err
		}
		s.drawn++
	}
}

func (s *Session) drawHand() ([]*mtg.Card, error) {
	hand := make([]*mtg.Card, 0, s.handSize)
	for i := 0; i < s.handSize; i++ {
		c, err := s.draw()
		if err != nil {
			return nil, err
		}
		hand = append(hand, c)
	}
	return hand, nil
}

func (s *Session) draw() (*mtg.Card, error) {
	if s.deck.Len() == 0 {
		return nil, errors.Wrapf(mtg.ErrEmptyDeck, "%s", s.state)
	}
	if err := s.deck.RecalcProbabilities(); err != nil {
		return nil, err
	}
	c, err := s.deck.DrawOne()
	if err != nil {
		return nil, err
	}
	s.obs.Drawn(Draw{
		State:       s.state,
		Card:        c,
		Probability: s.deck.ProbabilityOf(c),
		Remaining:   s.deck.Len(),
	})
	return c, nil
}

func (s *Session) enter(st State) {
	s.log.Debugw("session state", "from", s.state, "to", st)
	s.state = st
}

func stopped(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

type nopObserver struct{}

func (nopObserver) Drawn(Draw)   {}
func (nopObserver) Mulligan(int) {}
