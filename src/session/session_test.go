package session_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lost-woods/mulligan/src/mtg"
	"github.com/lost-woods/mulligan/src/rng"
	"github.com/lost-woods/mulligan/src/session"
)

var (
	swamp  = mtg.MustCard("Swamp", 0, 0, 0)
	plains = mtg.MustCard("Plains", 0, 0, 0)
	duress = mtg.MustCard("Duress", 1, 0, 0)
)

func newDeck(t *testing.T, seed uint64) *mtg.Deck {
	t.Helper()
	d, err := mtg.NewDeck([]mtg.Entry{
		{Card: swamp, Count: 20},
		{Card: plains, Count: 16},
		{Card: duress, Count: 24},
	}, mtg.WithSource(rng.NewSeeded(seed)))
	require.NoError(t, err)
	return d
}

// scriptedPlayer mulligans the first hands it sees, then allows a fixed number of steady
// draws before returning stopErr.
type scriptedPlayer struct {
	mulligans int
	draws     int
	stopErr   error

	hands [][]*mtg.Card
}

func (p *scriptedPlayer) KeepHand(_ context.Context, hand []*mtg.Card) (bool, error) {
	p.hands = append(p.hands, hand)
	if p.mulligans > 0 {
		p.mulligans--
		return false, nil
	}
	return true, nil
}

func (p *scriptedPlayer) AwaitDraw(context.Context) error {
	if p.draws == 0 {
		return p.stopErr
	}
	p.draws--
	return nil
}

type recorder struct {
	draws     []session.Draw
	mulligans []int
}

func (r *recorder) Drawn(d session.Draw)  { r.draws = append(r.draws, d) }
func (r *recorder) Mulligan(handSize int) { r.mulligans = append(r.mulligans, handSize) }

func run(t *testing.T, d *mtg.Deck, p session.Player, handSize int) (*session.Session, *recorder, error) {
	t.Helper()
	rec := &recorder{}
	s, err := session.New(d, p, session.Config{HandSize: handSize, Observer: rec})
	require.NoError(t, err)
	return s, rec, s.Run(context.Background())
}

func TestRun_KeepFirstHand(t *testing.T) {
	d := newDeck(t, 1)
	p := &scriptedPlayer{draws: 5, stopErr: io.EOF}

	s, rec, err := run(t, d, p, 7)
	require.NoError(t, err)

	assert.Equal(t, session.SteadyDraw, s.State())
	assert.Len(t, s.Hand(), 7)
	assert.Equal(t, 5, s.Drawn())
	assert.Equal(t, 60-12, d.Len())
	require.Len(t, rec.draws, 12)

	for i, dr := range rec.draws {
		if i < 7 {
			assert.Equal(t, session.OpeningDraw, dr.State)
		} else {
			assert.Equal(t, session.SteadyDraw, dr.State)
		}
		assert.Equal(t, 60-i-1, dr.Remaining)
		// Probability comes from the table rebuilt just before this draw.
		assert.InDelta(t, float64(d.Count(dr.Card))/float64(60-i), dr.Probability, 1e-12)
	}
}

func TestRun_MulliganShrinksHandAndRefillsDeck(t *testing.T) {
	d := newDeck(t, 2)
	p := &scriptedPlayer{mulligans: 2, stopErr: io.EOF}

	s, rec, err := run(t, d, p, 7)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Mulligans())
	assert.Equal(t, 5, s.HandSize())
	assert.Equal(t, []int{6, 5}, rec.mulligans)

	require.Len(t, p.hands, 3)
	assert.Len(t, p.hands[0], 7)
	assert.Len(t, p.hands[1], 6)
	assert.Len(t, p.hands[2], 5)

	// Every redraw starts from the full deck.
	assert.Equal(t, 55, d.Len())
	assert.Equal(t, 59, rec.draws[7].Remaining)
	assert.Equal(t, 59, rec.draws[13].Remaining)
}

func TestRun_TooManyMulligans(t *testing.T) {
	d := newDeck(t, 3)
	p := &scriptedPlayer{mulligans: 100}

	s, rec, err := run(t, d, p, 7)
	require.ErrorIs(t, err, session.ErrTooManyMulligans)

	assert.Equal(t, 0, s.HandSize())
	assert.Equal(t, 7, s.Mulligans())
	assert.Equal(t, []int{6, 5, 4, 3, 2, 1, 0}, rec.mulligans)
	assert.Len(t, p.hands, 7)
	assert.Empty(t, s.Hand())
}

func TestRun_CustomHandSizeFloor(t *testing.T) {
	d := newDeck(t, 4)
	p := &scriptedPlayer{mulligans: 2}

	_, rec, err := run(t, d, p, 2)
	require.ErrorIs(t, err, session.ErrTooManyMulligans)
	assert.Equal(t, []int{1, 0}, rec.mulligans)
}

func TestRun_SteadyDrawExhaustsDeck(t *testing.T) {
	d, err := mtg.NewDeck([]mtg.Entry{{Card: swamp, Count: 9}}, mtg.WithSource(rng.NewSeeded(5)))
	require.NoError(t, err)
	p := &scriptedPlayer{draws: 1000}

	s, _, err := run(t, d, p, 7)
	require.ErrorIs(t, err, mtg.ErrEmptyDeck)
	assert.Equal(t, 2, s.Drawn())
}

func TestRun_HandLargerThanDeck(t *testing.T) {
	d, err := mtg.NewDeck([]mtg.Entry{{Card: swamp, Count: 3}})
	require.NoError(t, err)

	_, _, err = run(t, d, &scriptedPlayer{}, 7)
	assert.ErrorIs(t, err, mtg.ErrEmptyDeck)
}

func TestRun_PlayerErrorIsReturned(t *testing.T) {
	boom := errors.New("terminal closed")
	d := newDeck(t, 6)

	_, _, err := run(t, d, &scriptedPlayer{draws: 2, stopErr: boom}, 7)
	assert.ErrorIs(t, err, boom)
}

// cancellingPlayer cancels the session context on its second AwaitDraw.
type cancellingPlayer struct {
	cancel context.CancelFunc
	calls  int
}

func (p *cancellingPlayer) KeepHand(context.Context, []*mtg.Card) (bool, error) { return true, nil }

func (p *cancellingPlayer) AwaitDraw(context.Context) error {
	p.calls++
	if p.calls == 2 {
		p.cancel()
	}
	return nil
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := newDeck(t, 7)
	p := &cancellingPlayer{cancel: cancel}
	s, err := session.New(d, p, session.DefaultConfig())
	require.NoError(t, err)

	err = s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, s.Drawn())
	assert.Equal(t, 60-7-1, d.Len())

	assert.Error(t, s.Run(context.Background()))
}

func TestNew_Validation(t *testing.T) {
	d := newDeck(t, 8)

	_, err := session.New(d, &scriptedPlayer{}, session.Config{HandSize: 0})
	assert.ErrorIs(t, err, mtg.ErrDomain)

	_, err = session.New(nil, &scriptedPlayer{}, session.DefaultConfig())
	assert.Error(t, err)
}

func TestRun_SeededSessionsMatch(t *testing.T) {
	a := &scriptedPlayer{mulligans: 1, draws: 3, stopErr: io.EOF}
	b := &scriptedPlayer{mulligans: 1, draws: 3, stopErr: io.EOF}

	sa, _, err := run(t, newDeck(t, 42), a, 7)
	require.NoError(t, err)
	sb, _, err := run(t, newDeck(t, 42), b, 7)
	require.NoError(t, err)

	assert.Equal(t, sa.Hand(), sb.Hand())
	assert.Equal(t, a.hands, b.hands)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "mulligan-prompt", session.MulliganPrompt.String())
	assert.Equal(t, "state(42)", session.State(42).String())
}

// keepThenCancel keeps the opening hand but cancels ctx while answering.
type keepThenCancel struct{ cancel context.CancelFunc }

func (p keepThenCancel) KeepHand(context.Context, []*mtg.Card) (bool, error) {
	p.cancel()
	return true, nil
}

func (keepThenCancel) AwaitDraw(context.Context) error { return nil }

func TestRun_CancelDuringMulliganPromptDrawsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := newDeck(t, 9)
	s, err := session.New(d, keepThenCancel{cancel: cancel}, session.DefaultConfig())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
	assert.Equal(t, session.MulliganPrompt, s.State())
	assert.Zero(t, s.Drawn())
	assert.Equal(t, 60-7, d.Len())
}
