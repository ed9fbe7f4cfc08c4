package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/lost-woods/mulligan/src/mtg"
	"github.com/lost-woods/mulligan/src/session"
)

const nameWidth = 40

// Console plays a session from a line-oriented terminal. It implements both
// session.Player and session.Observer.
//
// Input is read by a background goroutine so that a prompt gives up as soon
// as its context is done; that goroutine lives until in is exhausted.
type Console struct {
	in  io.Reader
	out io.Writer

	start sync.Once
	lines chan string
	err   error // set before lines is closed
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: in, out: out, lines: make(chan string)}
}

// KeepHand keeps the hand unless the player types "m".
func (c *Console) KeepHand(ctx context.Context, hand []*mtg.Card) (bool, error) {
	fmt.Fprintf(c.out, "Type `m` to mulligan (%d cards in hand)\n", len(hand))
	line, err := c.prompt(ctx)
	if err != nil {
		return false, err
	}
	return line != "m", nil
}

// AwaitDraw waits for ENTER. "q" or end of input stops the session.
func (c *Console) AwaitDraw(ctx context.Context) error {
	fmt.Fprintln(c.out, "ENTER to draw, `q` to quit")
	line, err := c.prompt(ctx)
	if err != nil {
		return err
	}
	if line == "q" {
		return io.EOF
	}
	return nil
}

func (c *Console) Drawn(d session.Draw) {
	label := ""
	if d.State == session.OpeningDraw {
		label = "Hand:"
	}
	name := d.Card.Name()
	pad := max(nameWidth-len(name), 0)
	fmt.Fprintf(c.out, "%s\t\t%s: %s%05.2f%%\n", label, name, strings.Repeat(" ", pad), d.Probability*100)
}

func (c *Console) Mulligan(handSize int) {
	if handSize == 0 {
		fmt.Fprintln(c.out, "No cards left to draw a hand with.")
		return
	}
	fmt.Fprintf(c.out, "Mulligan: reshuffling and drawing %d\n", handSize)
}

func (c *Console) prompt(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.start.Do(func() { go c.scan() })

	fmt.Fprint(c.out, "> ")
	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			if c.err != nil {
				return "", c.err
			}
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func (c *Console) scan() {
	sc := bufio.NewScanner(c.in)
	for sc.Scan() {
		c.lines <- sc.Text()
	}
	c.err = sc.Err()
	close(c.lines)
}
