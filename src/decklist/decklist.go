package decklist

import (
	_ "embed"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lost-woods/mulligan/src/mtg"
)

//go:embed default.yaml
var defaultList []byte

// ErrInvalid marks a deck list file that parsed but does not describe a deck.
var ErrInvalid = errors.New("invalid deck list")

type CardSpec struct {
	Name      string `yaml:"name" json:"name"`
	Black     int    `yaml:"black" json:"black"`
	White     int    `yaml:"white" json:"white"`
	Colorless int    `yaml:"colorless" json:"colorless"`
	Count     int    `yaml:"count" json:"count"`
}

// List is a deck list as written on disk. JSON files parse too, being YAML.
type List struct {
	Name  string     `yaml:"name" json:"name"`
	Cards []CardSpec `yaml:"cards" json:"cards"`
}

func Parse(data []byte) (*List, error) {
	var l List
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, errors.Wrap(err, "parse deck list")
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

func Load(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read deck list %s", path)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return l, nil
}

// Default is the built-in Orzhov deck.
func Default() *List {
	l, err := Parse(defaultList)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *List) Validate() error {
	if len(l.Cards) == 0 {
		return errors.Wrap(ErrInvalid, "no cards")
	}
	seen := make(map[string]bool, len(l.Cards))
	for i, c := range l.Cards {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return errors.Wrapf(ErrInvalid, "card %d has no name", i+1)
		}
		if seen[name] {
			return errors.Wrapf(ErrInvalid, "card %q listed twice", name)
		}
		seen[name] = true
		if c.Count < 0 || c.Black < 0 || c.White < 0 || c.Colorless < 0 {
			return errors.Wrapf(ErrInvalid, "card %q has a negative value", name)
		}
	}
	return nil
}

// Deck builds a fresh deck from the list. Each call creates new card types.
func (l *List) Deck(opts ...mtg.Option) (*mtg.Deck, error) {
	entries := make([]mtg.Entry, 0, len(l.Cards))
	for _, c := range l.Cards {
		card, err := mtg.NewCard(strings.TrimSpace(c.Name), c.Black, c.White, c.Colorless)
		if err != nil {
			return nil, err
		}
		entries = append(entries, mtg.Entry{Card: card, Count: c.Count})
	}
	return mtg.NewDeck(entries, opts...)
}

// Size is the number of cards in the list.
func (l *List) Size() int {
	n := 0
	for _, c := range l.Cards {
		n += c.Count
	}
	return n
}
