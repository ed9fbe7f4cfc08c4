package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lost-woods/mulligan/src/config"
	"github.com/lost-woods/mulligan/src/console"
	"github.com/lost-woods/mulligan/src/decklist"
	"github.com/lost-woods/mulligan/src/mtg"
	"github.com/lost-woods/mulligan/src/rng"
	"github.com/lost-woods/mulligan/src/server"
	"github.com/lost-woods/mulligan/src/session"
)

func main() {
	serve := flag.Bool("serve", false, "serve the HTTP API instead of an interactive session")
	deckFile := flag.String("deck", "", "deck list file (YAML or JSON); overrides DECK_FILE")
	seed := flag.Uint64("seed", 0, "shuffle with a seeded source for a reproducible session")
	flag.Parse()

	zapLogger, _ := zap.NewProduction()
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	if *deckFile != "" {
		cfg.DeckFile = *deckFile
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.Source = rng.SourceSeeded
			cfg.Seed = *seed
		}
	})

	list := decklist.Default()
	if cfg.DeckFile != "" {
		if list, err = decklist.Load(cfg.DeckFile); err != nil {
			log.Fatal(err)
		}
	}

	r, health, err := rng.Open(cfg.Source, cfg.Seed, cfg.Serial)
	if err != nil {
		log.Fatalw("entropy source unavailable", "source", cfg.Source, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// After the first interrupt a second one kills the process.
	context.AfterFunc(ctx, stop)

	if *serve {
		log.Infow("serving", "port", cfg.Port, "deck", list.Name, "source", cfg.Source)
		if err := server.New(ctx, cfg, r, health, list, log).Run(); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := play(ctx, cfg, r, list, os.Stdin, os.Stdout, log); err != nil {
		if errors.Is(err, session.ErrTooManyMulligans) {
			log.Fatal("You discarded too many cards!")
		}
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Fatal(err)
	}
}

func play(ctx context.Context, cfg config.Config, r io.Reader, list *decklist.List, in io.Reader, out io.Writer, log *zap.SugaredLogger) error {
	deck, err := list.Deck(mtg.WithSource(r), mtg.WithLandParams(cfg.Land))
	if err != nil {
		return err
	}

	m := deck.AggregateMana()
	fmt.Fprintf(out, "%s\nBlack: %d White: %d Colorless: %d Total: %d\nCards: %d\n",
		list.Name, m.Black, m.White, m.Colorless, m.Total(), deck.Len())
	if rec, err := deck.RecommendLands(); err == nil {
		black, white := rec.Rounded()
		fmt.Fprintf(out, "Need %d Swamps and %d Plains\n", black, white)
	}

	c := console.New(in, out)
	s, err := session.New(deck, c, session.Config{HandSize: cfg.HandSize, Observer: c, Log: log})
	if err != nil {
		return err
	}
	return s.Run(ctx)
}
