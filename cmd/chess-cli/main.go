// Command chess-cli plays a hot-seat game in the terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/park285/cheese-chess/internal/config"
	"github.com/park285/cheese-chess/internal/engine"
	"github.com/park285/cheese-chess/internal/obslog"
)

func main() {
	cfg, err := config.LoadLocal()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ascii := flag.Bool("ascii", false, "use two-letter piece codes instead of chess glyphs")
	noColor := flag.Bool("no-color", false, "disable square shading")
	flip := flag.Bool("flip", false, "draw Black at the bottom")
	placement := flag.String("fen", "", "start from this FEN piece placement")
	black := flag.Bool("black", false, "Black moves first in a -fen position")
	sim := flag.String("sim", cfg.Simulation.String(), "king-safety simulation: clone or inplace")
	logFile := flag.String("log", "", "write logs to this file")
	flag.Parse()

	if *logFile != "" {
		l, err := obslog.New(obslog.Options{Level: zap.DebugLevel, File: *logFile, Format: "json"})
		if err != nil {
			log.Fatalf("log init error: %v", err)
		}
		obslog.SetGlobal(l)
		defer func() { _ = l.Sync() }()
	}

	mode, err := engine.ParseSimulation(*sim)
	if err != nil {
		log.Fatalf("flag -sim: %v", err)
	}
	opts := []engine.Option{engine.WithSimulation(mode)}
	if *placement != "" {
		b, err := engine.ParsePlacement(*placement)
		if err != nil {
			log.Fatalf("flag -fen: %v", err)
		}
		turn := engine.White
		if *black {
			turn = engine.Black
		}
		opts = append(opts, engine.WithBoard(b, turn))
	}

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	s := newSession(engine.NewGame(opts...), viewOptions{
		unicode: !*ascii,
		color:   tty && !*noColor,
		flipped: *flip,
	}, obslog.L())
	if err := s.run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
