package main

import (
	"context"
	"encoding/gob"
	"flag"
	"fmt"
	"os"
	"time"

	"k8s.io/klog/v2"

	"github.com/arlowen/hexcascade/internal/events"
	"github.com/arlowen/hexcascade/internal/geometry"
	"github.com/arlowen/hexcascade/internal/match"
	"github.com/arlowen/hexcascade/internal/session"
	"github.com/arlowen/hexcascade/internal/ui/cli"
	"github.com/arlowen/hexcascade/internal/ui/spinning"
)

var (
	flagGameMode  = flag.String("mode", "arcade", "Game mode: arcade or chill")
	flagMatchMode = flag.String("match_mode", "line", "Match mode: line or triangle")
	flagSeed      = flag.Uint64("seed", 1, "Session RNG seed")
	flagSaveFile  = flag.String("save", "", "Path to a save file to restore from / persist to on quit")
	flagQuiet     = flag.Bool("quiet", false, "Suppress per-event logging")

	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	gameMode, err := parseGameMode(*flagGameMode)
	if err != nil {
		klog.Fatalf("Invalid --mode: %v", err)
	}
	matchMode, err := parseMatchMode(*flagMatchMode)
	if err != nil {
		klog.Fatalf("Invalid --match_mode: %v", err)
	}

	var cancel func()
	globalCtx, cancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	s := session.New(session.Config{
		GameMode:  gameMode,
		MatchMode: matchMode,
		Seed:      *flagSeed,
	}, geometry.Point{}, 1.0)

	ui := cli.New(s)

	if *flagSaveFile != "" {
		if f, err := os.Open(*flagSaveFile); err == nil {
			err := s.Restore(gob.NewDecoder(f))
			f.Close()
			if err != nil {
				klog.Warningf("Failed to restore %q: %+v", *flagSaveFile, err)
				ui.PrintEvents([]events.Event{{Kind: events.KindRestoreFailed, Message: err.Error()}})
			}
		}
	}

	runLoop(ui, s)

	if *flagSaveFile != "" {
		if f, err := os.Create(*flagSaveFile); err == nil {
			if err := s.Save(gob.NewEncoder(f)); err != nil {
				klog.Warningf("Failed to save %q: %+v", *flagSaveFile, err)
			}
			f.Close()
		}
	}
}

func runLoop(ui *cli.UI, s *session.Session) {
	for {
		select {
		case <-globalCtx.Done():
			return
		default:
		}

		snap := s.Snapshot()
		ui.Print(snap)
		if snap.Phase == events.PhaseGameOver {
			fmt.Println("game over")
			return
		}

		cmd, a, b, err := ui.ReadCommand()
		if err != nil {
			return
		}
		var evs []events.Event
		switch cmd {
		case "select":
			evs = s.Select(cli.CellPixel(a, b))
		case "rotate_cw":
			evs = s.Rotate(session.CW)
		case "rotate_ccw":
			evs = s.Rotate(session.CCW)
		case "end":
			evs = s.EndSession()
		case "new":
			evs = s.NewGame(*flagSeed)
		case "quit":
			return
		}
		if !*flagQuiet {
			ui.PrintEvents(evs)
		}
	}
}

func parseGameMode(s string) (session.GameMode, error) {
	switch s {
	case "arcade":
		return session.ModeArcade, nil
	case "chill":
		return session.ModeChill, nil
	default:
		return 0, fmt.Errorf("unknown game mode %q", s)
	}
}

func parseMatchMode(s string) (match.Mode, error) {
	switch s {
	case "line":
		return match.ModeLine, nil
	case "triangle":
		return match.ModeTriangle, nil
	default:
		return 0, fmt.Errorf("unknown match mode %q", s)
	}
}
