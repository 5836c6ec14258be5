// Package rotation implements the rotation engine (§4.6): the
// rotate-one-step, test-for-a-hit loop a player's single move drives. It
// owns none of the board data itself -- it calls board.Selection.Rotate
// and match.FindMatchesForMode/special detectors as stop conditions,
// trying one step at a time and testing the resulting board state before
// deciding whether the move landed.
package rotation

import (
	"math/rand/v2"

	"github.com/arlowen/hexcascade/internal/board"
	"github.com/arlowen/hexcascade/internal/cascade"
	"github.com/arlowen/hexcascade/internal/events"
	"github.com/arlowen/hexcascade/internal/match"
	"github.com/arlowen/hexcascade/internal/scoring"
	"github.com/arlowen/hexcascade/internal/special"
)

// Context bundles everything Run needs: the live board plus the cascade
// inputs it hands off to on a hit.
type Context struct {
	Board        *board.Board
	RNG          *rand.Rand
	Scoring      *scoring.Scoring
	MatchMode    match.Mode
	BombsEnabled bool
	BombQueued   *bool
}

// Result reports what one rotation move produced: whether any step ever
// matched (a "hit"), and the full event transcript -- which, on a
// full-cycle no-op, is simply empty beyond whatever bomb-tick events the
// caller appends separately, since ticking bombs is a session-level
// concern applied once per move regardless of rotation outcome (§4.7).
type Result struct {
	Hit    bool
	Events []events.Event
}

// Run rotates selection one step at a time, in the given direction, up to
// selection.Kind.MaxSteps() steps (a full cycle). After each step it tests
// for a line/triangle match in the active mode and for an immediate
// starflower or black-pearl birth; any of those three count as a hit and
// hand off to cascade.Resolve. If no step produces a hit, the board is
// left in its fully-cycled (i.e. visually original) state and Run reports
// Hit=false -- per §4.6/§8, a full-cycle no-op still consumes the
// player's move at the session level.
func Run(ctx Context, sel board.Selection, clockwise bool) Result {
	steps := sel.Kind.MaxSteps()
	for step := 0; step < steps; step++ {
		sel.Rotate(ctx.Board, clockwise)

		matched := match.FindMatchesForMode(ctx.Board, ctx.MatchMode)
		starflowerBirths := special.DetectStarflowers(ctx.Board)
		pearlBirths := special.DetectBlackPearls(ctx.Board)

		if len(matched) == 0 && len(starflowerBirths) == 0 && len(pearlBirths) == 0 {
			continue
		}

		var pre []events.Event
		for _, birth := range starflowerBirths {
			pre = append(pre, events.Event{
				Kind:      events.KindStarflowerBorn,
				Center:    birth.Center,
				Ring:      birth.Ring,
				RingColor: birth.RingColor,
			})
			// The birth only mutated the center; the ring that produced it
			// is cleared here, before gravity and refill.
			for _, pos := range birth.Ring {
				ctx.Board.Clear(pos)
			}
		}
		for _, birth := range pearlBirths {
			pre = append(pre, events.Event{
				Kind:   events.KindBlackPearlBorn,
				Center: birth.Center,
				Ring:   birth.Ring,
			})
		}
		if len(starflowerBirths) > 0 || len(pearlBirths) > 0 {
			if moves := ctx.Board.ApplyGravity(); len(moves) > 0 {
				pre = append(pre, gravityEvent(moves))
			}
			if filled, bombPos, bombSpawned := ctx.Board.FillEmpty(ctx.RNG, false); len(filled) > 0 {
				pre = append(pre, events.Event{Kind: events.KindRefilled, Refilled: filled})
				if bombSpawned {
					pre = append(pre, events.Event{Kind: events.KindBombSpawned, Pos: bombPos})
				}
			}
		}

		if len(matched) == 0 {
			matched = match.FindMatchesForMode(ctx.Board, ctx.MatchMode)
		}
		if len(matched) == 0 {
			// Specials fired in isolation with no line/triangle match this
			// step; still a hit (the board changed meaningfully), but
			// there is nothing for the cascade resolver's scoring/clear
			// pipeline to do.
			return Result{Hit: true, Events: pre}
		}

		out := cascade.Resolve(cascadeContext(ctx), matched)
		return Result{Hit: true, Events: append(pre, out...)}
	}
	return Result{Hit: false}
}

func cascadeContext(ctx Context) cascade.Context {
	return cascade.Context{
		Board:        ctx.Board,
		RNG:          ctx.RNG,
		Scoring:      ctx.Scoring,
		MatchMode:    ctx.MatchMode,
		BombsEnabled: ctx.BombsEnabled,
		BombQueued:   ctx.BombQueued,
	}
}

func gravityEvent(moves []board.GravityMove) events.Event {
	fallMap := make([]events.FallEntry, len(moves))
	for i, m := range moves {
		fallMap[i] = events.FallEntry{
			Col:       m.Col,
			FromRow:   m.FromRow,
			ToRow:     m.ToRow,
			Color:     m.Cell.Color,
			Special:   int(m.Cell.Special),
			BombTimer: m.Cell.BombTimer,
		}
	}
	return events.Event{Kind: events.KindGravity, FallMap: fallMap}
}
