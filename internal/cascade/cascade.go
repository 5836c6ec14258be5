// Package cascade implements the resolver that drives one player move end
// to end: match set expansion by special interactions, score award,
// clear, mid-cascade specials, gravity, refill, post-settle specials,
// chain advance and recursion (§4.5). Each cascade level is handled as one
// iteration of a straight-line loop with an explicit "next-level matches"
// variable, rather than recursion, so a long chain never grows the call
// stack.
package cascade

import (
	"math/rand/v2"

	"github.com/arlowen/hexcascade/internal/board"
	"github.com/arlowen/hexcascade/internal/events"
	"github.com/arlowen/hexcascade/internal/generics"
	"github.com/arlowen/hexcascade/internal/geometry"
	"github.com/arlowen/hexcascade/internal/match"
	"github.com/arlowen/hexcascade/internal/scoring"
	"github.com/arlowen/hexcascade/internal/special"
)

// Context bundles everything one Resolve call needs: the live board, the
// session-owned RNG and scoring, the active match mode, and the bomb
// bookkeeping a session in a bomb-enabled mode carries.
type Context struct {
	Board        *board.Board
	RNG          *rand.Rand
	Scoring      *scoring.Scoring
	MatchMode    match.Mode
	BombsEnabled bool
	// BombQueued is the session's bomb_queued flag; Resolve clears it once
	// a bomb has actually spawned during a refill.
	BombQueued *bool
}

// Resolve runs the cascade to completion starting from the given initial
// matched set and returns the full event transcript, in the fixed order
// §5 specifies: score -> clear -> special-birth -> gravity -> refill ->
// post-settle specials -> chain-advance -> next-level-matches.
func Resolve(ctx Context, initial generics.Set[geometry.Pos]) []events.Event {
	var out []events.Event
	matched := initial
	bounds := ctx.Board.Bounds()

	for {
		pending, scoreBonus := expandPending(ctx.Board, bounds, matched)

		points := ctx.Scoring.AwardMatch(len(matched), scoreBonus)
		out = append(out, events.Event{
			Kind:       events.KindMatched,
			Matched:    generics.KeysSlice(pending),
			Points:     points,
			ChainLevel: ctx.Scoring.ChainLevel,
			Centroid:   gridCentroid(pending),
		})
		out = append(out, events.Event{Kind: events.KindScoreChanged, NewScore: ctx.Scoring.Score})

		clearedPositions := generics.KeysSlice(pending)
		for pos := range pending {
			ctx.Board.Clear(pos)
		}
		out = append(out, events.Event{Kind: events.KindCleared, Cleared: clearedPositions})

		out = append(out, midCascadeSpecials(ctx.Board, pending)...)

		if moves := ctx.Board.ApplyGravity(); len(moves) > 0 {
			out = append(out, gravityEvent(moves))
		}

		out = append(out, refill(ctx)...)

		out = append(out, postSettleSpecials(ctx)...)

		ctx.Scoring.AdvanceChain()
		out = append(out, events.Event{Kind: events.KindChainAdvanced, ChainLevel: ctx.Scoring.ChainLevel})

		next := match.FindMatchesForMode(ctx.Board, ctx.MatchMode)
		if len(next) == 0 {
			ctx.Scoring.ResetChain()
			break
		}
		matched = next
	}
	return out
}

// expandPending implements §4.5 step 1: starting from the matched set, add
// multiplier-cluster members, color-nuke targets and explosion
// casualties, and compute the cumulative score_bonus multiplier.
func expandPending(b *board.Board, bounds geometry.Bounds, matched generics.Set[geometry.Pos]) (generics.Set[geometry.Pos], float64) {
	pending := generics.MakeSet[geometry.Pos](len(matched))
	for pos := range matched {
		pending.Insert(pos)
	}
	scoreBonus := 1.0
	nukedColors := generics.MakeSet[int]()
	explosionSources := generics.MakeSet[geometry.Pos]()

	for _, cluster := range special.DetectMultiplierClusters(b) {
		for pos := range cluster {
			pending.Insert(pos)
		}
		scoreBonus += 0.5 * float64(len(cluster))
		if mono, color := monochrome(b, cluster); mono {
			nukedColors.Insert(color)
		} else {
			for pos := range cluster {
				explosionSources.Insert(pos)
			}
		}
	}

	for pos := range pending {
		cell, ok := b.At(pos)
		if ok && cell.Special == board.SpecialMultiplier {
			scoreBonus += 0.5
		}
	}

	colorHasBomb := generics.MakeSet[int]()
	colorHasMultiplier := generics.MakeSet[int]()
	for pos := range pending {
		cell, ok := b.At(pos)
		if !ok {
			continue
		}
		switch cell.Special {
		case board.SpecialBomb:
			colorHasBomb.Insert(cell.Color)
		case board.SpecialMultiplier:
			colorHasMultiplier.Insert(cell.Color)
		}
	}
	for color := range colorHasBomb {
		if colorHasMultiplier.Has(color) {
			nukedColors.Insert(color)
		}
	}

	for color := range nukedColors {
		for _, pos := range b.Positions() {
			cell, _ := b.At(pos)
			if cell.Color == color && cell.Color >= 0 {
				pending.Insert(pos)
			}
		}
	}

	for pos := range explosionSources {
		for _, n := range geometry.Neighbors(pos) {
			if !bounds.InBounds(n) {
				continue
			}
			cell, ok := b.At(n)
			if ok && cell.IsBlackPearl() {
				continue
			}
			pending.Insert(n)
		}
	}

	return pending, scoreBonus
}

// monochrome reports whether every cell in cluster shares the same color,
// returning that color.
func monochrome(b *board.Board, cluster generics.Set[geometry.Pos]) (bool, int) {
	color := -1
	first := true
	for pos := range cluster {
		cell, ok := b.At(pos)
		if !ok {
			continue
		}
		if first {
			color = cell.Color
			first = false
			continue
		}
		if cell.Color != color {
			return false, color
		}
	}
	return true, color
}

// midCascadeSpecials implements §4.5 step 4: starflowers born at the gap
// left by the just-cleared set, and any black pearl they immediately
// complete. A starflower birth only mutates its center cell -- the ring
// cells that produced it are cleared here, by the resolver, per §4.4.
func midCascadeSpecials(b *board.Board, cleared generics.Set[geometry.Pos]) []events.Event {
	var out []events.Event
	gapBirths := special.DetectStarflowersAtClearedGaps(b, cleared)
	for _, birth := range gapBirths {
		out = append(out, starflowerEvent(birth))
		for _, pos := range birth.Ring {
			b.Clear(pos)
		}
	}
	if len(gapBirths) == 0 {
		return out
	}
	pearlBirths := special.DetectBlackPearls(b)
	for _, birth := range pearlBirths {
		out = append(out, blackPearlEvent(birth))
	}
	if moves := b.ApplyGravity(); len(moves) > 0 {
		out = append(out, gravityEvent(moves))
	}
	return out
}

// refill implements §4.5 step 6: fill every empty slot, honoring the
// session's bomb_queued flag, clearing it once a bomb has spawned.
func refill(ctx Context) []events.Event {
	var out []events.Event
	spawnBomb := ctx.BombsEnabled && ctx.BombQueued != nil && *ctx.BombQueued
	filled, bombPos, bombSpawned := ctx.Board.FillEmpty(ctx.RNG, spawnBomb)
	if len(filled) > 0 {
		out = append(out, events.Event{Kind: events.KindRefilled, Refilled: filled})
	}
	if bombSpawned {
		out = append(out, events.Event{Kind: events.KindBombSpawned, Pos: bombPos})
		*ctx.BombQueued = false
	}
	return out
}

// postSettleSpecials implements §4.5 step 7: whole-board starflower
// detection, then black-pearl detection (which can chain on the
// starflowers just born). A starflower birth only mutates its center cell
// -- its ring is cleared here, by the resolver, per §4.4 -- and a pearl
// absorption clears its own ring too, so either birth leaves gaps that
// gravity must close, topped back up so the cascade never hands step 8/9
// a board with a lingering "None" slot.
func postSettleSpecials(ctx Context) []events.Event {
	var out []events.Event
	boardBirths := special.DetectStarflowers(ctx.Board)
	for _, birth := range boardBirths {
		out = append(out, starflowerEvent(birth))
		for _, pos := range birth.Ring {
			ctx.Board.Clear(pos)
		}
	}
	pearlBirths := special.DetectBlackPearls(ctx.Board)
	for _, birth := range pearlBirths {
		out = append(out, blackPearlEvent(birth))
	}
	if len(boardBirths) == 0 && len(pearlBirths) == 0 {
		return out
	}
	if moves := ctx.Board.ApplyGravity(); len(moves) > 0 {
		out = append(out, gravityEvent(moves))
	}
	if filled, _, _ := ctx.Board.FillEmpty(ctx.RNG, false); len(filled) > 0 {
		out = append(out, events.Event{Kind: events.KindRefilled, Refilled: filled})
	}
	return out
}

func starflowerEvent(birth special.StarflowerBirth) events.Event {
	return events.Event{
		Kind:      events.KindStarflowerBorn,
		Center:    birth.Center,
		Ring:      birth.Ring,
		RingColor: birth.RingColor,
	}
}

func blackPearlEvent(birth special.BlackPearlBirth) events.Event {
	return events.Event{
		Kind:   events.KindBlackPearlBorn,
		Center: birth.Center,
		Ring:   birth.Ring,
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

// gridCentroid averages the (col,row) of a set of positions in grid space
// -- not pixel space. Pixel conversion is a host concern (§4.1); the
// engine only needs a stable, deterministic location for the score-popup
// event.
func gridCentroid(positions generics.Set[geometry.Pos]) geometry.Point {
	if len(positions) == 0 {
		return geometry.Point{}
	}
	var sumCol, sumRow float64
	for pos := range positions {
		sumCol += float64(pos.Col)
		sumRow += float64(pos.Row)
	}
	n := float64(len(positions))
	return geometry.Point{X: sumCol / n, Y: sumRow / n}
}
