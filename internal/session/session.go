// Package session implements GameSession/Mode (§4.7): the top-level
// phase state machine, per-move bomb bookkeeping, and event emission that
// the rotation engine and cascade resolver feed into. It owns the board,
// the session RNG and the scoring counters exclusively as struct fields,
// so multiple sessions can run side by side with no shared mutable state.
package session

import (
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/arlowen/hexcascade/internal/board"
	"github.com/arlowen/hexcascade/internal/events"
	"github.com/arlowen/hexcascade/internal/geometry"
	"github.com/arlowen/hexcascade/internal/rotation"
	"github.com/arlowen/hexcascade/internal/scoring"
	"github.com/arlowen/hexcascade/internal/special"
)

// Direction is the rotation direction a Rotate action names.
type Direction uint8

const (
	CW Direction = iota
	CCW
)

func (d Direction) clockwise() bool {
	return d == CW
}

// minBombInterval and baseBombInterval feed the dynamic bomb-interval
// curve max(4, 15 - floor(score/5000)) (§4.7).
const (
	minBombInterval  = 4
	baseBombInterval = 15
	bombIntervalStep = 5000
)

// Session is one player's live game: phase state machine, board, RNG,
// scoring and the current Selection (if any). The board is exclusively
// owned by its Session (§5) -- no external caller may mutate it mid
// transition.
type Session struct {
	ID uuid.UUID

	config Config
	board  *board.Board
	rng    *rand.Rand
	seed   uint64

	scoring    scoring.Scoring
	moveCount  int
	bombQueued bool

	phase     events.Phase
	selection board.Selection
	hasSel    bool

	// origin and hexSize configure Select(pixel)'s pixel-to-hex lookup;
	// they are set once by the host at session creation since the engine
	// never chooses its own pixel layout (§4.1 is host-only math wired
	// through here for convenience).
	origin  geometry.Point
	hexSize float64
}

// New creates a session with a freshly generated board, seeded from
// cfg.Seed.
func New(cfg Config, origin geometry.Point, hexSize float64) *Session {
	if cfg.PaletteSize == 0 {
		cfg.PaletteSize = board.DefaultPaletteSize
	}
	s := &Session{
		ID:      uuid.New(),
		config:  cfg,
		rng:     newRNG(cfg.Seed),
		seed:    cfg.Seed,
		phase:   events.PhaseIdle,
		origin:  origin,
		hexSize: hexSize,
	}
	s.board = board.NewBoard(s.rng, cfg.PaletteSize)
	return s
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Phase returns the session's current top-level state.
func (s *Session) Phase() events.Phase {
	return s.phase
}

// MoveCount returns the number of completed Rotating->* transitions.
func (s *Session) MoveCount() int {
	return s.moveCount
}

// Score returns the running score.
func (s *Session) Score() int {
	return s.scoring.Score
}

// Select implements the Idle/Selected Select(pixel) transition (§4.7): it
// resolves pearl first, then starflower, then 3-cluster at that pixel. A
// second Select while already Selected either moves the selection
// elsewhere or, if the pixel resolves to the same selection, deselects
// back to Idle.
func (s *Session) Select(p geometry.Point) []events.Event {
	if s.phase != events.PhaseIdle && s.phase != events.PhaseSelected {
		return nil
	}
	sel, ok := s.resolveSelection(p)
	if !ok {
		return nil
	}
	if s.hasSel && sameSelection(s.selection, sel) {
		s.hasSel = false
		s.selection = board.Selection{}
		return s.setPhase(events.PhaseIdle)
	}
	s.selection = sel
	s.hasSel = true
	return s.setPhase(events.PhaseSelected)
}

func sameSelection(a, b board.Selection) bool {
	if a.Kind != b.Kind || len(a.Cells) != len(b.Cells) {
		return false
	}
	for i := range a.Cells {
		if a.Cells[i] != b.Cells[i] {
			return false
		}
	}
	return true
}

// resolveSelection implements the pearl -> starflower -> 3-cluster pixel
// resolution order (§4.7).
func (s *Session) resolveSelection(p geometry.Point) (board.Selection, bool) {
	bounds := s.board.Bounds()
	pos, ok := geometry.PixelToHex(p, s.origin, s.hexSize, bounds)
	if !ok {
		return board.Selection{}, false
	}
	if cell, present := s.board.At(pos); present && cell.IsBlackPearl() {
		ring := geometry.Neighbors(pos)
		var y [3]geometry.Pos
		for i, idx := range board.YNeighborIndices {
			y[i] = ring[idx]
		}
		return board.NewYSelection(pos, y), true
	}
	if cell, present := s.board.At(pos); present && cell.IsStarflower() {
		return board.NewRingSelection(pos, geometry.Neighbors(pos)), true
	}
	cluster, ok := geometry.FindClusterAtPixel(p, s.origin, s.hexSize, bounds)
	if !ok {
		return board.Selection{}, false
	}
	return board.NewClusterSelection(cluster[0], cluster[1], cluster[2]), true
}

// Rotate implements the Selected -> Rotating -> (Cascading|Selected)
// transition (§4.6, §4.7): it runs the rotation engine, then the
// per-move housekeeping (move_count, bomb ticking, dynamic bomb
// interval), then settles to Idle after a hit, back to Selected (keeping
// the selection) after a full-cycle no-op, or to GameOver.
func (s *Session) Rotate(dir Direction) []events.Event {
	if s.phase != events.PhaseSelected || !s.hasSel {
		return nil
	}
	var out []events.Event
	out = append(out, s.setPhase(events.PhaseRotating)...)

	ctx := rotation.Context{
		Board:        s.board,
		RNG:          s.rng,
		Scoring:      &s.scoring,
		MatchMode:    s.config.MatchMode,
		BombsEnabled: s.config.GameMode.BombsEnabled(),
		BombQueued:   &s.bombQueued,
	}
	result := rotation.Run(ctx, s.selection, dir.clockwise())

	if result.Hit {
		s.hasSel = false
		s.selection = board.Selection{}
		out = append(out, s.setPhase(events.PhaseCascading)...)
		out = append(out, result.Events...)
	}

	out = append(out, s.perMoveHousekeeping()...)
	if s.phase == events.PhaseGameOver {
		return out
	}
	if !result.Hit {
		return append(out, s.setPhase(events.PhaseSelected)...)
	}
	out = append(out, s.setPhase(events.PhaseIdle)...)
	return out
}

// perMoveHousekeeping fires once per Rotating->* transition regardless of
// whether the rotation was a hit: move_count += 1; in bomb modes,
// tick_bombs and, if has_game_over and any expired, -> GameOver; in a
// bomb mode without game-over an expired bomb is removed without ending
// play (no current mode is of that kind: chill mode ticks no bombs);
// compute the dynamic bomb interval and set bomb_queued when due (§4.7).
func (s *Session) perMoveHousekeeping() []events.Event {
	var out []events.Event
	s.moveCount++

	if s.config.GameMode.BombsEnabled() {
		ticked, expired := special.TickBombs(s.board)
		for _, t := range ticked {
			out = append(out, events.Event{Kind: events.KindBombTicked, Pos: t.Pos, Remaining: t.Remaining})
		}
		if len(expired) > 0 {
			if s.config.GameMode.HasGameOver() {
				out = append(out, s.setPhase(events.PhaseGameOver)...)
				out = append(out, events.Event{Kind: events.KindGameOver, Reason: events.ReasonBombExpired})
				return out
			}
			// No game-over in this mode: the bomb simply expires and is
			// removed without ending play.
			for _, pos := range expired {
				s.board.Clear(pos)
			}
			if moves := s.board.ApplyGravity(); len(moves) > 0 {
				out = append(out, gravityEvent(moves))
			}
			if filled, _, _ := s.board.FillEmpty(s.rng, false); len(filled) > 0 {
				out = append(out, events.Event{Kind: events.KindRefilled, Refilled: filled})
			}
		}
	}

	interval := bombInterval(s.scoring.Score)
	if s.config.GameMode.BombsEnabled() && s.moveCount%interval == 0 {
		s.bombQueued = true
	}
	return out
}

// bombInterval computes max(4, 15 - floor(score/5000)).
func bombInterval(score int) int {
	interval := baseBombInterval - int(math.Floor(float64(score)/bombIntervalStep))
	if interval < minBombInterval {
		return minBombInterval
	}
	return interval
}

// EndSession implements the chill-mode-only EndSession action (§4.7,
// §6): transitions to GameOver from any state, after the current
// cascade -- since the engine is synchronous (§5), there is never a
// cascade in flight when this is called from outside the engine.
func (s *Session) EndSession() []events.Event {
	if !s.config.GameMode.AllowsEndSession() {
		return nil
	}
	out := s.setPhase(events.PhaseGameOver)
	out = append(out, events.Event{Kind: events.KindGameOver, Reason: events.ReasonSessionEnded})
	return out
}

// NewGame resets the session to a freshly generated board and zeroed
// counters, re-seeding the RNG from seed. Valid from any phase (§6).
func (s *Session) NewGame(seed uint64) []events.Event {
	s.seed = seed
	s.rng = newRNG(seed)
	s.board = board.NewBoard(s.rng, s.config.PaletteSize)
	s.scoring = scoring.Scoring{}
	s.moveCount = 0
	s.bombQueued = false
	s.hasSel = false
	s.selection = board.Selection{}
	return s.setPhase(events.PhaseIdle)
}

func (s *Session) setPhase(p events.Phase) []events.Event {
	s.phase = p
	return []events.Event{{Kind: events.KindPhaseChanged, NewPhase: p}}
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
