package session

import (
	"encoding/gob"

	"github.com/pkg/errors"

	"github.com/arlowen/hexcascade/internal/board"
	"github.com/arlowen/hexcascade/internal/events"
	"github.com/arlowen/hexcascade/internal/geometry"
)

// Snapshot is a read-only copy of a session's externally visible state,
// safe to hand to a renderer between transitions (§5: no external
// observer may mutate the live board mid-transition).
type Snapshot struct {
	Board      *board.Board
	MoveCount  int
	Score      int
	ChainLevel int
	Combo      int
	Phase      events.Phase
	ModeID     string
}

// Snapshot clones the board and copies the scalar counters, so the
// caller's copy can never alias the session's live state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Board:      s.board.Clone(),
		MoveCount:  s.moveCount,
		Score:      s.scoring.Score,
		ChainLevel: s.scoring.ChainLevel,
		Combo:      s.scoring.Combo,
		Phase:      s.phase,
		ModeID:     s.config.ModeID(),
	}
}

// persistedCell mirrors board.Cell with exported fields so gob can encode
// it; board.Cell already exports its fields, but persistedCell is kept as
// its own type so the save-file layout doesn't silently change shape if
// board.Cell ever gains an unexported field.
type persistedCell struct {
	Color     int
	Special   board.SpecialKind
	BombTimer int
	Occupied  bool
}

// persistedState is the gob-encoded shape of §6's persistent state
// layout: grid, move_count, score, chain/combo, rng_seed, mode_id.
type persistedState struct {
	Cols, Rows int
	Grid       [][]persistedCell
	MoveCount  int
	Score      int
	ChainLevel int
	Combo      int
	BombQueued bool
	RNGSeed    uint64
	ModeID     string
	GameMode   GameMode
	MatchMode  uint8
}

// Save encodes the session's persistent state to enc. Save versions: if
// the layout ever grows a field, bump persistedState and branch on a
// leading version field in Restore.
func (s *Session) Save(enc *gob.Encoder) error {
	state := s.toPersisted()
	if err := enc.Encode(state); err != nil {
		return errors.Wrap(err, "failed to encode session state")
	}
	return nil
}

func (s *Session) toPersisted() persistedState {
	bounds := s.board.Bounds()
	grid := make([][]persistedCell, bounds.Cols)
	for col := range grid {
		grid[col] = make([]persistedCell, bounds.Rows)
		for row := range grid[col] {
			pos := geometry.Pos{Col: col, Row: row}
			cell, ok := s.board.At(pos)
			grid[col][row] = persistedCell{
				Color:     cell.Color,
				Special:   cell.Special,
				BombTimer: cell.BombTimer,
				Occupied:  ok,
			}
		}
	}
	return persistedState{
		Cols:       bounds.Cols,
		Rows:       bounds.Rows,
		Grid:       grid,
		MoveCount:  s.moveCount,
		Score:      s.scoring.Score,
		ChainLevel: s.scoring.ChainLevel,
		Combo:      s.scoring.Combo,
		BombQueued: s.bombQueued,
		RNGSeed:    s.seed,
		ModeID:     s.config.ModeID(),
		GameMode:   s.config.GameMode,
		MatchMode:  uint8(s.config.MatchMode),
	}
}

// Restore decodes a session's persistent state from dec, replacing the
// receiver's board, counters and RNG in place. Corrupt state (mismatched
// grid dimensions, a bomb special with a non-positive timer) never
// partially applies: Restore leaves the session untouched and reports the
// failure so the caller can emit RestoreFailed and start fresh (§7).
func (s *Session) Restore(dec *gob.Decoder) error {
	var state persistedState
	if err := dec.Decode(&state); err != nil {
		return errors.Wrap(err, "failed to decode session state")
	}
	if err := validatePersisted(state); err != nil {
		return errors.Wrap(err, "corrupt saved state")
	}

	bombsEnabled := s.config.GameMode.BombsEnabled()
	b := board.NewEmpty(s.config.PaletteSize)
	for col := 0; col < state.Cols; col++ {
		for row := 0; row < state.Rows; row++ {
			pc := state.Grid[col][row]
			if !pc.Occupied {
				continue
			}
			special, timer := pc.Special, pc.BombTimer
			if special == board.SpecialBomb && !bombsEnabled {
				// A save made in a bomb-enabled mode, restored into a mode
				// without bombs: the bomb has no timer to tick, so it is
				// demoted to a regular cell of the same color (§9).
				special, timer = board.SpecialNone, 0
			}
			b.Set(geometry.Pos{Col: col, Row: row}, board.Cell{
				Color:     pc.Color,
				Special:   special,
				BombTimer: timer,
			})
		}
	}

	s.board = b
	s.moveCount = state.MoveCount
	s.scoring.Score = state.Score
	s.scoring.ChainLevel = state.ChainLevel
	s.scoring.Combo = state.Combo
	s.bombQueued = state.BombQueued
	s.seed = state.RNGSeed
	s.rng = newRNG(state.RNGSeed)
	s.phase = events.PhaseIdle
	s.hasSel = false
	s.selection = board.Selection{}
	return nil
}

func validatePersisted(state persistedState) error {
	if state.Cols != board.Cols || state.Rows != board.Rows {
		return errors.Errorf("grid dimensions %dx%d do not match expected %dx%d", state.Cols, state.Rows, board.Cols, board.Rows)
	}
	if len(state.Grid) != state.Cols {
		return errors.New("grid column count does not match declared Cols")
	}
	for col, column := range state.Grid {
		if len(column) != state.Rows {
			return errors.Errorf("grid column %d row count does not match declared Rows", col)
		}
		for row, cell := range column {
			if !cell.Occupied {
				continue
			}
			if cell.Special == board.SpecialBomb && cell.BombTimer <= 0 {
				return errors.Errorf("bomb at (%d,%d) has non-positive timer %d", col, row, cell.BombTimer)
			}
			if cell.Special == board.SpecialStarflower && cell.Color != board.ColorStarflower {
				return errors.Errorf("starflower at (%d,%d) has bad color sentinel %d", col, row, cell.Color)
			}
			if cell.Special == board.SpecialBlackPearl && cell.Color != board.ColorBlackPearl {
				return errors.Errorf("black pearl at (%d,%d) has bad color sentinel %d", col, row, cell.Color)
			}
		}
	}
	return nil
}
