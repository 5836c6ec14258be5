// Package events defines the transcript the engine emits for one player
// action (§6). Event is a single tagged struct rather than an interface
// with one type per kind: a Kind enum switches which of the payload
// fields are meaningful, so the transcript stays a flat []Event slice
// instead of a slice of interfaces.
package events

import "github.com/arlowen/hexcascade/internal/geometry"

// Kind identifies which event this is and, by extension, which fields of
// Event are populated.
type Kind uint8

const (
	KindMatched Kind = iota
	KindCleared
	KindStarflowerBorn
	KindBlackPearlBorn
	KindGravity
	KindRefilled
	KindBombSpawned
	KindBombTicked
	KindScoreChanged
	KindChainAdvanced
	KindPhaseChanged
	KindGameOver
	KindRestoreFailed
	KindInvariantViolated

	lastKind
)

//go:generate go tool enumer -type=Kind -trimprefix=Kind -transform=snake -text -json events.go

var kindNames = [...]string{
	"matched", "cleared", "starflower_born", "black_pearl_born", "gravity",
	"refilled", "bomb_spawned", "bomb_ticked", "score_changed", "chain_advanced",
	"phase_changed", "game_over", "restore_failed", "invariant_violated",
}

func (k Kind) String() string {
	if k >= lastKind {
		return "Kind(?)"
	}
	return kindNames[k]
}

// Phase is the top-level GameSession state machine's current state (§4.7).
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseSelected
	PhaseRotating
	PhaseCascading
	PhaseGameOver

	lastPhase
)

var phaseNames = [...]string{"idle", "selected", "rotating", "cascading", "game_over"}

func (p Phase) String() string {
	if p >= lastPhase {
		return "Phase(?)"
	}
	return phaseNames[p]
}

// GameOverReason distinguishes the two player-visible game-over causes
// (§7).
type GameOverReason uint8

const (
	ReasonBombExpired GameOverReason = iota
	ReasonSessionEnded
)

var reasonNames = [...]string{"bomb_expired", "session_ended"}

func (r GameOverReason) String() string {
	if int(r) >= len(reasonNames) {
		return "GameOverReason(?)"
	}
	return reasonNames[r]
}

// FallEntry records one cell's gravity drop, part of a KindGravity event's
// FallMap.
type FallEntry struct {
	Col             int
	FromRow, ToRow  int
	Color           int
	Special         int // mirrors board.SpecialKind without importing board
	BombTimer       int
}

// Event is the single record type emitted by the engine. Only the fields
// relevant to Kind are populated; the rest are zero.
type Event struct {
	Kind Kind

	// KindMatched
	Matched    []geometry.Pos
	Points     int
	ChainLevel int
	Centroid   geometry.Point

	// KindCleared
	Cleared []geometry.Pos

	// KindStarflowerBorn
	Center    geometry.Pos
	Ring      [6]geometry.Pos
	RingColor int

	// KindBlackPearlBorn reuses Center and Ring (the absorbed starflowers).

	// KindGravity
	FallMap []FallEntry

	// KindRefilled
	Refilled []geometry.Pos

	// KindBombSpawned, KindBombTicked
	Pos       geometry.Pos
	Remaining int

	// KindScoreChanged
	NewScore int

	// KindPhaseChanged
	NewPhase Phase

	// KindGameOver
	Reason GameOverReason

	// KindRestoreFailed, KindInvariantViolated
	Message string
}
