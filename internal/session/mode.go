package session

import (
	"fmt"

	"github.com/arlowen/hexcascade/internal/match"
)

// GameMode selects the bomb/game-over policy (§6).
type GameMode uint8

const (
	// ModeArcade has bombs on and ends the session when one expires.
	ModeArcade GameMode = iota
	// ModeChill has bombs off, never ends on its own, and allows
	// EndSession.
	ModeChill

	lastGameMode
)

var gameModeNames = [...]string{"arcade", "chill"}

func (m GameMode) String() string {
	if m >= lastGameMode {
		return "GameMode(?)"
	}
	return gameModeNames[m]
}

// BombsEnabled reports whether this mode spawns and ticks bombs.
func (m GameMode) BombsEnabled() bool {
	return m == ModeArcade
}

// HasGameOver reports whether a bomb expiring in this mode ends the
// session.
func (m GameMode) HasGameOver() bool {
	return m == ModeArcade
}

// AllowsEndSession reports whether the player may voluntarily end the
// session in this mode.
func (m GameMode) AllowsEndSession() bool {
	return m == ModeChill
}

// Config is the boot configuration for a new session: the orthogonal
// game-mode/match-mode pair, the palette size and the seed driving the
// session-owned PRNG (§5, §6).
type Config struct {
	GameMode    GameMode
	MatchMode   match.Mode
	PaletteSize int
	Seed        uint64
}

// ModeID is the combined mode identifier used by the host for high-score
// bucketing: the concatenation "{game}_{match}".
func (c Config) ModeID() string {
	return fmt.Sprintf("%s_%s", c.GameMode, c.MatchMode)
}
