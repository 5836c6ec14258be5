// Package cli implements a terminal host for a hexcascade session: board
// rendering and a text command reader. This is purely a host concern
// (§1 Out of scope: "the pixel renderer ... input event capture"); the
// engine itself never imports this package.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/arlowen/hexcascade/internal/board"
	"github.com/arlowen/hexcascade/internal/events"
	"github.com/arlowen/hexcascade/internal/geometry"
	"github.com/arlowen/hexcascade/internal/session"
)

// hexSize and cellWidth/cellHeight are purely a rendering choice: how
// many terminal cells a hex occupies on screen, and the HexToPixel scale
// the UI feeds back into Select.
const (
	hexSize    = 1.0
	cellWidth  = 6
	cellHeight = 3
)

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func displayWidth(s string) int {
	return len(ansiFilter.ReplaceAllString(s, ""))
}

func printCentered(block string) {
	lines := strings.Split(block, "\n")
	terminalWidth, _, _ := term.GetSize(int(os.Stdout.Fd()))
	blockWidth := 0
	for _, line := range lines {
		if w := displayWidth(line); w > blockWidth {
			blockWidth = w
		}
	}
	indent := (terminalWidth - blockWidth) / 2
	if indent < 0 {
		indent = 0
	}
	for _, line := range lines {
		if len(line) == 0 {
			fmt.Println()
			continue
		}
		fmt.Printf("%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// palette maps regular colors to lipgloss foreground colors. Starflowers,
// black pearls and bombs get their own fixed markers regardless of
// underlying color.
var palette = []lipgloss.Color{
	lipgloss.Color("196"), // red
	lipgloss.Color("220"), // yellow
	lipgloss.Color("46"),  // green
	lipgloss.Color("39"),  // blue
	lipgloss.Color("201"), // magenta
	lipgloss.Color("51"),  // teal (6th palette color)
}

var cellStyle = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)

// UI is a terminal host bound to one live session.
type UI struct {
	session *session.Session
	reader  *bufio.Reader
}

// New wraps s with a terminal reader on stdin.
func New(s *session.Session) *UI {
	return &UI{session: s, reader: bufio.NewReader(os.Stdin)}
}

// Print renders the board, score, chain and phase.
func (ui *UI) Print(snap session.Snapshot) {
	b := snap.Board
	bounds := b.Bounds()
	var sb strings.Builder
	for row := 0; row < bounds.Rows; row++ {
		if row%2 == 1 {
			sb.WriteString(strings.Repeat(" ", cellWidth/2))
		}
		for col := 0; col < bounds.Cols; col++ {
			sb.WriteString(renderCell(b, geometry.Pos{Col: col, Row: row}))
		}
		sb.WriteString("\n")
	}
	printCentered(sb.String())
	fmt.Println()
	printCentered(fmt.Sprintf("score %d   chain %d   combo %d   move %d   phase %s",
		snap.Score, snap.ChainLevel, snap.Combo, snap.MoveCount, snap.Phase))
}

func renderCell(b *board.Board, pos geometry.Pos) string {
	cell, ok := b.At(pos)
	if !ok {
		return cellStyle.Render(".")
	}
	switch cell.Special {
	case board.SpecialStarflower:
		return cellStyle.Foreground(lipgloss.Color("255")).Render("*")
	case board.SpecialBlackPearl:
		return cellStyle.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("255")).Render("@")
	case board.SpecialBomb:
		return cellStyle.Foreground(swatch(cell.Color)).Render(fmt.Sprintf("B%d", cell.BombTimer))
	case board.SpecialMultiplier:
		return cellStyle.Foreground(swatch(cell.Color)).Bold(true).Render("x2")
	default:
		return cellStyle.Foreground(swatch(cell.Color)).Render("o")
	}
}

func swatch(color int) lipgloss.Color {
	if color < 0 || color >= len(palette) {
		return lipgloss.Color("255")
	}
	return palette[color]
}

// PrintEvents logs a one-line summary per engine event, in emission
// order, the way a host would drive its animation queue off the
// transcript (§5).
func (ui *UI) PrintEvents(evs []events.Event) {
	for _, e := range evs {
		switch e.Kind {
		case events.KindMatched:
			fmt.Printf("  matched %d cells, +%d points (chain %d)\n", len(e.Matched), e.Points, e.ChainLevel)
		case events.KindStarflowerBorn:
			fmt.Printf("  starflower born at (%d,%d)\n", e.Center.Col, e.Center.Row)
		case events.KindBlackPearlBorn:
			fmt.Printf("  black pearl born at (%d,%d)\n", e.Center.Col, e.Center.Row)
		case events.KindBombSpawned:
			fmt.Printf("  bomb spawned at (%d,%d)\n", e.Pos.Col, e.Pos.Row)
		case events.KindBombTicked:
			fmt.Printf("  bomb at (%d,%d) now %d\n", e.Pos.Col, e.Pos.Row, e.Remaining)
		case events.KindGameOver:
			fmt.Printf("  game over: %s\n", e.Reason)
		case events.KindRestoreFailed:
			fmt.Printf("  restore failed: %s\n", e.Message)
		}
	}
}

var cellSelectParser = regexp.MustCompile(`^\s*select\s+(-?\d+)[\s,]+(-?\d+)\s*$`)
var rotateParser = regexp.MustCompile(`^\s*rotate\s+(cw|ccw)\s*$`)

// ReadCommand blocks for one line of input and translates it into a
// command name ("select", "rotate_cw", "rotate_ccw", "end", "new",
// "quit", or "" if unrecognized) plus, for "select", the column and row.
// Recognized input: "select COL ROW", "rotate cw|ccw", "end", "new", "quit".
func (ui *UI) ReadCommand() (cmd string, a, b int, err error) {
	fmt.Print("> ")
	text, err := ui.reader.ReadString('\n')
	if err != nil {
		return "", 0, 0, err
	}
	text = strings.ToLower(strings.TrimSpace(text))

	switch {
	case text == "end" || text == "new" || text == "quit":
		return text, 0, 0, nil
	case cellSelectParser.MatchString(text):
		m := cellSelectParser.FindStringSubmatch(text)
		col, _ := strconv.Atoi(m[1])
		row, _ := strconv.Atoi(m[2])
		return "select", col, row, nil
	case rotateParser.MatchString(text):
		m := rotateParser.FindStringSubmatch(text)
		if m[1] == "cw" {
			return "rotate_cw", 0, 0, nil
		}
		return "rotate_ccw", 0, 0, nil
	default:
		fmt.Printf("  * unrecognized command %q (try \"select col row\", \"rotate cw\", \"rotate ccw\", \"end\", \"new\", \"quit\")\n", text)
		return "", 0, 0, nil
	}
}

// CellPixel converts a (col,row) the player typed into the pixel the
// engine's Select(pixel) expects, using the same origin/size the session
// was created with.
func CellPixel(col, row int) geometry.Point {
	return geometry.HexToPixel(geometry.Pos{Col: col, Row: row}, geometry.Point{}, hexSize)
}
