package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/paneflow/pkg/errors"
	"github.com/matzehuels/paneflow/pkg/layout"
	"github.com/matzehuels/paneflow/pkg/scene"
)

// chromeLines is the number of terminal lines used by the title and
// status bar.
const chromeLines = 3

func (c *CLI) previewCommand() *cobra.Command {
	var cell float64

	cmd := &cobra.Command{
		Use:   "preview [scene]",
		Short: "Reflow a scene live as the terminal is resized",
		Long: `Reflow a scene live as the terminal is resized.

Each terminal column stands for --cell scene units, so the target width
follows the terminal width. When a width cannot be satisfied the previous
layout stays on screen.

Keys: + and - zoom, r resets to the original scene, q quits.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadScene(args[0])
			if err != nil {
				return err
			}
			if cell <= 0 {
				return perrors.New(perrors.ErrCodeInvalidInput, "cell must be positive, got %g", cell)
			}
			// The TUI owns the terminal; keep the logger quiet.
			c.SetLogLevel(log.ErrorLevel)
			_, err = tea.NewProgram(newPreviewModel(s, cell, c.Logger), tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().Float64Var(&cell, "cell", 10, "scene units per terminal column")

	return cmd
}

// =============================================================================
// previewModel - Interactive reflow
// =============================================================================

type previewModel struct {
	original *scene.Scene
	current  *scene.Scene
	cell     float64
	cols     int
	lines    int
	err      error
	target   float64
	reflows  int
	logger   *log.Logger
}

func newPreviewModel(s *scene.Scene, cell float64, logger *log.Logger) previewModel {
	return previewModel{
		original: s,
		current:  s.Clone(),
		cell:     cell,
		logger:   logger,
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.current = m.original.Clone()
			m.reflow()
		case "+", "=":
			m.cell /= 1.25
			m.reflow()
		case "-":
			m.cell *= 1.25
			m.reflow()
		}
	case tea.WindowSizeMsg:
		m.cols, m.lines = msg.Width, msg.Height
		m.reflow()
	}
	return m, nil
}

// reflow runs one solve for the current terminal width. On failure the
// current layout is kept and the error is shown.
func (m *previewModel) reflow() {
	if m.cols <= 0 {
		return
	}
	m.target = math.Round(float64(m.cols) * m.cell)
	next, err := m.current.Resize(m.target, m.logger)
	if err != nil {
		m.err = err
		return
	}
	m.current = next
	m.err = nil
	m.reflows++
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("paneflow preview"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  width %g · %d panes · %d reflows", m.current.Width, len(m.current.Panes), m.reflows)))
	b.WriteString("\n")

	canvasLines := max(m.lines-chromeLines, 1)
	cv := drawPanes(m.current, m.cols, canvasLines, m.cell)
	b.WriteString(cv.render())

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("cannot reflow to %g: %s (keeping width %g)",
			m.target, perrors.UserMessage(m.err), m.current.Width)))
	} else {
		b.WriteString(StyleDim.Render("+/- zoom  r reset  q quit"))
	}
	return b.String()
}

// =============================================================================
// Canvas
// =============================================================================

// canvas is a character grid where each cell remembers which pane drew it.
type canvas struct {
	cells [][]rune
	owner [][]int // index into panes, -1 for background
	panes []layout.Pane
}

// drawPanes draws every pane of s as a box. Columns are cell scene units
// wide; rows are scaled so the scene height fits lines.
func drawPanes(s *scene.Scene, cols, lines int, cell float64) canvas {
	cv := canvas{panes: s.Panes}
	if cols <= 0 || lines <= 0 {
		return cv
	}
	cv.cells = make([][]rune, lines)
	cv.owner = make([][]int, lines)
	for y := range cv.cells {
		cv.cells[y] = []rune(strings.Repeat(" ", cols))
		cv.owner[y] = make([]int, cols)
		for x := range cv.owner[y] {
			cv.owner[y][x] = -1
		}
	}

	height := sceneHeight(s)
	if height <= 0 {
		return cv
	}
	rowScale := height / float64(lines)

	for i, p := range s.Panes {
		x0 := int(math.Floor(p.X / cell))
		x1 := int(math.Ceil(p.Right()/cell)) - 1
		y0 := int(math.Floor(p.Y / rowScale))
		y1 := int(math.Ceil(p.Bottom()/rowScale)) - 1
		cv.box(i, x0, y0, min(x1, cols-1), min(y1, lines-1))
	}
	return cv
}

func (cv *canvas) box(owner, x0, y0, x1, y1 int) {
	if x1 <= x0 || y1 <= y0 || x0 < 0 || y0 < 0 {
		return
	}
	for x := x0; x <= x1; x++ {
		cv.set(x, y0, '─', owner)
		cv.set(x, y1, '─', owner)
	}
	for y := y0; y <= y1; y++ {
		cv.set(x0, y, '│', owner)
		cv.set(x1, y, '│', owner)
	}
	cv.set(x0, y0, '┌', owner)
	cv.set(x1, y0, '┐', owner)
	cv.set(x0, y1, '└', owner)
	cv.set(x1, y1, '┘', owner)

	label := []rune(strconv.Itoa(cv.panes[owner].ID))
	if cv.panes[owner].Flex {
		label = append(label, '*')
	}
	ly := y0 + (y1-y0)/2
	lx := x0 + (x1-x0+1-len(label))/2
	if lx <= x0 || lx+len(label) > x1 || ly <= y0 || ly >= y1 {
		return
	}
	for i, r := range label {
		cv.set(lx+i, ly, r, owner)
	}
}

func (cv *canvas) set(x, y int, r rune, owner int) {
	if y < 0 || y >= len(cv.cells) || x < 0 || x >= len(cv.cells[y]) {
		return
	}
	cv.cells[y][x] = r
	cv.owner[y][x] = owner
}

// plain returns the grid without colour.
func (cv canvas) plain() []string {
	out := make([]string, len(cv.cells))
	for y, row := range cv.cells {
		out[y] = string(row)
	}
	return out
}

// render colours flexible panes green and fixed panes red.
func (cv canvas) render() string {
	lines := make([]string, len(cv.cells))
	for y, row := range cv.cells {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && cv.owner[y][x] == cv.owner[y][start] {
				continue
			}
			b.WriteString(cv.style(cv.owner[y][start]).Render(string(row[start:x])))
			start = x
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func (cv canvas) style(owner int) lipgloss.Style {
	switch {
	case owner < 0:
		return lipgloss.NewStyle()
	case cv.panes[owner].Flex:
		return styleFlexPane
	default:
		return styleFixedPane
	}
}

// sceneHeight is the scene height, or the lowest pane bottom when unset.
func sceneHeight(s *scene.Scene) float64 {
	if s.Height > 0 {
		return s.Height
	}
	h := 0.0
	for _, p := range s.Panes {
		h = max(h, p.Bottom())
	}
	return h
}
