package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/paneflow/pkg/layout"
	"github.com/matzehuels/paneflow/pkg/scene"
)

func (c *CLI) rowsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rows [scene]",
		Short: "Show the rows detected in a scene",
		Long: `Show the rows detected in a scene.

A row spans from the top of the pane that opens it to the bottom of the
shortest pane starting there. Tall panes belong to every row they touch.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadScene(args[0])
			if err != nil {
				return err
			}
			writeRowsTable(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func writeRowsTable(w io.Writer, s *scene.Scene) {
	rows := s.Rows()
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	data := make([][]string, 0, len(rows))
	for i, r := range rows {
		data = append(data, []string{
			strconv.Itoa(i),
			fmt.Sprintf("%g", r.Top),
			fmt.Sprintf("%g", r.Bottom),
			paneList(r.Panes),
			rowKind(r),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Row", "Top", "Bottom", "Panes", "Kind").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 4 && row >= 0 && row < len(rows) && layout.IsDegenerate(rows[row]) {
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			return lipgloss.NewStyle()
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("%d rows, %d panes, gap %g", len(rows), len(s.Panes), s.EffectiveGap())))
}

// paneList renders row members as "1* 2", where * marks flexible panes.
func paneList(panes []layout.Pane) string {
	parts := make([]string, len(panes))
	for i, p := range panes {
		parts[i] = strconv.Itoa(p.ID)
		if p.Flex {
			parts[i] += "*"
		}
	}
	return strings.Join(parts, " ")
}

func rowKind(r layout.Row) string {
	if layout.IsDegenerate(r) {
		return "fixed only"
	}
	return "flex"
}
