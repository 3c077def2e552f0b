package layout

import "github.com/charmbracelet/log"

// Apply returns a copy of panes with X and Width taken from solved, matched
// by ID. Panes missing from solved are copied unchanged and reported to
// logger at debug level. A nil logger is allowed.
func Apply(panes []Pane, solved map[int]Pane, logger *log.Logger) []Pane {
	out := make([]Pane, len(panes))
	for i, p := range panes {
		s, ok := solved[p.ID]
		if !ok {
			if logger != nil {
				logger.Debug("pane outside every row, leaving unchanged", "pane", p.ID)
			}
			out[i] = p
			continue
		}
		p.X = s.X
		p.Width = s.Width
		out[i] = p
	}
	return out
}
