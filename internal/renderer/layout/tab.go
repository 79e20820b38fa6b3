package layout

// DefaultTabWidth is the tab stop distance used when none is configured.
const DefaultTabWidth = 4

// TabExpander computes tab stops.
type TabExpander struct {
	tabWidth int
}

// NewTabExpander creates a tab expander with the given tab width.
func NewTabExpander(tabWidth int) TabExpander {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	return TabExpander{tabWidth: tabWidth}
}

// TabWidth returns the tab width.
func (t TabExpander) TabWidth() int {
	return t.tabWidth
}

// NextTabStop returns the next tab stop column after col.
func (t TabExpander) NextTabStop(col int) int {
	return col + t.TabStopOffset(col)
}

// TabStopOffset returns how many spaces a tab at col expands to.
func (t TabExpander) TabStopOffset(col int) int {
	return t.tabWidth - (col % t.tabWidth)
}
