package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cory-johannsen/creatures/internal/game/creature"
)

const hpBarWidth = 20

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

// Theme holds the styles used by the console, bound to one output so color
// support is detected for that writer.
type Theme struct {
	Title lipgloss.Style
	Key   lipgloss.Style
	Muted lipgloss.Style
	Good  lipgloss.Style
	Warn  lipgloss.Style
	Bad   lipgloss.Style
	Gold  lipgloss.Style
}

// NewTheme builds a Theme rendering to w. Writers that are not terminals
// get plain text.
func NewTheme(w io.Writer) Theme {
	r := lipgloss.NewRenderer(w)
	return Theme{
		Title: r.NewStyle().Bold(true).Foreground(cAccent),
		Key:   r.NewStyle().Bold(true).Foreground(cPrimary),
		Muted: r.NewStyle().Foreground(cMuted),
		Good:  r.NewStyle().Bold(true).Foreground(cGood),
		Warn:  r.NewStyle().Bold(true).Foreground(cWarn),
		Bad:   r.NewStyle().Bold(true).Foreground(cBad),
		Gold:  r.NewStyle().Bold(true).Foreground(cGold),
	}
}

// Heading renders a menu title.
func (t Theme) Heading(title string) string {
	return t.Title.Render("=== " + title + " ===")
}

// Option renders one menu entry.
func (t Theme) Option(key, label string) string {
	return fmt.Sprintf("%s %s", t.Key.Render(key+")"), label)
}

// LabelValue renders "label: value".
func (t Theme) LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", t.Key.Render(label+":"), value)
}

// HPBar renders a fixed-width HP gauge followed by "hp/max". The bar is
// green above half, orange above a fifth and red below.
func (t Theme) HPBar(c *creature.Creature) string {
	filled := min(hpBarWidth, max(0, int(c.HPFraction()*hpBarWidth)))
	bar := strings.Repeat("█", filled) + strings.Repeat(" ", hpBarWidth-filled)

	style := t.Good
	switch frac := c.HPFraction(); {
	case frac <= 0.2:
		style = t.Bad
	case frac <= 0.5:
		style = t.Warn
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), c.HP, c.MaxHP)
}
