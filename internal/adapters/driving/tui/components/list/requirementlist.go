// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reqsnake/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reqsnake/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// RequirementList displays requirements in a navigable list that can be
// narrowed by an ID filter.
type RequirementList struct {
	all      []domain.ParsedRequirement
	visible  []domain.ParsedRequirement
	filter   string
	selected int
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	width    int
	height   int
}

// NewRequirementList creates a new requirement list component.
func NewRequirementList(s *styles.Styles) *RequirementList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RequirementList{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		width:  80,
		height: 20,
	}
}

// Init initialises the list.
func (r *RequirementList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RequirementList) Update(msg tea.Msg) (*RequirementList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keymap.Matches(msg.String(), r.keymap.Up):
			r.MoveUp()
		case keymap.Matches(msg.String(), r.keymap.Down):
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the visible page of the list.
func (r *RequirementList) View() string {
	if len(r.visible) == 0 {
		if r.filter != "" {
			return r.styles.Muted.Render(fmt.Sprintf("No requirements match %q", r.filter))
		}
		return r.styles.Muted.Render("No requirements")
	}

	visibleCount := r.height
	if visibleCount < 1 {
		visibleCount = 1
	}
	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.visible) {
		end = len(r.visible)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(i, r.visible[i]))
	}
	return strings.Join(lines, "\n")
}

func (r *RequirementList) renderRow(index int, pr domain.ParsedRequirement) string {
	req := pr.Requirement
	marker := r.styles.Marker(req.Completed(), req.Critical())

	desc := firstLine(req.Description())
	maxDesc := r.width - len(req.ID()) - 10
	if maxDesc < 10 {
		maxDesc = 10
	}
	desc = truncate(desc, maxDesc)

	if index == r.selected {
		return marker + " " + r.styles.Selected.Render("> "+req.ID()+"  "+desc)
	}
	return marker + " " + r.styles.Normal.Render("  "+req.ID()+"  ") + r.styles.Muted.Render(desc)
}

// SetRequirements replaces the list contents and reapplies the filter.
func (r *RequirementList) SetRequirements(reqs []domain.ParsedRequirement) {
	r.all = reqs
	r.apply()
}

// SetFilter narrows the list to requirements whose ID contains the
// filter, ignoring case.
func (r *RequirementList) SetFilter(filter string) {
	r.filter = strings.TrimSpace(filter)
	r.apply()
}

// Filter returns the active filter.
func (r *RequirementList) Filter() string {
	return r.filter
}

func (r *RequirementList) apply() {
	r.selected = 0
	if r.filter == "" {
		r.visible = r.all
		return
	}
	needle := strings.ToLower(r.filter)
	r.visible = make([]domain.ParsedRequirement, 0, len(r.all))
	for _, pr := range r.all {
		if strings.Contains(strings.ToLower(pr.ID()), needle) {
			r.visible = append(r.visible, pr)
		}
	}
}

// Len returns the number of requirements shown.
func (r *RequirementList) Len() int {
	return len(r.visible)
}

// Total returns the number of requirements before filtering.
func (r *RequirementList) Total() int {
	return len(r.all)
}

// Selected returns the index of the selected row.
func (r *RequirementList) Selected() int {
	return r.selected
}

// SelectedRequirement returns the requirement under the cursor, or nil.
func (r *RequirementList) SelectedRequirement() *domain.ParsedRequirement {
	if r.selected < 0 || r.selected >= len(r.visible) {
		return nil
	}
	return &r.visible[r.selected]
}

// MoveUp moves the selection up.
func (r *RequirementList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves the selection down.
func (r *RequirementList) MoveDown() {
	if r.selected < len(r.visible)-1 {
		r.selected++
	}
}

// SetDimensions sets the width and the number of visible rows.
func (r *RequirementList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
