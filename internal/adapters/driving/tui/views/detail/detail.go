// Package detail provides the requirement detail view for the TUI.
package detail

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reqsnake/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/reqsnake/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reqsnake/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reqsnake/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reqsnake/internal/core/domain"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driving"
)

// ErrNoRequirementService indicates that no requirement service was provided.
var ErrNoRequirementService = errors.New("requirement service is required")

// View shows one requirement with its parents and children.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.RequirementService
	ctx     context.Context

	detail       *domain.RequirementDetail
	statusBar    *status.Bar
	scrollOffset int
	err          error
	width        int
	height       int
}

// NewView creates a detail view.
func NewView(s *styles.Styles, service driving.RequirementService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetState(status.StateDetail)

	return &View{
		styles:    s,
		keymap:    km,
		service:   service,
		ctx:       context.Background(),
		statusBar: bar,
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Load fetches the neighbourhood of id.
func (v *View) Load(id string) tea.Cmd {
	v.detail = nil
	v.err = nil
	v.scrollOffset = 0
	v.statusBar.SetMessage(id)

	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.DetailLoaded{Err: ErrNoRequirementService}
		}
		d, err := service.Get(ctx, id)
		return messages.DetailLoaded{Detail: d, Err: err}
	}
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.DetailLoaded:
		v.detail = msg.Detail
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		key := msg.String()
		switch {
		case keymap.Matches(key, v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewList}
			}
		case keymap.Matches(key, v.keymap.Up):
			if v.scrollOffset > 0 {
				v.scrollOffset--
			}
		case keymap.Matches(key, v.keymap.Down):
			if v.scrollOffset < v.maxScrollOffset() {
				v.scrollOffset++
			}
		}
	}
	return v, nil
}

// View renders the requirement.
func (v *View) View() string {
	var b strings.Builder

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(v.err.Error()))
	case v.detail == nil:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	default:
		lines := v.buildContent()
		end := v.scrollOffset + v.visibleLines()
		if end > len(lines) {
			end = len(lines)
		}
		b.WriteString(v.styles.Panel.Render(strings.Join(lines[v.scrollOffset:end], "\n")))
	}

	b.WriteString("\n\n")
	b.WriteString(v.statusBar.View())
	return b.String()
}

func (v *View) buildContent() []string {
	d := v.detail
	req := d.Requirement.Requirement

	lines := []string{
		v.styles.Marker(req.Completed(), req.Critical()) + " " + v.styles.Title.Render(req.ID()),
		v.styles.Muted.Render(d.Requirement.Source),
		"",
	}
	lines = append(lines, strings.Split(req.Description(), "\n")...)

	if len(d.Parents) > 0 || len(d.MissingParents) > 0 {
		lines = append(lines, "", v.styles.Subtitle.Render("Parents"))
		for _, p := range d.Parents {
			lines = append(lines, v.related(p))
		}
		for _, id := range d.MissingParents {
			lines = append(lines, "    "+v.styles.Missing.Render(id+" (missing)"))
		}
	}

	if len(d.Children) > 0 {
		lines = append(lines, "", v.styles.Subtitle.Render("Children"))
		for _, c := range d.Children {
			lines = append(lines, v.related(c))
		}
	}

	if len(d.Ancestors) > len(d.Parents) {
		lines = append(lines, "", v.styles.Subtitle.Render("Ancestors"),
			"    "+v.styles.Muted.Render(strings.Join(d.Ancestors, ", ")))
	}
	return lines
}

func (v *View) related(pr domain.ParsedRequirement) string {
	req := pr.Requirement
	return "  " + v.styles.Marker(req.Completed(), req.Critical()) + " " +
		v.styles.Normal.Render(req.ID())
}

func (v *View) visibleLines() int {
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

func (v *View) maxScrollOffset() int {
	if v.detail == nil {
		return 0
	}
	maxOffset := len(v.buildContent()) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// SetDimensions sets the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.statusBar.SetWidth(width)
}

// Detail returns the loaded requirement, or nil.
func (v *View) Detail() *domain.RequirementDetail {
	return v.detail
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
