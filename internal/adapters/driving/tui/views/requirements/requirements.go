// Package requirements provides the requirement list view for the TUI.
package requirements

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reqsnake/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/reqsnake/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/reqsnake/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/reqsnake/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reqsnake/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reqsnake/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reqsnake/internal/core/ports/driving"
)

// View lists the validated requirements of the project.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.RequirementService
	ctx     context.Context

	list      *list.RequirementList
	filter    *input.FilterInput
	statusBar *status.Bar
	filtering bool

	err    error
	width  int
	height int
}

// NewView creates a requirement list view.
func NewView(s *styles.Styles, service driving.RequirementService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	return &View{
		styles:    s,
		keymap:    km,
		service:   service,
		ctx:       context.Background(),
		list:      list.NewRequirementList(s),
		filter:    input.NewFilterInput(s),
		statusBar: status.NewBar(s, km),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the requirements.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	v.statusBar.SetState(status.StateLoading)
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.RequirementsLoaded{Err: ErrNoRequirementService}
		}
		reqs, err := service.Validate(ctx)
		return messages.RequirementsLoaded{Requirements: reqs, Err: err}
	}
}

// Update handles messages for the list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.RequirementsLoaded:
		v.err = msg.Err
		if msg.Err != nil {
			v.list.SetRequirements(nil)
			v.statusBar.SetState(status.StateError)
			v.statusBar.SetMessage(firstLine(msg.Err.Error()))
			return v, nil
		}
		v.list.SetRequirements(msg.Requirements)
		v.statusBar.SetState(status.StateReady)
		v.syncCounts()
		return v, nil

	case tea.KeyMsg:
		if v.filtering {
			return v.updateFilter(msg)
		}
		return v.updateList(msg)
	}
	return v, nil
}

func (v *View) updateFilter(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.filtering = false
		v.filter.Blur()
		v.statusBar.SetState(status.StateReady)
		return v, nil
	case tea.KeyEsc:
		v.filtering = false
		v.filter.Blur()
		v.filter.Reset()
		v.list.SetFilter("")
		v.statusBar.SetState(status.StateReady)
		v.syncCounts()
		return v, nil
	}

	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	v.list.SetFilter(v.filter.Value())
	v.syncCounts()
	return v, cmd
}

func (v *View) updateList(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Filter):
		v.filtering = true
		v.statusBar.SetState(status.StateFiltering)
		return v, v.filter.Focus()

	case keymap.Matches(key, v.keymap.Back):
		if v.list.Filter() != "" {
			v.filter.Reset()
			v.list.SetFilter("")
			v.syncCounts()
		}
		return v, nil

	case keymap.Matches(key, v.keymap.Reload):
		return v, v.load()

	case keymap.Matches(key, v.keymap.Select):
		selected := v.list.SelectedRequirement()
		if selected == nil {
			return v, nil
		}
		id := selected.ID()
		return v, func() tea.Msg {
			return messages.RequirementSelected{ID: id}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *View) syncCounts() {
	v.statusBar.SetCounts(v.list.Len(), v.list.Total())
}

// View renders the list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("reqsnake"))
	b.WriteString("\n\n")

	if v.filtering || v.list.Filter() != "" {
		b.WriteString(v.filter.View())
		b.WriteString("\n\n")
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(v.err.Error()))
	} else {
		b.WriteString(v.list.View())
	}
	b.WriteString("\n\n")
	b.WriteString(v.statusBar.View())

	return b.String()
}

// SetDimensions sets the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height

	rows := height - 8
	if rows < 1 {
		rows = 1
	}
	v.list.SetDimensions(width, rows)
	v.filter.SetWidth(width)
	v.statusBar.SetWidth(width)
}

// Filtering reports whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filtering
}

// List returns the underlying requirement list.
func (v *View) List() *list.RequirementList {
	return v.list
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
