package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/abx/internal/formatter"
	"github.com/desertthunder/abx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	ContactListView
	DetailView
)

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	engine      *tasks.Engine
	job         *tasks.Job
	width       int
	height      int
	bar         progress.Model
	progress    tasks.ProgressUpdate
	contactList list.Model
	contacts    []formatter.Contact
	selected    *formatter.Contact
	err         error
	help        help.Model
	keys        keyMap
}

func NewModel(ctx context.Context, engine *tasks.Engine) *Model {
	return &Model{
		ctx:    ctx,
		view:   LoadingView,
		engine: engine,
		bar:    progress.New(progress.WithDefaultGradient()),
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init starts enumerating the address book.
func (m *Model) Init() tea.Cmd {
	return m.startEnumeration()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(msg.Width-8, 10)
		if m.view != LoadingView {
			m.contactList.SetSize(msg.Width-4, msg.Height-4)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoadingView:
			return m.handleLoadingKeys(msg)
		case ContactListView:
			return m.handleContactListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForEvent()
		case MsgEnumerationComplete:
			res := msg.data.(enumerationResult)
			m.job = nil
			m.err = res.err
			m.setContacts(formatter.PresentAll(res.contacts))
			return m, nil
		}
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case ContactListView:
		return m.renderContactList()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleLoadingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.cancelJob()
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart) && m.job == nil && m.err != nil:
		return m, m.startEnumeration()
	}
	return m, nil
}

func (m *Model) handleContactListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.contactList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.contactList, cmd = m.contactList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		return m, m.startEnumeration()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.contactList.SelectedItem().(contactItem); ok {
			c := item.contact
			m.selected = &c
			m.view = DetailView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.contactList, cmd = m.contactList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.selected = nil
		m.view = ContactListView
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != ContactListView {
		return m, nil
	}
	var cmd tea.Cmd
	m.contactList, cmd = m.contactList.Update(msg)
	return m, cmd
}

// setContacts builds the list view. A failed enumeration stays on the loading view to show the error.
func (m *Model) setContacts(contacts []formatter.Contact) {
	if m.err != nil {
		m.view = LoadingView
		return
	}
	m.contacts = contacts
	items := make([]list.Item, len(contacts))
	for i, c := range contacts {
		items[i] = contactItem{contact: c}
	}
	m.contactList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.contactList.Title = fmt.Sprintf("Contacts (%d)", len(contacts))
	if m.width > 0 && m.height > 0 {
		m.contactList.SetSize(m.width-4, m.height-4)
	}
	m.view = ContactListView
}

func (m *Model) startEnumeration() tea.Cmd {
	m.view = LoadingView
	m.err = nil
	m.progress = tasks.ProgressUpdate{}
	m.job = m.engine.Start(m.ctx)
	return m.waitForEvent()
}

// waitForEvent receives the next job event. Each progress message schedules the next wait, so events
// are applied in emission order.
func (m *Model) waitForEvent() tea.Cmd {
	job := m.job
	return func() tea.Msg {
		if job == nil {
			return nil
		}
		ev, ok := <-job.Events()
		if !ok {
			return enumerationCompleteMsg(nil, fmt.Errorf("job %s ended without a result", job.ID()))
		}
		if ev.Terminal() {
			return enumerationCompleteMsg(ev.Contacts, ev.Err)
		}
		return progressUpdateMsg(*ev.Progress)
	}
}

// cancelJob stops a running job and drains its remaining events in the background.
func (m *Model) cancelJob() {
	if m.job == nil {
		return
	}
	job := m.job
	m.job = nil
	job.Cancel()
	go job.Wait()
}

func (m *Model) renderLoading() string {
	if m.err != nil {
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Failed to read contacts: %v", m.err)), helpView)
	}

	title := styles.title.Render("Reading Address Book")
	bar := m.bar.ViewAs(float64(m.progress.Percent) / 100)

	status := "Opening address book..."
	if m.progress.Total > 0 {
		status = m.progress.Message
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, bar, status, helpView)
}

func (m *Model) renderContactList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.contactList.View(), helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}
	c := m.selected

	var b strings.Builder
	b.WriteString(styles.title.Render(formatter.DisplayName(*c)))
	b.WriteString("\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(fmt.Sprintf("%s%s\n", styles.label.Render(label), value))
	}

	row("Nickname", c.Nickname)
	if len(c.Organizations) > 0 {
		row("Organization", c.Organizations[0].Name)
		row("Title", c.Organizations[0].Title)
	}
	for _, p := range c.PhoneNumbers {
		row(labelOr(p.Type, "phone"), p.Value)
	}
	for _, e := range c.Emails {
		row(labelOr(e.Type, "email"), e.Value)
	}
	if len(c.Addresses) > 0 {
		a := c.Addresses[0]
		row("Address", strings.Join(nonEmpty(a.StreetAddress, a.Locality, a.Region, a.PostalCode, a.Country), ", "))
	}
	row("Note", c.Note)
	if c.Image != "" {
		row("Photo", styles.ok.Render("yes"))
	}
	row("ID", c.ID)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s", b.String(), helpView)
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
