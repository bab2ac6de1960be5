package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/abx/internal/tasks"
	th "github.com/desertthunder/abx/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drive runs cmd and feeds the resulting messages back into m until no command remains.
func drive(t *testing.T, m *Model, cmd tea.Cmd) []int {
	t.Helper()
	var percents []int
	for i := 0; cmd != nil; i++ {
		require.Less(t, i, 100, "too many messages")
		msg := cmd()
		if msg == nil {
			return percents
		}
		if u, ok := msg.(Msg); ok && u.kind == MsgProgressUpdate {
			percents = append(percents, u.data.(tasks.ProgressUpdate).Percent)
		}
		_, cmd = m.Update(msg)
	}
	return percents
}

func newSampleModel() *Model {
	engine := tasks.NewEngine(th.SampleSource().Opener(), nil, 0)
	m := NewModel(context.Background(), engine)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestModel(t *testing.T) {
	t.Run("enumerates into the list view", func(t *testing.T) {
		m := newSampleModel()
		assert.Equal(t, LoadingView, m.view)
		assert.Contains(t, m.View(), "Reading Address Book")

		percents := drive(t, m, m.Init())

		assert.Equal(t, []int{33, 66, 100}, percents)
		assert.Equal(t, ContactListView, m.view)
		assert.Len(t, m.contacts, 3)
		assert.Contains(t, m.View(), "Contacts (3)")
		assert.Contains(t, m.View(), "Ada Lovelace")
	})

	t.Run("detail view and back", func(t *testing.T) {
		m := newSampleModel()
		drive(t, m, m.Init())

		m.Update(keyPress("enter"))
		require.Equal(t, DetailView, m.view)
		view := m.View()
		assert.Contains(t, view, "Ada Lovelace")
		assert.Contains(t, view, "555-0101")
		assert.Contains(t, view, "1 Engine Row, Cambridge, Cambs, CB2, UK")

		m.Update(keyPress("esc"))
		assert.Equal(t, ContactListView, m.view)
		assert.Nil(t, m.selected)
	})

	t.Run("reload restarts enumeration", func(t *testing.T) {
		m := newSampleModel()
		drive(t, m, m.Init())

		_, cmd := m.Update(keyPress("r"))
		assert.Equal(t, LoadingView, m.view)
		drive(t, m, cmd)
		assert.Equal(t, ContactListView, m.view)
	})

	t.Run("failure shows error", func(t *testing.T) {
		m := NewModel(context.Background(), tasks.NewEngine(th.FailingOpener, nil, 0))

		drive(t, m, m.Init())

		assert.Equal(t, LoadingView, m.view)
		assert.Error(t, m.err)
		assert.Contains(t, m.View(), "Failed to read contacts")
	})

	t.Run("quit while loading cancels the job", func(t *testing.T) {
		m := newSampleModel()
		m.Init()
		job := m.job
		require.NotNil(t, job)

		_, cmd := m.Update(keyPress("q"))

		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Nil(t, m.job)
	})

	t.Run("quit from list", func(t *testing.T) {
		m := newSampleModel()
		drive(t, m, m.Init())

		_, cmd := m.Update(keyPress("q"))
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})
}

func TestContactItem(t *testing.T) {
	m := newSampleModel()
	drive(t, m, m.Init())

	ada := contactItem{contact: m.contacts[0]}
	assert.Equal(t, "Ada Lovelace", ada.Title())
	assert.Equal(t, "555-0101 • ada@example.com (+1)", ada.Description())
	assert.Contains(t, ada.FilterValue(), "Countess")

	grace := contactItem{contact: m.contacts[1]}
	assert.Equal(t, "no phone or email", grace.Description())
}
