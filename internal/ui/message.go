package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/abx/internal/models"
	"github.com/desertthunder/abx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgEnumerationComplete
)

type enumerationResult struct {
	contacts []models.ContactRecord
	err      error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// enumerationCompleteMsg is the constructor for [MsgEnumerationComplete]
func enumerationCompleteMsg(contacts []models.ContactRecord, err error) Msg {
	return Msg{kind: MsgEnumerationComplete, data: enumerationResult{contacts: contacts, err: err}}
}
