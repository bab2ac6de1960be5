// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a three-view workflow for browsing an address book:
//  1. [LoadingView] : Enumerate every contact with a live progress bar
//  2. [ContactListView] : Browse and filter the extracted contacts
//  3. [DetailView] : Inspect one contact's phones, emails, address and note
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress events flow from a [tasks.Job] one at a time through waitForEvent commands, so every update is applied on the
// bubbletea event loop in the order the job emitted it.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
