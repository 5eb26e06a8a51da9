// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for reviewing duplicate groups:
//  1. [GroupListView] : Browse duplicate groups and mark intentional ones
//  2. [GroupDetailView] : Inspect the member tracks of one group
//  3. [ConfirmSaveView] : Confirm writing the allowlist
//  4. [SavedView] : Display the saved entry count
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// The report and allowlist load asynchronously in Init, so the terminal stays responsive while large reports are read from disk.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, space, s, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
