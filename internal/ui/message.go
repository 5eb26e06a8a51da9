package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/dupx/internal/allowlist"
	"github.com/desertthunder/dupx/internal/models"
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
	MsgReportLoaded MsgKind = iota
	MsgAllowlistSaved
)

// reportLoadedPayload carries the parsed report and allowlist into the model.
type reportLoadedPayload struct {
	report *models.Report
	allow  *allowlist.File
	err    error
}

// reportLoadedMsg is the constructor for [MsgReportLoaded]
func reportLoadedMsg(report *models.Report, allow *allowlist.File, err error) Msg {
	return Msg{kind: MsgReportLoaded, data: reportLoadedPayload{report, allow, err}}
}

// allowlistSavedPayload carries the save outcome back into the model.
type allowlistSavedPayload struct {
	file  *allowlist.File
	count int
	err   error
}

// allowlistSavedMsg is the constructor for [MsgAllowlistSaved]
func allowlistSavedMsg(file *allowlist.File, count int, err error) Msg {
	return Msg{kind: MsgAllowlistSaved, data: allowlistSavedPayload{file, count, err}}
}
