package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/upnpctl/internal/soap"
	"github.com/muurk/upnpctl/internal/upnperr"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Result represents a result box (success, failure, or warning)
type Result struct {
	Type    ResultType
	Title   string  // e.g., "GetVolume"
	Details []Param // Shown in order
	Error   error   // For failure results
	Hint    string  // Troubleshooting text for failure results
	Width   int
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Param) *Result {
	return &Result{Type: ResultSuccess, Title: title, Details: details, Width: GetTerminalWidth()}
}

// NewFailureResult creates a failure result box with the error's hint
func NewFailureResult(title string, err error) *Result {
	return &Result{Type: ResultFailure, Title: title, Error: err, Hint: upnperr.Hint(err), Width: GetTerminalWidth()}
}

// NewFaultResult creates a warning box for a device fault
func NewFaultResult(action string, f *soap.Fault) *Result {
	r := &Result{Type: ResultWarning, Title: action + " rejected by device", Width: GetTerminalWidth()}
	r.Details = append(r.Details,
		Param{"Error code", fmt.Sprint(f.Code)},
		Param{"Description", f.Description},
	)
	if f.Code != 0 {
		if std := soap.FaultDescription(f.Code); std != "" && std != f.Description {
			r.Details = append(r.Details, Param{"Meaning", std})
		}
	}
	return r
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a detail key-value pair
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Param{key, value})
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := clampWidth(r.Width)

	var (
		color lipgloss.Color
		title string
	)
	switch r.Type {
	case ResultFailure:
		color = ErrorColor
		title = ErrorTitleStyle.Render(fmt.Sprintf("%s  FAILED  ─  %s", FailureMarker, r.Title))
	case ResultWarning:
		color = WarningColor
		title = WarningTitleStyle.Render(fmt.Sprintf("%s  FAULT  ─  %s", WarningMarker, r.Title))
	default:
		color = SuccessColor
		title = SuccessTitleStyle.Render(fmt.Sprintf("%s  SUCCESS  ─  %s", SuccessMarker, r.Title))
	}

	lines := []string{"", title, ""}
	for _, d := range r.Details {
		lines = append(lines, ResultKeyStyle.Render(d.Key+":")+" "+ResultValueStyle.Render(d.Value))
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
	}

	if r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render("Error: "+upnperr.Short(r.Error)), "")
	}
	if r.Hint != "" {
		lines = append(lines, r.renderHint(width), "")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

// renderHint renders the inner troubleshooting box
func (r *Result) renderHint(width int) string {
	var lines []string
	for i, line := range strings.Split(r.Hint, "\n") {
		if i == 0 {
			lines = append(lines, TroubleshootingTitleStyle.Render(line))
			continue
		}
		lines = append(lines, TroubleshootingItemStyle.Render(line))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(max(width-12, 40)).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
