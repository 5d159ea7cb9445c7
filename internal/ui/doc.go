// Package ui renders upnpctl output in the terminal.
//
// Most commands print once and exit: a Header naming the command, then a
// device tree (RenderDevice), a schema listing (RenderSchema) or a Result
// box. Failure results carry the troubleshooting hint of the error. Device
// faults render as warnings because they are answers, not failures.
//
// The browse command is the one interactive screen. BrowseModel is a Bubble
// Tea model that adds devices to a list as discovery finds them, opens the
// device tree of the selection in a scrollable viewport, and can save the
// selection through a SaveFunc.
//
// Styling uses Lipgloss. When stdout is not a terminal Lipgloss drops the
// colors, so rendered output stays readable in pipes and logs.
package ui
