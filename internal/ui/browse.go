package ui

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/upnpctl/internal/controlpoint"
	"github.com/muurk/upnpctl/internal/upnperr"
)

// DiscoverFunc streams devices for one scan
type DiscoverFunc func(ctx context.Context) iter.Seq2[controlpoint.Found, error]

// SaveFunc records a device, e.g. in the config registry
type SaveFunc func(controlpoint.Found) error

// Messages for async operations. scan tags each message with the scan it
// belongs to so a rescan can ignore stragglers.
type (
	foundMsg struct {
		scan  int
		found controlpoint.Found
		err   error
	}
	scanDoneMsg struct{ scan int }
)

type scanStream struct {
	id     int
	events chan foundMsg
	cancel context.CancelFunc
}

// browseKeyMap defines key bindings for the browse screen
type browseKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Back   key.Binding
	Rescan key.Binding
	Save   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Rescan, k.Save, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Open, k.Back}, {k.Rescan, k.Save, k.Quit}}
}

// detailKeyMap is shown while a device is open
type detailKeyMap struct {
	Back key.Binding
	Save key.Binding
	Quit key.Binding
}

func (k detailKeyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Back, k.Save, k.Quit} }
func (k detailKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// deviceItem wraps a discovered device for bubbles/list
type deviceItem struct {
	found controlpoint.Found
}

// FilterValue implements list.Item
func (d deviceItem) FilterValue() string {
	dev := d.found.Device
	return dev.Name() + " " + dev.DeviceType + " " + d.found.Response.Location
}

// Title returns the device name for list display
func (d deviceItem) Title() string {
	return d.found.Device.Name()
}

// Description returns device details for list display
func (d deviceItem) Description() string {
	dev := d.found.Device
	return fmt.Sprintf("%s • %s • %d services", shortURN(dev.DeviceType), d.found.Response.Location, dev.CountServices())
}

func shortURN(urn string) string {
	parts := strings.Split(urn, ":")
	if len(parts) >= 2 {
		return parts[len(parts)-2] + ":" + parts[len(parts)-1]
	}
	return urn
}

// BrowseModel lists devices as discovery finds them and shows the tree of
// the selected one
type BrowseModel struct {
	discover DiscoverFunc
	save     SaveFunc
	timeout  time.Duration

	stream   *scanStream
	scanning bool
	started  time.Time
	failures []string
	status   string

	devices  list.Model
	detail   viewport.Model
	open     bool
	spinner  spinner.Model
	help     help.Model
	keys     browseKeyMap
	openKeys detailKeyMap

	width  int
	height int
}

// NewBrowseModel creates the browse screen. save may be nil.
func NewBrowseModel(discover DiscoverFunc, save SaveFunc, timeout time.Duration) BrowseModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	devices := list.New([]list.Item{}, list.NewDefaultDelegate(), MinTerminalWidth, 20)
	devices.Title = "UPnP devices"
	devices.SetShowStatusBar(false)
	devices.SetShowHelp(false)
	devices.Styles.Title = lipgloss.NewStyle().Foreground(TextColor).Background(PrimaryColor).Padding(0, 1)

	back := key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back"))
	saveKey := key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save"))
	quit := key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))

	return BrowseModel{
		discover: discover,
		save:     save,
		timeout:  timeout,
		devices:  devices,
		detail:   viewport.New(MinTerminalWidth, 20),
		spinner:  s,
		help:     help.New(),
		keys: browseKeyMap{
			Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
			Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
			Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
			Back:   back,
			Rescan: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
			Save:   saveKey,
			Quit:   quit,
		},
		openKeys: detailKeyMap{Back: back, Save: saveKey, Quit: quit},
	}
}

// Init starts the first scan
func (m BrowseModel) Init() tea.Cmd {
	return func() tea.Msg { return rescanMsg{} }
}

type rescanMsg struct{}

// startScan runs discover in a goroutine and feeds its results to a
// channel the model drains one message at a time
func (m *BrowseModel) startScan() tea.Cmd {
	if m.stream != nil {
		m.stream.cancel()
	}
	id := 1
	if m.stream != nil {
		id = m.stream.id + 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	stream := &scanStream{id: id, events: make(chan foundMsg), cancel: cancel}
	discover := m.discover
	go func() {
		defer close(stream.events)
		for found, err := range discover(ctx) {
			select {
			case stream.events <- foundMsg{scan: id, found: found, err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()

	m.stream = stream
	m.scanning = true
	m.started = time.Now()
	m.failures = nil
	m.status = ""
	m.devices.SetItems(nil)
	return tea.Batch(waitFor(stream), m.spinner.Tick)
}

func waitFor(stream *scanStream) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-stream.events
		if !ok {
			return scanDoneMsg{scan: stream.id}
		}
		return msg
	}
}

// Update handles messages and updates the model
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rescanMsg:
		cmd := m.startScan()
		return m, cmd

	case foundMsg:
		if m.stream == nil || msg.scan != m.stream.id {
			return m, nil
		}
		if msg.err != nil {
			m.failures = append(m.failures, upnperr.Short(msg.err))
		} else {
			cmd := m.devices.InsertItem(len(m.devices.Items()), deviceItem{found: msg.found})
			return m, tea.Batch(cmd, waitFor(m.stream))
		}
		return m, waitFor(m.stream)

	case scanDoneMsg:
		if m.stream != nil && msg.scan == m.stream.id {
			m.scanning = false
		}
		return m, nil

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.devices.SetSize(msg.Width-2, max(msg.Height-6, 5))
		m.detail.Width = msg.Width - 2
		m.detail.Height = max(msg.Height-6, 5)
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m BrowseModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.devices.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.devices, cmd = m.devices.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.stream != nil {
			m.stream.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Save):
		if item, ok := m.devices.SelectedItem().(deviceItem); ok && m.save != nil {
			if err := m.save(item.found); err != nil {
				m.status = "save failed: " + err.Error()
			} else {
				m.status = "saved " + item.found.Device.Name()
			}
		}
		return m, nil
	}

	if m.open {
		if key.Matches(msg, m.keys.Back) {
			m.open = false
			return m, nil
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		if item, ok := m.devices.SelectedItem().(deviceItem); ok {
			m.open = true
			m.detail.SetContent(RenderDevice(item.found.Device))
			m.detail.GotoTop()
		}
		return m, nil
	case key.Matches(msg, m.keys.Rescan):
		cmd := m.startScan()
		return m, cmd
	}

	var cmd tea.Cmd
	m.devices, cmd = m.devices.Update(msg)
	return m, cmd
}

// View renders the browse screen
func (m BrowseModel) View() string {
	var b strings.Builder
	if m.open {
		b.WriteString(m.detail.View())
	} else {
		b.WriteString(m.devices.View())
	}
	b.WriteString("\n")
	b.WriteString(StatusStyle.Render(m.statusLine()))
	b.WriteString("\n")
	if m.open {
		b.WriteString(m.help.View(m.openKeys))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m BrowseModel) statusLine() string {
	var parts []string
	if m.scanning {
		elapsed := time.Since(m.started).Round(time.Second)
		parts = append(parts, fmt.Sprintf("%s searching (%s of %s)", m.spinner.View(), elapsed, m.timeout))
	}
	parts = append(parts, fmt.Sprintf("%d devices", len(m.devices.Items())))
	if n := len(m.failures); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unreachable (last: %s)", n, m.failures[n-1]))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return strings.Join(parts, " • ")
}

// Devices returns what the current scan has found so far
func (m BrowseModel) Devices() []controlpoint.Found {
	items := m.devices.Items()
	out := make([]controlpoint.Found, 0, len(items))
	for _, it := range items {
		if d, ok := it.(deviceItem); ok {
			out = append(out, d.found)
		}
	}
	return out
}

// Browse runs the browse program until the user quits
func Browse(discover DiscoverFunc, save SaveFunc, timeout time.Duration, out io.Writer) error {
	p := tea.NewProgram(NewBrowseModel(discover, save, timeout), tea.WithAltScreen(), tea.WithOutput(out))
	_, err := p.Run()
	return err
}
