package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/flightlink/mavconn"
	"github.com/flightlink/mavconn/diag"
)

var (
	// titleStyle renders the application title bar.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	// headerCellStyle is used for table column headers.
	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			PaddingRight(1)

	// rowStyle is used for odd-numbered table rows.
	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingRight(1)

	// altRowStyle is used for even-numbered table rows (zebra striping).
	altRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Background(lipgloss.Color("236")).
			PaddingRight(1)

	// dimStyle is used before any traffic has arrived.
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	// statusBarStyle renders the bottom status bar.
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingLeft(1)

	// errorStyle renders the status bar after the link has died.
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true).
			PaddingLeft(1)
)

// healthColor maps a rate classification to a cell colour.
func healthColor(h diag.Health) lipgloss.Color {
	switch h {
	case diag.HealthOK:
		return lipgloss.Color("2") // green
	case diag.HealthLow, diag.HealthStale:
		return lipgloss.Color("1") // red
	default:
		return lipgloss.Color("3") // yellow
	}
}

// sampleInterval is how often per-message rates are recomputed.
const sampleInterval = time.Second

// frameMsg is sent by the link's message handler for every decoded frame.
type frameMsg struct {
	sysID  uint8
	compID uint8
	id     uint8
	name   string
}

// tickMsg triggers a rate sample and a redraw.
type tickMsg time.Time

// linkClosedMsg is sent once when the underlying link dies.
type linkClosedMsg struct{}

// rowKey identifies one message id from one sender.
type rowKey struct {
	sys  uint8
	comp uint8
	id   uint8
}

// msgRow accumulates what mavtop knows about one message stream.
type msgRow struct {
	name   string
	total  uint64
	rate   *diag.RateMonitor
	lastAt time.Time
	freq   float64
	health diag.Health
}

// model is the top-level bubbletea model for mavtop.
type model struct {
	url    string
	ch     mavconn.Channel
	rows   map[rowKey]*msgRow
	width  int
	height int
	closed bool
}

func newModel(url string, ch mavconn.Channel) model {
	return model{
		url:  url,
		ch:   ch,
		rows: make(map[rowKey]*msgRow),
	}
}

// Init starts the periodic sample tick.
func (m model) Init() tea.Cmd {
	return tick()
}

// tick schedules a tickMsg after sampleInterval.
func tick() tea.Cmd {
	return tea.Tick(sampleInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update processes messages and returns an updated model plus any commands.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case frameMsg:
		key := rowKey{sys: msg.sysID, comp: msg.compID, id: msg.id}
		r := m.rows[key]
		if r == nil {
			r = &msgRow{
				name: msg.name,
				rate: diag.NewRateMonitor(
					fmt.Sprintf("%d:%d %s", msg.sysID, msg.compID, msg.name)),
			}
			m.rows[key] = r
		}
		r.total++
		r.rate.Tick()
		r.lastAt = time.Now()
		return m, nil

	case tickMsg:
		for _, r := range m.rows {
			rep := r.rate.Sample()
			r.freq = rep.Freq
			r.health = rep.Health
		}
		return m, tick()

	case linkClosedMsg:
		m.closed = true
		return m, nil
	}

	return m, nil
}

// View renders the entire monitor to a string.
func (m model) View() string {
	if m.width == 0 {
		return "Loading…"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("  mavtop  "))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", m.width))
	sb.WriteString("\n")

	contentHeight := m.height - 4 // title(1) + dividers(2) + status(1)
	if contentHeight < 1 {
		contentHeight = 1
	}
	sb.WriteString(clipLines(m.renderRows(), contentHeight))
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat("─", m.width))
	sb.WriteString("\n")
	sb.WriteString(m.renderStatus())

	return sb.String()
}

// renderRows renders the per-message table, sorted by system, component,
// then message id.
func (m model) renderRows() string {
	if len(m.rows) == 0 {
		return dimStyle.Render("  Waiting for traffic.")
	}

	w := m.width - 2
	colSys := colWidth(w, 0.08)
	colComp := colWidth(w, 0.08)
	colMsg := colWidth(w, 0.34)
	colHz := colWidth(w, 0.10)
	colCount := colWidth(w, 0.12)
	colAge := colWidth(w, 0.10)

	header := strings.Join([]string{
		headerCellStyle.Width(colSys).Render("SYS"),
		headerCellStyle.Width(colComp).Render("COMP"),
		headerCellStyle.Width(colMsg).Render("MESSAGE"),
		headerCellStyle.Width(colHz).Render("HZ"),
		headerCellStyle.Width(colCount).Render("COUNT"),
		headerCellStyle.Width(colAge).Render("AGE"),
	}, "")

	keys := make([]rowKey, 0, len(m.rows))
	for k := range m.rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].sys != keys[j].sys {
			return keys[i].sys < keys[j].sys
		}
		if keys[i].comp != keys[j].comp {
			return keys[i].comp < keys[j].comp
		}
		return keys[i].id < keys[j].id
	})

	rows := make([]string, 0, len(keys)+1)
	rows = append(rows, header)
	for i, k := range keys {
		r := m.rows[k]
		style := rowStyle
		if i%2 == 0 {
			style = altRowStyle
		}
		hzCell := lipgloss.NewStyle().
			Width(colHz).
			Foreground(healthColor(r.health)).
			Render(fmt.Sprintf("%.1f", r.freq))

		row := strings.Join([]string{
			style.Width(colSys).Render(fmt.Sprintf("%d", k.sys)),
			style.Width(colComp).Render(fmt.Sprintf("%d", k.comp)),
			style.Width(colMsg).Render(truncate(r.name, colMsg-1)),
			hzCell,
			style.Width(colCount).Render(fmt.Sprintf("%d", r.total)),
			style.Width(colAge).Render(time.Since(r.lastAt).Truncate(time.Second).String()),
		}, "")
		rows = append(rows, row)
	}

	return strings.Join(rows, "\n")
}

// renderStatus renders the bottom status bar line.
func (m model) renderStatus() string {
	if m.closed {
		return errorStyle.Render("link closed  |  q: quit")
	}

	st := m.ch.Stats()
	parts := []string{
		fmt.Sprintf("link: %s", m.url),
		fmt.Sprintf("rx: %d msgs %d bytes", st.MessagesReceived, st.BytesReceived),
		fmt.Sprintf("dropped: %d bytes", st.RxDroppedBytes),
		fmt.Sprintf("bad: %d frames", st.RxBadFrames),
		"q: quit",
	}
	return statusBarStyle.Render(strings.Join(parts, "  |  "))
}

// clipLines limits the string s to at most maxLines newline-delimited lines.
func clipLines(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}
	return strings.Join(lines[:maxLines], "\n")
}

// colWidth converts a fractional width into an integer column width, leaving
// a small gutter between columns.
func colWidth(totalWidth int, fraction float64) int {
	w := int(float64(totalWidth) * fraction)
	if w < 6 {
		w = 6
	}
	return w
}

// truncate shortens s to maxLen runes, appending "…" if truncation occurred.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return fmt.Sprintf("%s…", string(runes[:maxLen-1]))
}
