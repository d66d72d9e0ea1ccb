// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Quenby Labs

package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quenby/switchmote/pkg/woproto"
)

// Event log entry
type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool // true for decode errors, false for informational
}

// Last heard state per device
type deviceRow struct {
	addr     string
	rssi     int16
	lastSeen time.Time
	adv      woproto.Advertisement
}

// TUI model
type monitorModel struct {
	connInfo      string
	showAll       bool
	stats         *woproto.Statistics
	devices       map[string]deviceRow
	table         table.Model
	eventLog      []eventLogEntry
	maxLogEntries int
	width         int
	height        int
	quitting      bool
}

// Messages
type tickMsg time.Time
type advertisementMsg struct {
	addr      string
	rssi      int16
	adv       woproto.Advertisement
	decodeErr error
}
type scanErrMsg struct {
	err error
}

func initialMonitorModel(connInfo string, showAll bool) monitorModel {
	columns := []table.Column{
		{Title: "Address", Width: 17},
		{Title: "Model", Width: 8},
		{Title: "RSSI", Width: 5},
		{Title: "State", Width: 24},
		{Title: "Battery", Width: 7},
		{Title: "Age", Width: 5},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(8),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(lipgloss.Color("12")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("10")).
		Bold(false)
	t.SetStyles(styles)

	return monitorModel{
		connInfo:      connInfo,
		showAll:       showAll,
		stats:         woproto.NewStatistics(),
		devices:       make(map[string]deviceRow),
		table:         t,
		eventLog:      make([]eventLogEntry, 0),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		tea.EnterAltScreen,
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		// Update statistics rates and row ages
		m.stats.CalculateRates()
		m.refreshRows()
		return m, tickCmd()

	case scanErrMsg:
		m.addLogEntry(fmt.Sprintf("SCAN ERROR: %v", msg.err), true)

	case advertisementMsg:
		m.stats.Update(msg.adv, msg.decodeErr)

		if msg.decodeErr != nil {
			m.addLogEntry(fmt.Sprintf("%s: DECODE ERROR: %v", msg.addr, msg.decodeErr), true)
			break
		}

		_, known := m.devices[msg.addr]
		m.devices[msg.addr] = deviceRow{
			addr:     msg.addr,
			rssi:     msg.rssi,
			lastSeen: time.Now(),
			adv:      msg.adv,
		}
		m.refreshRows()

		if !known {
			m.addLogEntry(fmt.Sprintf("%s: %s", msg.addr, woproto.FormatAdvertisement(msg.adv)), false)
		} else if m.showAll {
			m.addLogEntry(fmt.Sprintf("%s: %s", msg.addr, woproto.FormatAdvertisement(msg.adv)), false)
		}
	}

	return m, nil
}

func (m *monitorModel) addLogEntry(message string, isError bool) {
	entry := eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	// Keep only last N entries
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

// refreshRows rebuilds the device table, sorted by address.
func (m *monitorModel) refreshRows() {
	rows := make([]deviceRow, 0, len(m.devices))
	for _, r := range m.devices {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].addr < rows[j].addr })

	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, table.Row{
			r.addr,
			r.adv.Model.Name(),
			fmt.Sprintf("%d", r.rssi),
			shortState(r.adv),
			batteryCell(r.adv),
			fmt.Sprintf("%ds", int(time.Since(r.lastSeen).Seconds())),
		})
	}
	m.table.SetRows(tableRows)
}

// shortState summarizes the advertised state in one table cell.
func shortState(adv woproto.Advertisement) string {
	enc := ""
	if adv.Encrypted {
		enc = " [pw]"
	}
	switch {
	case adv.Bot != nil:
		if adv.Bot.SwitchMode {
			return fmt.Sprintf("switch on=%v%s", adv.Bot.IsOn, enc)
		}
		return "press" + enc
	case adv.Curtain != nil:
		return fmt.Sprintf("pos=%d%% light=%d%s", adv.Curtain.Position, adv.Curtain.LightLevel, enc)
	case adv.Meter != nil:
		return fmt.Sprintf("%.1f°C %d%%RH%s", adv.Meter.TempC, adv.Meter.Humidity, enc)
	}
	return "?" + enc
}

func batteryCell(adv woproto.Advertisement) string {
	switch {
	case adv.Bot != nil:
		return fmt.Sprintf("%d%%", adv.Bot.Battery)
	case adv.Curtain != nil:
		return fmt.Sprintf("%d%%", adv.Curtain.Battery)
	case adv.Meter != nil:
		return fmt.Sprintf("%d%%", adv.Meter.Battery)
	}
	return "-"
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statsLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	statsValueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	var s strings.Builder
	s.WriteString(titleStyle.Render("SWITCHMOTE - LIVE MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Mode: %s | Press 'q' to quit",
		m.connInfo, func() string {
			if m.showAll {
				return "All advertisements"
			}
			return "New devices only"
		}())))
	s.WriteString("\n\n")

	// Statistics
	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s\n",
		statsLabelStyle.Render("Adverts:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.TotalAdverts)),
		statsLabelStyle.Render("Bot:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.BotAdverts)),
		statsLabelStyle.Render("Curtain:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.CurtainAdverts)),
		statsLabelStyle.Render("Meter:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.MeterAdverts)),
	))

	if m.stats.ShortPayloads > 0 || m.stats.UnknownModels > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			statsLabelStyle.Render("Short:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.ShortPayloads)),
			statsLabelStyle.Render("Unknown:"), infoStyle.Render(fmt.Sprintf("%d", m.stats.UnknownModels)),
		))
	}

	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s",
		statsLabelStyle.Render("Rate:"), statsValueStyle.Render(fmt.Sprintf("%.1f adv/s", m.stats.AdvertRate)),
		statsLabelStyle.Render("Encrypted:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.Encrypted)),
	))

	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Device table
	s.WriteString(statsLabelStyle.Render(fmt.Sprintf("Devices (%d):", len(m.devices))))
	s.WriteString("\n")
	s.WriteString(boxStyle.Render(m.table.View()))
	s.WriteString("\n\n")

	// Event log
	s.WriteString(statsLabelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logHeight := m.height - 22 // Reserve space for header, stats and table
	if logHeight < 5 {
		logHeight = 5
	}

	logContent := strings.Builder{}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					infoStyle.Render("ℹ "+entry.message),
				))
			}
		}
	}

	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}
