package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gohumanize "github.com/dustin/go-humanize"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/joshuapare/arenakit/arena/alloc"
)

const (
	defaultWidth = 80
	minMapCells  = 16
	// Rows taken by everything except the block table body
	chromeRows   = 16
	minTableRows = 3

	usedCell = "█"
	freeCell = "░"
)

// View implements tea.Model
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.showHelp {
		help := overlay.New(
			helpOverlay{m: &m},
			screen{m: &m},
			overlay.Center,
			overlay.Center,
			0,
			0,
		)
		return help.View()
	}

	return m.renderScreen()
}

func (m Model) renderScreen() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderContent(),
		m.renderStatus(),
	)
}

func (m Model) renderHeader() string {
	start, end, _ := m.arena.Bounds()
	title := headerStyle.Render("arenaview")
	info := infoStyle.Render(fmt.Sprintf("arena [0x%x,0x%x) %s  cursor 0x%x  counter %d  depth %d",
		start, end, gohumanize.IBytes(uint64(end-start)),
		m.arena.Cursor(), m.vm.Counter(), m.vm.Len()))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, " ", info)
}

func (m Model) renderContent() string {
	blocks := m.arena.Blocks()
	inner := m.innerWidth()

	mapPane := paneStyle.Width(inner).Render(
		paneTitleStyle.Render("Block map") + "\n" + m.renderBlockMap(blocks, inner-2))
	tablePane := paneStyle.Width(inner).Render(
		paneTitleStyle.Render("Blocks") + "\n" + m.renderBlockTable(blocks))
	outPane := paneStyle.Width(inner).Render(
		paneTitleStyle.Render("Program") + "\n" + m.renderProgram())

	return lipgloss.JoinVertical(lipgloss.Left, mapPane, tablePane, outPane)
}

func (m Model) innerWidth() int {
	w := m.width
	if w == 0 {
		w = defaultWidth
	}
	return max(w-4, minMapCells+2)
}

// renderBlockMap draws every block as a run of cells proportional to its
// span, headers included. Each block gets at least one cell.
func (m Model) renderBlockMap(blocks []alloc.BlockInfo, cells int) string {
	cells = max(cells, minMapCells)
	start, end, ok := m.arena.Bounds()
	if !ok {
		return ""
	}
	span := end - start

	var sb strings.Builder
	for _, b := range blocks {
		if b.Sentinel {
			continue
		}
		n := max(1, (b.Next-b.Off)*cells/span)
		glyph := usedCell
		if b.Free {
			glyph = freeCell
		}
		style := blockCellStyle(b.Free, b.Off == m.arena.Cursor())
		sb.WriteString(style.Render(strings.Repeat(glyph, n)))
	}

	s := m.arena.Stats()
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s used in %d, %s free in %d, largest %s, %.1f%% used",
		gohumanize.IBytes(uint64(s.UsedBytes)), s.UsedBlocks,
		gohumanize.IBytes(uint64(s.FreeBytes)), s.FreeBlocks,
		gohumanize.IBytes(uint64(s.LargestFree)), s.Utilization()))
	return sb.String()
}

// renderBlockTable lists blocks in list order, the sentinel last. Rows that
// do not fit the window are summarised.
func (m Model) renderBlockTable(blocks []alloc.BlockInfo) string {
	var sb strings.Builder
	sb.WriteString(tableHeaderStyle.Render(fmt.Sprintf("  %-10s  %-10s  %9s  %s", "OFFSET", "NEXT", "SIZE", "STATE")))

	rows := m.tableRows()
	for i, b := range blocks {
		if rows > 0 && i == rows && len(blocks) > rows+1 {
			sb.WriteString(fmt.Sprintf("\n  ... %d more", len(blocks)-rows))
			break
		}
		mark, style := " ", tableRowStyle
		if b.Off == m.arena.Cursor() {
			mark, style = ">", tableCursorStyle
		}
		sb.WriteString("\n")
		sb.WriteString(style.Render(fmt.Sprintf("%s 0x%08x  0x%08x  %9s  %s",
			mark, b.Off, b.Next, gohumanize.IBytes(uint64(b.Size)), b.State())))
	}
	return sb.String()
}

// tableRows returns how many table rows fit, or 0 when the window size is
// not known yet.
func (m Model) tableRows() int {
	if m.height == 0 {
		return 0
	}
	return max(m.height-chromeRows-len(m.output), minTableRows)
}

func (m Model) renderProgram() string {
	var sb strings.Builder
	sb.WriteString("input: ")
	sb.Write(m.program)
	for _, line := range m.output {
		sb.WriteString("\n> ")
		sb.WriteString(line)
	}
	return sb.String()
}

func (m Model) renderStatus() string {
	msg := m.statusMessage
	if m.statusIsError {
		msg = errorStyle.Render(msg)
	} else if msg != "" {
		msg = statusMessageStyle.Render(msg)
	}
	bar := m.help.ShortHelpView(m.keys.ShortHelp())
	if msg != "" {
		bar = msg + "  " + bar
	}
	return statusStyle.Render(bar)
}

// screen is the main view used as the overlay background.
type screen struct {
	m *Model
}

func (s screen) Init() tea.Cmd                       { return nil }
func (s screen) Update(tea.Msg) (tea.Model, tea.Cmd) { return s, nil }
func (s screen) View() string                        { return s.m.renderScreen() }

// helpOverlay is the keyboard reference drawn over the main view.
type helpOverlay struct {
	m *Model
}

func (h helpOverlay) Init() tea.Cmd                       { return nil }
func (h helpOverlay) Update(tea.Msg) (tea.Model, tea.Cmd) { return h, nil }

func (h helpOverlay) View() string {
	full := h.m.help
	full.ShowAll = true

	var sb strings.Builder
	sb.WriteString(helpTitleStyle.Render("Keyboard Shortcuts"))
	sb.WriteString("\n")
	sb.WriteString(full.FullHelpView(h.m.keys.FullHelp()))
	sb.WriteString("\n\n")
	sb.WriteString("a pushes the counter, b skips it, c pops.\n")
	sb.WriteString("Every step advances the counter by one.\n")
	sb.WriteString("f prints the stack bottom to top and empties it.\n\n")
	sb.WriteString(infoStyle.Render("Press ? or esc to close"))
	return modalStyle.Render(sb.String())
}
