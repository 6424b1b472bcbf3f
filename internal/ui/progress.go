package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"osta/internal/driver"
)

const (
	statusWidth = 7
	detailWidth = 26
	// строки, которые занимают заголовок, сводка и полоса прогресса
	chromeRows = 6
	minRows    = 3
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	summaryStyle = lipgloss.NewStyle().Faint(true)
	statusStyles = map[driver.ProgressStatus]lipgloss.Style{
		driver.ProgressQueued:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		driver.ProgressWorking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		driver.ProgressDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		driver.ProgressError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// fileRow is the view state of one source file.
type fileRow struct {
	path    string
	status  driver.ProgressStatus
	tokens  int
	errors  int
	cached  bool
	elapsed time.Duration
}

func (r fileRow) detail() string {
	if !finishedStatus(r.status) {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d tok", r.tokens)
	if r.errors > 0 {
		fmt.Fprintf(&b, ", %d err", r.errors)
	}
	if r.cached {
		b.WriteString(" (cached)")
	} else if r.elapsed > 0 {
		fmt.Fprintf(&b, " %s", r.elapsed.Round(10*time.Microsecond))
	}
	return b.String()
}

// tally aggregates a directory run.
type tally struct {
	byStatus [driver.ProgressError + 1]int
	tokens   int
	errors   int
	cached   int
}

func (t tally) finished() int {
	return t.byStatus[driver.ProgressDone] + t.byStatus[driver.ProgressError]
}

// fraction counts a file being lexed as half done.
func (t tally) fraction(total int) float64 {
	if total == 0 {
		return 1
	}
	return (float64(t.finished()) + 0.5*float64(t.byStatus[driver.ProgressWorking])) / float64(total)
}

type progressModel struct {
	title   string
	events  <-chan driver.ProgressEvent
	spinner spinner.Model
	bar     progress.Model

	rows   []fileRow
	byPath map[string]int
	// порядок завершения, последние в конце
	recent []int
	tally  tally

	started time.Time
	width   int
	height  int
	done    bool
}

type eventMsg driver.ProgressEvent
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-file
// tokenize progress for files. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.ProgressEvent) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = statusStyles[driver.ProgressWorking]

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		started: time.Now(),
		width:   80,
		height:  24,
	}
	m.bar.Width = m.width - 12
	for i, file := range files {
		m.rows[i] = fileRow{path: file}
		m.byPath[file] = i
	}
	m.tally.byStatus[driver.ProgressQueued] = len(files)
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.ProgressEvent(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) resize(width, height int) {
	if width > 0 {
		m.width = width
		m.bar.Width = max(width-12, 10)
	}
	if height > 0 {
		m.height = height
	}
}

// next waits for the following driver event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

// apply folds one event into the rows and the tally. Events for files
// outside the initial listing are ignored.
func (m *progressModel) apply(ev driver.ProgressEvent) tea.Cmd {
	idx, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[idx]
	if finishedStatus(row.status) {
		return nil
	}
	m.tally.byStatus[row.status]--
	m.tally.byStatus[ev.Status]++
	row.status = ev.Status
	if finishedStatus(ev.Status) {
		row.tokens, row.errors, row.cached, row.elapsed = ev.Tokens, ev.Errors, ev.Cached, ev.Elapsed
		m.tally.tokens += ev.Tokens
		m.tally.errors += ev.Errors
		if ev.Cached {
			m.tally.cached++
		}
		m.recent = append(m.recent, idx)
	}
	return m.bar.SetPercent(m.tally.fraction(len(m.rows)))
}

// visible picks the rows that fit the terminal: files being lexed first,
// then failed files, then the most recently finished ones. The result
// keeps listing order.
func (m *progressModel) visible() (shown []int, hidden int) {
	limit := max(m.height-chromeRows, minRows)
	if len(m.rows) <= limit {
		shown = make([]int, len(m.rows))
		for i := range m.rows {
			shown[i] = i
		}
		return shown, 0
	}

	picked := make(map[int]bool, limit)
	pick := func(i int) {
		if len(picked) < limit {
			picked[i] = true
		}
	}
	for i, r := range m.rows {
		if r.status == driver.ProgressWorking {
			pick(i)
		}
	}
	for i, r := range m.rows {
		if r.status == driver.ProgressError {
			pick(i)
		}
	}
	for j := len(m.recent) - 1; j >= 0 && len(picked) < limit; j-- {
		pick(m.recent[j])
	}
	for i := range m.rows {
		pick(i)
	}

	shown = make([]int, 0, len(picked))
	for i := range m.rows {
		if picked[i] {
			shown = append(shown, i)
		}
	}
	return shown, len(m.rows) - len(shown)
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}

	var b strings.Builder
	lead := m.spinner.View()
	if m.done {
		lead = statusStyles[driver.ProgressDone].Render("✓")
		if m.tally.byStatus[driver.ProgressError] > 0 {
			lead = statusStyles[driver.ProgressError].Render("✗")
		}
	}
	b.WriteString(lead + " " + titleStyle.Render(m.title) + "\n")
	b.WriteString(summaryStyle.Render(m.summary()) + "\n\n")

	nameWidth := max(m.width-statusWidth-detailWidth-6, 16)
	shown, hidden := m.visible()
	for _, i := range shown {
		r := m.rows[i]
		status := statusStyles[r.status].Render(fmt.Sprintf("%-*s", statusWidth, r.status))
		fmt.Fprintf(&b, "  %s %-*s %s\n", status, nameWidth, truncate(r.path, nameWidth), r.detail())
	}
	if hidden > 0 {
		b.WriteString(summaryStyle.Render(fmt.Sprintf("  … %d more", hidden)) + "\n")
	}

	b.WriteString("\n  ")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) summary() string {
	t := m.tally
	parts := []string{
		fmt.Sprintf("%d/%d files", t.finished(), len(m.rows)),
		fmt.Sprintf("%d tokens", t.tokens),
		fmt.Sprintf("%d errors", t.errors),
	}
	if t.cached > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", t.cached))
	}
	if failed := t.byStatus[driver.ProgressError]; failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	if !m.done {
		parts = append(parts, time.Since(m.started).Round(100*time.Millisecond).String())
	}
	return strings.Join(parts, " · ")
}

func finishedStatus(s driver.ProgressStatus) bool {
	return s == driver.ProgressDone || s == driver.ProgressError
}

// truncate shortens value to width terminal cells, ending in "..." when
// there is room for it.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
