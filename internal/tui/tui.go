package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/jonboulle/clockwork"

	"github.com/stefanclaw/todosearch/internal/debounce"
	"github.com/stefanclaw/todosearch/internal/logging"
	"github.com/stefanclaw/todosearch/internal/output"
	"github.com/stefanclaw/todosearch/internal/record"
	"github.com/stefanclaw/todosearch/internal/update"
)

// Fetcher loads the record list once.
type Fetcher interface {
	Fetch(ctx context.Context) ([]record.Record, error)
}

// Options configures the TUI.
type Options struct {
	Fetcher   Fetcher
	Host      string
	Delay     time.Duration
	CharLimit int
	Clock     clockwork.Clock // nil means the real clock
	Logger    *slog.Logger
	Version   string
}

// Messages shown in the results area.
const (
	loadingText = "Loading data..."
	failedText  = "Failed to fetch data."
)

type fetchState int

const (
	stateLoading fetchState = iota
	stateReady
	stateFailed
)

// RecordsLoadedMsg carries the fetched record list.
type RecordsLoadedMsg struct {
	Records []record.Record
	Elapsed time.Duration
}

// FetchErrMsg carries a fetch failure. It is terminal for the session.
type FetchErrMsg struct {
	Err error
}

// QuerySettledMsg carries a debounced query value.
type QuerySettledMsg struct {
	Query string
}

// UpdateCheckMsg carries the result of a background update check.
type UpdateCheckMsg struct {
	Result *update.Result
	Err    error
}

// Model is the Bubble Tea model for the search TUI.
type Model struct {
	options  Options
	logger   *slog.Logger
	keys     KeyMap
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model

	query       *debounce.Value[string]
	fetchCtx    context.Context
	fetchCancel context.CancelFunc

	state     fetchState
	err       error
	records   []record.Record
	debounced string
	filtered  []record.Record

	notice   string
	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates a new TUI model.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	ti := textinput.New()
	ti.Prompt = inputPromptStyle.Render("Search: ")
	ti.Placeholder = "Enter the title to search"
	ti.CharLimit = opts.CharLimit
	if ti.CharLimit <= 0 {
		ti.CharLimit = 200
	}
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	var debounceOpts []debounce.Option
	if opts.Clock != nil {
		debounceOpts = append(debounceOpts, debounce.WithClock(opts.Clock))
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		options:     opts,
		logger:      logger,
		keys:        DefaultKeyMap,
		input:       ti,
		viewport:    viewport.New(80, 20),
		spinner:     sp,
		help:        help.New(),
		query:       debounce.New("", opts.Delay, debounceOpts...),
		fetchCtx:    ctx,
		fetchCancel: cancel,
		state:       stateLoading,
	}
	m.updateViewport()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchRecords(),
		waitForQuery(m.fetchCtx, m.query.Updates()),
		m.spinner.Tick,
		textinput.Blink,
	)
}

// Stop releases the debounce timer, cancels an outstanding fetch and
// unblocks the pending query wait. It is safe to call more than once.
func (m Model) Stop() {
	m.query.Stop()
	m.fetchCancel()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Clear):
			if m.input.Value() == "" {
				return m.quit()
			}
			m.input.Reset()
			m.query.Set("")
			m.updateViewport()
			return m, nil
		case key.Matches(msg, m.keys.LineUp):
			m.viewport.ScrollUp(1)
			return m, nil
		case key.Matches(msg, m.keys.LineDown):
			m.viewport.ScrollDown(1)
			return m, nil
		case key.Matches(msg, m.keys.HalfPageUp):
			m.viewport.HalfPageUp()
			return m, nil
		case key.Matches(msg, m.keys.HalfPageDown):
			m.viewport.HalfPageDown()
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if !m.ready {
			m.ready = true
			if update.IsReleaseBuild(m.options.Version) {
				return m, m.checkForUpdate()
			}
		}
		return m, nil

	case RecordsLoadedMsg:
		m.state = stateReady
		m.records = msg.Records
		m.logger.Info("records fetched",
			"count", len(msg.Records),
			"elapsed", msg.Elapsed)
		m.recompute()
		return m, nil

	case FetchErrMsg:
		m.state = stateFailed
		m.err = msg.Err
		m.logger.Error("fetch failed", "error", msg.Err)
		m.updateViewport()
		return m, nil

	case QuerySettledMsg:
		m.debounced = msg.Query
		m.recompute()
		m.logger.Debug("query settled",
			"query", msg.Query,
			"matches", len(m.filtered))
		return m, waitForQuery(m.fetchCtx, m.query.Updates())

	case UpdateCheckMsg:
		if msg.Err == nil && msg.Result != nil && msg.Result.UpdateAvailable {
			m.notice = fmt.Sprintf("v%s available, run --update", msg.Result.LatestVersion)
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateViewport()
		return m, cmd
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != prev {
		m.query.Set(v)
	}
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	done, pending := record.Counts(m.records)
	status := StatusBar(Status{
		Host:      m.options.Host,
		Shown:     len(m.filtered),
		Total:     len(m.records),
		Done:      done,
		Pending:   pending,
		Loaded:    m.state == stateReady,
		Searching: m.query.Pending(),
		Notice:    m.notice,
	}, m.width)
	separator := mutedStyle.Render(strings.Repeat("─", m.width))

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s",
		status,
		m.input.View(),
		separator,
		m.viewport.View(),
		m.help.View(m.keys),
	)
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.Stop()
	m.logger.Info("shutting down")
	return *m, tea.Quit
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	// status, input, separator and help take one line each
	viewH := height - 4
	if viewH < 1 {
		viewH = 1
	}
	m.viewport.Width = width
	m.viewport.Height = viewH
	m.input.Width = width - lipgloss.Width(m.input.Prompt) - 1
	m.help.Width = width
	m.updateViewport()
}

// recompute derives the filtered list from the records and the settled
// query. It keeps no state between calls.
func (m *Model) recompute() {
	m.filtered = record.Filter(m.records, m.debounced)
	m.updateViewport()
	m.viewport.GotoTop()
}

func (m *Model) updateViewport() {
	m.viewport.SetContent(m.results())
}

func (m *Model) results() string {
	switch m.state {
	case stateLoading:
		return m.spinner.View() + " " + loadingText
	case stateFailed:
		text := errorStyle.Render(failedText)
		if m.err != nil {
			text += "\n" + mutedStyle.Render(m.err.Error())
		}
		return text
	}

	if len(m.filtered) == 0 {
		return mutedStyle.Render(output.NoResults)
	}

	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	rule := mutedStyle.Render(strings.Repeat("─", width))

	var lines []string
	for _, r := range m.filtered {
		completed := output.YesNo(r.Completed)
		if r.Completed {
			completed = doneStyle.Render(completed)
		}
		title := output.SingleLine(r.Title)
		if avail := width - len("Title: "); avail > 0 {
			title = ansi.Truncate(title, avail, "…")
		}
		lines = append(lines,
			labelStyle.Render("ID:")+" "+fmt.Sprint(r.ID),
			labelStyle.Render("Title:")+" "+title,
			labelStyle.Render("Completed:")+" "+completed,
			rule,
		)
	}
	return strings.Join(lines, "\n")
}

func (m Model) fetchRecords() tea.Cmd {
	ctx := m.fetchCtx
	fetcher := m.options.Fetcher
	return func() tea.Msg {
		start := time.Now()
		records, err := fetcher.Fetch(ctx)
		if err != nil {
			return FetchErrMsg{Err: err}
		}
		return RecordsLoadedMsg{Records: records, Elapsed: time.Since(start)}
	}
}

// waitForQuery reads the next settled query from the debounce holder.
// It returns nil once ctx is cancelled by Stop.
func waitForQuery(ctx context.Context, ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		select {
		case q := <-ch:
			return QuerySettledMsg{Query: q}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) checkForUpdate() tea.Cmd {
	version := m.options.Version
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		res, err := update.Check(ctx, version)
		return UpdateCheckMsg{Result: res, Err: err}
	}
}
