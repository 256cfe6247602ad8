package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/muse/internal/memory"
	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ChatView ViewState = iota
	BusyView
	HistoryView
)

// HistoryStore loads a session's delivered tracks for the history view.
type HistoryStore interface {
	ListBySession(sessionID string) ([]*models.Recommendation, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       tasks.RecommendEngine
	history      HistoryStore
	sessionID    string
	memory       *memory.SeenMemory
	width        int
	height       int
	input        textinput.Model
	spin         spinner.Model
	historyList  list.Model
	transcript   []string
	lastMessage  string
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.RecommendResult
	err          error
	help         help.Model
	keys         keyMap
}

// historyItem wraps [models.Recommendation] to implement [list.Item].
type historyItem struct {
	entry *models.Recommendation
}

func (i historyItem) FilterValue() string { return i.entry.Track().Title }
func (i historyItem) Title() string {
	track := i.entry.Track()
	return fmt.Sprintf("%s - %s", track.Artist, track.Title)
}
func (i historyItem) Description() string {
	track := i.entry.Track()
	desc := i.entry.MoodTag()
	if track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, track.Album)
	}
	return desc
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine tasks.RecommendEngine, history HistoryStore, sessionID string, mem *memory.SeenMemory) *Model {
	input := textinput.New()
	input.Placeholder = "How are you feeling?"
	input.Focus()
	input.CharLimit = 280

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &Model{
		ctx:       ctx,
		view:      ChatView,
		engine:    engine,
		history:   history,
		sessionID: sessionID,
		memory:    mem,
		input:     input,
		spin:      spin,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts the input cursor blink.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.historyList.Width() == 0 {
			m.historyList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ChatView:
			return m.handleChatKeys(msg)
		case HistoryView:
			return m.handleHistoryKeys(msg)
		case BusyView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case recommendCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ChatView
		if m.progressChan != nil {
			m.progressChan = nil
		}
		m.appendTurn()
		return m, nil

	case historyFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ChatView
			return m, nil
		}
		items := make([]list.Item, len(msg.entries))
		for i, entry := range msg.entries {
			items[i] = historyItem{entry: entry}
		}
		m.historyList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.historyList.Title = "Session History"
		m.historyList.SetSize(m.width-4, m.height-8)
		m.view = HistoryView
		return m, nil
	}

	if m.view == HistoryView {
		var cmd tea.Cmd
		m.historyList, cmd = m.historyList.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ChatView:
		return m.renderChat()
	case BusyView:
		return m.renderBusy()
	case HistoryView:
		return m.renderHistory()
	default:
		return ""
	}
}

func (m *Model) handleChatKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.send):
		message := strings.TrimSpace(m.input.Value())
		if message == "" {
			return m, nil
		}
		m.lastMessage = message
		m.input.Reset()
		return m.startRecommend(message)
	case key.Matches(msg, m.keys.next):
		if m.lastMessage == "" {
			return m, nil
		}
		return m.startRecommend(m.lastMessage)
	case key.Matches(msg, m.keys.history):
		return m, m.fetchHistory()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ChatView
		return m, nil
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

func (m *Model) startRecommend(message string) (tea.Model, tea.Cmd) {
	m.view = BusyView
	m.err = nil
	m.result = nil
	m.progress = tasks.ProgressUpdate{}
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	ch := m.progressChan
	go func() {
		result, err := m.engine.Recommend(m.ctx, ch, tasks.RecommendRequest{
			SessionID: m.sessionID,
			Message:   message,
			Memory:    m.memory,
		})
		m.result = result
		m.err = err
		close(ch)
	}()

	return m, tea.Batch(m.spin.Tick, m.waitForProgress())
}

func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progressChan
	return func() tea.Msg {
		if ch == nil {
			return recommendCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-ch
		if !ok {
			return recommendCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.history.ListBySession(m.sessionID)
		return historyFetchedMsg{entries: entries, err: err}
	}
}

// appendTurn records the finished turn in the transcript.
func (m *Model) appendTurn() {
	if m.err != nil {
		m.transcript = append(m.transcript, styles.err.Render(fmt.Sprintf("✗ %v", m.err)))
		return
	}
	if m.result == nil {
		return
	}

	track := m.result.Track
	line := fmt.Sprintf("%s %s - %s", styles.ok.Render("♪"), track.Artist, track.Title)
	if track.Album != "" {
		line += fmt.Sprintf(" (%s)", track.Album)
	}
	if m.result.Profile != nil {
		line += styles.help.Render(fmt.Sprintf("  [%s]", m.result.Profile.Tag))
	}
	if m.result.VideoLink != "" {
		line += fmt.Sprintf("\n  %s", styles.help.Render(m.result.VideoLink))
	}
	if m.result.Broadened {
		line += fmt.Sprintf("\n  %s", styles.warn.Render("broadened search"))
	}
	m.transcript = append(m.transcript, line)
}

func (m *Model) renderChat() string {
	title := styles.title.Render("muse")

	transcript := strings.Join(m.transcript, "\n\n")
	if transcript != "" {
		transcript += "\n\n"
	}

	helpKeys := []key.Binding{m.keys.send, m.keys.next, m.keys.history, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, transcript, m.input.View(), helpView)
}

func (m *Model) renderBusy() string {
	var phase string
	switch m.progress.Phase {
	case tasks.Interpret:
		phase = "Interpreting mood..."
	case tasks.SearchCandidates:
		phase = fmt.Sprintf("Searching (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.FilterCandidates:
		phase = "Filtering candidates..."
	case tasks.SelectTrack:
		phase = "Picking a track..."
	case tasks.ResolveLink:
		phase = "Finding a video..."
	default:
		phase = "Working..."
	}

	return fmt.Sprintf("%s %s\n%s", m.spin.View(), phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderHistory() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.historyList.View(), helpView)
}
