package ui

import (
	"fmt"
	"time"

	"github.com/operaviva/shiftcal/internal/calendar"
	"github.com/operaviva/shiftcal/internal/config"
	"github.com/operaviva/shiftcal/internal/parser"
	"github.com/operaviva/shiftcal/internal/shift"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ViewMode int

const (
	ViewMatrix ViewMode = iota
	ViewRecords
	ViewRoster
	ViewHelp
	ViewSlotEditor
	ViewGoto
)

// Model is the top-level bubbletea model. It owns one calendar store and one
// roster store, bound at construction; the layout variant for the calendar
// is chosen once here, not re-derived per render.
type Model struct {
	// Core components
	cfg      *config.Config
	store    *calendar.Store
	roster   *shift.Store
	parser   *parser.DateParser
	matrix   *calendar.MatrixView
	records  *calendar.RecordsView
	userName string
	role     shift.Role

	// View state
	mode        ViewMode
	anchor      time.Time // current day the layouts expand around
	cursorRow   int       // matrix: resource row; records/roster: day row
	cursorCol   int       // matrix/records: day column; roster: slot column
	cursorBlock int       // index into the focused cell's blocks

	// Sidebar state
	sidebarFocus bool
	sidebarIndex int

	// Gesture state (keyboard-synthesized pointer for the store's px math)
	resizing bool
	resizeX  int
	resizeY  int

	// Roster editor state
	editor *slotEditor

	// Goto prompt state
	inputBuffer string

	// UI state
	width        int
	height       int
	message      string
	messageTimer *time.Timer
	err          error

	// Styles
	styles Styles
}

type Styles struct {
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Today    lipgloss.Style
	Weekend  lipgloss.Style
	Header   lipgloss.Style
	Event    lipgloss.Style
	Dragged  lipgloss.Style
	Booked   lipgloss.Style
	Help     lipgloss.Style
	Message  lipgloss.Style
	Border   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("220")).
			Bold(true),
		Today: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true),
		Weekend: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true).
			Underline(true),
		Event: lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")),
		Dragged: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true),
		Booked: lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")),
	}
}

func NewModel(cfg *config.Config, store *calendar.Store, roster *shift.Store) *Model {
	now := time.Now()

	m := &Model{
		cfg:      cfg,
		store:    store,
		roster:   roster,
		parser:   parser.NewDateParser(),
		matrix:   calendar.NewMatrixView(cfg.WeekStartDay, store.Metrics()),
		records:  calendar.NewRecordsView(cfg.WeekStartDay, store.Metrics()),
		userName: cfg.UserName,
		role:     shift.ParseRole(cfg.Role),
		anchor:   now,
		styles:   DefaultStyles(),
	}

	switch cfg.StartupView {
	case "records":
		m.mode = ViewRecords
	case "roster":
		m.mode = ViewRoster
	default:
		m.mode = ViewMatrix
	}

	return m
}

// Messages
type tickMsg struct{}
type calendarLoadedMsg struct{ err error }
type rosterLoadedMsg struct{ err error }

// RefreshMsg asks the model to refetch everything; external watchers send it
// when the underlying data changes out of band.
type RefreshMsg struct{}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCalendarCmd(),
		m.loadRosterCmd(),
		m.tickCmd(),
	)
}

func (m *Model) loadCalendarCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := timeoutCtx()
		defer cancel()
		return calendarLoadedMsg{err: m.store.Load(ctx)}
	}
}

func (m *Model) loadRosterCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := timeoutCtx()
		defer cancel()
		return rosterLoadedMsg{err: m.roster.Load(ctx)}
	}
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.RefreshRate, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case RefreshMsg:
		if m.gestureIdle() {
			return m, tea.Batch(m.loadCalendarCmd(), m.loadRosterCmd())
		}
		return m, nil

	case tickMsg:
		if m.cfg.AutoRefresh && m.gestureIdle() {
			return m, tea.Batch(m.loadCalendarCmd(), m.loadRosterCmd(), m.tickCmd())
		}
		return m, m.tickCmd()

	case calendarLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.showMessage(fmt.Sprintf("Error loading calendar: %v", msg.err))
		} else {
			m.err = nil
		}
		return m, nil

	case rosterLoadedMsg:
		if msg.err != nil {
			m.showMessage(fmt.Sprintf("Error loading roster: %v", msg.err))
		}
		return m, nil
	}

	return m, nil
}

// gestureIdle reports whether a refresh is safe: never replace collections
// under an active drag or resize.
func (m *Model) gestureIdle() bool {
	return m.store.Dragging() == nil && !m.resizing && m.editor == nil
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ViewMatrix:
		return m.viewMatrix()
	case ViewRecords:
		return m.viewRecords()
	case ViewRoster:
		return m.viewRoster()
	case ViewHelp:
		return m.viewHelp()
	case ViewSlotEditor:
		return m.viewSlotEditor()
	case ViewGoto:
		return m.viewGoto()
	default:
		return m.viewMatrix()
	}
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		m.store.Flush()
		m.roster.Flush()
		return m, tea.Quit

	case "q":
		if m.mode != ViewSlotEditor && m.mode != ViewGoto {
			m.store.Flush()
			m.roster.Flush()
			return m, tea.Quit
		}

	case "?":
		if m.mode == ViewHelp {
			m.mode = ViewMatrix
		} else if m.mode != ViewSlotEditor && m.mode != ViewGoto {
			m.mode = ViewHelp
		}
		return m, nil

	case "r":
		if m.mode != ViewSlotEditor && m.mode != ViewGoto {
			m.showMessage("Refreshing...")
			return m, tea.Batch(m.loadCalendarCmd(), m.loadRosterCmd())
		}

	case "1":
		if m.mode != ViewSlotEditor && m.mode != ViewGoto {
			m.mode = ViewMatrix
			return m, nil
		}

	case "2":
		if m.mode != ViewSlotEditor && m.mode != ViewGoto {
			m.mode = ViewRecords
			return m, nil
		}

	case "3":
		if m.mode != ViewSlotEditor && m.mode != ViewGoto {
			m.mode = ViewRoster
			m.cursorRow = 0
			m.cursorCol = 0
			return m, nil
		}

	case "g":
		if m.mode == ViewMatrix || m.mode == ViewRecords || m.mode == ViewRoster {
			m.mode = ViewGoto
			m.inputBuffer = ""
			return m, nil
		}
	}

	// Mode-specific handling
	switch m.mode {
	case ViewMatrix:
		return m.handleMatrixKeys(msg)
	case ViewRecords:
		return m.handleRecordsKeys(msg)
	case ViewRoster:
		return m.handleRosterKeys(msg)
	case ViewSlotEditor:
		return m.handleEditorKeys(msg)
	case ViewGoto:
		return m.handleGotoKeys(msg)
	case ViewHelp:
		m.mode = ViewMatrix
	}

	return m, nil
}

func (m *Model) handleGotoKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ViewMatrix
		return m, nil

	case tea.KeyEnter:
		if m.inputBuffer != "" {
			date, err := m.parser.Parse(m.inputBuffer)
			if err != nil {
				m.showMessage(fmt.Sprintf("Parse error: %v", err))
			} else {
				m.anchor = date
				m.roster.SetMonth(date.Year(), date.Month())
				m.showMessage("Jumped to " + date.Format(m.cfg.DateFormat))
			}
		}
		m.mode = ViewMatrix
		return m, nil

	case tea.KeyBackspace:
		if len(m.inputBuffer) > 0 {
			m.inputBuffer = m.inputBuffer[:len(m.inputBuffer)-1]
		}

	case tea.KeyRunes:
		m.inputBuffer += string(msg.Runes)

	case tea.KeySpace:
		m.inputBuffer += " "
	}

	return m, nil
}

func (m *Model) showMessage(msg string) {
	m.message = msg
	if m.messageTimer != nil {
		m.messageTimer.Stop()
	}
	m.messageTimer = time.AfterFunc(3*time.Second, func() {
		m.message = ""
	})
}

// navigate shifts the anchor date. The roster follows month jumps so both
// subsystems stay on the same period.
func (m *Model) navigate(days, months int) {
	m.anchor = m.anchor.AddDate(0, months, days)
	year, month := m.roster.Month()
	if m.anchor.Year() != year || m.anchor.Month() != month {
		m.roster.SetMonth(m.anchor.Year(), m.anchor.Month())
	}
}
