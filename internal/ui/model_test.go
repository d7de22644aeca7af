package ui

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/operaviva/shiftcal/internal/calendar"
	"github.com/operaviva/shiftcal/internal/config"
	"github.com/operaviva/shiftcal/internal/shift"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeSource struct {
	snap calendar.Snapshot
	data shift.ScheduleData
}

func (f *fakeSource) FetchCalendar(ctx context.Context, tableID string) (calendar.Snapshot, error) {
	return f.snap, nil
}

func (f *fakeSource) SaveSchedule(ctx context.Context, tableID, id string, start, end *time.Time, resourceID string) error {
	return nil
}

func (f *fakeSource) FetchSchedule(ctx context.Context, typ shift.ScheduleType) (shift.ScheduleData, error) {
	return f.data, nil
}

func (f *fakeSource) SaveSlot(ctx context.Context, p shift.SlotPayload) error {
	return nil
}

func (f *fakeSource) DeleteSlot(ctx context.Context, typ shift.ScheduleType, date, timeSlot string) error {
	return nil
}

func day(d int, hh int) time.Time {
	return time.Date(2025, 3, d, hh, 0, 0, 0, time.Local)
}

func testModel(t *testing.T, snap calendar.Snapshot) *Model {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	src := &fakeSource{
		snap: snap,
		data: shift.ScheduleData{
			Shifts:     []shift.Option{{Value: "A", Label: "Sede A"}},
			Volunteers: []string{"Alessandro Galli"},
			TimeSlots:  []string{"09-12", "14-17"},
		},
	}

	cfg := config.DefaultConfig()
	cfg.UserName = "Alessandro Galli"

	store := calendar.NewStore(src, "tbl1", calendar.DefaultMetrics(), log)
	roster := shift.NewStore(src, shift.SchedulePhone, log)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("calendar load failed: %v", err)
	}
	if err := roster.Load(context.Background()); err != nil {
		t.Fatalf("roster load failed: %v", err)
	}

	m := NewModel(cfg, store, roster)
	m.width = 120
	m.height = 40
	// Pin the anchor to a known Monday so day columns are deterministic.
	m.anchor = day(10, 0)
	return m
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestStartupViewSelection(t *testing.T) {
	tests := []struct {
		startup string
		want    ViewMode
	}{
		{"matrix", ViewMatrix},
		{"records", ViewRecords},
		{"roster", ViewRoster},
		{"", ViewMatrix},
	}
	for _, tt := range tests {
		m := testModel(t, calendar.Snapshot{})
		m.cfg.StartupView = tt.startup
		m2 := NewModel(m.cfg, m.store, m.roster)
		if m2.mode != tt.want {
			t.Errorf("startup %q = %v, want %v", tt.startup, m2.mode, tt.want)
		}
	}
}

func TestViewSwitchingKeys(t *testing.T) {
	m := testModel(t, calendar.Snapshot{})

	m.handleKeyPress(keyRune('2'))
	if m.mode != ViewRecords {
		t.Errorf("after 2: mode = %v", m.mode)
	}
	m.handleKeyPress(keyRune('3'))
	if m.mode != ViewRoster {
		t.Errorf("after 3: mode = %v", m.mode)
	}
	m.handleKeyPress(keyRune('1'))
	if m.mode != ViewMatrix {
		t.Errorf("after 1: mode = %v", m.mode)
	}
	m.handleKeyPress(keyRune('?'))
	if m.mode != ViewHelp {
		t.Errorf("after ?: mode = %v", m.mode)
	}
	m.handleKeyPress(keyRune('?'))
	if m.mode != ViewMatrix {
		t.Errorf("help should toggle back, mode = %v", m.mode)
	}
}

func TestMatrixCursorNavigation(t *testing.T) {
	snap := calendar.Snapshot{
		Resources: []calendar.Resource{{ID: "r1", Name: "Room A"}, {ID: "r2", Name: "Room B"}},
	}
	m := testModel(t, snap)

	m.handleKeyPress(keyRune('l'))
	if m.cursorCol != 1 {
		t.Errorf("col = %d after l", m.cursorCol)
	}
	m.handleKeyPress(keyRune('j'))
	if m.cursorRow != 1 {
		t.Errorf("row = %d after j", m.cursorRow)
	}
	m.handleKeyPress(keyRune('j'))
	if m.cursorRow != 1 {
		t.Errorf("row = %d, must stop at the last resource", m.cursorRow)
	}
	m.handleKeyPress(keyRune('h'))
	m.handleKeyPress(keyRune('k'))
	if m.cursorRow != 0 || m.cursorCol != 0 {
		t.Errorf("cursor = (%d,%d) after h,k", m.cursorRow, m.cursorCol)
	}

	// Walking left past the first column shifts the period back.
	before := m.anchor
	m.handleKeyPress(keyRune('h'))
	if !m.anchor.Before(before) {
		t.Error("h at column 0 should shift to the previous period")
	}
	if m.cursorCol != 6 {
		t.Errorf("col = %d, want the last column of the new week", m.cursorCol)
	}
}

func TestMoveEventWithKeys(t *testing.T) {
	ev := calendar.Event{
		ID: "e1", Title: "Review", ResourceID: "r1",
		Start: day(10, 9), End: day(10, 11),
	}
	snap := calendar.Snapshot{
		Events:    []calendar.Event{ev},
		Resources: []calendar.Resource{{ID: "r1", Name: "Room A"}},
	}
	m := testModel(t, snap)

	// Grab the block under the cursor, move two columns right, drop.
	m.handleKeyPress(keyRune('m'))
	if m.store.Dragging() == nil {
		t.Fatal("m should begin a drag")
	}
	m.handleKeyPress(keyRune('l'))
	m.handleKeyPress(keyRune('l'))
	m.handleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	m.store.Flush()

	got := m.store.Events()[0]
	if !got.Start.Equal(day(12, 9)) || !got.End.Equal(day(12, 11)) {
		t.Errorf("moved range = %v..%v, want March 12 09:00..11:00", got.Start, got.End)
	}
	if m.store.Dragging() != nil {
		t.Error("drag state should clear after the drop")
	}
}

func TestCancelMoveWithEsc(t *testing.T) {
	ev := calendar.Event{
		ID: "e1", Title: "Review", ResourceID: "r1",
		Start: day(10, 9), End: day(10, 11),
	}
	snap := calendar.Snapshot{
		Events:    []calendar.Event{ev},
		Resources: []calendar.Resource{{ID: "r1", Name: "Room A"}},
	}
	m := testModel(t, snap)

	m.handleKeyPress(keyRune('m'))
	m.handleKeyPress(tea.KeyMsg{Type: tea.KeyEscape})
	m.store.Flush()

	got := m.store.Events()[0]
	if !got.Start.Equal(ev.Start) {
		t.Error("cancelled move must not reschedule")
	}
}

func TestResizeWithKeys(t *testing.T) {
	ev := calendar.Event{
		ID: "e1", Title: "Review", ResourceID: "r1",
		Start: day(10, 9), End: day(10, 11),
	}
	snap := calendar.Snapshot{
		Events:    []calendar.Event{ev},
		Resources: []calendar.Resource{{ID: "r1", Name: "Room A"}},
	}
	m := testModel(t, snap)

	m.handleKeyPress(keyRune('B'))
	if !m.resizing {
		t.Fatal("B should begin a bottom resize")
	}
	m.handleKeyPress(keyRune('j'))
	m.handleKeyPress(keyRune('j'))
	m.handleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	m.store.Flush()

	if m.resizing {
		t.Error("resize state should clear")
	}
	got := m.store.Events()[0]
	if !got.End.Equal(day(10, 13)) {
		t.Errorf("end = %v, want 13:00 after two hour steps", got.End)
	}
}

func TestUnscheduleWithKeys(t *testing.T) {
	ev := calendar.Event{
		ID: "e1", Title: "Review", ResourceID: "r1",
		Start: day(10, 9), End: day(10, 11),
	}
	snap := calendar.Snapshot{
		Events:    []calendar.Event{ev},
		Resources: []calendar.Resource{{ID: "r1", Name: "Room A"}},
	}
	m := testModel(t, snap)

	m.handleKeyPress(keyRune('u'))
	m.store.Flush()

	if len(m.store.Events()) != 0 {
		t.Error("u should unschedule the selected event")
	}
	if len(m.store.Unplanned()) != 1 {
		t.Error("unscheduled event should land in the sidebar list")
	}
}

func TestScheduleFromSidebar(t *testing.T) {
	ev := calendar.Event{ID: "u1", Title: "Backlog task", Start: day(1, 9), End: day(1, 10)}
	snap := calendar.Snapshot{
		Unplanned: []calendar.Event{ev},
		Resources: []calendar.Resource{{ID: "r1", Name: "Room A"}},
	}
	m := testModel(t, snap)

	m.handleKeyPress(keyRune('S'))
	if !m.sidebarFocus {
		t.Fatal("S should focus the sidebar")
	}
	m.handleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	if m.store.Dragging() == nil {
		t.Fatal("enter on a sidebar entry should begin a drag")
	}
	m.handleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	m.store.Flush()

	if len(m.store.Unplanned()) != 0 {
		t.Error("promoted event should leave the sidebar")
	}
	events := m.store.Events()
	if len(events) != 1 || events[0].ResourceID != "r1" {
		t.Errorf("events = %+v, want the promoted event on r1", events)
	}
}

func TestGotoPrompt(t *testing.T) {
	m := testModel(t, calendar.Snapshot{})

	m.handleKeyPress(keyRune('g'))
	if m.mode != ViewGoto {
		t.Fatalf("mode = %v after g", m.mode)
	}
	for _, r := range "2025-06-15" {
		m.handleKeyPress(keyRune(r))
	}
	m.handleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != ViewMatrix {
		t.Errorf("mode = %v after enter", m.mode)
	}
	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
	if !m.anchor.Equal(want) {
		t.Errorf("anchor = %v, want %v", m.anchor, want)
	}
	year, month := m.roster.Month()
	if year != 2025 || month != time.June {
		t.Errorf("roster month = %d-%d, should follow the jump", year, month)
	}
}

func TestRefreshDeferredDuringGesture(t *testing.T) {
	ev := calendar.Event{
		ID: "e1", Title: "Review", ResourceID: "r1",
		Start: day(10, 9), End: day(10, 11),
	}
	snap := calendar.Snapshot{
		Events:    []calendar.Event{ev},
		Resources: []calendar.Resource{{ID: "r1", Name: "Room A"}},
	}
	m := testModel(t, snap)

	m.handleKeyPress(keyRune('m'))
	_, cmd := m.Update(RefreshMsg{})
	if cmd != nil {
		t.Error("refresh during a drag must be dropped")
	}

	m.handleKeyPress(tea.KeyMsg{Type: tea.KeyEscape})
	_, cmd = m.Update(RefreshMsg{})
	if cmd == nil {
		t.Error("refresh while idle should reload")
	}
}

func TestViewRendersWithoutSize(t *testing.T) {
	m := testModel(t, calendar.Snapshot{})
	m.width, m.height = 0, 0
	if m.View() != "Loading..." {
		t.Error("zero size should render the loading placeholder")
	}
}

func TestMatrixMouseHitTestWhenScrolled(t *testing.T) {
	ev := calendar.Event{
		ID: "e1", Title: "Review", ResourceID: "r1",
		Start: day(7, 9), End: day(7, 11),
	}
	snap := calendar.Snapshot{
		Events:    []calendar.Event{ev},
		Resources: []calendar.Resource{{ID: "r1", Name: "Room A"}},
	}
	m := testModel(t, snap)
	m.matrix.SetMode(calendar.ModeMonth)

	// At width 120 the grid fits 5 of March's 31 columns; cursor on column
	// 10 scrolls the viewport so the first visible day is March 7.
	m.cursorCol = 10

	row, col, ok := m.matrixCellAt(nameColWidth, headerLines)
	if !ok || row != 0 || col != 6 {
		t.Fatalf("cell at first visible column = (%d,%d,%v), want (0,6,true)", row, col, ok)
	}
	if _, _, ok := m.matrixCellAt(nameColWidth+5*cellWidth, headerLines); ok {
		t.Error("a click past the last visible column should miss")
	}

	m.handleMouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: nameColWidth, Y: headerLines})
	drag := m.store.Dragging()
	if drag == nil || drag.Event.ID != "e1" {
		t.Fatalf("press on the scrolled cell should grab the March 7 event, got %+v", drag)
	}
	if m.cursorCol != 6 {
		t.Errorf("cursorCol = %d, want the day under the pointer", m.cursorCol)
	}
	m.store.CancelDrag()
}

func TestMouseInertDuringKeyboardResize(t *testing.T) {
	ev := calendar.Event{
		ID: "e1", Title: "Review", ResourceID: "r1",
		Start: day(10, 9), End: day(10, 11),
	}
	snap := calendar.Snapshot{
		Events:    []calendar.Event{ev},
		Resources: []calendar.Resource{{ID: "r1", Name: "Room A"}},
	}
	m := testModel(t, snap)

	m.handleKeyPress(keyRune('B'))
	if !m.resizing {
		t.Fatal("B should begin a bottom resize")
	}

	// Incidental pointer traffic carries absolute coordinates that mean
	// nothing to the virtual pointer, so it must not feed the gesture.
	m.handleMouse(tea.MouseMsg{Action: tea.MouseActionMotion, X: 500, Y: 300})
	got := m.store.Events()[0]
	if !got.Start.Equal(ev.Start) || !got.End.Equal(ev.End) {
		t.Errorf("range = %v..%v, mouse motion must not resize", got.Start, got.End)
	}

	m.handleMouse(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft, X: 500, Y: 300})
	if !m.resizing {
		t.Error("a stray release must not end the keyboard gesture")
	}

	m.handleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	if m.resizing {
		t.Error("enter should still finish the resize")
	}
}

func TestPadAndTruncate(t *testing.T) {
	if got := pad("ab", 4); got != "ab  " {
		t.Errorf("pad = %q", got)
	}
	if got := pad("abcdef", 4); got != "abcd" {
		t.Errorf("pad over width = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a long title", 8); got != "a lon..." {
		t.Errorf("truncate = %q", got)
	}

	// Labels carry multibyte runes: connector arrows and accented names.
	// Width math must count columns, not bytes.
	if got := pad("→ab", 5); got != "→ab  " {
		t.Errorf("pad arrow = %q", got)
	}
	if got := pad("événement", 6); got != "événem" {
		t.Errorf("pad accented over width = %q", got)
	}
	if got := truncate("Révision annuelle", 8); got != "Révis..." {
		t.Errorf("truncate accented = %q", got)
	}
	if got := truncate("plan→", 10); got != "plan→" {
		t.Errorf("truncate arrow = %q", got)
	}
}
