package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/operaviva/shiftcal/internal/calendar"
	"github.com/operaviva/shiftcal/internal/shift"
)

// Client is the HTTP source. Every call POSTs one JSON envelope whose
// apiRoute field selects the operation.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Log        *slog.Logger
}

func NewClient(baseURL, token string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Log:        log,
	}
}

// Wire shapes. Event timestamps travel in the backend's wall-clock layout.
type eventRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Start       LocalTime `json:"start"`
	End         LocalTime `json:"end"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	ResourceID  string    `json:"resourceId,omitempty"`
}

type resourceRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type calendarResponse struct {
	Events          []eventRecord    `json:"events"`
	UnplannedEvents []eventRecord    `json:"unplannedEvents,omitempty"`
	Resources       []resourceRecord `json:"resources,omitempty"`
}

type fetchCalendarRequest struct {
	APIRoute string `json:"apiRoute"`
	TableID  string `json:"tableid"`
}

type savedEvent struct {
	ID         string     `json:"id"`
	StartDate  *LocalTime `json:"startdate"`
	EndDate    *LocalTime `json:"enddate"`
	ResourceID string     `json:"resourceid,omitempty"`
}

type saveEventRequest struct {
	APIRoute string     `json:"apiRoute"`
	TableID  string     `json:"tableid"`
	Event    savedEvent `json:"event"`
}

type slotRecord struct {
	Date     string `json:"date"`
	TimeSlot string `json:"timeSlot"`
	Name     string `json:"name"`
	Shift    string `json:"shift"`
	Dev      string `json:"dev"`
	Access   string `json:"access"`
}

type optionRecord struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type scheduleResponse struct {
	Shifts     []optionRecord `json:"shifts"`
	Volunteers []string       `json:"volunteers"`
	Slots      []slotRecord   `json:"slots"`
	TimeSlots  []string       `json:"timeSlots"`
}

type fetchScheduleRequest struct {
	APIRoute string `json:"apiRoute"`
}

type saveSlotRequest struct {
	APIRoute string `json:"apiRoute"`
	Date     string `json:"date"`
	TimeSlot string `json:"timeSlot"`
	Name     string `json:"name,omitempty"`
	Shift    string `json:"shift,omitempty"`
	Dev      string `json:"dev,omitempty"`
	Type     string `json:"type"`
	Access   string `json:"access,omitempty"`
}

type deleteSlotRequest struct {
	APIRoute string `json:"apiRoute"`
	Date     string `json:"date"`
	TimeSlot string `json:"timeSlot"`
	Type     string `json:"type"`
}

// FetchCalendar loads the full event/resource state for one table.
func (c *Client) FetchCalendar(ctx context.Context, tableID string) (calendar.Snapshot, error) {
	var resp calendarResponse
	req := fetchCalendarRequest{APIRoute: "get_records_matrixcalendar", TableID: tableID}
	if err := c.post(ctx, req, &resp); err != nil {
		return calendar.Snapshot{}, fmt.Errorf("fetch calendar: %w", err)
	}
	return calendar.Snapshot{
		Events:    toEvents(resp.Events),
		Unplanned: toEvents(resp.UnplannedEvents),
		Resources: toResources(resp.Resources),
	}, nil
}

// SaveSchedule persists a record's time range. Nil start and end clear the
// schedule: the backend moves the record to the unplanned set.
func (c *Client) SaveSchedule(ctx context.Context, tableID, id string, start, end *time.Time, resourceID string) error {
	req := saveEventRequest{
		APIRoute: "matrixcalendar_save_record",
		TableID:  tableID,
		Event: savedEvent{
			ID:         id,
			StartDate:  localPtr(start),
			EndDate:    localPtr(end),
			ResourceID: resourceID,
		},
	}
	if err := c.post(ctx, req, nil); err != nil {
		return fmt.Errorf("save record %s: %w", id, err)
	}
	return nil
}

// FetchSchedule loads the roster dataset for one schedule type.
func (c *Client) FetchSchedule(ctx context.Context, typ shift.ScheduleType) (shift.ScheduleData, error) {
	var resp scheduleResponse
	req := fetchScheduleRequest{APIRoute: "get_shifts_and_volunteers_" + string(typ)}
	if err := c.post(ctx, req, &resp); err != nil {
		return shift.ScheduleData{}, fmt.Errorf("fetch schedule: %w", err)
	}
	return toScheduleData(resp), nil
}

// SaveSlot persists one roster cell.
func (c *Client) SaveSlot(ctx context.Context, p shift.SlotPayload) error {
	req := saveSlotRequest{
		APIRoute: "save_shift",
		Date:     p.Date,
		TimeSlot: p.TimeSlot,
		Name:     p.Name,
		Shift:    p.Shift,
		Dev:      p.Dev,
		Type:     string(p.Type),
		Access:   p.Access.String(),
	}
	if err := c.post(ctx, req, nil); err != nil {
		return fmt.Errorf("save shift %s %s: %w", p.Date, p.TimeSlot, err)
	}
	return nil
}

// DeleteSlot clears one roster cell.
func (c *Client) DeleteSlot(ctx context.Context, typ shift.ScheduleType, date, timeSlot string) error {
	req := deleteSlotRequest{
		APIRoute: "delete_shift",
		Date:     date,
		TimeSlot: timeSlot,
		Type:     string(typ),
	}
	if err := c.post(ctx, req, nil); err != nil {
		return fmt.Errorf("delete shift %s %s: %w", date, timeSlot, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func localPtr(t *time.Time) *LocalTime {
	if t == nil {
		return nil
	}
	return &LocalTime{Time: *t}
}

func toEvents(records []eventRecord) []calendar.Event {
	events := make([]calendar.Event, 0, len(records))
	for _, r := range records {
		events = append(events, calendar.Event{
			ID:          r.ID,
			Title:       r.Title,
			Start:       r.Start.Time,
			End:         r.End.Time,
			Color:       r.Color,
			Description: r.Description,
			ResourceID:  r.ResourceID,
		})
	}
	return events
}

func toResources(records []resourceRecord) []calendar.Resource {
	resources := make([]calendar.Resource, 0, len(records))
	for _, r := range records {
		resources = append(resources, calendar.Resource{ID: r.ID, Name: r.Name})
	}
	return resources
}

func toScheduleData(resp scheduleResponse) shift.ScheduleData {
	data := shift.ScheduleData{
		Volunteers: resp.Volunteers,
		TimeSlots:  resp.TimeSlots,
	}
	for _, o := range resp.Shifts {
		data.Shifts = append(data.Shifts, shift.Option{Value: o.Value, Label: o.Label})
	}
	for _, s := range resp.Slots {
		data.Slots = append(data.Slots, shift.SlotRecord{
			Date:     s.Date,
			TimeSlot: s.TimeSlot,
			Name:     s.Name,
			Shift:    s.Shift,
			Dev:      s.Dev,
			Access:   s.Access,
		})
	}
	return data
}
