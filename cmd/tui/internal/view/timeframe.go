package view

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/fintrack/internal/ledger"
)

// Timeframe represents a predefined or custom date range selection.
type Timeframe int

const (
	TimeframeThisWeek  Timeframe = 0
	TimeframeLastWeek  Timeframe = 1
	TimeframeThisMonth Timeframe = 2
	TimeframeLastMonth Timeframe = 3
	TimeframeThisYear  Timeframe = 4
	TimeframeAll       Timeframe = 5
	TimeframeCustom    Timeframe = 6
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeLastWeek:
		return "Last Week"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeThisYear:
		return "This Year"
	case TimeframeAll:
		return "All Time"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// dateRange resolves a predefined timeframe relative to now. Entries carry
// plain dates, so only the calendar day of each bound matters.
func dateRange(tf Timeframe, now time.Time) (time.Time, time.Time) {
	var start, end time.Time

	switch tf {
	case TimeframeThisWeek:
		offset := int(now.Weekday())
		if offset == 0 {
			offset = 7
		}

		start = now.AddDate(0, 0, -offset+1)
		end = now
	case TimeframeLastWeek:
		offset := int(now.Weekday())
		if offset == 0 {
			offset = 7
		}

		end = now.AddDate(0, 0, -offset)
		start = end.AddDate(0, 0, -6)
	case TimeframeThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = now
	case TimeframeLastMonth:
		lastMonth := now.AddDate(0, -1, 0)
		start = time.Date(lastMonth.Year(), lastMonth.Month(), 1, 0, 0, 0, 0, lastMonth.Location())
		end = start.AddDate(0, 1, -1)
	case TimeframeThisYear:
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		end = now
	}

	return start, end
}

// TimeframeSelectedMsg carries the chosen range as a ledger filter. The
// filter has no dates for All Time.
type TimeframeSelectedMsg struct {
	Filter ledger.ListFilter
	Label  string
}

func rangeFilter(start, end time.Time) ledger.ListFilter {
	return ledger.ListFilter{StartDate: new(start), EndDate: new(end)}
}

// customRange validates a typed start and end date and turns them into a
// selection.
func customRange(start, end string) (TimeframeSelectedMsg, error) {
	from, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return TimeframeSelectedMsg{}, errors.New("invalid start date (YYYY-MM-DD)")
	}

	to, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return TimeframeSelectedMsg{}, errors.New("invalid end date (YYYY-MM-DD)")
	}

	if to.Before(from) {
		return TimeframeSelectedMsg{}, errors.New("end date is before start date")
	}

	return TimeframeSelectedMsg{
		Filter: rangeFilter(from, to),
		Label:  start + " to " + end,
	}, nil
}

func selectTimeframe(tf Timeframe, now time.Time) TimeframeSelectedMsg {
	if tf == TimeframeAll {
		return TimeframeSelectedMsg{Label: tf.String()}
	}

	start, end := dateRange(tf, now)

	return TimeframeSelectedMsg{Filter: rangeFilter(start, end), Label: tf.String()}
}

// customDates backs the huh inputs; it lives behind a pointer so the form
// keeps writing to the same place after the picker is copied.
type customDates struct {
	start, end string
}

// TimeframePicker chooses the date range the ledger table is filtered by.
// Number keys jump straight to a preset.
type TimeframePicker struct {
	cursor  Timeframe
	initial Timeframe

	form  *huh.Form
	dates *customDates
	err   error
}

func NewTimeframePicker(initial Timeframe) TimeframePicker {
	return TimeframePicker{cursor: initial, initial: initial, dates: &customDates{}}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if m.form != nil {
		return m.updateCustom(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyUp:
		m.cursor = max(m.cursor-1, TimeframeThisWeek)
		return m, nil
	case tea.KeyDown:
		m.cursor = min(m.cursor+1, TimeframeCustom)
		return m, nil
	case tea.KeyEnter:
		return m.choose(m.cursor)
	}

	if n, err := strconv.Atoi(key.String()); err == nil && n >= 1 && n <= int(TimeframeCustom)+1 {
		m.cursor = Timeframe(n - 1)
		return m.choose(m.cursor)
	}

	return m, nil
}

func (m TimeframePicker) choose(tf Timeframe) (TimeframePicker, tea.Cmd) {
	if tf != TimeframeCustom {
		sel := selectTimeframe(tf, time.Now())
		return m, func() tea.Msg { return sel }
	}

	m.dates = &customDates{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Start Date").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Validate(validDay).
				Value(&m.dates.start),
			huh.NewInput().
				Title("End Date").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Validate(validDay).
				Value(&m.dates.end),
		),
	).WithWidth(40).WithShowHelp(false)

	return m, m.form.Init()
}

func validDay(s string) error {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

func (m TimeframePicker) updateCustom(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.form = nil
		m.err = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	sel, err := customRange(m.dates.start, m.dates.end)
	if err != nil {
		m, cmd = m.choose(TimeframeCustom)
		m.err = err

		return m, cmd
	}

	m.form = nil
	m.err = nil

	return m, func() tea.Msg { return sel }
}

func (m TimeframePicker) View() string {
	if m.form != nil {
		s := "Enter Custom Range:\n\n" + m.form.View() + "\n(Enter to confirm, Esc to back)"
		if m.err != nil {
			s += errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err))
		}

		return s
	}

	s := "Select Timeframe:\n\n"

	for tf := TimeframeThisWeek; tf <= TimeframeCustom; tf++ {
		line := fmt.Sprintf("  %d. %s", tf+1, tf)
		if tf == m.cursor {
			line = activeStyle(fmt.Sprintf("> %d. %s", tf+1, tf))
		}

		s += line + "\n"
	}

	return s + "\n(Enter or number to select, Esc to back)"
}

// IsSelecting reports whether the preset list, not the custom form, is shown.
func (m TimeframePicker) IsSelecting() bool {
	return m.form == nil
}

// Reset puts the cursor back on the initial preset.
func (m *TimeframePicker) Reset() {
	m.cursor = m.initial
	m.form = nil
	m.err = nil
}
