package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}

	return t
}

func TestDateRange(t *testing.T) {
	// A Wednesday.
	now := day("2026-03-18")

	tests := []struct {
		tf         Timeframe
		start, end string
	}{
		{TimeframeThisWeek, "2026-03-16", "2026-03-18"},
		{TimeframeLastWeek, "2026-03-09", "2026-03-15"},
		{TimeframeThisMonth, "2026-03-01", "2026-03-18"},
		{TimeframeLastMonth, "2026-02-01", "2026-02-28"},
		{TimeframeThisYear, "2026-01-01", "2026-03-18"},
	}

	for _, tt := range tests {
		t.Run(tt.tf.String(), func(t *testing.T) {
			start, end := dateRange(tt.tf, now)

			assert.Equal(t, tt.start, start.Format(time.DateOnly))
			assert.Equal(t, tt.end, end.Format(time.DateOnly))
		})
	}
}

func TestDateRange_SundayClosesTheWeek(t *testing.T) {
	start, end := dateRange(TimeframeThisWeek, day("2026-03-22"))

	assert.Equal(t, "2026-03-16", start.Format(time.DateOnly))
	assert.Equal(t, "2026-03-22", end.Format(time.DateOnly))
}

func pick(t *testing.T, p TimeframePicker, keys ...tea.KeyMsg) (TimeframePicker, tea.Msg) {
	t.Helper()

	var cmd tea.Cmd
	for _, k := range keys {
		p, cmd = p.Update(k)
	}

	if cmd == nil {
		return p, nil
	}

	return p, cmd()
}

func TestTimeframePicker_AllTimeHasNoBounds(t *testing.T) {
	_, msg := pick(t, NewTimeframePicker(TimeframeAll), tea.KeyMsg{Type: tea.KeyEnter})

	sel, ok := msg.(TimeframeSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "All Time", sel.Label)
	assert.Nil(t, sel.Filter.StartDate)
	assert.Nil(t, sel.Filter.EndDate)
}

func TestTimeframePicker_NumberKeySelects(t *testing.T) {
	p, msg := pick(t, NewTimeframePicker(TimeframeAll), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})

	sel, ok := msg.(TimeframeSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "This Month", sel.Label)
	require.NotNil(t, sel.Filter.StartDate)
	assert.Equal(t, 1, sel.Filter.StartDate.Day())
	assert.Equal(t, TimeframeThisMonth, p.cursor)
}

func TestTimeframePicker_CursorStaysInRange(t *testing.T) {
	p, _ := pick(t, NewTimeframePicker(TimeframeThisWeek), tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, TimeframeThisWeek, p.cursor)

	p, _ = pick(t, NewTimeframePicker(TimeframeCustom), tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, TimeframeCustom, p.cursor)
}

func TestTimeframePicker_CustomOpensFormAndEscCloses(t *testing.T) {
	p, _ := pick(t, NewTimeframePicker(TimeframeAll), tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, p.IsSelecting())
	assert.Contains(t, p.View(), "Custom Range")

	p, msg := pick(t, p, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, msg)
	assert.True(t, p.IsSelecting())
}

func TestCustomRange(t *testing.T) {
	sel, err := customRange("2026-02-01", "2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01 to 2026-02-28", sel.Label)
	require.NotNil(t, sel.Filter.StartDate)
	assert.Equal(t, day("2026-02-01"), *sel.Filter.StartDate)
	assert.Equal(t, day("2026-02-28"), *sel.Filter.EndDate)

	tests := []struct {
		name, start, end, want string
	}{
		{"BadStart", "01/02/2026", "2026-02-28", "invalid start date (YYYY-MM-DD)"},
		{"BadEnd", "2026-02-01", "", "invalid end date (YYYY-MM-DD)"},
		{"Inverted", "2026-02-01", "2026-01-01", "end date is before start date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := customRange(tt.start, tt.end)
			assert.EqualError(t, err, tt.want)
		})
	}
}
