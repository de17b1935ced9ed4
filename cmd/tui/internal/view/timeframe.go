package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/vyapari/internal/analytics"
)

// Timeframe represents a predefined or custom date range selection.
type Timeframe int

const (
	TimeframeThisWeek Timeframe = iota
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeAll
	TimeframeCustom
)

// timeframeOption ties a menu entry to a dashboard period. previous selects
// the period's comparison range instead of its current one.
type timeframeOption struct {
	label    string
	period   analytics.Period
	previous bool
}

var timeframeOptions = map[Timeframe]timeframeOption{
	TimeframeThisWeek:  {label: "This Week", period: analytics.PeriodWeek},
	TimeframeLastWeek:  {label: "Last Week", period: analytics.PeriodWeek, previous: true},
	TimeframeThisMonth: {label: "This Month", period: analytics.PeriodMonth},
	TimeframeLastMonth: {label: "Last Month", period: analytics.PeriodMonth, previous: true},
	TimeframeAll:       {label: "All Time", period: analytics.PeriodAll},
	TimeframeCustom:    {label: "Custom Range"},
}

func (t Timeframe) String() string {
	if opt, ok := timeframeOptions[t]; ok {
		return opt.label
	}

	return "Unknown"
}

// timeframeRange resolves a predefined timeframe with the dashboard's period
// rules, so both agree on where weeks and months start.
func timeframeRange(tf Timeframe, now time.Time) (time.Time, time.Time) {
	opt := timeframeOptions[tf]
	w := analytics.Resolve(opt.period, now)

	if opt.previous {
		return w.Previous.Start, w.Previous.End
	}

	return w.Current.Start, w.Current.End
}

// TimeframeSelectedMsg is emitted when the user has selected a valid date range.
// From and To are nil when the whole history was chosen; To is exclusive.
type TimeframeSelectedMsg struct {
	From *time.Time
	To   *time.Time
}

// TimeframePicker is a reusable component for selecting a date range. The
// custom range is entered through a huh form.
type TimeframePicker struct {
	selected Timeframe
	minFrame Timeframe
	loc      *time.Location

	custom   *huh.Form
	startRaw string
	endRaw   string
}

// NewTimeframePicker creates a picker starting from the given minimum timeframe.
func NewTimeframePicker(minFrame Timeframe, loc *time.Location) TimeframePicker {
	return TimeframePicker{selected: minFrame, minFrame: minFrame, loc: loc}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if m.custom != nil {
		return m.updateCustom(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if m.selected > m.minFrame {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case tea.KeyEnter:
		return m.choose()
	}

	return m, nil
}

func (m TimeframePicker) choose() (TimeframePicker, tea.Cmd) {
	switch m.selected {
	case TimeframeCustom:
		m.custom = m.buildCustomForm()
		return m, m.custom.Init()
	case TimeframeAll:
		return m, func() tea.Msg { return TimeframeSelectedMsg{} }
	}

	from, to := timeframeRange(m.selected, time.Now().In(m.loc))

	return m, func() tea.Msg { return TimeframeSelectedMsg{From: &from, To: &to} }
}

func (m TimeframePicker) parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), m.loc)
	if err != nil {
		return time.Time{}, errors.New("use YYYY-MM-DD")
	}

	return t, nil
}

func (m TimeframePicker) buildCustomForm() *huh.Form {
	validDate := func(s string) error {
		_, err := m.parseDate(s)
		return err
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("start").
				Title("Start Date").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Value(&m.startRaw).
				Validate(validDate),

			huh.NewInput().
				Key("end").
				Title("End Date").
				Description("Inclusive").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Value(&m.endRaw).
				Validate(validDate),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m TimeframePicker) updateCustom(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.custom = nil
		return m, nil
	}

	form, cmd := m.custom.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.custom = f
	}

	if m.custom.State != huh.StateCompleted {
		return m, cmd
	}

	from, _ := m.parseDate(m.custom.GetString("start"))
	end, _ := m.parseDate(m.custom.GetString("end"))
	m.custom = nil

	if end.Before(from) {
		from, end = end, from
	}

	to := end.AddDate(0, 0, 1)

	return m, func() tea.Msg { return TimeframeSelectedMsg{From: &from, To: &to} }
}

func (m TimeframePicker) View() string {
	if m.custom != nil {
		return "Enter Custom Range:\n\n" + m.custom.View() + "\n\n(Esc to back)"
	}

	var sb strings.Builder

	sb.WriteString("Select Timeframe:\n\n")

	for tf := m.minFrame; tf <= TimeframeCustom; tf++ {
		cursor := " "
		if m.selected == tf {
			cursor = ">"
		}

		fmt.Fprintf(&sb, "%s %s\n", cursor, tf)
	}

	sb.WriteString("\n(Enter to select, Esc to back)")

	return sb.String()
}

// IsSelecting reports whether the picker shows the timeframe list rather
// than the custom range form.
func (m TimeframePicker) IsSelecting() bool {
	return m.custom == nil
}

// Reset returns the picker to its initial selection state.
func (m *TimeframePicker) Reset() {
	m.selected = m.minFrame
	m.custom = nil
	m.startRaw = ""
	m.endRaw = ""
}
