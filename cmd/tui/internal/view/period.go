package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/vyapari/internal/analytics"
)

var periodLabels = map[analytics.Period]string{
	analytics.PeriodToday:     "Today",
	analytics.PeriodYesterday: "Yesterday",
	analytics.PeriodWeek:      "This Week",
	analytics.PeriodMonth:     "This Month",
	analytics.PeriodAll:       "All Time",
}

// PeriodSelectedMsg is emitted when the user picks a dashboard period.
type PeriodSelectedMsg struct {
	Period analytics.Period
}

// PeriodPicker is a cursor list over the analytics periods.
type PeriodPicker struct {
	cursor int
}

func NewPeriodPicker(initial analytics.Period) PeriodPicker {
	p := PeriodPicker{}

	for i, period := range analytics.Periods {
		if period == initial {
			p.cursor = i
		}
	}

	return p
}

func (p PeriodPicker) Selected() analytics.Period {
	return analytics.Periods[p.cursor]
}

func (p PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if p.cursor > 0 {
			p.cursor--
		}
	case tea.KeyDown:
		if p.cursor < len(analytics.Periods)-1 {
			p.cursor++
		}
	case tea.KeyEnter:
		selected := p.Selected()

		return p, func() tea.Msg {
			return PeriodSelectedMsg{Period: selected}
		}
	}

	return p, nil
}

func (p PeriodPicker) View() string {
	s := "Select Period:\n\n"

	for i, period := range analytics.Periods {
		cursor := " "
		if i == p.cursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, periodLabels[period])
	}

	return s + "\n(Enter to select, Esc to back)"
}
