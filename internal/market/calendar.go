package market

import (
	"sort"
	"time"

	"TradeBench/internal/model"
)

const dayKey = "2006-01-02"

// Calendar is the set of trading days observed in a symbol's bar history.
// Settlement and cooldown arithmetic counts these days, not calendar days,
// so suspensions and holidays extend lockouts naturally.
type Calendar struct {
	days  []time.Time
	index map[string]int
}

// NewCalendar builds a calendar from bar history.
func NewCalendar(bars []model.OHLCV) *Calendar {
	days := make([]time.Time, len(bars))
	for i, b := range bars {
		days[i] = b.Time
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	index := make(map[string]int, len(days))
	for i, d := range days {
		index[d.Format(dayKey)] = i
	}
	return &Calendar{days: days, index: index}
}

// IsTradingDay reports whether the market was open on day.
func (c *Calendar) IsTradingDay(day time.Time) bool {
	_, ok := c.index[day.Format(dayKey)]
	return ok
}

// Add returns the trading day n sessions after day. When day itself is not
// a session, counting starts from the next session. Past the end of known
// history it falls back to weekday stepping so lockout dates near the run
// boundary still resolve.
func (c *Calendar) Add(day time.Time, n int) time.Time {
	if n <= 0 {
		return day
	}
	i, ok := c.index[day.Format(dayKey)]
	if !ok {
		i = sort.Search(len(c.days), func(j int) bool { return !c.days[j].Before(day) }) - 1
	}
	target := i + n
	if target >= 0 && target < len(c.days) {
		return c.days[target]
	}

	out := day
	if len(c.days) > 0 && out.Before(c.days[len(c.days)-1]) {
		remaining := target - (len(c.days) - 1)
		out = c.days[len(c.days)-1]
		n = remaining
	}
	for n > 0 {
		out = out.AddDate(0, 0, 1)
		if out.Weekday() != time.Saturday && out.Weekday() != time.Sunday {
			n--
		}
	}
	return out
}

// Next returns the trading day after day.
func (c *Calendar) Next(day time.Time) time.Time { return c.Add(day, 1) }

// Days returns the trading days within [start, end].
func (c *Calendar) Days(start, end time.Time) []time.Time {
	var out []time.Time
	for _, d := range c.days {
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, d)
	}
	return out
}
