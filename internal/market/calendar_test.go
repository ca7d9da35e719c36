package market

import (
	"testing"
	"time"

	"TradeBench/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func barsOn(dates ...time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, len(dates))
	for i, d := range dates {
		bars[i] = model.OHLCV{Time: d, Close: 10}
	}
	return bars
}

func TestCalendarAddSkipsClosedDays(t *testing.T) {
	// Mon, Tue, Thu, Fri: Wednesday is a holiday.
	cal := NewCalendar(barsOn(
		day(2025, 3, 3), day(2025, 3, 4), day(2025, 3, 6), day(2025, 3, 7),
	))

	got := cal.Add(day(2025, 3, 4), 1)
	if !got.Equal(day(2025, 3, 6)) {
		t.Errorf("next session after Tue should skip the holiday, got %s", got)
	}
	got = cal.Add(day(2025, 3, 3), 3)
	if !got.Equal(day(2025, 3, 7)) {
		t.Errorf("three sessions after Mon should be Fri, got %s", got)
	}
}

func TestCalendarAddPastHistoryFallsBackToWeekdays(t *testing.T) {
	cal := NewCalendar(barsOn(day(2025, 3, 6), day(2025, 3, 7))) // Thu, Fri

	got := cal.Add(day(2025, 3, 7), 2)
	if !got.Equal(day(2025, 3, 11)) {
		t.Errorf("two sessions past Friday should land on Tuesday, got %s", got)
	}
}

func TestCalendarDays(t *testing.T) {
	cal := NewCalendar(barsOn(
		day(2025, 3, 3), day(2025, 3, 4), day(2025, 3, 6), day(2025, 3, 7),
	))
	got := cal.Days(day(2025, 3, 4), day(2025, 3, 6))
	if len(got) != 2 {
		t.Fatalf("expected 2 days in range, got %d", len(got))
	}
	if !got[0].Equal(day(2025, 3, 4)) || !got[1].Equal(day(2025, 3, 6)) {
		t.Errorf("unexpected days: %v", got)
	}
	if !cal.IsTradingDay(day(2025, 3, 6)) {
		t.Error("Mar 6 should be a trading day")
	}
	if cal.IsTradingDay(day(2025, 3, 5)) {
		t.Error("Mar 5 should not be a trading day")
	}
}
