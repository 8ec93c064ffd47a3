// Package timegrid derives the visible week grid and buckets calendar
// events into it. Everything here is pure computation; the view owns
// the current week and the tui renders whatever this package returns.
package timegrid

import (
	"fmt"
	"time"

	"github.com/md-rashed-zaman/opscal/internal/model"
)

const (
	// SlotMinutes is the grid granularity.
	SlotMinutes = 15
	// DayStartHour .. DayEndHour is the visible range; the final hour
	// contributes only its :00 slot.
	DayStartHour = 9
	DayEndHour   = 19
	// WorkDays is Monday through Friday.
	WorkDays = 5
)

// SlotTime is one row of the grid: a wall-clock hour and minute.
type SlotTime struct {
	Hour   int
	Minute int
}

// Key formats the slot as "HH:MM", the time key used for bucketing.
func (s SlotTime) Key() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// Slots returns the fixed slot sequence: 09:00 through 19:00 in
// 15-minute steps, 41 entries. Static configuration, not derived from
// event data.
func Slots() []SlotTime {
	slots := make([]SlotTime, 0, (DayEndHour-DayStartHour)*4+1)
	for hour := DayStartHour; hour <= DayEndHour; hour++ {
		if hour == DayEndHour {
			slots = append(slots, SlotTime{Hour: hour})
			break
		}
		for minute := 0; minute < 60; minute += SlotMinutes {
			slots = append(slots, SlotTime{Hour: hour, Minute: minute})
		}
	}
	return slots
}

// WeekStart returns the Monday of the week containing t, at midnight
// in t's location.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	// Weekday is Sunday=0; shift so Monday=0.
	back := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -back)
}

// WeekDays returns Monday through Friday starting at weekStart.
func WeekDays(weekStart time.Time) [WorkDays]time.Time {
	var days [WorkDays]time.Time
	for i := range days {
		days[i] = weekStart.AddDate(0, 0, i)
	}
	return days
}

func PrevWeek(weekStart time.Time) time.Time { return weekStart.AddDate(0, 0, -7) }
func NextWeek(weekStart time.Time) time.Time { return weekStart.AddDate(0, 0, 7) }

// DayKey formats a date as the bucketing key for its day.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// TimeKey formats a timestamp's wall-clock time as a bucketing key.
func TimeKey(t time.Time) string {
	return t.Format("15:04")
}

// SlotStart combines a grid day with a slot row into a timestamp in
// the day's location.
func SlotStart(day time.Time, slot SlotTime) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), slot.Hour, slot.Minute, 0, 0, day.Location())
}

// Grid maps day key -> time key -> events starting in that cell.
type Grid map[string]map[string][]model.Event

// At returns the events in one cell.
func (g Grid) At(day time.Time, slot SlotTime) []model.Event {
	return g[DayKey(day)][slot.Key()]
}

// Bucket groups events into grid cells by their start's local date and
// wall-clock time in loc. Starts are not snapped: an event off the
// 15-minute boundary is keyed at its exact minute, which no slot row
// ever looks up, so it does not appear on the grid.
func Bucket(events []model.Event, weekDays [WorkDays]time.Time, loc *time.Location) Grid {
	if loc == nil {
		loc = time.Local
	}

	visible := make(map[string]struct{}, len(weekDays))
	for _, day := range weekDays {
		visible[DayKey(day)] = struct{}{}
	}

	grid := make(Grid, len(weekDays))
	for _, event := range events {
		local := event.FromTs.In(loc)
		dayKey := DayKey(local)
		if _, ok := visible[dayKey]; !ok {
			continue
		}
		byTime, ok := grid[dayKey]
		if !ok {
			byTime = make(map[string][]model.Event)
			grid[dayKey] = byTime
		}
		timeKey := TimeKey(local)
		byTime[timeKey] = append(byTime[timeKey], event)
	}
	return grid
}
