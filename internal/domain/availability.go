package domain

import (
	"strconv"
	"strings"
	"time"
)

const timeLabelLayout = "3:04 PM"

// CanonicalSlots is the master list of bookable half-hour labels.
var CanonicalSlots = []string{
	"08:00 AM", "08:30 AM", "09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM",
	"11:00 AM", "11:30 AM", "12:00 PM", "12:30 PM", "01:00 PM", "01:30 PM",
	"02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM", "04:00 PM", "04:30 PM",
	"05:00 PM", "05:30 PM", "06:00 PM",
}

var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

type WeeklyAvailabilitySlot struct {
	Day         string `json:"day" binding:"required"`
	IsAvailable bool   `json:"isAvailable"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

type WorkingWindow struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// DayAvailability separates "not working" from "working but fully booked".
type DayAvailability struct {
	Working    bool           `json:"working"`
	Window     *WorkingWindow `json:"window,omitempty"`
	Candidates []string       `json:"candidates"`
}

// ParseTimeLabel converts an "hh:mm AM/PM" label into minutes since midnight.
func ParseTimeLabel(label string) (int, bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if label == "" {
		return 0, false
	}

	t, err := time.Parse(timeLabelLayout, label)
	if err != nil {
		return 0, false
	}

	return t.Hour()*60 + t.Minute(), true
}

// WeekdayName uses the UTC calendar so a date never shifts with the server zone.
func WeekdayName(date time.Time) string {
	return date.UTC().Weekday().String()
}

// WorkingWindowFor returns the first complete available entry for the
// weekday of date, or nil when the doctor does not work that day.
func WorkingWindowFor(schedule []WeeklyAvailabilitySlot, date time.Time) *WorkingWindow {
	day := WeekdayName(date)

	for _, slot := range schedule {
		if !slot.IsAvailable || !strings.EqualFold(strings.TrimSpace(slot.Day), day) {
			continue
		}

		if _, ok := ParseTimeLabel(slot.StartTime); !ok {
			continue
		}
		if _, ok := ParseTimeLabel(slot.EndTime); !ok {
			continue
		}

		return &WorkingWindow{
			StartTime: strings.TrimSpace(slot.StartTime),
			EndTime:   strings.TrimSpace(slot.EndTime),
		}
	}

	return nil
}

func IsDoctorWorking(schedule []WeeklyAvailabilitySlot, date time.Time) bool {
	return WorkingWindowFor(schedule, date) != nil
}

// CandidateSlotsInWindow keeps canonical labels in [start, end).
func CandidateSlotsInWindow(window *WorkingWindow) []string {
	slots := make([]string, 0)
	if window == nil {
		return slots
	}

	start, ok := ParseTimeLabel(window.StartTime)
	if !ok {
		return slots
	}
	end, ok := ParseTimeLabel(window.EndTime)
	if !ok {
		return slots
	}

	for _, label := range CanonicalSlots {
		minutes, _ := ParseTimeLabel(label)
		if minutes >= start && minutes < end {
			slots = append(slots, label)
		}
	}

	return slots
}

// ComputeOpenSlots drops candidates already held by a non-cancelled
// appointment of the same doctor on the same calendar date.
func ComputeOpenSlots(candidates []string, appointments []Appointment, date time.Time, doctorID int64) []string {
	taken := make(map[int]bool)
	for _, a := range appointments {
		if a.DoctorID != doctorID || a.Status == AppointmentStatusCancelled {
			continue
		}
		if !SameDay(a.AppointmentDate, date) {
			continue
		}
		if minutes, ok := ParseTimeLabel(a.AppointmentTime); ok {
			taken[minutes] = true
		}
	}

	open := make([]string, 0, len(candidates))
	for _, label := range candidates {
		minutes, ok := ParseTimeLabel(label)
		if !ok || taken[minutes] {
			continue
		}
		open = append(open, label)
	}

	return open
}

func ResolveDay(schedule []WeeklyAvailabilitySlot, date time.Time) DayAvailability {
	window := WorkingWindowFor(schedule, date)
	return DayAvailability{
		Working:    window != nil,
		Window:     window,
		Candidates: CandidateSlotsInWindow(window),
	}
}

// SameDay compares calendar dates in UTC.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func IsCanonicalSlot(label string) bool {
	_, ok := CanonicalLabel(label)
	return ok
}

// CanonicalLabel normalizes a parseable label to its canonical spelling.
func CanonicalLabel(label string) (string, bool) {
	minutes, ok := ParseTimeLabel(label)
	if !ok {
		return "", false
	}
	for _, l := range CanonicalSlots {
		if m, _ := ParseTimeLabel(l); m == minutes {
			return l, true
		}
	}
	return "", false
}

// ValidateAvailability is the strict check applied when a doctor saves a
// schedule. Reads stay tolerant and simply skip bad entries.
func ValidateAvailability(schedule []WeeklyAvailabilitySlot) error {
	verr := &ValidationError{}

	for i, slot := range schedule {
		field := "availability[" + strconv.Itoa(i) + "]"

		if !isWeekday(slot.Day) {
			verr.Add(field+".day", "must be a weekday name")
			continue
		}
		if !slot.IsAvailable {
			continue
		}

		start, okStart := ParseTimeLabel(slot.StartTime)
		end, okEnd := ParseTimeLabel(slot.EndTime)
		if !okStart || !IsCanonicalSlot(slot.StartTime) {
			verr.Add(field+".startTime", "must be a time between 08:00 AM and 06:00 PM")
		}
		if !okEnd || !IsCanonicalSlot(slot.EndTime) {
			verr.Add(field+".endTime", "must be a time between 08:00 AM and 06:00 PM")
		}
		if okStart && okEnd && start >= end {
			verr.Add(field+".endTime", "must be after start time")
		}
	}

	return verr.OrNil()
}

func isWeekday(day string) bool {
	day = strings.TrimSpace(day)
	for _, d := range Weekdays {
		if strings.EqualFold(d, day) {
			return true
		}
	}
	return false
}

// NormalizeAvailability validates schedule and rewrites days and times to
// their canonical spelling. Times of unavailable days are cleared.
func NormalizeAvailability(schedule []WeeklyAvailabilitySlot) ([]WeeklyAvailabilitySlot, error) {
	if err := ValidateAvailability(schedule); err != nil {
		return nil, err
	}

	out := make([]WeeklyAvailabilitySlot, 0, len(schedule))
	for _, slot := range schedule {
		normalized := WeeklyAvailabilitySlot{
			Day:         canonicalWeekday(slot.Day),
			IsAvailable: slot.IsAvailable,
		}
		if slot.IsAvailable {
			normalized.StartTime, _ = CanonicalLabel(slot.StartTime)
			normalized.EndTime, _ = CanonicalLabel(slot.EndTime)
		}
		out = append(out, normalized)
	}

	return out, nil
}

func canonicalWeekday(day string) string {
	day = strings.TrimSpace(day)
	for _, d := range Weekdays {
		if strings.EqualFold(d, day) {
			return d
		}
	}
	return day
}
