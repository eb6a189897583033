package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HoursKind tags the shape of a day's business hours.
type HoursKind string

const (
	HoursClosed     HoursKind = "closed"
	HoursContinuous HoursKind = "continuous"
	HoursSplit      HoursKind = "split" // morning + afternoon with a midday closure
)

// HoursWindow is a single open/close span expressed as wall-clock "HH:MM".
type HoursWindow struct {
	Open  string `bson:"open" json:"open"`
	Close string `bson:"close" json:"close"`
}

// BusinessHours describes one weekday's schedule. Exactly the fields for its
// Kind are populated: Continuous for "continuous", Morning/Afternoon for "split".
type BusinessHours struct {
	Kind       HoursKind    `bson:"kind" json:"kind"`
	Continuous *HoursWindow `bson:"continuous,omitempty" json:"continuous,omitempty"`
	Morning    *HoursWindow `bson:"morning,omitempty" json:"morning,omitempty"`
	Afternoon  *HoursWindow `bson:"afternoon,omitempty" json:"afternoon,omitempty"`
}

// Windows returns the open spans for the day in chronological order.
// A closed day returns none.
func (h BusinessHours) Windows() []HoursWindow {
	switch h.Kind {
	case HoursContinuous:
		if h.Continuous != nil {
			return []HoursWindow{*h.Continuous}
		}
	case HoursSplit:
		var ws []HoursWindow
		if h.Morning != nil {
			ws = append(ws, *h.Morning)
		}
		if h.Afternoon != nil {
			ws = append(ws, *h.Afternoon)
		}
		return ws
	}
	return nil
}

// Validate checks that the populated windows are well-formed.
func (h BusinessHours) Validate() error {
	switch h.Kind {
	case HoursClosed:
		return nil
	case HoursContinuous:
		if h.Continuous == nil {
			return fmt.Errorf("continuous hours require an open/close window")
		}
		return h.Continuous.validate()
	case HoursSplit:
		if h.Morning == nil || h.Afternoon == nil {
			return fmt.Errorf("split hours require both morning and afternoon windows")
		}
		if err := h.Morning.validate(); err != nil {
			return err
		}
		if err := h.Afternoon.validate(); err != nil {
			return err
		}
		mClose, _ := MinutesOfDay(h.Morning.Close)
		aOpen, _ := MinutesOfDay(h.Afternoon.Open)
		if aOpen < mClose {
			return fmt.Errorf("afternoon window opens before morning window closes")
		}
		return nil
	default:
		return fmt.Errorf("unknown hours kind %q", h.Kind)
	}
}

func (w HoursWindow) validate() error {
	open, err := MinutesOfDay(w.Open)
	if err != nil {
		return err
	}
	close, err := MinutesOfDay(w.Close)
	if err != nil {
		return err
	}
	if close <= open {
		return fmt.Errorf("window closes at or before it opens (%s-%s)", w.Open, w.Close)
	}
	return nil
}

// MinutesOfDay parses an "HH:MM" wall-clock string into minutes from midnight.
func MinutesOfDay(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time of day %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// AtDate anchors a minutes-from-midnight offset onto a calendar date in loc.
func AtDate(date time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, minutes, 0, 0, loc)
}
