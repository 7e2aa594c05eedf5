// SPDX-License-Identifier: MPL-2.0

package contract

import (
	"math"
	"time"
)

// StopWatch records the bounds of one timed event as UNIX timestamps in
// seconds. It is stamped exactly twice by its owner: MarkStart at the
// beginning of the event and MarkEnd at its completion.
type StopWatch struct {
	// Start is the beginning of the event; nil when not started.
	Start *float64 `json:"start"`
	// End is the end of the event; nil while the event is running.
	End *float64 `json:"end"`
}

// MarkStart stamps the beginning of the event with the current time and
// resets any previously recorded end.
func (s *StopWatch) MarkStart() {
	now := unixSeconds(time.Now())
	s.Start = &now
	s.End = nil
}

// MarkEnd stamps the end of the event with the current time.
func (s *StopWatch) MarkEnd() {
	now := unixSeconds(time.Now())
	s.End = &now
}

// Duration returns end minus start in seconds, or NaN when either bound is
// missing.
func (s *StopWatch) Duration() float64 {
	if s.Start == nil || s.End == nil {
		return math.NaN()
	}
	return *s.End - *s.Start
}

// durationJSON returns the duration as a JSON-safe value: NaN is not
// representable in JSON, so an incomplete watch reports null.
func (s *StopWatch) durationJSON() *float64 {
	d := s.Duration()
	if math.IsNaN(d) {
		return nil
	}
	return &d
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
