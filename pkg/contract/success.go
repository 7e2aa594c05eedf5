// SPDX-License-Identifier: MPL-2.0

package contract

// SuccessInfo records the completion state of an event. The zero value is
// success; the component that detects a failure records it with Fail, at
// most once.
type SuccessInfo struct {
	// Err is the failure description; empty means the event succeeded.
	Err string
}

// Fail records a failure. The first recorded failure wins; later calls are
// ignored so an error cannot be overwritten once set.
func (s *SuccessInfo) Fail(msg string) {
	if s.Err == "" {
		s.Err = msg
	}
}

// FailErr records a failure from an error value. A nil error is a no-op.
func (s *SuccessInfo) FailErr(err error) {
	if err != nil {
		s.Fail(err.Error())
	}
}

// IsSuccess reports whether no failure was recorded.
func (s *SuccessInfo) IsSuccess() bool {
	return s.Err == ""
}

// errJSON returns the recorded error as a JSON-safe value: null on success.
func (s *SuccessInfo) errJSON() *string {
	if s.Err == "" {
		return nil
	}
	e := s.Err
	return &e
}

func successFromJSON(err *string) SuccessInfo {
	if err == nil {
		return SuccessInfo{}
	}
	return SuccessInfo{Err: *err}
}
