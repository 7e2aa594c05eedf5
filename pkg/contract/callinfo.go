// SPDX-License-Identifier: MPL-2.0

package contract

import "encoding/json"

// CallInfo records one endpoint invocation attempt: the endpoint, the named
// arguments it received, its return value, its timing, and whether the
// endpoint's own logic completed. It is created at the start of a call,
// timed across it, and finalized with either a return value or an error.
type CallInfo struct {
	// Endpoint is the name of the invoked endpoint.
	Endpoint string
	// Args are the named arguments the endpoint received.
	Args []Variable
	// RetVal is the value the endpoint returned; nil when the call failed
	// or the endpoint returned nothing.
	RetVal any
	// Watch times the call.
	Watch StopWatch
	// Success records whether the endpoint's logic completed without error.
	Success SuccessInfo
}

// NewCallInfo creates a CallInfo for an invocation attempt of the named
// endpoint with the given arguments.
func NewCallInfo(endpoint string, args []Variable) *CallInfo {
	return &CallInfo{Endpoint: endpoint, Args: args}
}

// IsSuccess reports whether the endpoint's logic completed without error.
func (c *CallInfo) IsSuccess() bool {
	return c.Success.IsSuccess()
}

// callInfoJSON is the wire layout of a CallInfo. StopWatch and SuccessInfo
// fields are flattened into the same object.
type callInfoJSON struct {
	Endpoint  string     `json:"endpoint"`
	Args      []Variable `json:"args"`
	RetVal    any        `json:"ret_val"`
	IsSuccess bool       `json:"is_success"`
	Error     *string    `json:"error"`
	Start     *float64   `json:"start"`
	End       *float64   `json:"end"`
	Duration  *float64   `json:"duration"`
}

// MarshalJSON implements json.Marshaler.
func (c *CallInfo) MarshalJSON() ([]byte, error) {
	args := c.Args
	if args == nil {
		args = []Variable{}
	}
	return json.Marshal(callInfoJSON{
		Endpoint:  c.Endpoint,
		Args:      args,
		RetVal:    c.RetVal,
		IsSuccess: c.Success.IsSuccess(),
		Error:     c.Success.errJSON(),
		Start:     c.Watch.Start,
		End:       c.Watch.End,
		Duration:  c.Watch.durationJSON(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *CallInfo) UnmarshalJSON(data []byte) error {
	var w callInfoJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = CallInfo{
		Endpoint: w.Endpoint,
		Args:     w.Args,
		RetVal:   w.RetVal,
		Watch:    StopWatch{Start: w.Start, End: w.End},
		Success:  successFromJSON(w.Error),
	}
	return nil
}
