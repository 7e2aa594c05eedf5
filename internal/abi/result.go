// SPDX-License-Identifier: MPL-2.0

package abi

import (
	"encoding/base64"
	"encoding/json"

	"convoke/pkg/contract"
)

// Result encoding is independent of any selector table: execution and call
// reports are self-describing structures, so they travel as base64(JSON).

// EncodeResult encodes a full execution report for transport over a text
// channel.
func EncodeResult(info *contract.ExecutionInfo) (string, error) {
	return encodeDoc(info)
}

// DecodeResult reverses EncodeResult.
func DecodeResult(encoded string) (*contract.ExecutionInfo, error) {
	var info contract.ExecutionInfo
	if err := decodeDoc(encoded, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// EncodeCallResult encodes a single call report for transport over a text
// channel.
func EncodeCallResult(info *contract.CallInfo) (string, error) {
	return encodeDoc(info)
}

// DecodeCallResult reverses EncodeCallResult.
func DecodeCallResult(encoded string) (*contract.CallInfo, error) {
	var info contract.CallInfo
	if err := decodeDoc(encoded, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func encodeDoc(doc any) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", &DecodeError{Reason: "result is not encodable", Cause: err}
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func decodeDoc(encoded string, out any) error {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return &DecodeError{Reason: "invalid base64 text", Cause: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{Reason: "invalid result payload", Cause: err}
	}
	return nil
}
