// SPDX-License-Identifier: MPL-2.0

package abi

import (
	"encoding/base64"
	"encoding/json"

	"golang.org/x/crypto/sha3"

	"convoke/pkg/contract"
)

// Codec encodes and decodes calls for one contract. Build one with NewCodec;
// after that the codec is purely functional and safe for concurrent use.
type Codec struct {
	contractName string
	table        *selectorTable
}

// NewCodec derives the selector table for every endpoint of the interface.
// It fails with a SelectorCollisionError when two endpoints hash to the
// same selector, including two endpoints with identical canonical
// signatures.
func NewCodec(iface *contract.ContractInterface) (*Codec, error) {
	table := newSelectorTable(len(iface.Endpoints))
	for i := range iface.Endpoints {
		ep := &iface.Endpoints[i]
		sel := selectorFor(ep)
		if err := table.insert(iface.Name, ep.Name, sel); err != nil {
			return nil, err
		}
	}
	return &Codec{contractName: iface.Name, table: table}, nil
}

// selectorFor hashes an endpoint's canonical signature and truncates the
// digest to the selector length.
func selectorFor(ep *contract.EndpointDef) Selector {
	digest := sha3.Sum256([]byte(ep.CanonicalSignature()))
	var sel Selector
	copy(sel[:], digest[:SelectorLen])
	return sel
}

// Selector returns the selector of the named endpoint.
func (c *Codec) Selector(endpoint string) (Selector, error) {
	sel, ok := c.table.selector(endpoint)
	if !ok {
		return Selector{}, &UnknownEndpointError{Contract: c.contractName, Endpoint: endpoint}
	}
	return sel, nil
}

// Endpoints returns the endpoint names known to the codec, sorted.
func (c *Codec) Endpoints() []string {
	return c.table.names()
}

// EncodeCall encodes a call to the named endpoint with the given named
// arguments as base64(selector ++ JSON(arguments)). It fails with an
// UnknownEndpointError before any transport or process interaction when the
// endpoint has no selector.
func (c *Codec) EncodeCall(endpoint string, args map[string]any) (string, error) {
	sel, err := c.Selector(endpoint)
	if err != nil {
		return "", err
	}
	if args == nil {
		args = map[string]any{}
	}
	payload, err := json.Marshal(args)
	if err != nil {
		return "", &DecodeError{Reason: "arguments are not encodable", Cause: err}
	}
	return base64.StdEncoding.EncodeToString(append(sel[:], payload...)), nil
}

// DecodeCall reverses EncodeCall: base64 decode, split off the selector,
// resolve it, and decode the argument mapping. Malformed text, truncated
// payloads, and undecodable arguments are DecodeErrors; a well-formed but
// unknown selector is an UnknownSelectorError.
func (c *Codec) DecodeCall(encoded string) (endpoint string, args map[string]any, err error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, &DecodeError{Reason: "invalid base64 text", Cause: err}
	}
	if len(raw) < SelectorLen {
		return "", nil, &DecodeError{Reason: "payload shorter than a selector"}
	}

	var sel Selector
	copy(sel[:], raw[:SelectorLen])
	endpoint, ok := c.table.endpoint(sel)
	if !ok {
		return "", nil, &UnknownSelectorError{Contract: c.contractName, Selector: sel}
	}

	args = map[string]any{}
	if err := json.Unmarshal(raw[SelectorLen:], &args); err != nil {
		return "", nil, &DecodeError{Reason: "invalid argument payload", Cause: err}
	}
	return endpoint, args, nil
}
