package service

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// parseRefID reads a row reference given as a JSON integer or a string holding
// one. Anything that cannot name an existing row reports false.
func parseRefID(raw json.RawMessage) (uint, bool) {
	if isNull(raw) {
		return 0, false
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}

	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// parseQuantity accepts only a JSON integer greater than zero and defaults
// to 1 when the field is absent.
func parseQuantity(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 1, nil
	}
	invalid := newErr(ErrValidation, "Quantity must be a positive integer.")

	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, invalid
	}
	num, ok := v.(json.Number)
	if !ok {
		return 0, invalid
	}
	n, err := strconv.ParseInt(num.String(), 10, 32)
	if err != nil || n <= 0 {
		return 0, invalid
	}
	return int(n), nil
}

// parseStock accepts a JSON integer or a string holding one.
func parseStock(raw json.RawMessage) (int, error) {
	if isNull(raw) {
		return 0, newErr(ErrValidation, "Stock value not provided.")
	}
	invalid := newErr(ErrValidation, "Invalid stock value.")

	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, invalid
	}

	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0, invalid
	}

	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, invalid
	}
	if n < 0 {
		return 0, newErr(ErrValidation, "Stock cannot be negative.")
	}
	return int(n), nil
}

// parseAvailability accepts a JSON bool or a string such as "true" or "0".
func parseAvailability(raw json.RawMessage) (bool, error) {
	if isNull(raw) {
		return false, newErr(ErrValidation, "Availability status not provided.")
	}
	invalid := newErr(ErrValidation, "Invalid availability value.")

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, invalid
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, invalid
		}
		return b, nil
	default:
		return false, invalid
	}
}
