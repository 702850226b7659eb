// Package forms collects and validates the input of the two edit dialogs.
package forms

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrInvalid is returned by Submit when the form has field errors.
var ErrInvalid = errors.New("form has errors")

// FieldErrors maps a field name to its message.
type FieldErrors map[string]string

func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

func (fe FieldErrors) Get(field string) string {
	return fe[field]
}

var errNotFinite = errors.New("number must be finite")

// parseNumber reads an optional numeric field. present is false for blank input.
// NaN and the infinities are rejected.
func parseNumber(raw string) (value float64, present bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	value, err = strconv.ParseFloat(raw, 64)
	if err == nil && (math.IsNaN(value) || math.IsInf(value, 0)) {
		return 0, true, errNotFinite
	}
	return value, true, err
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
