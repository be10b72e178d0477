// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package forms binds submitted form values into typed structs and
// validates them field by field. Each form keeps the raw strings the user
// typed so a failed submission can be re-rendered exactly as entered.
package forms

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation messages.
const (
	msgRequired      = "Este campo es obligatorio."
	msgMaxLength     = "Asegúrese de que este valor tenga como máximo %d caracteres (tiene %d)."
	msgNumber        = "Introduzca un número."
	msgMaxDigits     = "Asegúrese de que no haya más de %d dígitos en total."
	msgMaxDecimals   = "Asegúrese de que no haya más de %d decimales."
	msgMaxWhole      = "Asegúrese de que no haya más de %d dígitos antes del punto decimal."
	MsgInvalidChoice = "Escoja una opción válida. Esa opción no está entre las disponibles."

	// MsgDuplicateName is reported on the name field when persistence
	// rejects a name that already exists.
	MsgDuplicateName = "Ya existe un registro con este nombre."
)

// Errors maps a field name to its validation message.
type Errors map[string]string

// Add records msg for field unless the field already has an error.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Get returns the message for field, or "".
func (e Errors) Get(field string) string {
	return e[field]
}

// Valid reports whether no errors were recorded.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// checkText trims s, enforces required, and enforces a rune limit.
func checkText(errs Errors, field, s string, required bool, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		if required {
			errs.Add(field, msgRequired)
		}
		return s
	}
	if n := utf8.RuneCountInString(s); n > max {
		errs.Add(field, fmt.Sprintf(msgMaxLength, max, n))
	}
	return s
}

// checkDecimal parses s as a signed fixed-point number with at most
// maxDigits digits, of which at most places follow the decimal point.
// Returns ok=false (and records an error) when s is present but invalid.
func checkDecimal(errs Errors, field, s string, maxDigits, places int) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !looksDecimal(s) {
		errs.Add(field, msgNumber)
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		errs.Add(field, msgNumber)
		return decimal.Decimal{}, false
	}

	digits, decimals := digitCounts(d)
	switch {
	case digits > maxDigits:
		errs.Add(field, fmt.Sprintf(msgMaxDigits, maxDigits))
		return d, false
	case decimals > places:
		errs.Add(field, fmt.Sprintf(msgMaxDecimals, places))
		return d, false
	case digits-decimals > maxDigits-places:
		errs.Add(field, fmt.Sprintf(msgMaxWhole, maxDigits-places))
		return d, false
	}
	return d, true
}

// looksDecimal accepts an optional sign, digits with at most one point,
// and an optional exponent ("1e3", "2.5E-1"). Separators, "NaN" and
// "Infinity" are rejected.
func looksDecimal(s string) bool {
	mantissa, exp, hasExp := strings.Cut(strings.ToLower(s), "e")
	if hasExp {
		exp = trimSign(exp)
		if exp == "" || strings.Trim(exp, "0123456789") != "" {
			return false
		}
	}
	mantissa = trimSign(mantissa)
	if mantissa == "" || mantissa == "." {
		return false
	}
	point := false
	for _, r := range mantissa {
		switch {
		case r == '.' && !point:
			point = true
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// trimSign drops one leading "+" or "-".
func trimSign(s string) string {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		return s[1:]
	}
	return s
}

// digitCounts returns the total significant digits and the digits after
// the point, counting trailing zeros as typed ("10.50" has 4 and 2).
func digitCounts(d decimal.Decimal) (digits, decimals int) {
	coef := d.Coefficient()
	coef.Abs(coef)
	n := len(coef.String())
	exp := int(d.Exponent())

	if exp >= 0 {
		if coef.Sign() == 0 {
			return 1, 0
		}
		return n + exp, 0
	}
	decimals = -exp
	if decimals > n {
		return decimals, decimals
	}
	return n, decimals
}

// parseID parses a positive database id. Empty input yields 0, false.
func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// formatID renders an id for a form field, with 0 as "".
func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
