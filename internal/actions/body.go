package actions

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

type FreezeBody struct {
	Message  string `json:"message"`
	Duration Int    `json:"duration"`
	Date     string `json:"date"`
}

type MessageBody struct {
	Message  string `json:"message"`
	Subject  string `json:"subject"`
	Sender   string `json:"sender"`
	DateTime string `json:"dateTime"`
	Priority Int    `json:"priority"`
}

type LostModeBody struct {
	Message     string `json:"message"`
	PhoneNumber string `json:"phoneNumber"`
	Date        string `json:"date"`
	Footnote    string `json:"footnote"`
	Header      string `json:"header"`
}

// Int is a leniently parsed integer held as a float64, the way a browser
// holds numbers. An input with no leading digits is not a number and
// encodes as JSON null.
type Int struct {
	f     float64
	valid bool
}

// ParseInt reads an integer the way a browser's parseInt does: leading
// whitespace, an optional sign, then as many digits as are present ("4h"
// is 4). A 0x prefix selects base 16. Values past 2^53 lose precision.
func ParseInt(s string) Int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}
	end := 0
	for end < len(s) && digitValue(s[end]) < base {
		end++
	}
	if end == 0 {
		return Int{}
	}
	n, ok := new(big.Int).SetString(s[:end], base)
	if !ok {
		return Int{}
	}
	if neg {
		n.Neg(n)
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return Int{f: f, valid: true}
}

// Valid is false for not-a-number input.
func (i Int) Valid() bool { return i.valid }

func (i Int) String() string {
	switch {
	case !i.valid:
		return "NaN"
	case math.IsInf(i.f, 1):
		return "Infinity"
	case math.IsInf(i.f, -1):
		return "-Infinity"
	}
	return formatNumber(i.f)
}

// MarshalJSON writes null for values JSON cannot hold.
func (i Int) MarshalJSON() ([]byte, error) {
	if !i.valid || math.IsInf(i.f, 0) {
		return []byte("null"), nil
	}
	return []byte(formatNumber(i.f)), nil
}

// formatNumber prints f in the shortest form that reads back the same,
// switching to exponent notation from 1e21 on.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if math.Abs(f) >= 1e21 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return 99
	}
}
