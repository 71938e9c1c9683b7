package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned for output formats that are not exactly one
// each of YYYY, MM and DD.
var ErrInvalidFormat = errors.New("invalid date format")

// DefaultFormat is used when no output format is configured.
const DefaultFormat = "DD-MM-YYYY"

const formatSeparators = "-/. "

type formatToken int

const (
	tokenYear formatToken = iota
	tokenMonth
	tokenDay
)

var formatTokens = map[string]formatToken{
	"YYYY": tokenYear,
	"MM":   tokenMonth,
	"DD":   tokenDay,
}

// Formatter renders DateKeys as display strings.
type Formatter struct {
	layout    string
	order     [3]formatToken
	separator string
}

// ParseFormat validates a layout such as "DD-MM-YYYY" or "YYYY/MM/DD".
// separator overrides the one found in the layout when non-empty.
func ParseFormat(layout, separator string) (Formatter, error) {
	idx := strings.IndexAny(layout, formatSeparators)
	if idx < 0 {
		return Formatter{}, fmt.Errorf("%w: %q has no separator", ErrInvalidFormat, layout)
	}
	sep := layout[idx : idx+1]
	parts := strings.Split(layout, sep)
	if len(parts) != 3 {
		return Formatter{}, fmt.Errorf("%w: %q must have exactly three parts", ErrInvalidFormat, layout)
	}

	f := Formatter{layout: layout, separator: sep}
	if separator != "" {
		f.separator = separator
	}
	seen := make(map[formatToken]bool, 3)
	for i, part := range parts {
		tok, ok := formatTokens[part]
		if !ok {
			return Formatter{}, fmt.Errorf("%w: unknown part %q in %q", ErrInvalidFormat, part, layout)
		}
		if seen[tok] {
			return Formatter{}, fmt.Errorf("%w: part %q repeated in %q", ErrInvalidFormat, part, layout)
		}
		seen[tok] = true
		f.order[i] = tok
	}
	return f, nil
}

// Layout returns the layout the formatter was parsed from.
func (f Formatter) Layout() string { return f.layout }

// Separator returns the separator placed between fields.
func (f Formatter) Separator() string { return f.separator }

// Format renders d with zero-padded fields and a one-based month.
func (f Formatter) Format(d DateKey) string {
	var b strings.Builder
	for i, tok := range f.order {
		if i > 0 {
			b.WriteString(f.separator)
		}
		switch tok {
		case tokenYear:
			b.WriteString(pad(d.Year, 4))
		case tokenMonth:
			b.WriteString(pad(int(d.Month)+1, 2))
		case tokenDay:
			b.WriteString(pad(d.Day, 2))
		}
	}
	return b.String()
}

func pad(n, width int) string {
	s := strconv.Itoa(n)
	for len(s) < width {
		s = "0" + s
	}
	return s
}
