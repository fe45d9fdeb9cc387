package nflverse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// column is one logical field with its ordered list of acceptable header
// aliases. A required column missing under every alias is schema drift and
// fails the parse.
type column struct {
	logical  string
	aliases  []string
	required bool
}

// colIndex maps logical field names to header positions.
type colIndex map[string]int

// resolveHeader matches each column's aliases against the CSV header,
// case-insensitively, first alias wins.
func resolveHeader(hdr []string, cols []column) (colIndex, error) {
	idx := make(colIndex, len(cols))
	for _, c := range cols {
		pos := -1
	aliasLoop:
		for _, a := range c.aliases {
			for i, h := range hdr {
				if strings.EqualFold(strings.TrimSpace(h), a) {
					pos = i
					break aliasLoop
				}
			}
		}
		if pos < 0 {
			if c.required {
				return nil, fmt.Errorf("required column %q missing (aliases %v)", c.logical, c.aliases)
			}
			continue
		}
		idx[c.logical] = pos
	}
	return idx, nil
}

// isNullSentinel reports whether a raw cell encodes absence.
func isNullSentinel(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "nan", "none", "null":
		return true
	}
	return false
}

// str returns the trimmed cell for a logical field, "" when the field is
// unmapped, out of range, or a null sentinel.
func (idx colIndex) str(rec []string, logical string) string {
	i, ok := idx[logical]
	if !ok || i >= len(rec) {
		return ""
	}
	v := strings.TrimSpace(rec[i])
	if isNullSentinel(v) {
		return ""
	}
	return v
}

// floatPtr parses the cell as a float, nil for absent/unparseable.
func (idx colIndex) floatPtr(rec []string, logical string) *float64 {
	v := idx.str(rec, logical)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// intOK parses the cell as an int, ok=false for absent/unparseable.
func (idx colIndex) intOK(rec []string, logical string) (int, bool) {
	v := idx.str(rec, logical)
	if v == "" {
		return 0, false
	}
	// Some feeds serialize integers as "1.0".
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

// intPtr parses the cell as an int, nil for absent/unparseable.
func (idx colIndex) intPtr(rec []string, logical string) *int {
	if n, ok := idx.intOK(rec, logical); ok {
		return &n
	}
	return nil
}

// timePtr parses the cell as a timestamp or date, nil for absent/unparseable.
func (idx colIndex) timePtr(rec []string, logical string) *time.Time {
	v := idx.str(rec, logical)
	if v == "" {
		return nil
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}
