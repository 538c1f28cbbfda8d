package etl

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/JustJay7/legal-case-db/internal/database"
	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet data row keyed by trimmed header. Empty cells are
// absent, never "".
type Row struct {
	Line  int
	cells map[string]string
}

func NewRow(line int, cells map[string]string) Row {
	clean := make(map[string]string, len(cells))
	for k, v := range cells {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		clean[k] = v
	}
	return Row{Line: line, cells: clean}
}

// Empty reports whether the row has no values at all.
func (r Row) Empty() bool {
	return len(r.cells) == 0
}

func (r Row) Raw(col string) (string, bool) {
	v, ok := r.cells[col]
	return v, ok
}

func (r Row) String(col string) *string {
	v, ok := r.cells[col]
	if !ok {
		return nil
	}
	return &v
}

// Int accepts "12" and the float rendering "12.0" spreadsheets produce.
func (r Row) Int(col string) (*int, error) {
	v, ok := r.cells[col]
	if !ok {
		return nil, nil
	}
	n, err := parseInt(v)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", col, err)
	}
	return &n, nil
}

func (r Row) Date(col string) (*database.Date, error) {
	v, ok := r.cells[col]
	if !ok {
		return nil, nil
	}
	d, err := parseDate(v)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", col, err)
	}
	return &d, nil
}

// Bool treats absent, 0, false and no as false and anything else as true.
func (r Row) Bool(col string) bool {
	v, ok := r.cells[col]
	if !ok {
		return false
	}
	switch strings.ToLower(v) {
	case "0", "0.0", "false", "f", "no", "n":
		return false
	}
	return true
}

func parseInt(v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return int(f), nil
}

var dateLayouts = []string{
	database.DateLayout,
	"1/2/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseDate accepts an Excel serial date or one of dateLayouts.
func parseDate(v string) (database.Date, error) {
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return database.Date{}, fmt.Errorf("invalid date %q: %w", v, err)
		}
		return database.NewDate(t), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return database.NewDate(t), nil
		}
	}

	return database.Date{}, fmt.Errorf("invalid date %q", v)
}

// ParseList turns a multi-value cell such as "'Fraud','housing'" into
// ["Fraud", "Housing"]. Values are title-cased before duplicates are removed,
// so "fraud" and "FRAUD" collapse into one. First-seen order is kept.
func ParseList(raw string) []string {
	cleaned := strings.NewReplacer("'", "", `"`, "").Replace(raw)

	seen := make(map[string]struct{})
	var out []string
	for _, item := range strings.Split(cleaned, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		item = titleCase(item)
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// parseLegacyList splits a legacy metadata string without changing case.
func parseLegacyList(raw string) []string {
	cleaned := strings.NewReplacer("'", "", `"`, "").Replace(raw)

	seen := make(map[string]struct{})
	var out []string
	for _, item := range strings.Split(cleaned, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// titleCase upper-cases the first cased letter after any uncased character
// and lower-cases the rest: "o'neil v. ACME" -> "O'Neil V. Acme".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevCased := false
	for _, r := range s {
		cased := unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
		switch {
		case cased && prevCased:
			b.WriteRune(unicode.ToLower(r))
		case cased:
			b.WriteRune(unicode.ToTitle(r))
		default:
			b.WriteRune(r)
		}
		prevCased = cased
	}
	return b.String()
}
