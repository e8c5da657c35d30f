// Package remap renames and projects the columns of a table.
//
// A remap run is two steps over an in-memory table:
//
//  1. Rename: every column whose name matches a key of the RenameMap takes the
//     mapped name; unmatched columns keep theirs.
//  2. Project: the table is cut down to the Projection, in Projection order.
//
// Rows are never filtered, reordered or rewritten, so the row count and the
// retained cell bytes are the same on both sides. Mode decides what happens
// when a projected column is absent after renaming: Strict fails with a
// *MissingColumnError, Tolerant skips it. Tolerant mode applied to its own
// output yields the same table again.
package remap

import (
	"errors"
	"fmt"
	"strings"

	"trackremap/internal/table"
)

// Mode selects how Project treats projected columns that are absent.
type Mode int

const (
	// Strict fails when any projected column is absent.
	Strict Mode = iota
	// Tolerant skips absent projected columns.
	Tolerant
)

// ParseMode maps "strict" / "tolerant" (case-insensitive) to a Mode. The
// empty string is Strict.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "tolerant", "defensive":
		return Tolerant, nil
	default:
		return Strict, fmt.Errorf("unknown remap mode %q (want strict or tolerant)", s)
	}
}

func (m Mode) String() string {
	if m == Tolerant {
		return "tolerant"
	}
	return "strict"
}

// RenameMap maps source column names to target column names.
type RenameMap map[string]string

// Projection is the ordered list of target columns kept in the output.
type Projection []string

// ErrMissingColumn is matched by errors.Is for any *MissingColumnError.
var ErrMissingColumn = errors.New("required column absent")

// MissingColumnError lists the projected columns absent after renaming, in
// projection order.
type MissingColumnError struct {
	Missing   []string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%v: %s (available: %s)",
		ErrMissingColumn, strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}

// Is makes errors.Is(err, ErrMissingColumn) true.
func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// Spec is a complete remap configuration.
type Spec struct {
	Rename  RenameMap
	Columns Projection
	Mode    Mode
	Match   Match
}

// Validate rejects specs that cannot produce a well-formed header.
func (s Spec) Validate() error {
	if len(s.Columns) == 0 {
		return errors.New("remap: projection is empty")
	}
	seen := make(map[string]struct{}, len(s.Columns))
	for i, c := range s.Columns {
		if c == "" {
			return fmt.Errorf("remap: projection[%d] is empty", i)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("remap: projection lists %q twice", c)
		}
		seen[c] = struct{}{}
	}
	for from, to := range s.Rename {
		if from == "" || to == "" {
			return fmt.Errorf("remap: rename %q -> %q has an empty side", from, to)
		}
	}
	return nil
}

// Result summarizes one Apply call.
type Result struct {
	RowsIn  int
	RowsOut int
	// Renamed holds "source -> target" for every header that was renamed.
	Renamed []string
	// Dropped holds post-rename columns not kept by the projection.
	Dropped []string
	// Skipped holds projected columns absent in Tolerant mode.
	Skipped []string
}

// Rename returns a table whose header has m applied. Rows are shared with t.
func Rename(t *table.Table, m RenameMap, match Match) (*table.Table, []string) {
	lookup := match.index(m)
	cols := make([]string, len(t.Columns))
	var renamed []string
	for i, c := range t.Columns {
		to, ok := lookup[match.key(c)]
		if !ok || to == c {
			cols[i] = c
			continue
		}
		cols[i] = to
		renamed = append(renamed, c+" -> "+to)
	}
	return &table.Table{Columns: cols, Rows: t.Rows}, renamed
}

// Project cuts t down to cols. In Tolerant mode, absent columns are returned
// as the second value; in Strict mode they make the call fail.
func Project(t *table.Table, cols Projection, mode Mode) (*table.Table, []string, error) {
	names := make([]string, 0, len(cols))
	idx := make([]int, 0, len(cols))
	var missing []string
	for _, c := range cols {
		i := t.Index(c)
		if i < 0 {
			missing = append(missing, c)
			continue
		}
		names = append(names, c)
		idx = append(idx, i)
	}
	if len(missing) > 0 && mode == Strict {
		avail := make([]string, len(t.Columns))
		copy(avail, t.Columns)
		return nil, nil, &MissingColumnError{Missing: missing, Available: avail}
	}
	return t.Select(names, idx), missing, nil
}

// Apply renames then projects t according to s.
func Apply(t *table.Table, s Spec) (*table.Table, Result, error) {
	res := Result{RowsIn: t.Len()}

	renamed, pairs := Rename(t, s.Rename, s.Match)
	res.Renamed = pairs

	out, skipped, err := Project(renamed, s.Columns, s.Mode)
	if err != nil {
		return nil, res, err
	}
	res.Skipped = skipped
	res.Dropped = dropped(renamed.Columns, s.Columns)
	res.RowsOut = out.Len()
	return out, res, nil
}

func dropped(have []string, keep Projection) []string {
	k := make(map[string]struct{}, len(keep))
	for _, c := range keep {
		k[c] = struct{}{}
	}
	var out []string
	for _, c := range have {
		if _, ok := k[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}
