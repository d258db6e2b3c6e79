package petfood

import (
	"sort"
	"strings"
)

// RunKey identifies one scheduled capture pass: the date and hour-minute
// directory pair the snapshots were saved under. A run spans every search
// term captured in that pass.
type RunKey struct {
	Date string // YYYY-MM-DD
	Time string // HH-MM
}

// String renders the key in the run_<date>_<hour-minute> file naming form.
func (k RunKey) String() string {
	return k.Date + "_" + k.Time
}

// IsZero reports whether the key is unset.
func (k RunKey) IsZero() bool {
	return k.Date == "" && k.Time == ""
}

// Less imposes chronological ordering on run keys. Date and time strings
// are zero-padded, so lexicographic comparison is chronological.
func (k RunKey) Less(other RunKey) bool {
	if k.Date != other.Date {
		return k.Date < other.Date
	}
	return k.Time < other.Time
}

// ParseRunKey parses a YYYY-MM-DD_HH-MM run identifier.
func ParseRunKey(s string) (RunKey, error) {
	i := strings.LastIndex(s, "_")
	if i < 0 {
		return RunKey{}, Errorf(EINVALID, "run key %q must be YYYY-MM-DD_HH-MM", s)
	}
	key := RunKey{Date: s[:i], Time: s[i+1:]}
	if !dateDirRE.MatchString(key.Date) || !hourMinuteDirRE.MatchString(key.Time) {
		return RunKey{}, Errorf(EINVALID, "run key %q must be YYYY-MM-DD_HH-MM", s)
	}
	return key, nil
}

// Run is the ordered sequence of listing records extracted for one
// (search term, run key) pair.
type Run struct {
	Key     RunKey
	Term    string
	Records []*ListingRecord
}

// GroupByRun folds listing records into runs keyed by (search term, run
// key). Records keep their input order within each run, so positions
// remain the document order they were extracted in. Runs are returned
// sorted by key, then term, making the fold deterministic regardless of
// input interleaving across terms.
func GroupByRun(records []*ListingRecord) []*Run {
	type groupKey struct {
		key  RunKey
		term string
	}

	groups := make(map[groupKey]*Run)
	for _, rec := range records {
		gk := groupKey{key: rec.RunKey(), term: rec.SearchTerm}
		run, ok := groups[gk]
		if !ok {
			run = &Run{Key: gk.key, Term: gk.term}
			groups[gk] = run
		}
		run.Records = append(run.Records, rec)
	}

	runs := make([]*Run, 0, len(groups))
	for _, run := range groups {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Key != runs[j].Key {
			return runs[i].Key.Less(runs[j].Key)
		}
		return runs[i].Term < runs[j].Term
	})
	return runs
}
