package petfood

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PathMeta holds the identifiers resolved from a snapshot's file name and
// directory path. Resolution is pure and idempotent: the same path always
// yields the same PathMeta. Malformed components resolve to zero values,
// never to an error: a snapshot with an unrecognized name still gets a
// record, just with absent provenance fields.
type PathMeta struct {
	ASIN       string
	SearchTerm string
	ScrapeDate string // YYYY-MM-DD
	ScrapeTime string // HH:MM:SS
	ScrapeHour string // HH
	PageNumber int
	Run        RunKey
}

var (
	asinPrefixRE    = regexp.MustCompile(`^([A-Z0-9]{10})_`)
	compactStampRE  = regexp.MustCompile(`_(\d{8})_(\d{6})\.html$`)
	dashedStampRE   = regexp.MustCompile(`_(\d{4}-\d{2}-\d{2})_(\d{2}-\d{2}-\d{2})\.html$`)
	pageTokenRE     = regexp.MustCompile(`page(\d+)`)
	dateDirRE       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	hourMinuteDirRE = regexp.MustCompile(`^\d{2}-\d{2}$`)
	secondsStampRE  = regexp.MustCompile(`_(\d{2})-(\d{2})-(\d{2})\.html$`)
)

// ResolveProductPath derives metadata from a product snapshot file name.
// Two naming conventions are accepted, first match wins:
//
//	ASIN_YYYYMMDD_HHMMSS.html
//	ASIN_YYYY-MM-DD_HH-MM-SS.html
//
// An unrecognized timestamp suffix yields absent date and time fields.
// The search term is not derivable from a product file name; callers fill
// it in from the enclosing term directory.
func ResolveProductPath(path string) PathMeta {
	filename := filepath.Base(path)

	var meta PathMeta
	if m := asinPrefixRE.FindStringSubmatch(filename); m != nil {
		meta.ASIN = m[1]
	}

	if m := compactStampRE.FindStringSubmatch(filename); m != nil {
		// Validate through time.Parse so impossible dates fall through
		// to absent rather than producing a nonsense timestamp.
		if ts, err := time.Parse("20060102_150405", m[1]+"_"+m[2]); err == nil {
			meta.ScrapeDate = ts.Format("2006-01-02")
			meta.ScrapeTime = ts.Format("15:04:05")
			meta.ScrapeHour = ts.Format("15")
		}
		return meta
	}

	if m := dashedStampRE.FindStringSubmatch(filename); m != nil {
		clock := strings.ReplaceAll(m[2], "-", ":")
		if ts, err := time.Parse("2006-01-02 15:04:05", m[1]+" "+clock); err == nil {
			meta.ScrapeDate = ts.Format("2006-01-02")
			meta.ScrapeTime = ts.Format("15:04:05")
			meta.ScrapeHour = ts.Format("15")
		}
	}

	return meta
}

// ResolveListingPath derives metadata from a listing snapshot path of the
// form root/<term-slug>/<date>/<hour-minute>/<slug>_pageN_HH-MM-SS.html.
// Path segments are scanned rather than indexed positionally so captures
// nested under extra directories still resolve. Missing components yield
// zero values.
func ResolveListingPath(root, path string) PathMeta {
	var meta PathMeta
	meta.PageNumber = 1

	rel := path
	if root != "" {
		if r, err := filepath.Rel(root, path); err == nil {
			rel = r
		}
	}
	segments := strings.Split(filepath.ToSlash(rel), "/")

	if len(segments) > 1 {
		meta.SearchTerm = TermFromSlug(segments[0])
	}

	var hourMinute string
	for _, seg := range segments {
		switch {
		case meta.ScrapeDate == "" && dateDirRE.MatchString(seg):
			meta.ScrapeDate = seg
		case hourMinute == "" && hourMinuteDirRE.MatchString(seg):
			hourMinute = seg
		}
	}

	filename := segments[len(segments)-1]
	if meta.SearchTerm == "" {
		// Fall back to the slug prefix of the file name itself.
		if i := strings.Index(filename, "_"); i > 0 {
			meta.SearchTerm = TermFromSlug(filename[:i])
		}
	}

	if m := pageTokenRE.FindStringSubmatch(filename); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			meta.PageNumber = n
		}
	}

	if hourMinute != "" {
		meta.ScrapeHour = hourMinute[:2]
		if m := secondsStampRE.FindStringSubmatch(filename); m != nil {
			meta.ScrapeTime = strings.ReplaceAll(hourMinute, "-", ":") + ":" + m[3]
		}
	}

	meta.Run = RunKey{Date: meta.ScrapeDate, Time: hourMinute}
	return meta
}

// Slug converts a search term to its directory name: every
// non-alphanumeric character becomes an underscore.
func Slug(term string) string {
	var b strings.Builder
	b.Grow(len(term))
	for _, r := range term {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// TermFromSlug restores a search term from its directory name.
func TermFromSlug(slug string) string {
	return strings.TrimSpace(strings.ReplaceAll(slug, "_", " "))
}
