package scrape

import (
	"regexp"
	"strconv"
	"time"

	"kitchencar/internal/nameform"
)

// Venue sites write dates every way imaginable: "8/31", "２０２６/８/３１",
// "8月31日", "8/31(日)", "毎週月曜日". Everything here parses against the
// normalized (NFKC, halfwidth) form.

var (
	// year optional; separator slash or kanji; weekday annotations after the
	// day are simply not consumed.
	mdPattern        = regexp.MustCompile(`(?:(\d{4})[/年])?(\d{1,2})[/月](\d{1,2})`)
	recurringPattern = regexp.MustCompile(`毎週([月火水木金土日])曜`)
)

var kanjiWeekdays = map[string]time.Weekday{
	"日": time.Sunday,
	"月": time.Monday,
	"火": time.Tuesday,
	"水": time.Wednesday,
	"木": time.Thursday,
	"金": time.Friday,
	"土": time.Saturday,
}

// ParseWeekday maps a kanji weekday expression ("月", "月曜", "月曜日") to its
// weekday. Only the leading character decides.
func ParseWeekday(s string) (time.Weekday, bool) {
	runes := []rune(nameform.Normalize(s))
	if len(runes) == 0 {
		return 0, false
	}
	wd, ok := kanjiWeekdays[string(runes[0])]
	return wd, ok
}

// ParseDate extracts the first numeric date expression in s. A missing year
// is inferred from ref's year. Day-of-week annotations after the numeric
// date ("8/31(日)") are ignored, per observed venue markup: the annotation is
// frequently wrong, the number is not. Returns false when s holds no date.
func ParseDate(s string, ref time.Time) (time.Time, bool) {
	normalized := nameform.Normalize(s)
	m := mdPattern.FindStringSubmatch(normalized)
	if m == nil {
		return time.Time{}, false
	}
	year := ref.Year()
	if m[1] != "" {
		year, _ = strconv.Atoi(m[1])
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, ref.Location()), true
}

// ParseRecurring recognizes "毎週X曜…" recurrence expressions and returns the
// weekday they repeat on.
func ParseRecurring(s string) (time.Weekday, bool) {
	m := recurringPattern.FindStringSubmatch(nameform.Normalize(s))
	if m == nil {
		return 0, false
	}
	wd, ok := kanjiWeekdays[m[1]]
	return wd, ok
}
