package domain

import (
	"strconv"
	"strings"
	"time"
)

// DisplayMode selects the temporal bucket of a listing.
type DisplayMode string

const (
	DisplayModeAll             DisplayMode = "all"
	DisplayModePast            DisplayMode = "past"
	DisplayModeFuture          DisplayMode = "future"
	DisplayModeCurrentFuture   DisplayMode = "current_future"
	DisplayModeTimeRestriction DisplayMode = "time_restriction"
)

// ParseDisplayMode maps s to a DisplayMode. Unknown values select all events.
func ParseDisplayMode(s string) DisplayMode {
	switch DisplayMode(strings.ToLower(strings.TrimSpace(s))) {
	case DisplayModePast:
		return DisplayModePast
	case DisplayModeFuture:
		return DisplayModeFuture
	case DisplayModeCurrentFuture:
		return DisplayModeCurrentFuture
	case DisplayModeTimeRestriction:
		return DisplayModeTimeRestriction
	default:
		return DisplayModeAll
	}
}

// CategoryConjunction is the logical combination applied across category filters.
// The zero value disables category filtering.
type CategoryConjunction string

const (
	CategoryConjunctionNone   CategoryConjunction = ""
	CategoryConjunctionAnd    CategoryConjunction = "and"
	CategoryConjunctionOr     CategoryConjunction = "or"
	CategoryConjunctionNotAnd CategoryConjunction = "notand"
	CategoryConjunctionNotOr  CategoryConjunction = "notor"
)

// ParseCategoryConjunction maps s to a CategoryConjunction; unknown values disable the filter.
func ParseCategoryConjunction(s string) CategoryConjunction {
	switch c := CategoryConjunction(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryConjunctionAnd, CategoryConjunctionOr, CategoryConjunctionNotAnd, CategoryConjunctionNotOr:
		return c
	default:
		return CategoryConjunctionNone
	}
}

// TopEventRestriction limits a listing by the top event flag.
type TopEventRestriction int

const (
	TopEventRestrictionNone TopEventRestriction = iota
	TopEventRestrictionOnly
	TopEventRestrictionExcept
)

// SearchDemand holds the free text and date range part of a search form.
type SearchDemand struct {
	Search    string
	Fields    string
	StartDate *time.Time
	EndDate   *time.Time
}

// FieldList returns the trimmed, non-empty entries of Fields.
func (s *SearchDemand) FieldList() []string {
	return splitTrim(s.Fields)
}

// EventDemand controls which events FindDemanded returns.
type EventDemand struct {
	// StoragePage is a comma separated list of storage page ids. Empty means no restriction.
	StoragePage string
	DisplayMode DisplayMode
	// CurrentDateTime is the reference time for display modes; zero means time.Now.
	CurrentDateTime time.Time

	Category             string
	CategoryConjunction  CategoryConjunction
	IncludeSubcategories bool

	TopEventRestriction TopEventRestriction

	LocationID      *int64
	LocationCity    string
	LocationCountry string
	SpeakerID       *int64
	OrganisatorID   *int64

	TimeRestrictionLow  string
	TimeRestrictionHigh string
	IncludeCurrent      bool

	Year  int
	Month int
	Day   int

	OrderField        string
	OrderFieldAllowed string
	OrderDirection    string

	QueryLimit int
	Offset     int

	IgnoreEnableFields bool

	SearchDemand *SearchDemand

	// Timezone is used for year/month/day and relative time restrictions; nil means UTC.
	Timezone *time.Location
}

// NewEventDemand returns a demand listing all events.
func NewEventDemand() *EventDemand {
	return &EventDemand{DisplayMode: DisplayModeAll}
}

// Now returns the reference time of the demand.
func (d *EventDemand) Now() time.Time {
	if d.CurrentDateTime.IsZero() {
		return time.Now().In(d.Location())
	}
	return d.CurrentDateTime
}

// Location returns the demand timezone.
func (d *EventDemand) Location() *time.Location {
	if d.Timezone == nil {
		return time.UTC
	}
	return d.Timezone
}

// StoragePageIDs returns the storage page ids; an empty result means no restriction.
func (d *EventDemand) StoragePageIDs() []int64 {
	return ParseIntList(d.StoragePage)
}

// CategoryIDs returns the requested category ids.
func (d *EventDemand) CategoryIDs() []int64 {
	return ParseIntList(d.Category)
}

// OrderFieldAllowedList returns the fields the demand may be ordered by.
func (d *EventDemand) OrderFieldAllowedList() []string {
	return splitTrim(d.OrderFieldAllowed)
}

// OrderingAllowed reports whether OrderField and OrderDirection are set and the field is allow-listed.
func (d *EventDemand) OrderingAllowed() bool {
	if d.OrderField == "" || d.OrderDirection == "" {
		return false
	}
	for _, f := range d.OrderFieldAllowedList() {
		if f == d.OrderField {
			return true
		}
	}
	return false
}

// OrderDescending reports whether the requested direction is descending.
func (d *EventDemand) OrderDescending() bool {
	return strings.EqualFold(strings.TrimSpace(d.OrderDirection), "desc")
}

// DaysInMonth returns the number of days in month. Without a year (year <= 0)
// February counts 29 days.
func DaysInMonth(year, month int) int {
	if year <= 0 {
		year = 2000
	}
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// YearMonthDayRange returns the inclusive interval selected by Year, Month and Day.
// ok is false when no year is set. Month and day narrow the interval when positive.
func (d *EventDemand) YearMonthDayRange() (begin, end time.Time, ok bool) {
	if d.Year <= 0 {
		return time.Time{}, time.Time{}, false
	}
	loc := d.Location()
	switch {
	case d.Month > 0 && d.Day > 0:
		begin = time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
		end = time.Date(d.Year, time.Month(d.Month), d.Day, 23, 59, 59, 0, loc)
	case d.Month > 0:
		begin = time.Date(d.Year, time.Month(d.Month), 1, 0, 0, 0, 0, loc)
		// Day 0 of the following month is the last day of this one.
		end = time.Date(d.Year, time.Month(d.Month)+1, 0, 23, 59, 59, 0, loc)
	default:
		begin = time.Date(d.Year, time.January, 1, 0, 0, 0, 0, loc)
		end = time.Date(d.Year, time.December, 31, 23, 59, 59, 0, loc)
	}
	return begin, end, true
}

// TimeRestrictionBounds parses the time restriction values against the demand reference time.
// A nil bound is unset. Unparseable values return an error wrapping ErrInvalidInput.
func (d *EventDemand) TimeRestrictionBounds() (low, high *time.Time, err error) {
	now := d.Now()
	if strings.TrimSpace(d.TimeRestrictionLow) != "" {
		t, err := ParseTimeRestriction(d.TimeRestrictionLow, now, d.Location())
		if err != nil {
			return nil, nil, err
		}
		low = &t
	}
	if strings.TrimSpace(d.TimeRestrictionHigh) != "" {
		t, err := ParseTimeRestriction(d.TimeRestrictionHigh, now, d.Location())
		if err != nil {
			return nil, nil, err
		}
		high = &t
	}
	return low, high, nil
}

// ForeignRecordDemand controls listings of locations, speakers, organisators and categories.
type ForeignRecordDemand struct {
	StoragePage           string
	RestrictToStoragePage bool
}

// StoragePageIDs returns the ids to restrict to, or nil when no restriction applies.
func (d ForeignRecordDemand) StoragePageIDs() []int64 {
	if !d.RestrictToStoragePage {
		return nil
	}
	return ParseIntList(d.StoragePage)
}

// ParseIntList splits a comma separated list into ids. Non-numeric entries are dropped.
func ParseIntList(s string) []int64 {
	var ids []int64
	for _, part := range splitTrim(s) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func splitTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
