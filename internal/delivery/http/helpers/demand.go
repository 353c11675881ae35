package helpers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eventmgt/internal/domain"
)

// DemandDefaults are the server side settings merged into demands built from query strings.
type DemandDefaults struct {
	// StoragePage applies when the request does not name storage pages.
	StoragePage string
	// OrderFieldAllowed is the order_field allow-list. Requests cannot widen it.
	OrderFieldAllowed string
	Timezone          *time.Location
}

// ParseEventDemand builds an EventDemand from the query string of r.
// Malformed values are collected and returned as messages; absent values keep their defaults.
func ParseEventDemand(r *http.Request, defaults DemandDefaults) (*domain.EventDemand, []string) {
	q := r.URL.Query()
	p := &queryParser{q: q}
	d := domain.NewEventDemand()
	d.Timezone = defaults.Timezone
	if d.Timezone == nil {
		d.Timezone = time.UTC
	}

	d.StoragePage = defaults.StoragePage
	if v := q.Get("storage_page"); v != "" {
		d.StoragePage = v
	}
	d.DisplayMode = domain.ParseDisplayMode(q.Get("display_mode"))
	d.Category = q.Get("category")
	d.CategoryConjunction = domain.ParseCategoryConjunction(q.Get("category_conjunction"))
	// An empty conjunction disables the category filter, so a bare category list means "or".
	if d.Category != "" && q.Get("category_conjunction") == "" {
		d.CategoryConjunction = domain.CategoryConjunctionOr
	}
	d.IncludeSubcategories = p.boolParam("include_subcategories")

	switch strings.ToLower(q.Get("top_event_restriction")) {
	case "", "0", "none":
	case "1", "only":
		d.TopEventRestriction = domain.TopEventRestrictionOnly
	case "2", "except":
		d.TopEventRestriction = domain.TopEventRestrictionExcept
	default:
		p.fail("top_event_restriction must be one of none, only, except")
	}

	d.LocationID = p.idParam("location")
	d.LocationCity = q.Get("location_city")
	d.LocationCountry = q.Get("location_country")
	d.SpeakerID = p.idParam("speaker")
	d.OrganisatorID = p.idParam("organisator")

	d.TimeRestrictionLow = q.Get("time_restriction_low")
	d.TimeRestrictionHigh = q.Get("time_restriction_high")
	d.IncludeCurrent = p.boolParam("include_current")

	d.Year = p.intParam("year", 0, 9999)
	d.Month = p.intParam("month", 1, 12)
	d.Day = p.intParam("day", 1, 31)
	if d.Month > 0 && d.Day > domain.DaysInMonth(d.Year, d.Month) {
		p.fail("day %d does not exist in month %d", d.Day, d.Month)
	}

	d.OrderField = q.Get("order_field")
	d.OrderDirection = q.Get("order_direction")
	d.OrderFieldAllowed = defaults.OrderFieldAllowed
	d.QueryLimit = p.intParam("limit", 1, 0)

	if search := q.Get("search"); search != "" || q.Has("start_date") || q.Has("end_date") {
		d.SearchDemand = &domain.SearchDemand{
			Search:    search,
			Fields:    q.Get("search_fields"),
			StartDate: p.dateParam("start_date", d.Timezone, false),
			EndDate:   p.dateParam("end_date", d.Timezone, true),
		}
		if d.SearchDemand.Fields == "" {
			d.SearchDemand.Fields = "title,teaser"
		}
	}
	return d, p.errs
}

// ParseForeignRecordDemand reads storage_page and restrict_to_storage_page.
func ParseForeignRecordDemand(r *http.Request, defaults DemandDefaults) domain.ForeignRecordDemand {
	q := r.URL.Query()
	d := domain.ForeignRecordDemand{StoragePage: defaults.StoragePage}
	if v := q.Get("storage_page"); v != "" {
		d.StoragePage = v
	}
	d.RestrictToStoragePage, _ = strconv.ParseBool(q.Get("restrict_to_storage_page"))
	return d
}

type queryParser struct {
	q    url.Values
	errs []string
}

func (p *queryParser) fail(format string, args ...any) {
	p.errs = append(p.errs, fmt.Sprintf(format, args...))
}

func (p *queryParser) boolParam(key string) bool {
	s := p.q.Get(key)
	if s == "" {
		return false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		p.fail("%s must be a boolean", key)
	}
	return v
}

func (p *queryParser) idParam(key string) *int64 {
	s := p.q.Get(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 1 {
		p.fail("%s must be a positive integer", key)
		return nil
	}
	return &v
}

// intParam parses key within [lo, hi]; hi 0 means no upper bound.
func (p *queryParser) intParam(key string, lo, hi int) int {
	s := p.q.Get(key)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < lo || (hi > 0 && v > hi) {
		if hi > 0 {
			p.fail("%s must be an integer between %d and %d", key, lo, hi)
		} else {
			p.fail("%s must be an integer of at least %d", key, lo)
		}
		return 0
	}
	return v
}

// dateParam accepts RFC 3339 timestamps or plain dates. A plain end date covers the whole day.
func (p *queryParser) dateParam(key string, loc *time.Location, endOfDay bool) *time.Time {
	s := p.q.Get(key)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		p.fail("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", key)
		return nil
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Second)
	}
	return &t
}
