package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"eventmgt/internal/domain"
)

// eventFrom joins the single valued relations so constraints and orderings can reference them.
const eventFrom = `
		FROM events e
		LEFT JOIN locations l ON l.id = e.location_id
		LEFT JOIN organisators o ON o.id = e.organisator_id`

// orderColumns maps demand order fields to SQL expressions. Fields outside this
// map are ignored even when a demand allow-lists them.
var orderColumns = map[string]string{
	"uid":            "e.id",
	"title":          "e.title",
	"teaser":         "e.teaser",
	"startdate":      "e.startdate",
	"enddate":        "e.enddate",
	"price":          "e.price",
	"top_event":      "e.top_event",
	"location.title": "l.title",
	"location.city":  "l.city",
}

// searchColumns maps search demand fields to SQL expressions.
var searchColumns = map[string]string{
	"title":            "e.title",
	"teaser":           "e.teaser",
	"description":      "e.description",
	"program":          "e.program",
	"location.title":   "l.title",
	"location.city":    "l.city",
	"location.country": "l.country",
	"organisator.name": "o.name",
}

const defaultEventOrder = "e.startdate ASC, e.id ASC"

// demandQuery collects the WHERE constraints and positional arguments of a demanded query.
type demandQuery struct {
	where   []string
	args    []any
	orderBy string

	now    time.Time
	nowArg string
}

func (q *demandQuery) arg(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

// nowPlaceholder binds the reference time once and reuses its placeholder.
func (q *demandQuery) nowPlaceholder() string {
	if q.nowArg == "" {
		q.nowArg = q.arg(q.now)
	}
	return q.nowArg
}

func (q *demandQuery) add(cond string) {
	q.where = append(q.where, cond)
}

func (q *demandQuery) whereClause() string {
	if len(q.where) == 0 {
		return ""
	}
	return "\n\t\tWHERE " + strings.Join(q.where, "\n\t\t  AND ")
}

// buildDemandQuery translates the demand into constraints and an ordering.
// Limit and offset are appended by the caller because counting ignores them.
func buildDemandQuery(ctx context.Context, d *domain.EventDemand, categories domain.CategoryExpander) (*demandQuery, error) {
	q := &demandQuery{orderBy: defaultEventOrder, now: d.Now()}

	if ids := d.StoragePageIDs(); len(ids) > 0 {
		q.add("e.pid = ANY(" + q.arg(pq.Array(ids)) + ")")
	}

	if !d.IgnoreEnableFields {
		q.add("e.hidden = false")
		q.add(fmt.Sprintf("(e.starttime IS NULL OR e.starttime <= %s)", q.nowPlaceholder()))
		q.add(fmt.Sprintf("(e.endtime IS NULL OR e.endtime > %s)", q.nowPlaceholder()))
	}

	if err := q.addDisplayMode(d); err != nil {
		return nil, err
	}
	if err := q.addCategories(ctx, d, categories); err != nil {
		return nil, err
	}

	if d.LocationID != nil {
		q.add("e.location_id = " + q.arg(*d.LocationID))
	}
	if d.LocationCity != "" {
		q.add("l.city = " + q.arg(d.LocationCity))
	}
	if d.LocationCountry != "" {
		q.add("l.country = " + q.arg(d.LocationCountry))
	}
	if d.OrganisatorID != nil {
		q.add("e.organisator_id = " + q.arg(*d.OrganisatorID))
	}
	if d.SpeakerID != nil {
		q.add("EXISTS (SELECT 1 FROM event_speakers es WHERE es.event_id = e.id AND es.speaker_id = " + q.arg(*d.SpeakerID) + ")")
	}

	switch d.TopEventRestriction {
	case domain.TopEventRestrictionOnly:
		q.add("e.top_event = true")
	case domain.TopEventRestrictionExcept:
		q.add("e.top_event = false")
	}

	if begin, end, ok := d.YearMonthDayRange(); ok {
		b, en := q.arg(begin), q.arg(end)
		q.add(fmt.Sprintf("((e.startdate >= %[1]s AND e.startdate <= %[2]s) OR (e.enddate >= %[1]s AND e.enddate <= %[2]s) OR (e.startdate <= %[1]s AND e.enddate >= %[2]s))", b, en))
	}

	q.addSearch(d.SearchDemand)

	if d.OrderingAllowed() {
		if col, ok := orderColumns[d.OrderField]; ok {
			dir := "ASC"
			if d.OrderDescending() {
				dir = "DESC"
			}
			q.orderBy = fmt.Sprintf("%s %s NULLS LAST, e.id ASC", col, dir)
		}
	}
	return q, nil
}

func (q *demandQuery) addDisplayMode(d *domain.EventDemand) error {
	switch d.DisplayMode {
	case domain.DisplayModeFuture:
		q.add("e.startdate > " + q.nowPlaceholder())
	case domain.DisplayModeCurrentFuture:
		q.add(fmt.Sprintf("(e.startdate > %[1]s OR (e.enddate >= %[1]s AND e.startdate <= %[1]s))", q.nowPlaceholder()))
	case domain.DisplayModePast:
		q.add(fmt.Sprintf("((e.enddate IS NOT NULL AND e.enddate <= %[1]s) OR (e.enddate IS NULL AND e.startdate <= %[1]s))", q.nowPlaceholder()))
	case domain.DisplayModeTimeRestriction:
		low, high, err := d.TimeRestrictionBounds()
		if err != nil {
			return err
		}
		var bounds []string
		var lowArg string
		if low != nil {
			lowArg = q.arg(*low)
			bounds = append(bounds, "e.startdate >= "+lowArg)
		}
		if high != nil {
			bounds = append(bounds, "e.startdate <= "+q.arg(*high))
		}
		if len(bounds) == 0 {
			return nil
		}
		restriction := "(" + strings.Join(bounds, " AND ") + ")"
		if d.IncludeCurrent && low != nil {
			restriction = fmt.Sprintf("(%s OR (e.startdate < %[2]s AND e.enddate > %[2]s))", restriction, lowArg)
		}
		q.add(restriction)
	}
	return nil
}

func (q *demandQuery) addCategories(ctx context.Context, d *domain.EventDemand, categories domain.CategoryExpander) error {
	if d.CategoryConjunction == domain.CategoryConjunctionNone {
		return nil
	}
	ids := d.CategoryIDs()
	if len(ids) == 0 {
		return nil
	}
	if d.IncludeSubcategories && categories != nil {
		expanded, err := categories.ExpandWithChildren(ctx, ids)
		if err != nil {
			return fmt.Errorf("expand categories: %w", err)
		}
		ids = expanded
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, "EXISTS (SELECT 1 FROM event_categories ec WHERE ec.event_id = e.id AND ec.category_id = "+q.arg(id)+")")
	}
	switch d.CategoryConjunction {
	case domain.CategoryConjunctionOr:
		q.add("(" + strings.Join(parts, " OR ") + ")")
	case domain.CategoryConjunctionNotOr:
		q.add("NOT (" + strings.Join(parts, " OR ") + ")")
	case domain.CategoryConjunctionNotAnd:
		q.add("NOT (" + strings.Join(parts, " AND ") + ")")
	default:
		q.add("(" + strings.Join(parts, " AND ") + ")")
	}
	return nil
}

func (q *demandQuery) addSearch(s *domain.SearchDemand) {
	if s == nil {
		return
	}
	var constraints []string
	if term := strings.TrimSpace(s.Search); term != "" {
		var fields []string
		for _, field := range s.FieldList() {
			if _, ok := searchColumns[field]; ok || field == "speaker.name" {
				fields = append(fields, field)
			}
		}
		if len(fields) > 0 {
			pattern := q.arg("%" + escapeLike(term) + "%")
			fieldConds := make([]string, 0, len(fields))
			for _, field := range fields {
				if field == "speaker.name" {
					fieldConds = append(fieldConds, "EXISTS (SELECT 1 FROM event_speakers es JOIN speakers s ON s.id = es.speaker_id WHERE es.event_id = e.id AND s.name ILIKE "+pattern+")")
					continue
				}
				fieldConds = append(fieldConds, searchColumns[field]+" ILIKE "+pattern)
			}
			constraints = append(constraints, "("+strings.Join(fieldConds, " OR ")+")")
		}
	}
	if s.StartDate != nil {
		constraints = append(constraints, "e.startdate >= "+q.arg(*s.StartDate))
	}
	if s.EndDate != nil {
		constraints = append(constraints, "e.enddate <= "+q.arg(*s.EndDate))
	}
	if len(constraints) > 0 {
		q.add("(" + strings.Join(constraints, " AND ") + ")")
	}
}

// escapeLike escapes the LIKE wildcards and the default escape character.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
