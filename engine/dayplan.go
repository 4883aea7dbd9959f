/*
dayplan.go - Daily segment builder

PURPOSE:
  Turns raw reports plus shift segment templates into a calendar-day
  keyed list of typed, timed segments. This is where overnight shifts
  split across midnight, where abstract templates are aligned to the
  concrete report, and where every reported minute is guaranteed to be
  accounted for.

ALIGNMENT RULE:
  A template whose relative start precedes the report's own start is
  re-anchored forward by 1440 minutes: it logically belongs after
  midnight (e.g. the 06:30-08:00 closing slice of a 16:00-08:00 shift).
  Minutes of a report part covered by no template flow into a default
  100% work segment, so a report starting before its first template
  keeps its leading minutes rather than dropping them.

COVERAGE INVARIANT:
  For every report part, the summed durations of its derived segments
  equal the part's duration exactly.

SEE ALSO:
  - aggregate.go: consumes the plan day by day
*/
package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/diyur/wage-engine/calendar"
)

// Legacy substring markers for sick/vacation shift names. Used only
// when a report carries no explicit classification.
const (
	legacySickMarker     = "מחלה"
	legacyVacationMarker = "חופשה"
)

// classify returns the effective classification of a report: the
// explicit field when set, otherwise the legacy shift-name match.
func classify(r TimeReport) ReportClass {
	if r.Class != ClassRegular {
		return r.Class
	}
	if strings.Contains(r.ShiftName, legacySickMarker) {
		return ClassSick
	}
	if strings.Contains(r.ShiftName, legacyVacationMarker) {
		return ClassVacation
	}
	return ClassRegular
}

// relabelKind maps a template kind through the report classification:
// sick/vacation reports relabel every derived segment.
func relabelKind(templated SegmentKind, class ReportClass) SegmentKind {
	switch class {
	case ClassSick:
		return KindSick
	case ClassVacation:
		return KindVacation
	default:
		return templated
	}
}

// reportPart is one single-date slice of a report: [Start, End) in the
// date's local minutes. The second part of an overnight report starts
// at 0 on the following date.
type reportPart struct {
	Date      calendar.Date
	Start     int
	End       int
	SecondDay bool
}

// splitReport resolves the report span and splits it at midnight.
func splitReport(r TimeReport) (parts []reportPart, rStart, rEnd int, err error) {
	rStart, rEnd, err = calendar.SpanMinutes(r.StartClock, r.EndClock)
	if err != nil {
		return nil, 0, 0, err
	}
	if rEnd <= calendar.MinutesPerDay {
		parts = append(parts, reportPart{Date: r.Date, Start: rStart, End: rEnd})
		return parts, rStart, rEnd, nil
	}
	parts = append(parts,
		reportPart{Date: r.Date, Start: rStart, End: calendar.MinutesPerDay},
		reportPart{Date: r.Date.AddDays(1), Start: 0, End: rEnd - calendar.MinutesPerDay, SecondDay: true},
	)
	return parts, rStart, rEnd, nil
}

// BuildDailyPlan builds the calendar-day map of segments for all
// reports of a person, restricted to the requested month. Reports
// missing a start, end, or shift type are skipped (incomplete data is
// a quality condition, not a fault), as are reports whose times fail
// to parse.
func BuildDailyPlan(reports []TimeReport, templates map[int64][]SegmentTemplate, year int, month time.Month) []DayEntry {
	byDate := make(map[string]*DayEntry)

	for _, r := range reports {
		if r.StartClock == "" || r.EndClock == "" || r.ShiftTypeID == 0 {
			continue
		}

		parts, rStart, rEnd, err := splitReport(r)
		if err != nil {
			continue
		}
		crossesMidnight := rEnd > calendar.MinutesPerDay

		segList := templates[r.ShiftTypeID]
		if len(segList) == 0 {
			// No templates: one synthetic 100% work span over the
			// report's own times.
			segList = []SegmentTemplate{{
				ShiftTypeID: r.ShiftTypeID,
				StartClock:  r.StartClock,
				EndClock:    r.EndClock,
				Kind:        KindWork,
				WagePercent: 100,
			}}
		}

		class := classify(r)

		for _, part := range parts {
			if !part.Date.InMonth(year, month) {
				continue
			}

			entry := byDate[part.Date.String()]
			if entry == nil {
				entry = &DayEntry{Date: part.Date}
				byDate[part.Date.String()] = entry
			}

			covered := make([][2]int, 0, len(segList))

			for _, tpl := range segList {
				tStart, tEnd, err := calendar.SpanMinutes(tpl.StartClock, tpl.EndClock)
				if err != nil {
					continue
				}

				// Re-anchor templates that belong after midnight so
				// they don't collide with the pre-midnight portion.
				if crossesMidnight && tStart < rStart {
					tStart += calendar.MinutesPerDay
					tEnd += calendar.MinutesPerDay
				}

				// Express in the part's local day coordinates.
				if part.SecondDay {
					tStart -= calendar.MinutesPerDay
					tEnd -= calendar.MinutesPerDay
				}

				overlap := calendar.Overlap(part.Start, part.End, tStart, tEnd)
				if overlap <= 0 {
					continue
				}

				effStart := max(tStart, part.Start)
				effEnd := min(tEnd, part.End)
				covered = append(covered, [2]int{effStart, effEnd})

				pct := tpl.WagePercent
				if pct == 0 {
					pct = 100
				}

				entry.Segments = append(entry.Segments, DaySegment{
					Start:           effStart,
					End:             effEnd,
					Kind:            relabelKind(tpl.Kind, class),
					WageLabel:       fmt.Sprintf("%d%%", pct),
					ShiftTypeID:     r.ShiftTypeID,
					TemplateID:      tpl.ID,
					ApartmentTypeID: r.ApartmentTypeID,
					IsMarried:       r.IsMarried,
				})
			}

			// Uncovered minutes default to plain 100% work, keeping the
			// coverage invariant: every reported minute is accounted for.
			for _, gap := range uncoveredGaps(part.Start, part.End, covered) {
				entry.Segments = append(entry.Segments, DaySegment{
					Start:           gap[0],
					End:             gap[1],
					Kind:            relabelKind(KindWork, class),
					WageLabel:       Tier100,
					ShiftTypeID:     r.ShiftTypeID,
					ApartmentTypeID: r.ApartmentTypeID,
					IsMarried:       r.IsMarried,
				})
			}
		}
	}

	days := make([]DayEntry, 0, len(byDate))
	for _, entry := range byDate {
		sortSegments(entry.Segments)
		days = append(days, *entry)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days
}

// uncoveredGaps returns the sub-intervals of [start, end) not covered
// by any of the given intervals.
func uncoveredGaps(start, end int, covered [][2]int) [][2]int {
	if len(covered) == 0 {
		if end > start {
			return [][2]int{{start, end}}
		}
		return nil
	}

	sort.Slice(covered, func(i, j int) bool { return covered[i][0] < covered[j][0] })

	var gaps [][2]int
	cursor := start
	for _, iv := range covered {
		if iv[0] > cursor {
			lo, hi := cursor, min(iv[0], end)
			if hi > lo {
				gaps = append(gaps, [2]int{lo, hi})
			}
		}
		if iv[1] > cursor {
			cursor = iv[1]
		}
		if cursor >= end {
			break
		}
	}
	if cursor < end {
		gaps = append(gaps, [2]int{cursor, end})
	}
	return gaps
}
