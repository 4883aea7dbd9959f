/*
standby.go - Standby rate resolution and cancellation filter

PURPOSE:
  Two concerns around on-call ("standby") duty:

  1. RateTable: prioritized flat-rate lookup per standby segment
     template. Apartment-type specific rows (priority 10) win over
     general rows (priority 0); absence of both yields the hard
     default. Loaded once per batch and passed explicitly.

  2. Cancellation: a standby segment substantially overlapped by paid
     work (>= 70% of its duration) must not also draw a standby fee.
     Cancelled standbys are kept with a human-readable reason for the
     day breakdown.

SEE ALSO:
  - aggregate.go: runs the filter per day before chain classification
*/
package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/diyur/wage-engine/calendar"
)

// =============================================================================
// RATE TABLE
// =============================================================================

// MaritalStatus converts the person flag to the rate-row key value.
func MaritalStatus(isMarried bool) string {
	if isMarried {
		return "married"
	}
	return "single"
}

type rateKey struct {
	templateID    int64
	apartmentType int64 // 0 when the row has no apartment type
	hasApartment  bool
	marital       string
	priority      int
}

// RateTable is the prioritized standby rate lookup, built from the
// full standby_rates table once per request/batch.
type RateTable map[rateKey]decimal.Decimal

// NewRateTable indexes rate rows for lookup.
func NewRateTable(rows []StandbyRate) RateTable {
	t := make(RateTable, len(rows))
	for _, r := range rows {
		k := rateKey{templateID: r.TemplateID, marital: r.MaritalStatus, priority: r.Priority}
		if r.ApartmentTypeID != nil {
			k.apartmentType = *r.ApartmentTypeID
			k.hasApartment = true
		}
		t[k] = r.Amount
	}
	return t
}

// Resolve returns the standby rate for a segment template given the
// person's apartment type and marital status. Priority 10 (apartment
// specific) wins over priority 0 (general); neither present yields the
// hard default. Never fails.
func (t RateTable) Resolve(templateID int64, apartmentTypeID *int64, isMarried bool) decimal.Decimal {
	marital := MaritalStatus(isMarried)

	if apartmentTypeID != nil {
		k := rateKey{
			templateID:    templateID,
			apartmentType: *apartmentTypeID,
			hasApartment:  true,
			marital:       marital,
			priority:      10,
		}
		if amount, ok := t[k]; ok {
			return amount
		}
	}

	k := rateKey{templateID: templateID, marital: marital, priority: 0}
	if amount, ok := t[k]; ok {
		return amount
	}

	return DefaultStandbyRate
}

// =============================================================================
// CANCELLATION FILTER
// =============================================================================

// DedupSegments drops segments sharing an identical (start, end) with
// an earlier one, keeping the first. Duplicate source rows otherwise
// double-count overlap and minutes.
func DedupSegments(segments []DaySegment) []DaySegment {
	seen := make(map[[2]int]bool, len(segments))
	out := segments[:0:0]
	for _, s := range segments {
		key := [2]int{s.Start, s.End}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// FilterStandby removes standby segments absorbed by paid work: if the
// summed overlap with the day's work segments reaches
// StandbyCancelThreshold of the standby's duration, the standby is
// cancelled. Zero/negative-duration standbys are dropped outright.
// Both inputs should already be deduplicated.
func FilterStandby(standby, work []DaySegment) (kept []DaySegment, cancelled []CancelledStandby) {
	for _, sb := range standby {
		duration := sb.Duration()
		if duration <= 0 {
			continue
		}

		totalOverlap := 0
		for _, w := range work {
			totalOverlap += calendar.Overlap(sb.Start, sb.End, w.Start, w.End)
		}

		ratio := float64(totalOverlap) / float64(duration)
		if ratio >= StandbyCancelThreshold {
			pct := int(ratio * 100)
			cancelled = append(cancelled, CancelledStandby{
				Start:      sb.Start,
				End:        sb.End,
				OverlapPct: pct,
				Reason:     fmt.Sprintf("חפיפה עם עבודה (%d%%)", pct),
			})
			continue
		}
		kept = append(kept, sb)
	}
	return kept, cancelled
}

// sortSegments orders segments chronologically by start minute,
// stably, so equal starts keep source order.
func sortSegments(segments []DaySegment) {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})
}
