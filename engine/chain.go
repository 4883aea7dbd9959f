/*
chain.go - Work chain tier classification

PURPOSE:
  A chain is a maximal run of contiguous work, the unit of progressive
  overtime accounting. Every minute of a chain gets a 1-based index n;
  the wage tier of minute n is a pure function of (n, Shabbat flag):

    n <= 480         100% / 150%
    480 < n <= 600   125% / 175%
    n > 600          150% / 200%

  Minute offsets may exceed 1440; the weekday and minute-of-day of a
  minute are derived from the chain's base date plus the day offset, so
  minutes after midnight map to the following weekday.

TWO CLASSIFIERS:
  tierMinutesByMinute  reference loop, one iteration per minute
  tierBlocks           block-wise: jumps between boundary minutes
                       (tier thresholds, Shabbat entry/exit, midnight)

  The block-wise form is the production path; tests assert both yield
  identical vectors on every input.

SEE ALSO:
  - aggregate.go: drives the chain state machine per day
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/diyur/wage-engine/calendar"
)

// chainSegment is one work segment inside a chain, in absolute minute
// offsets from the base date's midnight.
type chainSegment struct {
	Start       int
	End         int
	ShiftTypeID int64
}

// =============================================================================
// MINUTE-WISE CLASSIFIER (reference)
// =============================================================================

// tierMinutesByMinute classifies a chain one minute at a time.
func tierMinutesByMinute(segs []chainSegment, base calendar.Date, shabbat ShabbatTable) TierMinutes {
	var tiers TierMinutes
	counter := 0
	for _, seg := range segs {
		for abs := seg.Start; abs < seg.End; abs++ {
			counter++
			dayShift := abs / calendar.MinutesPerDay
			minuteInDay := abs % calendar.MinutesPerDay
			effDate := base.AddDays(dayShift)

			shab := shabbat.IsShabbat(effDate.Weekday(), minuteInDay, effDate)
			tiers.AddMinutes(TierForMinute(counter, shab), 1, shab)
		}
	}
	return tiers
}

// =============================================================================
// BLOCK-WISE CLASSIFIER (production)
// =============================================================================

// tierBlock is a run of chain minutes sharing one tier.
type tierBlock struct {
	Start   int // absolute minute offset, inclusive
	End     int // exclusive
	Rate    string
	Shabbat bool
}

// tierBlocks classifies a chain by computing only the boundary minutes
// where the tier or Shabbat status can change: the 480/600 cumulative
// thresholds, Shabbat entry/exit, and midnight.
func tierBlocks(segs []chainSegment, base calendar.Date, shabbat ShabbatTable) []tierBlock {
	var blocks []tierBlock
	counter := 0

	for _, seg := range segs {
		cur := seg.Start
		for cur < seg.End {
			dayShift := cur / calendar.MinutesPerDay
			minuteInDay := cur % calendar.MinutesPerDay
			effDate := base.AddDays(dayShift)
			weekday := effDate.Weekday()

			shab := shabbat.IsShabbat(weekday, minuteInDay, effDate)
			rate := TierForMinute(counter+1, shab)

			end := seg.End

			// Midnight changes the weekday.
			if dayEnd := (dayShift + 1) * calendar.MinutesPerDay; dayEnd < end {
				end = dayEnd
			}

			// Cumulative tier thresholds.
			if counter < RegularLimit {
				if b := cur + (RegularLimit - counter); b < end {
					end = b
				}
			} else if counter < Overtime125Limit {
				if b := cur + (Overtime125Limit - counter); b < end {
					end = b
				}
			}

			// Shabbat status flips at the window boundary on Friday
			// (entry) and Saturday (exit).
			if weekday == time.Friday || weekday == time.Saturday {
				if boundary := shabbat.boundary(weekday, effDate); minuteInDay < boundary {
					if b := cur + (boundary - minuteInDay); b < end {
						end = b
					}
				}
			}

			blocks = append(blocks, tierBlock{Start: cur, End: end, Rate: rate, Shabbat: shab})
			counter += end - cur
			cur = end
		}
	}
	return blocks
}

// tierMinutesByBlock sums block lengths into the tier vector.
func tierMinutesByBlock(segs []chainSegment, base calendar.Date, shabbat ShabbatTable) TierMinutes {
	var tiers TierMinutes
	for _, b := range tierBlocks(segs, base, shabbat) {
		tiers.AddMinutes(b.Rate, b.End-b.Start, b.Shabbat)
	}
	return tiers
}

// =============================================================================
// DISPLAY ROWS
// =============================================================================

// chainDisplayRows renders a closed chain as display rows, one per
// contiguous run of a single rate, with the break reason on the last
// row and the previous-day continuation flag on the first.
func chainDisplayRows(segs []chainSegment, base calendar.Date, shabbat ShabbatTable, minimumWage decimal.Decimal, breakReason string) []ChainRow {
	blocks := tierBlocks(segs, base, shabbat)
	if len(blocks) == 0 {
		return nil
	}

	var rows []ChainRow
	for _, b := range blocks {
		n := b.End - b.Start
		if len(rows) > 0 {
			last := &rows[len(rows)-1]
			if last.Rate == b.Rate && last.End == b.Start {
				last.End = b.End
				last.Minutes += n
				last.Tiers.AddMinutes(b.Rate, n, b.Shabbat)
				continue
			}
		}
		var tiers TierMinutes
		tiers.AddMinutes(b.Rate, n, b.Shabbat)
		rows = append(rows, ChainRow{
			Start:   b.Start,
			End:     b.End,
			Rate:    b.Rate,
			Minutes: n,
			Tiers:   tiers,
		})
	}

	for i := range rows {
		rows[i].Payment = rows[i].Tiers.Payment(minimumWage).Round(2)
	}
	rows[0].FromPrevDay = segs[0].Start == 0
	rows[len(rows)-1].BreakReason = breakReason
	return rows
}
