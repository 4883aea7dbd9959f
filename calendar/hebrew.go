package calendar

import (
	"fmt"

	"github.com/hebcal/gematriya"
	"github.com/hebcal/hebcal-go/hdate"
)

// HebrewDate renders a civil date as a Hebrew calendar string in the
// traditional form, e.g. "ט״ו בשבט תשפ״ה". Used only for display in
// the per-day breakdown.
func HebrewDate(d Date) string {
	if d.IsZero() {
		return ""
	}
	hd := hdate.FromGregorian(d.Year(), d.Month(), d.Day())
	return fmt.Sprintf("%s ב%s %s",
		gematriya.Gematriya(hd.Day()),
		hd.MonthName("he"),
		gematriya.Gematriya(hd.Year()))
}
