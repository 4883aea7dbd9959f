/*
Package export renders computed wage data into downloadable files.

PURPOSE:
  Turns a monthly roster summary into an xlsx workbook for the payroll
  bureau: one row per person, the tier minute buckets as hours, the
  payment columns in shekels, and a grand total row.

SEE ALSO:
  - engine/types.go: RosterSummary, MonthlyTotals
*/
package export

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/diyur/wage-engine/calendar"
	"github.com/diyur/wage-engine/engine"
)

const sheetName = "סיכום חודשי"

var rosterHeaders = []string{
	"מס' עובד", "שם", "קוד שכר",
	"100%", "125%", "150%", "175%", "200%",
	"שבת 150% (בסיס)", "שבת 150% (תוספת)", "שעות נוספות 150%",
	"סה\"כ שעות",
	"כוננויות", "תשלום כוננות",
	"חופשה (שעות)", "מחלה (שעות)",
	"ימי עבודה", "אחוז משרה",
	"צבירת חופשה", "צבירת מחלה",
	"נסיעות", "תוספות",
	"שכר", "סה\"כ לתשלום",
}

// RosterWorkbook renders a roster summary as an xlsx workbook.
func RosterWorkbook(summary *engine.RosterSummary) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	title := fmt.Sprintf("סיכום שכר %02d/%d (שכר מינימום %s)",
		int(summary.Month), summary.Year, summary.MinimumWage.StringFixed(2))
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return nil, err
	}

	for col, h := range rosterHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}
	if last, err := excelize.CoordinatesToCellName(len(rosterHeaders), 2); err == nil {
		f.SetCellStyle(sheetName, "A2", last, headerStyle)
	}

	row := 3
	for _, r := range summary.Rows {
		if err := writeRosterRow(f, row, r.PersonID, r.Name, r.PayCode, r.Totals); err != nil {
			return nil, err
		}
		row++
	}

	if err := writeRosterRow(f, row, 0, "סה\"כ", "", summary.GrandTotals); err != nil {
		return nil, err
	}
	if first, err := excelize.CoordinatesToCellName(1, row); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(rosterHeaders), row)
		f.SetCellStyle(sheetName, first, last, totalStyle)
	}

	f.SetColWidth(sheetName, "A", "C", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf, nil
}

func writeRosterRow(f *excelize.File, row int, personID int64, name, payCode string, t engine.MonthlyTotals) error {
	var id any
	if personID != 0 {
		id = personID
	}
	values := []any{
		id, name, payCode,
		hours(t.Calc100), hours(t.Calc125), hours(t.Calc150), hours(t.Calc175), hours(t.Calc200),
		hours(t.Calc150ShabbatBase), hours(t.Calc150ShabbatExtra), hours(t.Calc150Overtime),
		hours(t.TotalMinutes),
		t.StandbyCount, money(t.StandbyPayment),
		hours(t.VacationMinutes), hours(t.SickMinutes),
		t.ActualWorkDays, t.JobScopePct,
		t.VacationDaysAccrued, t.SickDaysAccrued,
		money(t.Travel), money(t.Extras),
		money(t.BasePayment), money(t.TotalPayment),
	}
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func hours(minutes int) string {
	return calendar.HoursString(minutes)
}

func money(v decimal.Decimal) string {
	return v.StringFixed(2)
}
