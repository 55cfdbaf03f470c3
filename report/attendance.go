// Package report renders attendance data into downloadable workbooks.
package report

import (
	"math"
	"sort"

	"github.com/xuri/excelize/v2"
	"smartlock.io/smartlock/model"
	"smartlock.io/smartlock/utils"
)

const (
	summarySheet = "Summary"
	recordsSheet = "Records"
)

var recordHeaders = []string{
	"User", "Date", "Check In", "Check Out", "Status",
	"Location", "Break (h)", "Total (h)", "Overtime (h)",
}

var summaryHeaders = []string{
	"User", "Days", "Present", "Late", "Total (h)", "Overtime (h)",
}

// BuildAttendanceWorkbook produces a two-sheet workbook: a per-user summary
// and the raw records behind it. Rows are ordered by user then date so the
// output is stable for a given input.
func BuildAttendanceWorkbook(records []model.AttendanceRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), summarySheet)
	if _, err := f.NewSheet(recordsSheet); err != nil {
		return nil, err
	}

	byUser := utils.GroupBy(records, func(r model.AttendanceRecord) string { return r.UserID })
	users := make([]string, 0, len(byUser))
	for user := range byUser {
		users = append(users, user)
	}
	sort.Strings(users)

	if err := writeRow(f, summarySheet, 1, summaryHeaders); err != nil {
		return nil, err
	}
	for i, user := range users {
		rows := byUser[user]
		var present, late int
		var hours, overtime float64
		for _, r := range rows {
			switch r.Status {
			case model.AttendanceLate:
				late++
			case model.AttendancePresent:
				present++
			}
			hours += r.TotalHours
			overtime += r.Overtime
		}
		cells := []any{user, len(rows), present, late, round2(hours), round2(overtime)}
		if err := writeRow(f, summarySheet, i+2, cells); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, recordsSheet, 1, recordHeaders); err != nil {
		return nil, err
	}
	row := 2
	for _, user := range users {
		rows := byUser[user]
		sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
		for _, r := range rows {
			checkOut := ""
			if r.CheckOut != nil {
				checkOut = r.CheckOut.Format("15:04")
			}
			cells := []any{
				r.UserID, r.Date, r.CheckIn.Format("15:04"), checkOut, r.Status,
				r.WorkLocation, r.BreakTime, r.TotalHours, r.Overtime,
			}
			if err := writeRow(f, recordsSheet, row, cells); err != nil {
				return nil, err
			}
			row++
		}
	}

	return f, nil
}

func writeRow[T any](f *excelize.File, sheet string, row int, values []T) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
