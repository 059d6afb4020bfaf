package predictive

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary   = "Summary"
	sheetHourly    = "Hourly"
	sheetDaily     = "Daily"
	sheetOutbreaks = "Outbreaks"
)

// WriteDashboardXLSX renders the dashboard as a workbook with one summary
// sheet and one sheet per distribution.
func WriteDashboardXLSX(w io.Writer, d *Dashboard) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}
	for _, name := range []string{sheetHourly, sheetDaily, sheetOutbreaks} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	summary := [][]interface{}{
		{"Metric", "Value"},
		{"Generated at", d.GeneratedAt.Format(time.RFC3339)},
		{"Revenue forecast", d.Revenue.ForecastAmount},
		{"Daily average revenue", d.Revenue.DailyAverage},
		{"Revenue trend", string(d.Revenue.Trend)},
		{"Trend percentage", d.Revenue.TrendPercentage},
		{"Forecast confidence", d.Revenue.Confidence},
		{"Forecast period (days)", d.Revenue.PeriodDays},
		{"Peak hour", d.PeakHours.PeakHour},
		{"Peak day", d.PeakHours.PeakDayName},
		{"Appointments analyzed", d.PeakHours.TotalAppointments},
		{"Total patients", d.Retention.TotalPatients},
		{"Active patients", d.Retention.ActivePatients},
		{"At-risk patients", d.Retention.AtRiskPatients},
		{"Lost patients", d.Retention.LostPatients},
		{"Retention rate", d.Retention.RetentionRate},
		{"Upcoming appointments", d.NoShow.Upcoming},
		{"High no-show risk", d.NoShow.High},
		{"Average no-show probability", d.NoShow.AverageProbability},
		{"Outbreak alert", d.Outbreaks.Alert},
	}
	if err := writeRows(f, sheetSummary, summary); err != nil {
		return err
	}

	hourly := [][]interface{}{{"Hour", "Appointments", "Revenue"}}
	for _, b := range d.PeakHours.HourlyDistribution {
		hourly = append(hourly, []interface{}{b.Hour, b.Count, b.Revenue})
	}
	if err := writeRows(f, sheetHourly, hourly); err != nil {
		return err
	}

	daily := [][]interface{}{{"Day", "Appointments", "Revenue"}}
	for _, b := range d.PeakHours.DailyDistribution {
		daily = append(daily, []interface{}{b.DayName, b.Count, b.Revenue})
	}
	if err := writeRows(f, sheetDaily, daily); err != nil {
		return err
	}

	outbreaks := [][]interface{}{{"Disease", "Cases", "Percentage"}}
	for _, p := range d.Outbreaks.Patterns {
		outbreaks = append(outbreaks, []interface{}{p.Disease, p.Cases, p.Percentage})
	}
	if err := writeRows(f, sheetOutbreaks, outbreaks); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
