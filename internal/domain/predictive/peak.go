package predictive

import "time"

// AnalyzePeakHours buckets appointments by local hour and weekday (Sunday is
// 0). Both distributions are always fully populated; ties for the peak go to
// the lowest index.
func AnalyzePeakHours(appts []AppointmentFacts) PeakAnalysis {
	var hours [24]Bucket
	var days [7]Bucket
	for _, a := range appts {
		h := a.ScheduledAt.Hour()
		d := int(a.ScheduledAt.Weekday())
		rev := a.Revenue()
		hours[h].Count++
		hours[h].Revenue += rev
		days[d].Count++
		days[d].Revenue += rev
	}

	pa := PeakAnalysis{
		TotalAppointments:  len(appts),
		HourlyDistribution: make([]HourlyBucket, 24),
		DailyDistribution:  make([]DailyBucket, 7),
	}
	for h, b := range hours {
		pa.HourlyDistribution[h] = HourlyBucket{Hour: h, Bucket: b}
		if b.Count > hours[pa.PeakHour].Count {
			pa.PeakHour = h
		}
	}
	for d, b := range days {
		pa.DailyDistribution[d] = DailyBucket{Day: d, DayName: time.Weekday(d).String(), Bucket: b}
		if b.Count > days[pa.PeakDay].Count {
			pa.PeakDay = d
		}
	}
	pa.PeakDayName = time.Weekday(pa.PeakDay).String()
	return pa
}
