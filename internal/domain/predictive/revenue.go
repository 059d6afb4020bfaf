package predictive

import "math"

// trendThreshold is the half-over-half change, in percent, beyond which a
// series counts as growing or declining.
const trendThreshold = 5.0

// ForecastRevenue projects revenue over the next periodDays from the most
// recent periodDays points of a chronologically sorted daily series.
func ForecastRevenue(series []RevenuePoint, periodDays int) RevenueForecast {
	if periodDays <= 0 {
		periodDays = DefaultTunables().ForecastPeriodDays
	}
	if len(series) == 0 {
		return RevenueForecast{Trend: TrendInsufficientData, PeriodDays: periodDays}
	}
	if len(series) > periodDays {
		series = series[len(series)-periodDays:]
	}

	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Revenue
	}
	avg := mean(values)

	mid := len(values) / 2
	firstMean := mean(values[:mid])
	secondMean := mean(values[mid:])
	trendPct := 0.0
	if firstMean != 0 {
		trendPct = (secondMean - firstMean) / firstMean * 100
	}

	trend := TrendStable
	switch {
	case trendPct > trendThreshold:
		trend = TrendGrowing
	case trendPct < -trendThreshold:
		trend = TrendDeclining
	}

	cv := 0.0
	if avg != 0 {
		cv = stdDev(values, avg) / avg * 100
	}

	return RevenueForecast{
		ForecastAmount:  avg * float64(periodDays) * (1 + trendPct/100),
		DailyAverage:    avg,
		Trend:           trend,
		TrendPercentage: trendPct,
		Confidence:      clamp(100-cv, 0, 100),
		PeriodDays:      periodDays,
		DataPoints:      len(values),
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the population standard deviation around avg.
func stdDev(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sq float64
	for _, v := range values {
		d := v - avg
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}
