package predictive

// Tunables holds the heuristic constants of the analytics functions. A zero
// field means "use the default", so a partially filled value is safe to pass.
type Tunables struct {
	// No-show model, in probability points.
	NoShowHistoryWeight float64 `mapstructure:"noshow_history_weight"`
	LongLeadDays        int     `mapstructure:"long_lead_days"`
	LongLeadPoints      float64 `mapstructure:"long_lead_points"`
	ShortLeadDays       int     `mapstructure:"short_lead_days"`
	ShortLeadPoints     float64 `mapstructure:"short_lead_points"`
	OpenHour            int     `mapstructure:"open_hour"`
	CloseHour           int     `mapstructure:"close_hour"`
	OffHoursPoints      float64 `mapstructure:"off_hours_points"`
	WeekendPoints       float64 `mapstructure:"weekend_points"`
	MondayPoints        float64 `mapstructure:"monday_points"`
	UnpaidPoints        float64 `mapstructure:"unpaid_points"`
	HighRiskAbove       float64 `mapstructure:"high_risk_above"`
	MediumRiskAbove     float64 `mapstructure:"medium_risk_above"`

	// Outbreak detection.
	OutbreakWindowDays    int     `mapstructure:"outbreak_window_days"`
	OutbreakMinConfidence float64 `mapstructure:"outbreak_min_confidence"`
	OutbreakAlertPercent  float64 `mapstructure:"outbreak_alert_percent"`
	OutbreakTopN          int     `mapstructure:"outbreak_top_n"`

	// Revenue forecasting.
	ForecastPeriodDays int `mapstructure:"forecast_period_days"`

	// Retention.
	RetentionActiveDays int `mapstructure:"retention_active_days"`
	RetentionLostDays   int `mapstructure:"retention_lost_days"`
}

func DefaultTunables() Tunables {
	return Tunables{
		NoShowHistoryWeight: 0.40,
		LongLeadDays:        30,
		LongLeadPoints:      15,
		ShortLeadDays:       3,
		ShortLeadPoints:     5,
		OpenHour:            9,
		CloseHour:           17,
		OffHoursPoints:      10,
		WeekendPoints:       8,
		MondayPoints:        5,
		UnpaidPoints:        15,
		HighRiskAbove:       70,
		MediumRiskAbove:     40,

		OutbreakWindowDays:    7,
		OutbreakMinConfidence: 0.5,
		OutbreakAlertPercent:  20,
		OutbreakTopN:          10,

		ForecastPeriodDays: 30,

		RetentionActiveDays: 90,
		RetentionLostDays:   180,
	}
}

func (t Tunables) withDefaults() Tunables {
	d := DefaultTunables()
	setF := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	setI := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	setF(&t.NoShowHistoryWeight, d.NoShowHistoryWeight)
	setI(&t.LongLeadDays, d.LongLeadDays)
	setF(&t.LongLeadPoints, d.LongLeadPoints)
	setI(&t.ShortLeadDays, d.ShortLeadDays)
	setF(&t.ShortLeadPoints, d.ShortLeadPoints)
	setI(&t.OpenHour, d.OpenHour)
	setI(&t.CloseHour, d.CloseHour)
	setF(&t.OffHoursPoints, d.OffHoursPoints)
	setF(&t.WeekendPoints, d.WeekendPoints)
	setF(&t.MondayPoints, d.MondayPoints)
	setF(&t.UnpaidPoints, d.UnpaidPoints)
	setF(&t.HighRiskAbove, d.HighRiskAbove)
	setF(&t.MediumRiskAbove, d.MediumRiskAbove)
	setI(&t.OutbreakWindowDays, d.OutbreakWindowDays)
	setF(&t.OutbreakMinConfidence, d.OutbreakMinConfidence)
	setF(&t.OutbreakAlertPercent, d.OutbreakAlertPercent)
	setI(&t.OutbreakTopN, d.OutbreakTopN)
	setI(&t.ForecastPeriodDays, d.ForecastPeriodDays)
	setI(&t.RetentionActiveDays, d.RetentionActiveDays)
	setI(&t.RetentionLostDays, d.RetentionLostDays)
	return t
}
