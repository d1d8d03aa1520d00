package analytics

// Defaults used by the dashboard.
const (
	DefaultForecastSteps       = 1
	DefaultMovingAverageWindow = 5
)

// ForecastNext extrapolates the least-squares line through the series
// stepsAhead positions past the last observed index, rounded to 2 decimal
// places. With fewer than two samples the last sample (or 0) is returned.
func ForecastNext(series []float64, stepsAhead int) float64 {
	if len(series) < 2 {
		return Series(series).Last()
	}

	slope, intercept, ok := fitLine(series)
	if !ok {
		return Series(series).Last()
	}

	target := float64(len(series) - 1 + stepsAhead)
	return round2(intercept + slope*target)
}

// MovingAverage returns the mean of the last window samples, rounded to 2
// decimal places. Series shorter than window yield the last sample (or 0).
// A non-positive window falls back to DefaultMovingAverageWindow.
func MovingAverage(series []float64, window int) float64 {
	if window <= 0 {
		window = DefaultMovingAverageWindow
	}
	if len(series) < window {
		return Series(series).Last()
	}
	return round2(Series(series).Tail(window).Mean())
}

// OptimalFanSpeed maps a (temperature, humidity) pair to a fan level.
// Rules are evaluated in order; the first match wins.
func OptimalFanSpeed(temperature, humidity float64) FanSpeed {
	switch {
	case temperature <= 25:
		return FanOff
	case temperature <= 27 && humidity <= 60:
		return FanLow
	case temperature <= 27 || (temperature <= 29 && humidity <= 70):
		return FanMid
	default:
		return FanMax
	}
}
