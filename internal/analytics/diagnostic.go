package analytics

import "math"

// trendScale turns per-sample slopes of hourly buckets into readable numbers.
const trendScale = 1000

// Heat index is only evaluated at or above these thresholds.
const (
	heatIndexMinTemperature = 27.0
	heatIndexMinHumidity    = 40.0
)

// Correlation returns the Pearson correlation coefficient of x and y.
//
// Series of different length, empty series and constant series all yield 0.
// The value is not rounded; Compute rounds it to 4 decimal places.
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return 0
	}

	n := float64(len(x))
	sumX, sumY, sumXY, sumX2, sumY2 := 0.0, 0.0, 0.0, 0.0, 0.0
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator == 0 || math.IsNaN(denominator) {
		return 0
	}
	return numerator / denominator
}

// Trend returns the least-squares slope of the series against its sample
// index, multiplied by 1000 and rounded to 4 decimal places. Fewer than two
// samples yield 0.
func Trend(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	slope, _, ok := fitLine(series)
	if !ok {
		return 0
	}
	return round4(slope * trendScale)
}

// HeatIndex returns the apparent temperature for a temperature (°C) and
// relative humidity (%). Below 27°C or 40% the temperature is returned as is.
func HeatIndex(temperature, humidity float64) float64 {
	if temperature < heatIndexMinTemperature || humidity < heatIndexMinHumidity {
		return temperature
	}

	t, h := temperature, humidity
	hi := -8.78469475556 +
		1.61139411*t +
		2.33854883889*h +
		-0.14611605*t*h +
		-0.012308094*t*t +
		-0.0164248277778*h*h +
		0.002211732*t*t*h +
		0.00072546*t*h*h +
		-0.000003582*t*t*h*h

	return round2(hi)
}

// fitLine fits y = intercept + slope*i over the sample indices of series.
// ok is false when the fit is undefined (fewer than two samples).
func fitLine(series []float64) (slope, intercept float64, ok bool) {
	n := float64(len(series))

	sumX, sumY, sumXY, sumX2 := 0.0, 0.0, 0.0, 0.0
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return 0, 0, false
	}

	slope = (n*sumXY - sumX*sumY) / denominator
	intercept = (sumY - slope*sumX) / n
	return slope, intercept, true
}
