// Package analytics turns hourly sensor series (temperature, humidity, fan
// speed) into descriptive, diagnostic and predictive statistics.
//
// Every function in this package is pure: inputs are never modified, results
// are freshly allocated and degenerate input (empty, too short, constant or
// mismatched series) yields a fixed fallback value instead of an error.
package analytics

import "math"

// Series is an ordered (chronologically ascending) sequence of samples for a
// single physical quantity.
type Series []float64

// Len returns the number of samples
func (s Series) Len() int {
	return len(s)
}

// Sum returns the sum of all samples
func (s Series) Sum() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum
}

// Mean returns the arithmetic mean, or 0 for an empty series
func (s Series) Mean() float64 {
	if len(s) == 0 {
		return 0
	}
	return s.Sum() / float64(len(s))
}

// Last returns the most recent sample, or 0 for an empty series
func (s Series) Last() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// Tail returns the last n samples. The result aliases s.
func (s Series) Tail(n int) Series {
	if n >= len(s) {
		return s
	}
	if n <= 0 {
		return Series{}
	}
	return s[len(s)-n:]
}

// Pair is a single (temperature, humidity) observation.
type Pair struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// FanSpeed is a fan power level encoded as a percentage.
type FanSpeed int

const (
	FanOff FanSpeed = 0
	FanLow FanSpeed = 33
	FanMid FanSpeed = 66
	FanMax FanSpeed = 100
)

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func round2(v float64) float64 { return Round(v, 2) }

func round4(v float64) float64 { return Round(v, 4) }
