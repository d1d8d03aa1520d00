package analytics

import "errors"

// ErrNoData is returned by Compute when there is nothing to analyse.
var ErrNoData = errors.New("no data available for analytics")

// Input is the data handed to Compute. The three series are expected to be
// parallel (same length, same order) but nothing breaks if they are not:
// correlations of mismatched series are 0.
type Input struct {
	Temperature []float64
	Humidity    []float64
	FanSpeed    []float64

	// Latest is the most recent observation, used for the heat index.
	Latest Pair

	// RealtimeCount and DatasetCount are reported back in DataPoints.
	RealtimeCount int
	DatasetCount  int
}

// Options tunes the predictive part of Compute.
type Options struct {
	ForecastSteps       int
	MovingAverageWindow int
}

// DefaultOptions returns the options used by the dashboard.
func DefaultOptions() Options {
	return Options{
		ForecastSteps:       DefaultForecastSteps,
		MovingAverageWindow: DefaultMovingAverageWindow,
	}
}

// Report is the aggregate analytics result. Its JSON shape is consumed by the
// dashboard front end and must stay stable.
type Report struct {
	Descriptive Descriptive `json:"descriptive"`
	Diagnostic  Diagnostic  `json:"diagnostic"`
	Predictive  Predictive  `json:"predictive"`
	DataPoints  DataPoints  `json:"dataPoints"`
}

type Descriptive struct {
	Temperature Stats `json:"temperature"`
	Humidity    Stats `json:"humidity"`
	FanSpeed    Stats `json:"fanSpeed"`
}

type Diagnostic struct {
	Correlations Correlations `json:"correlations"`
	Trends       PairValues   `json:"trends"`
	HeatIndex    float64      `json:"heatIndex"`
}

type Correlations struct {
	TempHumidity     float64 `json:"tempHumidity"`
	TempFanSpeed     float64 `json:"tempFanSpeed"`
	HumidityFanSpeed float64 `json:"humidityFanSpeed"`
}

type Predictive struct {
	Forecast        PairValues `json:"forecast"`
	MovingAverages  PairValues `json:"movingAverages"`
	OptimalFanSpeed FanSpeed   `json:"optimalFanSpeed"`
}

// PairValues holds one derived value for temperature and one for humidity.
type PairValues struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

type DataPoints struct {
	Total    int `json:"total"`
	Realtime int `json:"realtime"`
	Dataset  int `json:"dataset"`
}

// Compute runs every statistic over in. An empty temperature series returns
// ErrNoData without computing anything; otherwise each statistic falls back to
// its own default where the data is too thin.
func Compute(in Input, opts Options) (*Report, error) {
	if len(in.Temperature) == 0 {
		return nil, ErrNoData
	}
	if opts.ForecastSteps == 0 {
		opts.ForecastSteps = DefaultForecastSteps
	}
	if opts.MovingAverageWindow <= 0 {
		opts.MovingAverageWindow = DefaultMovingAverageWindow
	}

	forecast := PairValues{
		Temperature: ForecastNext(in.Temperature, opts.ForecastSteps),
		Humidity:    ForecastNext(in.Humidity, opts.ForecastSteps),
	}

	return &Report{
		Descriptive: Descriptive{
			Temperature: DescriptiveStats(in.Temperature),
			Humidity:    DescriptiveStats(in.Humidity),
			FanSpeed:    DescriptiveStats(in.FanSpeed),
		},
		Diagnostic: Diagnostic{
			Correlations: Correlations{
				TempHumidity:     round4(Correlation(in.Temperature, in.Humidity)),
				TempFanSpeed:     round4(Correlation(in.Temperature, in.FanSpeed)),
				HumidityFanSpeed: round4(Correlation(in.Humidity, in.FanSpeed)),
			},
			Trends: PairValues{
				Temperature: Trend(in.Temperature),
				Humidity:    Trend(in.Humidity),
			},
			HeatIndex: HeatIndex(in.Latest.Temperature, in.Latest.Humidity),
		},
		Predictive: Predictive{
			Forecast: forecast,
			MovingAverages: PairValues{
				Temperature: MovingAverage(in.Temperature, opts.MovingAverageWindow),
				Humidity:    MovingAverage(in.Humidity, opts.MovingAverageWindow),
			},
			// Classify the forecast, not the latest reading.
			OptimalFanSpeed: OptimalFanSpeed(forecast.Temperature, forecast.Humidity),
		},
		DataPoints: DataPoints{
			Total:    len(in.Temperature),
			Realtime: in.RealtimeCount,
			Dataset:  in.DatasetCount,
		},
	}, nil
}
