package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// SensorDataView is the JSON shape of a realtime reading
type SensorDataView struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	FanSpeed    string  `json:"fanSpeed"`
	Timestamp   string  `json:"timestamp"`
}

// SensorDataResponse is returned by both sensor-data endpoints
type SensorDataResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    SensorDataView `json:"data"`
}

// HistoryPoint is one chart point of the history endpoint
type HistoryPoint struct {
	Time        string  `json:"time"`      // HH:MM in the configured timezone
	Timestamp   string  `json:"timestamp"` // RFC3339
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	FanSpeed    int     `json:"fanSpeed"` // percent
	Source      string  `json:"source"`
}

// HistoryResponse represents history query response
type HistoryResponse struct {
	Success bool           `json:"success"`
	Data    []HistoryPoint `json:"data"`
	Count   int            `json:"count"`
}

// AnalyticsResponse wraps an analytics report. Analytics is null when there
// is no dataset to analyse.
type AnalyticsResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Analytics interface{} `json:"analytics"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ISOTimeFormat renders timestamps in UTC with millisecond precision
const ISOTimeFormat = "2006-01-02T15:04:05.000Z"

// NewSensorDataView renders a reading for the sensor-data endpoints
func NewSensorDataView(r SensorReading) SensorDataView {
	return SensorDataView{
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		FanSpeed:    r.FanSpeed,
		Timestamp:   r.Timestamp.UTC().Format(ISOTimeFormat),
	}
}
