package models

import (
	"strings"
	"time"
)

// Fan speed names reported by devices
const (
	FanSpeedOff = "OFF"
	FanSpeedLow = "LOW"
	FanSpeedMid = "MID"
	FanSpeedMax = "MAX"
)

var fanSpeedPercent = map[string]int{
	FanSpeedOff: 0,
	FanSpeedLow: 33,
	FanSpeedMid: 66,
	FanSpeedMax: 100,
}

// SensorReading is a realtime reading posted by a device.
type SensorReading struct {
	Temperature float64   `json:"temperature" bson:"temperature"`
	Humidity    float64   `json:"humidity" bson:"humidity"`
	FanSpeed    string    `json:"fanSpeed" bson:"fanSpeed"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// FanSpeedPercent returns the reading's fan speed as a percentage.
func (r *SensorReading) FanSpeedPercent() int {
	return FanSpeedPercent(r.FanSpeed)
}

// Time returns the reading's insertion time, or its timestamp for readings
// stored without one.
func (r *SensorReading) Time() time.Time {
	if !r.CreatedAt.IsZero() {
		return r.CreatedAt
	}
	return r.Timestamp
}

// DatasetReading is one hourly bucket produced by the dataset loader.
type DatasetReading struct {
	RoomType    string    `json:"roomType" bson:"roomType"`
	FanNumber   string    `json:"fanNumber" bson:"fanNumber"`
	Datetime    time.Time `json:"datetime" bson:"datetime"`
	Temperature float64   `json:"temperature" bson:"temperature"`
	Humidity    float64   `json:"humidity" bson:"humidity"`
	Mode        int       `json:"mode" bson:"mode"`
	Speed       int       `json:"speed" bson:"speed"`
	OpTime      int       `json:"opTime" bson:"opTime"`
	ESpent      float64   `json:"eSpent" bson:"eSpent"`
	ESaved      float64   `json:"eSaved" bson:"eSaved"`
	Source      string    `json:"source" bson:"source"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// ParseFanSpeed normalizes a fan speed name. Empty input means OFF.
func ParseFanSpeed(s string) (string, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return FanSpeedOff, true
	}
	if _, ok := fanSpeedPercent[name]; !ok {
		return "", false
	}
	return name, true
}

// FanSpeedPercent converts a fan speed name to a percentage.
// Unrecognized names are treated as full speed.
func FanSpeedPercent(name string) int {
	if p, ok := fanSpeedPercent[strings.ToUpper(name)]; ok {
		return p
	}
	return 100
}
