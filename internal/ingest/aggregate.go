package ingest

import (
	"sort"
	"strings"
	"time"

	"github.com/climadash/climadash/internal/analytics"
	"github.com/climadash/climadash/internal/models"
	"github.com/climadash/climadash/internal/utils"
)

// Record is one parsed per-minute row of a device export
type Record struct {
	Datetime    time.Time
	Temperature float64
	Humidity    float64
	Mode        int
	Speed       int
	OpTime      int
	ESpent      float64
	ESaved      float64
}

// ParseRecords converts CSV rows to records. Rows whose datetime is empty or
// unparseable are skipped and counted; other numeric cells fall back to 0.
func ParseRecords(rows []Row, loc *time.Location) (records []Record, skipped int) {
	records = make([]Record, 0, len(rows))
	for _, row := range rows {
		raw := strings.TrimSpace(row[ColumnDatetime])
		if raw == "" {
			skipped++
			continue
		}
		dt, err := ParseDateTime(raw, loc)
		if err != nil {
			skipped++
			continue
		}

		records = append(records, Record{
			Datetime:    dt,
			Temperature: utils.ParseFloatOr(row[ColumnTemperature], 0),
			Humidity:    utils.ParseFloatOr(row[ColumnHumidity], 0),
			Mode:        utils.ParseIntOr(row[ColumnMode], 0),
			Speed:       utils.ParseIntOr(row[ColumnSpeed], 0),
			OpTime:      utils.ParseIntOr(row[ColumnOpTime], 0),
			ESpent:      utils.ParseFloatOr(row[ColumnESpent], 0),
			ESaved:      utils.ParseFloatOr(row[ColumnESaved], 0),
		})
	}
	return records, skipped
}

// Aggregator buckets records by local hour
type Aggregator struct {
	loc *time.Location
	now func() time.Time
}

// NewAggregator creates an aggregator bucketing in loc
func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{loc: loc, now: time.Now}
}

// AggregateByHour reduces records to one dataset bucket per local hour.
//
// Each bucket carries the mean temperature and humidity, the modal speed and
// mode (ties go to the larger value), summed opTime, eSpent and eSaved, and
// the datetime of the record at index n/2 of the hour in input order.
// Buckets are returned sorted by datetime.
func (a *Aggregator) AggregateByHour(records []Record, roomType, fanNumber string) []*models.DatasetReading {
	if len(records) == 0 {
		return nil
	}

	groups := make(map[time.Time][]Record)
	for _, r := range records {
		t := r.Datetime.In(a.loc)
		key := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, a.loc)
		groups[key] = append(groups[key], r)
	}

	createdAt := a.now()
	buckets := make([]*models.DatasetReading, 0, len(groups))
	for _, group := range groups {
		buckets = append(buckets, summarize(group, roomType, fanNumber, createdAt))
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Datetime.Before(buckets[j].Datetime)
	})
	return buckets
}

func summarize(group []Record, roomType, fanNumber string, createdAt time.Time) *models.DatasetReading {
	var (
		tempSum, humSum float64
		eSpent, eSaved  float64
		opTime          int
	)
	speeds := make(map[int]int)
	modes := make(map[int]int)
	for _, r := range group {
		tempSum += r.Temperature
		humSum += r.Humidity
		opTime += r.OpTime
		eSpent += r.ESpent
		eSaved += r.ESaved
		speeds[r.Speed]++
		modes[r.Mode]++
	}

	n := float64(len(group))
	return &models.DatasetReading{
		RoomType:    roomType,
		FanNumber:   fanNumber,
		Datetime:    group[len(group)/2].Datetime,
		Temperature: analytics.Round(tempSum/n, 2),
		Humidity:    analytics.Round(humSum/n, 2),
		Mode:        modal(modes),
		Speed:       modal(speeds),
		OpTime:      opTime,
		ESpent:      analytics.Round(eSpent, 2),
		ESaved:      analytics.Round(eSaved, 2),
		Source:      utils.SourceDataset,
		CreatedAt:   createdAt,
	}
}

// modal returns the most frequent value; ties go to the larger value
func modal(counts map[int]int) int {
	best, bestCount := 0, -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v > best) {
			best, bestCount = v, c
		}
	}
	return best
}
