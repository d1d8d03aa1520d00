package ingest

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/metrics"
	"github.com/climadash/climadash/internal/models"
	"github.com/climadash/climadash/internal/store"
	"github.com/climadash/climadash/internal/utils"
)

// LoaderConfig configures a dataset Loader
type LoaderConfig struct {
	BatchSize int
	Clear     bool // remove existing dataset buckets before loading
	Location  *time.Location
}

// FileSummary reports the outcome of loading one export
type FileSummary struct {
	File      string
	RoomType  string
	FanNumber string
	Parsed    int
	Skipped   int
	Buckets   int
	Inserted  int
	Reduction int // percent of parsed records folded away by aggregation
}

// Summary reports the outcome of LoadDir
type Summary struct {
	Files    []FileSummary
	Cleared  int64
	Inserted int
}

// Loader reads device CSV exports, aggregates them by hour and writes the
// buckets to the store.
type Loader struct {
	store      store.Store
	cfg        LoaderConfig
	aggregator *Aggregator
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// NewLoader creates a loader. m may be nil.
func NewLoader(s store.Store, cfg LoaderConfig, logger *logging.Logger, m *metrics.Metrics) *Loader {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = utils.DefaultBatchSize
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if logger == nil {
		logger = logging.Global()
	}
	return &Loader{
		store:      s,
		cfg:        cfg,
		aggregator: NewAggregator(cfg.Location),
		logger:     logger,
		metrics:    m,
	}
}

// LoadDir loads every *.csv file in dir, in name order
func (l *Loader) LoadDir(ctx context.Context, dir string) (*Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		files = append(files, e.Name())
	}
	l.logger.Info("Found dataset files", "dir", dir, "count", len(files))

	summary := &Summary{}
	if l.cfg.Clear {
		cleared, err := l.store.ClearDataset(ctx)
		if err != nil {
			l.metrics.StoreError("clear_dataset")
			return nil, fmt.Errorf("failed to clear dataset: %w", err)
		}
		summary.Cleared = cleared
		l.logger.Info("Cleared dataset", "removed", cleared)
	}

	for _, name := range files {
		fs, err := l.LoadFile(ctx, filepath.Join(dir, name))
		if fs != nil {
			summary.Files = append(summary.Files, *fs)
			summary.Inserted += fs.Inserted
		}
		if err != nil {
			return summary, err
		}
	}

	l.logger.Info("Dataset loading completed", "files", len(summary.Files), "inserted", summary.Inserted)
	return summary, nil
}

// LoadFile loads a single export. On an insert failure the returned summary
// counts the buckets inserted before it.
func (l *Loader) LoadFile(ctx context.Context, path string) (*FileSummary, error) {
	name := filepath.Base(path)
	roomType, fanNumber := ParseFileName(name)
	fs := &FileSummary{File: name, RoomType: roomType, FanNumber: fanNumber}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	records, skipped := ParseRecords(rows, l.cfg.Location)
	fs.Parsed = len(records)
	fs.Skipped = skipped
	if skipped > 0 {
		l.metrics.ReadingRejected("invalid_datetime")
	}

	buckets := l.aggregator.AggregateByHour(records, roomType, fanNumber)
	fs.Buckets = len(buckets)
	fs.Reduction = reduction(fs.Parsed, fs.Buckets)

	l.logger.Info("Aggregated dataset file",
		"file", name,
		"parsed", fs.Parsed,
		"skipped", fs.Skipped,
		"buckets", fs.Buckets,
		"reduction_pct", fs.Reduction,
	)

	for start := 0; start < len(buckets); start += l.cfg.BatchSize {
		end := start + l.cfg.BatchSize
		if end > len(buckets) {
			end = len(buckets)
		}
		n, err := l.insertBatch(ctx, buckets[start:end])
		fs.Inserted += n
		if err != nil {
			return fs, fmt.Errorf("failed to insert %s batch at %d: %w", name, start, err)
		}
	}

	l.logger.Info("Inserted dataset file", "file", name, "inserted", fs.Inserted)
	return fs, nil
}

func (l *Loader) insertBatch(ctx context.Context, batch []*models.DatasetReading) (int, error) {
	n, err := l.store.InsertDataset(ctx, batch)
	if err != nil {
		l.metrics.StoreError("insert_dataset")
		return n, err
	}
	l.metrics.ReadingsIngested(utils.SourceDataset, n)
	return n, nil
}

func reduction(parsed, buckets int) int {
	if parsed == 0 {
		return 0
	}
	return int(math.Round((1 - float64(buckets)/float64(parsed)) * 100))
}
