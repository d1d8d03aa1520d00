package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

const (
	// DefaultRequestTimeout bounds a single HTTP request's store access
	DefaultRequestTimeout = 30 * time.Second

	// StoreWriteTimeout bounds a single reading insert
	StoreWriteTimeout = 5 * time.Second

	// StoreConnectTimeout bounds connecting to a store backend
	StoreConnectTimeout = 10 * time.Second

	// QueueConnectTimeout bounds connecting to a queue backend
	QueueConnectTimeout = 5 * time.Second

	// ShutdownTimeout is the grace period for the HTTP server on exit
	ShutdownTimeout = 10 * time.Second
)

// =============================================================================
// Collection and Subject Names
// =============================================================================

const (
	// SensorReadingsCollection holds realtime readings posted by devices
	SensorReadingsCollection = "sensor_readings"

	// DatasetReadingsCollection holds hourly buckets built by the dataset loader
	DatasetReadingsCollection = "dataset_readings"

	// RealtimeSubject carries realtime readings from the API to the ingest consumer
	RealtimeSubject = "readings.realtime"
)

// =============================================================================
// Buffer and Batch Size Constants
// =============================================================================

const (
	// DefaultBatchSize is the insert batch size of the dataset loader
	DefaultBatchSize = 1000

	// DefaultHistoryLimit is the number of points returned by the history endpoint
	DefaultHistoryLimit = 1000

	// MaxHistoryLimit caps the history endpoint's limit parameter
	MaxHistoryLimit = 100000
)

// =============================================================================
// Reading Sources
// =============================================================================

const (
	SourceRealtime = "realtime"
	SourceDataset  = "dataset"
	SourceAll      = "all"
)

// =============================================================================
// Queue Type Constants
// =============================================================================

// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeMemory represents in-process channels (default)
	QueueTypeMemory QueueType = "memory"

	// QueueTypeNATS represents NATS JetStream
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeRabbitMQ represents a RabbitMQ topic exchange
	QueueTypeRabbitMQ QueueType = "rabbitmq"

	// QueueTypeNone disables the queue; readings are written synchronously
	QueueTypeNone QueueType = "none"
)

// =============================================================================
// Store Type Constants
// =============================================================================

// StoreType represents the reading store backend
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
	StoreTypeMongo  StoreType = "mongo"
)
