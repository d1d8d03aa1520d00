package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang/snappy"
	"github.com/google/uuid"
)

// Encoded member layout: one format byte followed by the payload.
const (
	formatJSON   byte = 'j'
	formatSnappy byte = 's'
)

var errEmptyMember = errors.New("empty member")

// envelope gives every stored value a unique identity so that identical
// readings do not collapse into one sorted-set member.
type envelope[T any] struct {
	ID    string `json:"id"`
	Value T      `json:"v"`
}

func encodeMember[T any](v T, compress bool) ([]byte, error) {
	raw, err := json.Marshal(envelope[T]{ID: uuid.NewString(), Value: v})
	if err != nil {
		return nil, fmt.Errorf("failed to encode member: %w", err)
	}

	if !compress {
		return append([]byte{formatJSON}, raw...), nil
	}

	out := make([]byte, 1, 1+snappy.MaxEncodedLen(len(raw)))
	out[0] = formatSnappy
	return append(out, snappy.Encode(nil, raw)...), nil
}

func decodeMember[T any](data []byte) (T, error) {
	var env envelope[T]
	if len(data) == 0 {
		return env.Value, errEmptyMember
	}

	payload := data[1:]
	switch data[0] {
	case formatJSON:
	case formatSnappy:
		decoded, err := snappy.Decode(nil, payload)
		if err != nil {
			return env.Value, fmt.Errorf("snappy decompress failed: %w", err)
		}
		payload = decoded
	default:
		return env.Value, fmt.Errorf("unknown member format %q", data[0])
	}

	if err := json.Unmarshal(payload, &env); err != nil {
		return env.Value, fmt.Errorf("failed to decode member: %w", err)
	}
	return env.Value, nil
}
