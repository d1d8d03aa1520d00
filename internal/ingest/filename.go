package ingest

import (
	"path/filepath"
	"strings"
)

// DefaultFanNumber is used for exports whose name carries no fan number
const DefaultFanNumber = "1"

// ParseFileName extracts the room type and fan number from an export named
// like "Bedroom_Fan_2.csv".
func ParseFileName(name string) (roomType, fanNumber string) {
	base := filepath.Base(name)
	parts := strings.Split(base, "_")

	roomType = parts[0]
	if len(parts) == 1 {
		roomType = strings.TrimSuffix(roomType, ".csv")
	}

	fanNumber = DefaultFanNumber
	if len(parts) > 2 {
		if fan := strings.TrimSuffix(parts[2], ".csv"); fan != "" {
			fanNumber = fan
		}
	}
	return roomType, fanNumber
}
