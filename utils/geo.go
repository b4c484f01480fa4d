package utils

import (
	"strings"

	"github.com/mmcloughlin/geohash"
)

// GeohashPrecision is ~5m cells, enough to group listings in a building.
const GeohashPrecision = 9

const geohashAlphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

// Geohash encodes a coordinate pair; missing or out-of-range input gives "".
func Geohash(lat, lng *float64) string {
	if lat == nil || lng == nil {
		return ""
	}
	if *lat < -90 || *lat > 90 || *lng < -180 || *lng > 180 {
		return ""
	}
	return geohash.EncodeWithPrecision(*lat, *lng, GeohashPrecision)
}

// IsGeohashPrefix validates a user-supplied prefix used for area filters.
func IsGeohashPrefix(prefix string) bool {
	if prefix == "" || len(prefix) > GeohashPrecision {
		return false
	}
	for _, c := range prefix {
		if !strings.ContainsRune(geohashAlphabet, c) {
			return false
		}
	}
	return true
}
