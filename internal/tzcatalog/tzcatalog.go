// Package tzcatalog lists IANA timezone names in fixed-size pages, the
// shape a paginated "pick your timezone" chat keyboard is built from, and
// resolves a chosen name to a *time.Location.
//
// The Go standard library has no API to enumerate the zoneinfo database, so
// Names is a curated list of commonly used zones rather than the full IANA
// set. Not every populated UTC offset has a zone in it (there is none at
// +03:30 or +05:45, for example).
package tzcatalog

import (
	"fmt"
	"time"
)

// PageSize is the number of zone names returned per page.
const PageSize = 8

// Names is the catalog's fixed, curated list of IANA zone identifiers.
var Names = []string{
	"UTC",
	"Europe/London",
	"Europe/Paris",
	"Europe/Berlin",
	"Europe/Moscow",
	"Europe/Istanbul",
	"Africa/Cairo",
	"Africa/Johannesburg",
	"Africa/Lagos",
	"Asia/Dubai",
	"Asia/Karachi",
	"Asia/Kolkata",
	"Asia/Dhaka",
	"Asia/Bangkok",
	"Asia/Shanghai",
	"Asia/Singapore",
	"Asia/Tokyo",
	"Asia/Seoul",
	"Australia/Perth",
	"Australia/Sydney",
	"Pacific/Auckland",
	"Pacific/Honolulu",
	"America/Anchorage",
	"America/Los_Angeles",
	"America/Denver",
	"America/Chicago",
	"America/New_York",
	"America/Sao_Paulo",
	"America/Argentina/Buenos_Aires",
	"Atlantic/Azores",
}

// PageCount reports how many pages of PageSize entries Names spans.
func PageCount() int {
	return (len(Names) + PageSize - 1) / PageSize
}

// Page returns the zone names on the given zero-based page index, and
// whether that index exists.
func Page(idx int) ([]string, bool) {
	if idx < 0 {
		return nil, false
	}
	start := idx * PageSize
	if start >= len(Names) {
		return nil, false
	}
	end := start + PageSize
	if end > len(Names) {
		end = len(Names)
	}
	return Names[start:end], true
}

// Resolve loads the *time.Location for name, which need not be one of the
// curated Names: any zone the system's tzdata knows about resolves too.
func Resolve(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tzcatalog: resolving %q: %w", name, err)
	}
	return loc, nil
}
