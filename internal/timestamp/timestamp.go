// Package timestamp normalizes source epoch values and applies them to
// written files.
package timestamp

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Scale is the number of source units per second. It belongs to the
// source format, not to the individual value.
type Scale int64

const (
	Seconds      Scale = 1
	Microseconds Scale = 1_000_000
)

// ISOLayout is the layout used in generated files
const ISOLayout = "2006-01-02T15:04:05"

// Epoch is the sentinel for an unknown time
var Epoch = time.Unix(0, 0)

// webkitOffset is the distance in seconds between 1601-01-01 and 1970-01-01
const webkitOffset = 11_644_473_600

// Normalize converts an epoch value in the given scale into a time
func Normalize(value int64, scale Scale) time.Time {
	if scale <= 1 {
		return time.Unix(value, 0)
	}
	s := int64(scale)
	sec := value / s
	rem := value % s
	if rem < 0 {
		sec--
		rem += s
	}
	return time.Unix(sec, rem*int64(time.Second)/s)
}

// Parse converts a decimal epoch string. It reports false for empty or
// malformed input, and for zero which sources use to mean "not set".
func Parse(raw string, scale Scale) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return time.Time{}, false
		}
		v = int64(f)
	}
	if v == 0 {
		return time.Time{}, false
	}
	return Normalize(v, scale), true
}

// FromWebKit converts a Chromium timestamp (microseconds since
// 1601-01-01 UTC).
func FromWebKit(value int64) time.Time {
	return Normalize(value-webkitOffset*int64(Microseconds), Microseconds)
}

// ParseWebKit is Parse for Chromium timestamps
func ParseWebKit(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v == 0 {
		return time.Time{}, false
	}
	return FromWebKit(v), true
}

// FormatISO renders t as YYYY-MM-DDTHH:MM:SS in the local time zone
func FormatISO(t time.Time) string {
	return t.Local().Format(ISOLayout)
}

// FileTimes returns the times to apply to path so that only its
// modification time changes: the current access time and mtime.
func FileTimes(path string, mtime time.Time) (time.Time, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return accessTime(info), mtime, nil
}

// Restamp sets the modification time of path to t, keeping its access time
func Restamp(path string, t time.Time) error {
	atime, mtime, err := FileTimes(path, t)
	if err != nil {
		return err
	}
	if err := os.Chtimes(path, atime, mtime); err != nil {
		return fmt.Errorf("set times on %s: %w", path, err)
	}
	return nil
}
