//go:build !linux && !darwin

package timestamp

import (
	"os"
	"time"
)

// No portable access time here; the modification time is the closest
// value that leaves the file looking untouched.
func accessTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
