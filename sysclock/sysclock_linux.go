//go:build linux

package sysclock

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

func settime(t time.Time) error {
	tv := unix.NsecToTimeval(t.UnixNano())
	if err := unix.Settimeofday(&tv); err != nil {
		return fmt.Errorf("sysclock: settimeofday: %w", err)
	}
	return nil
}
