//go:build !linux

package sysclock

import "time"

func settime(time.Time) error {
	return ErrUnsupported
}
