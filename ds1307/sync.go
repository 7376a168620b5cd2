package ds1307

import (
	"fmt"
	"time"
)

// SystemClock is the host's clock.
type SystemClock interface {
	Now() time.Time
	Set(t time.Time) error
}

// Op names a clock transfer.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

// Event is the outcome of ReadTime or WriteTime.
type Event struct {
	Op    Op
	Bytes int
	Want  int
	// Calendar is the resolved time, set on success only.
	Calendar Calendar
	Err      error
}

func (e Event) String() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("DS1307 %s failed: %v", e.Op, e.Err)
	case e.Op == OpRead:
		return "Time updated from DS1307 to " + e.Calendar.String()
	default:
		return "DS1307 internal time updated to " + e.Calendar.String()
	}
}

// Reporter is told about every ReadTime and WriteTime.
type Reporter interface {
	Report(e Event)
}

func (d *Device) report(e Event) {
	if d.Reporter != nil {
		d.Reporter.Report(e)
	}
}

// ReadTime reads the chip and sets clock from it. The chip holds standard
// time, which r turns into an instant. The returned calendar is clock's time
// right after setting it, as r sees it, so DST is applied. On error the
// calendar is zero and clock is left alone.
func (d *Device) ReadTime(clock SystemClock, r Resolver) (Calendar, error) {
	regs, n, err := d.ReadRegisters()
	if err != nil {
		d.report(Event{Op: OpRead, Bytes: n, Want: readLen, Err: err})
		return Calendar{}, err
	}

	if err := clock.Set(r.Instant(Decode(regs))); err != nil {
		err = fmt.Errorf("ds1307: set system time: %w", err)
		d.report(Event{Op: OpRead, Bytes: n, Want: readLen, Err: err})
		return Calendar{}, err
	}

	now := r.Calendar(clock.Now())
	d.report(Event{Op: OpRead, Bytes: n, Want: readLen, Calendar: now})
	return now, nil
}

// WriteTime writes clock's current time to the chip, moved back an hour
// while DST is in effect so that the chip always keeps standard time. It
// returns the calendar that was written. A clock set before 2000 is refused
// with ErrYearRange and the bus is not touched.
func (d *Device) WriteTime(clock SystemClock, r Resolver) (Calendar, error) {
	if d.bus == nil {
		d.report(Event{Op: OpWrite, Want: writeLen, Err: ErrNotConfigured})
		return Calendar{}, ErrNotConfigured
	}

	now := StandardTime(r.Calendar(clock.Now()), r)
	if now.Year < 0 {
		err := fmt.Errorf("%w: %d", ErrYearRange, epoch+now.Year)
		d.report(Event{Op: OpWrite, Want: writeLen, Err: err})
		return Calendar{}, err
	}
	n, err := d.WriteRegisters(Encode(now))
	if err != nil {
		d.report(Event{Op: OpWrite, Bytes: n, Want: writeLen, Err: err})
		return Calendar{}, err
	}
	d.report(Event{Op: OpWrite, Bytes: n, Want: writeLen, Calendar: now})
	return now, nil
}
