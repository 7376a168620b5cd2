package ds1307

import (
	"time"
)

// epoch is the first year the two-digit year register can hold.
const epoch = 2000

// Calendar is a broken-down local time.
type Calendar struct {
	Second  int // 0-59
	Minute  int // 0-59
	Hour    int // 0-23
	Weekday int // days since Sunday, 0-6
	Day     int // day of month, 1-31
	Month   int // months since January, 0-11
	Year    int // years since 2000
	// DST is set when daylight saving time is in effect.
	DST bool
}

func (c Calendar) String() string {
	t := time.Date(epoch+c.Year, time.Month(c.Month+1), c.Day, c.Hour, c.Minute, c.Second, 0, time.UTC)
	return t.Format("Monday, 02 January 2006, 15:04:05")
}

// Decode converts the time registers to a calendar. DST is never set: the
// chip keeps standard time.
//
// A weekday register of zero, which the chip never holds once set, decodes
// to -1.
func Decode(r Registers) Calendar {
	return Calendar{
		Second:  unpack(r[Seconds], 0x70),
		Minute:  unpack(r[Minutes], 0x70),
		Hour:    unpack(r[Hours], 0x30),
		Weekday: int(r[Weekday]&0x07) - 1,
		Day:     unpack(r[Date], 0x30),
		Month:   unpack(r[Month], 0x10) - 1,
		Year:    unpack(r[Year], 0xF0),
	}
}

// Encode converts c to a register frame, control byte included. c is packed
// as is; see StandardTime for the DST adjustment.
//
// The year register holds 2000 to 2099 only. Later years wrap modulo 100;
// years before 2000 have no encoding, WriteTime refuses them.
func Encode(c Calendar) Frame {
	return Frame{
		Seconds: pack(c.Second),
		Minutes: pack(c.Minute),
		Hours:   pack(c.Hour),
		Weekday: pack(c.Weekday + 1),
		Date:    pack(c.Day),
		Month:   pack(c.Month + 1),
		Year:    pack(c.Year % 100),
		Control: ControlDefault,
	}
}

// unpack decodes a BCD byte, tens masks the bits of the tens digit.
func unpack(v, tens byte) int {
	return 10*int((v&tens)>>4) + int(v&0x0F)
}

func pack(v int) byte {
	return byte(((v / 10) << 4) + v%10)
}

// Resolver converts between instants and local calendar times.
type Resolver interface {
	// Calendar returns the local time at t, DST flag included.
	Calendar(t time.Time) Calendar
	// Instant returns the instant c names. c.DST says whether c is in
	// daylight saving time; the weekday is ignored.
	Instant(c Calendar) time.Time
}

// StandardTime returns c in standard time: one hour earlier if c.DST is set,
// c itself otherwise.
func StandardTime(c Calendar, r Resolver) Calendar {
	if !c.DST {
		return c
	}
	return r.Calendar(r.Instant(c).Add(-time.Hour))
}

// LocationResolver resolves calendar times in a time.Location. A nil
// Location means time.Local.
type LocationResolver struct {
	Location *time.Location
}

var _ Resolver = LocationResolver{}

func (r LocationResolver) loc() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}

func (r LocationResolver) Calendar(t time.Time) Calendar {
	t = t.In(r.loc())
	return Calendar{
		Second:  t.Second(),
		Minute:  t.Minute(),
		Hour:    t.Hour(),
		Weekday: int(t.Weekday()),
		Day:     t.Day(),
		Month:   int(t.Month()) - 1,
		Year:    t.Year() - epoch,
		DST:     t.IsDST(),
	}
}

func (r LocationResolver) Instant(c Calendar) time.Time {
	loc := r.loc()
	std, dst, ok := offsets(epoch+c.Year, loc)
	if !ok {
		return time.Date(epoch+c.Year, time.Month(c.Month+1), c.Day, c.Hour, c.Minute, c.Second, 0, loc)
	}
	// Wall times in the spring gap or the autumn overlap are only
	// unambiguous once the offset is pinned.
	off := std
	if c.DST {
		off = dst
	}
	zone := time.FixedZone("", off)
	return time.Date(epoch+c.Year, time.Month(c.Month+1), c.Day, c.Hour, c.Minute, c.Second, 0, zone).In(loc)
}

// offsets returns the standard and daylight UTC offsets of loc in year, in
// seconds. ok is false if loc has no daylight saving time that year.
func offsets(year int, loc *time.Location) (std, dst int, ok bool) {
	jan := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	jul := time.Date(year, time.July, 1, 0, 0, 0, 0, loc)
	if jan.IsDST() == jul.IsDST() {
		return 0, 0, false
	}
	_, janOff := jan.Zone()
	_, julOff := jul.Zone()
	if jan.IsDST() {
		return julOff, janOff, true
	}
	return janOff, julOff, true
}
