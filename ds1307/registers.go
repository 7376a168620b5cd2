package ds1307

const (
	Address        = 0x68 // I2C address for DS1307
	Seconds        = 0x00 // Seconds register, bit 7 is the clock halt flag
	Minutes        = 0x01 // Minutes register
	Hours          = 0x02 // Hours register, bit 6 selects 12-hour mode
	Weekday        = 0x03 // Day of week register, 1-7
	Date           = 0x04 // Day of month register
	Month          = 0x05 // Month register, 1-12
	Year           = 0x06 // Year register, 00-99
	Control        = 0x07 // Square-wave output control register
	ControlDefault = 0x03 // SQWE off, OUT low, RS 32.768 kHz
)

const (
	readLen  = Year + 1
	writeLen = Control + 1
)
