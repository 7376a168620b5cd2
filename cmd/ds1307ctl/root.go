package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	logger "github.com/d2r2/go-logger"
	"github.com/spf13/cobra"

	"github.com/ajanata/softrtc/softi2c"
)

var (
	// Bus flags
	sclPin     string
	sdaPin     string
	halfPeriod time.Duration
	openDrain  bool

	// Time and reporting flags
	zone       string
	logLevel   string
	mqttBroker string
	mqttTopic  string
)

var rootCmd = &cobra.Command{
	Use:   "ds1307ctl",
	Short: "DS1307 clock sync over bit-banged GPIO",
	Long: `ds1307ctl talks to a DS1307 real-time clock through two GPIO pins, without
a hardware I2C controller.

The chip keeps standard time. Reading it sets the system clock; writing it
stores the system clock, moved back an hour while daylight saving time is in
effect.

Pins are periph.io names (GPIO2, GPIO3, ...). They default to the DS1307_SCL
and DS1307_SDA environment variables. Nothing else may drive the two pins
while a command runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&sclPin, "scl", os.Getenv("DS1307_SCL"), "GPIO pin for the clock line")
	f.StringVar(&sdaPin, "sda", os.Getenv("DS1307_SDA"), "GPIO pin for the data line")
	f.DurationVar(&halfPeriod, "half-period", softi2c.HalfPeriod, "Half bit time")
	f.BoolVar(&openDrain, "open-drain", false, "Float high outputs on the pull-up instead of driving them")

	f.StringVar(&zone, "zone", "Local", "Time zone (IANA name) used for DST")
	f.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	f.StringVar(&mqttBroker, "mqtt-broker", os.Getenv("DS1307_MQTT_BROKER"), "Publish results to this MQTT broker (tcp://host:1883)")
	f.StringVar(&mqttTopic, "mqtt-topic", "ds1307/events", "MQTT topic for results")
}

func parseLevel(s string) (logger.LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return logger.DebugLevel, nil
	case "info":
		return logger.InfoLevel, nil
	case "warn", "warning":
		return logger.WarnLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	}
	return logger.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

func loadZone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
