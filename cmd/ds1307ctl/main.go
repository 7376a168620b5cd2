// Command ds1307ctl keeps the system clock and a DS1307 wired to two GPIO
// pins in step.
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	logger "github.com/d2r2/go-logger"
)

func main() {
	err := rootCmd.Execute()
	closeHardware()
	logger.FinalizeLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
