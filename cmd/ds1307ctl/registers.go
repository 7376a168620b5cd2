package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ajanata/softrtc/ds1307"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the raw time registers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHardware()
		if err != nil {
			return err
		}
		regs, _, err := h.dev.ReadRegisters()
		if err != nil {
			return err
		}
		printRegisters(cmd.OutOrStdout(), regs)
		return h.check()
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode HH HH HH HH HH HH HH",
	Short: "Decode seven time register bytes given in hex",
	Args:  cobra.ExactArgs(len(ds1307.Registers{})),
	RunE: func(cmd *cobra.Command, args []string) error {
		var regs ds1307.Registers
		for i, a := range args {
			v, err := strconv.ParseUint(a, 16, 8)
			if err != nil {
				return fmt.Errorf("register %d: %w", i, err)
			}
			regs[i] = byte(v)
		}
		printRegisters(cmd.OutOrStdout(), regs)
		return nil
	},
}

func printRegisters(w io.Writer, regs ds1307.Registers) {
	cal := ds1307.Decode(regs)
	fmt.Fprintf(w, "registers: % x\n", regs[:])
	fmt.Fprintf(w, "decoded:   %s\n", cal)
	fmt.Fprintf(w, "weekday:   %d\n", cal.Weekday)
	if regs.Halted() {
		fmt.Fprintln(w, "oscillator halted")
	}
}

func init() {
	rootCmd.AddCommand(dumpCmd, decodeCmd)
}
