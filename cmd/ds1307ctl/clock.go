package main

import (
	"fmt"

	"github.com/spf13/cobra"
	tinygods1307 "tinygo.org/x/drivers/ds1307"

	"github.com/ajanata/softrtc/sysclock"
)

var dryRun bool

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Set the system clock from the DS1307",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHardware()
		if err != nil {
			return err
		}
		cal, err := h.dev.ReadTime(&sysclock.Host{DryRun: dryRun}, h.resolver)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cal)
		return h.check()
	},
}

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Store the system clock in the DS1307",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHardware()
		if err != nil {
			return err
		}
		cal, err := h.dev.WriteTime(&sysclock.Host{}, h.resolver)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cal)
		return h.check()
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Clear the clock halt bit, keeping the stored time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHardware()
		if err != nil {
			return err
		}
		chip := tinygods1307.New(h.bus)
		if chip.IsOscillatorRunning() {
			fmt.Fprintln(cmd.OutOrStdout(), "oscillator running")
			return h.check()
		}
		if err := chip.SetOscillatorRunning(true); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "oscillator started")
		return h.check()
	},
}

func init() {
	readCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Read and report without setting the system clock")
	rootCmd.AddCommand(readCmd, writeCmd, startCmd)
}
