package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run commands read line by line from stdin",
	Long: `Run commands read line by line from stdin, keeping the bus open between
them. Lines are split like a POSIX shell. "exit" or end of input stops.`,
	Args: cobra.NoArgs,
}

func init() {
	// RunE is set here: runLine refers to shellCmd, so setting it in the
	// literal would be an initialization cycle.
	shellCmd.RunE = func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		prompt := false
		if f, ok := in.(*os.File); ok {
			prompt = term.IsTerminal(int(f.Fd()))
		}
		return runShell(in, cmd.OutOrStdout(), prompt)
	}
	rootCmd.AddCommand(shellCmd)
}

func runShell(in io.Reader, out io.Writer, prompt bool) error {
	rootCmd.SetOut(out)
	sc := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(out, "ds1307> ")
		}
		if !sc.Scan() {
			return sc.Err()
		}
		args, err := shlex.Split(sc.Text())
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}
		if err := runLine(args); err != nil {
			fmt.Fprintln(out, "error:", err)
		}
	}
}

func runLine(args []string) error {
	cmd, _, err := rootCmd.Find(args)
	if err != nil {
		return err
	}
	if cmd == shellCmd {
		return errors.New("already in a shell")
	}
	// flags keep their values between executions
	var reset error
	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if err := f.Value.Set(f.DefValue); err != nil && reset == nil {
			reset = fmt.Errorf("reset --%s: %w", f.Name, err)
		}
		f.Changed = false
	})
	if reset != nil {
		return reset
	}
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
