package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kapitanov/chip8core/internal/hal"
	"github.com/kapitanov/chip8core/internal/vm"
	"github.com/spf13/cobra"
)

const defaultROMPath = "./ibm.ch8"

func main() {
	cmd := newRootCommand()

	cmd.SetArgs(os.Args[1:])
	if err := cmd.Execute(); err != nil {
		slog.Error("fatal error", "err", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           fmt.Sprintf("%s [PATH_TO_ROM_FILE]", filepath.Base(os.Args[0])),
		Short:         "Run emulator",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	verbose := cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")

	vmConfig := vm.DefaultConfig()
	halConfig := hal.DefaultConfig()
	cmd.Flags().IntVar(&vmConfig.CyclesPerFrame, "cycles-per-frame", vmConfig.CyclesPerFrame, "instructions executed per frame")
	cmd.Flags().IntVar(&halConfig.FPS, "fps", halConfig.FPS, "target frames per second")
	cmd.Flags().IntVar(&halConfig.Scale, "scale", halConfig.Scale, "window pixels per display pixel")

	cmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		setupLogger(*verbose)
	}

	cmd.RunE = func(_ *cobra.Command, args []string) error {
		bs, err := loadROM(args)
		if err != nil {
			return err
		}

		machine, err := vm.New(vmConfig, bs)
		if err != nil {
			return err
		}

		h, err := hal.New(halConfig)
		if err != nil {
			return fmt.Errorf("unable to initialize hal: %w", err)
		}
		defer h.Shutdown()

		err = machine.Run(h)
		if errors.Is(err, hal.ErrQuit) {
			return nil
		}

		var opErr *vm.OpcodeError
		if errors.As(err, &opErr) {
			slog.Error("unimplemented opcode",
				"pc", fmt.Sprintf("0x%04x", opErr.PC),
				"opcode", fmt.Sprintf("0x%04x", opErr.Opcode),
			)
		}

		return err
	}

	cmd.AddCommand(newDisasmCommand())
	return cmd
}

func newDisasmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm [PATH_TO_ROM_FILE]",
		Short: "Print the program listing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := loadROM(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, line := range vm.Disassemble(bs) {
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func setupLogger(verbose bool) {
	loggerOpts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if verbose {
		loggerOpts.Level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, loggerOpts)))
}

func loadROM(args []string) ([]byte, error) {
	path := defaultROMPath
	if len(args) > 0 {
		path = args[0]
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load file %q: %w", path, err)
	}

	return bs, nil
}
