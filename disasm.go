package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"vmasm/pkg/disasm"
)

func newDisasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm file",
		Short: "Print a binary as assembler source",
		Long: `Disasm decodes a binary produced by build and prints one instruction
per line. Literals are printed in unsigned form, so the output assembles
back to the same bytes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "read %s", args[0])
			}
			text, err := disasm.Disassemble(code)
			if err != nil {
				return errors.Wrap(err, args[0])
			}
			if text != "" {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		},
	}
}
