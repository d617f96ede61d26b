package main

import (
	"github.com/spf13/cobra"

	"vmasm/pkg/addons"
	"vmasm/pkg/listing"
)

func newListCmd(a *app) *cobra.Command {
	var decode bool
	var color string
	cmd := &cobra.Command{
		Use:   "list file",
		Short: "Print an offset, bytes and source table for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := addons.Build(a.cfg.Addons, a.cfg.Scripts)
			if err != nil {
				return err
			}
			p, err := readSource(args[0], chain)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			opts := listing.Options{Decode: decode}
			switch color {
			case "always":
				opts.Color = true
			case "auto":
				opts.Color = listing.IsTerminal(out)
			}
			return listing.Render(out, listing.Build(p.Code, p.Source), opts)
		},
	}
	cmd.Flags().BoolVarP(&decode, "decode", "d", false, "add a column with the decoded instruction")
	cmd.Flags().StringVar(&color, "color", "auto", "colour output: auto, always or never")
	return cmd
}
