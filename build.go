package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"vmasm/pkg/addons"
	"vmasm/pkg/config"
	"vmasm/pkg/listing"
	"vmasm/pkg/utils"
)

// buildFlags override config values when set on the command line.
type buildFlags struct {
	output    string
	outDir    string
	extension string
	addons    []string
	scripts   []string
	listing   bool
	jobs      int
}

func (f *buildFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("out-dir") {
		cfg.OutDir = f.outDir
	}
	if changed("ext") {
		cfg.Extension = f.extension
	}
	if changed("addons") {
		cfg.Addons = f.addons
	}
	if changed("script") {
		cfg.Scripts = f.scripts
	}
	if changed("listing") {
		cfg.Listing = f.listing
	}
	if changed("jobs") {
		cfg.Jobs = f.jobs
	}
	return cfg.Validate()
}

func newBuildCmd(a *app) *cobra.Command {
	f := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "build file...",
		Short: "Assemble source files into binaries",
		Long: `Build assembles every file given and writes <out_dir>/<name><extension>
for each one. Files are assembled in parallel, up to --jobs at a time.
The first failing file stops the build.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.output != "" && len(args) > 1 {
				return errors.New("-o can only be used with a single input file")
			}
			if err := f.apply(cmd, &a.cfg); err != nil {
				return err
			}
			chain, err := addons.Build(a.cfg.Addons, a.cfg.Scripts)
			if err != nil {
				return err
			}

			results := make([]buildResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(a.cfg.Jobs)
			for i, in := range args {
				out := f.output
				if out == "" {
					out = utils.OutputPath(in, a.cfg.OutDir, a.cfg.Extension)
				}
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					res, err := buildFile(in, out, a.cfg.Listing, chain)
					results[i] = res
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for _, res := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "assembled %d bytes -> %s\n", res.size, res.path)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "output path (single input only)")
	flags.StringVar(&f.outDir, "out-dir", "", "output directory")
	flags.StringVar(&f.extension, "ext", "", "output extension")
	flags.StringSliceVar(&f.addons, "addons", nil, "addon chain, in order")
	flags.StringSliceVar(&f.scripts, "script", nil, "Lua script for the lua addon")
	flags.BoolVar(&f.listing, "listing", false, "also write a .lst listing next to each binary")
	flags.IntVarP(&f.jobs, "jobs", "j", 0, "files assembled in parallel")
	return cmd
}

type buildResult struct {
	path string
	size int
}

// readSource reads path and runs it through chain.
func readSource(path string, chain []addons.Addon) (*addons.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	p, err := addons.Assemble(string(data), chain...)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return p, nil
}

func buildFile(in, out string, withListing bool, chain []addons.Addon) (buildResult, error) {
	p, err := readSource(in, chain)
	if err != nil {
		return buildResult{}, err
	}
	code := p.Code.Bytes()
	if err := utils.WriteFile(out, code); err != nil {
		return buildResult{}, err
	}
	if withListing {
		var sb strings.Builder
		if err := listing.Render(&sb, listing.Build(p.Code, p.Source), listing.Options{Decode: true}); err != nil {
			return buildResult{}, err
		}
		lst := strings.TrimSuffix(out, filepath.Ext(out)) + ".lst"
		if err := utils.WriteFile(lst, []byte(sb.String())); err != nil {
			return buildResult{}, err
		}
	}
	return buildResult{path: out, size: len(code)}, nil
}
