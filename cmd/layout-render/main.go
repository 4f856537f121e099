package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dangdungcntt/go-layout"
)

func main() {
	if err := newRenderCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type renderOpts struct {
	dir      string
	varsFile string
	sets     map[string]string
	headers  bool
	debug    bool
}

func newRenderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "layout-render TEMPLATE",
		Short: "Render a layout template and print its output",
		Long: `Render a template from a directory, resolving @extends chains and blocks.
Variables come from a YAML file and --set flags, --set wins on conflicts.
With --headers the header directives are printed before the text, followed
by an empty line.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "Directory templates are resolved from")
	cmd.Flags().StringVarP(&opts.varsFile, "vars", "f", "", "YAML file with template variables")
	cmd.Flags().StringToStringVar(&opts.sets, "set", nil, "Set a string variable (key=value), can be repeated")
	cmd.Flags().BoolVar(&opts.headers, "headers", false, "Print header directives before the text")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Log render passes to stderr")
	return cmd
}

func (o *renderOpts) run(cmd *cobra.Command, name string) error {
	ctx := cmd.Context()
	if o.debug {
		log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		ctx = layout.LoggingContext(ctx, log)
	}

	vars, err := loadVars(o.varsFile)
	if err != nil {
		return err
	}
	for key, val := range o.sets {
		vars[key] = val
	}

	out, err := layout.NewEngine(o.dir).Render(ctx, name, vars)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), out, o.headers)
}

// loadVars reads template variables from a YAML mapping. An empty path
// yields no variables.
func loadVars(path string) (layout.Vars, error) {
	vars := layout.Vars{}
	if path == "" {
		return vars, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vars file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &vars); err != nil {
		return nil, fmt.Errorf("parse vars file %s: %w", path, err)
	}
	if vars == nil {
		vars = layout.Vars{}
	}
	return vars, nil
}

func writeOutput(w io.Writer, out *layout.Output, headers bool) error {
	if headers {
		for _, h := range out.Headers() {
			line := h.Value
			if !h.Replace {
				line += " (append)"
			}
			if h.Status != 0 {
				line += " (status " + strconv.Itoa(h.Status) + ")"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, out.Text())
	return err
}
