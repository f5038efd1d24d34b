// Command seqrun runs declarative sequence plans.
//
//	seqrun run evens-squared --plans ./plans
//	seqrun run --file plan.yaml --input '[1, [2, 3]]'
//	seqrun list
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		writeError(os.Stderr, err)
		os.Exit(1)
	}
}

// flagKeys maps persistent flags to the config keys they override.
var flagKeys = map[string]string{
	"plans":     "engine.plans_dir",
	"max-items": "engine.max_items",
	"depth":     "engine.default_depth",
	"metrics":   "engine.metrics",
	"tracing":   "engine.tracing",
	"log-level": "logging.level",
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seqrun",
		Short:         "Run lazy sequence plans",
		Long:          "seqrun compiles YAML plans into lazy sequences and prints the terminal result as JSON.",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.String("config", "", "config file path")
	pf.String("env-file", "", ".env file path")
	pf.StringSlice("plans", nil, "plan directories")
	pf.Int("max-items", 0, "maximum to_array items (0 keeps the configured value)")
	pf.Int("depth", 0, "default flat depth")
	pf.Bool("metrics", false, "record sequence metrics")
	pf.Bool("tracing", false, "trace plan runs")
	pf.String("log-level", "", "log level")

	root.AddCommand(newRunCmd(), newListCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), version.Get(), true)
		},
	}
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeError(w io.Writer, err error) {
	if werr := writeJSON(w, errors.ToAppError(err).ToResponse(), false); werr != nil {
		fmt.Fprintln(w, err)
	}
}
