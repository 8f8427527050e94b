package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pthm/joinery"
	"github.com/pthm/joinery/internal/cli"
)

// outputFlags are shared by commands that print an include spec.
type outputFlags struct {
	format   string
	simplify bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "output", "o", "", "output format: literal, json or yaml (default from config)")
	cmd.Flags().BoolVar(&o.simplify, "simplify", false, "collapse a top-level group holding one name (default from config)")
}

// print writes s in the resolved format. Flags win over the config file.
func (o *outputFlags) print(cmd *cobra.Command, s joinery.Spec) error {
	simplify := cfg.Output.Simplify
	if cmd.Flags().Changed("simplify") {
		simplify = o.simplify
	}
	if simplify {
		s = joinery.Simplify(s)
	}

	w := cmd.OutOrStdout()
	switch format := resolveString(o.format, cfg.Output.Format, "literal"); format {
	case "literal":
		_, err := fmt.Fprintln(w, s.String())
		return err
	case "json":
		data, err := json.Marshal(s)
		if err != nil {
			return cli.GeneralError("encoding spec", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(s)
		if err != nil {
			return cli.GeneralError("encoding spec", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return cli.ConfigError(fmt.Sprintf("unknown output format %q (want literal, json or yaml)", format), nil)
	}
}

// parsePaths parses dotted relation paths such as "project.owner".
func parsePaths(dotted []string) ([]joinery.Path, error) {
	paths := make([]joinery.Path, 0, len(dotted))
	for _, d := range dotted {
		p, err := joinery.ParsePath(d)
		if err != nil {
			return nil, cli.ParseError(fmt.Sprintf("parsing path %q", d), err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
