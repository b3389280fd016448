package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/fragnav/internal/model"
	"github.com/nao1215/fragnav/internal/param"
)

// errMalformedNamedValue is returned for -p values without "=".
var errMalformedNamedValue = errors.New("named values must be given as name=value")

// NewLinkCmd creates the link command.
func NewLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <page> [positional...]",
		Short: "Build the fragment of a page",
		Long: `Link renders the canonical fragment of a page from parameter values.

The page is addressed by its identifier. Positional values follow the page
in position order; an empty argument leaves an optional position unset.
Named values are given with -p and keep their order.

Examples:
  fragnav link ticket XYZ
  fragnav link product 34 -p userId=7`,
		Args: cobra.MinimumNArgs(1),
		RunE: runLinkCmd,
	}

	cmd.Flags().StringArrayP("param", "p", nil, "Named parameter value as name=value (repeatable)")

	return cmd
}

// runLinkCmd executes the link command.
func runLinkCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	named, err := cmd.Flags().GetStringArray("param")
	if err != nil {
		return err
	}

	env, err := setup(cfg, false)
	if err != nil {
		return err
	}
	defer env.Close()

	link, err := buildLink(env.app.Registry(), args[0], args[1:], named)
	if err != nil {
		return err
	}

	href, err := env.app.Href(link)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), href)
	return nil
}

// buildLink converts command line values to the kinds declared by the page.
func buildLink(specs param.SpecSource, pageID string, positional, named []string) (*param.Link, error) {
	declared, err := specs.Specs(pageID)
	if err != nil {
		return nil, err
	}

	byPosition := make(map[int]param.Spec)
	byName := make(map[string]param.Spec)
	for _, s := range declared {
		if s.IsPositional() {
			byPosition[s.Position()] = s
		} else {
			byName[s.Name()] = s
		}
	}

	values := make([]any, len(positional))
	for i, raw := range positional {
		s, ok := byPosition[i]
		if !ok {
			return nil, model.NewConfigurationError("build", pageID, "no parameter at position %d is declared", i)
		}
		values[i], err = linkValue(s, raw)
		if err != nil {
			return nil, err
		}
	}

	link := param.NewLink(pageID, values...)
	for _, nv := range named {
		name, raw, ok := strings.Cut(nv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", errMalformedNamedValue, nv)
		}
		s, declared := byName[name]
		if !declared {
			// The binder reports unknown names.
			link.Add(name, raw)
			continue
		}
		v, err := linkValue(s, raw)
		if err != nil {
			return nil, err
		}
		link.Add(name, v)
	}

	return link, nil
}

// linkValue converts raw to a value of the slot kind. An empty raw value
// is nil, leaving the slot unset.
func linkValue(s param.Spec, raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}

	var (
		v   any
		err error
	)
	switch s.Kind() {
	case param.KindInt:
		v, err = strconv.Atoi(raw)
	case param.KindInt64:
		v, err = strconv.ParseInt(raw, 10, 64)
	case param.KindFloat64:
		v, err = strconv.ParseFloat(raw, 64)
	case param.KindBool:
		v, err = strconv.ParseBool(raw)
	case param.KindEntity:
		v = &model.Entity{Type: s.Accessor().EntityType(), Key: raw}
	default:
		v = raw
	}
	if err != nil {
		return nil, fmt.Errorf("invalid value %q for parameter %s (%s): %w", raw, s.Label(), s.Kind(), err)
	}
	return v, nil
}
