// File: cmd/compose.go
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/pomkit/pkg/locator"
	"github.com/xkilldash9x/pomkit/pkg/session"
)

func newComposeCmd(a *app) *cobra.Command {
	var (
		strategy string
		name     string
		lint     bool
	)
	c := &cobra.Command{
		Use:   "compose <locator> [region...]",
		Short: "Derive a table region locator and print the selector the engine receives",
		Long: `Regions are applied left to right: header, body, column:N, row:N, cell:R,C.

  pomkit compose --strategy css ".grid" body row:2
  css=.grid .rt-tbody [role='rowgroup']:nth-child(2)`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := locator.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			regions := make([]locator.Region, 0, len(args)-1)
			for _, arg := range args[1:] {
				r, err := parseRegion(arg)
				if err != nil {
					return err
				}
				regions = append(regions, r)
			}

			spec, err := locator.Chain(locator.New(name, st, args[0]), regions...)
			if err != nil {
				return err
			}
			sel, err := session.SelectorFor(spec)
			if err != nil {
				return err
			}
			if lint {
				if err := spec.Lint(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), sel.String())
			return nil
		},
	}
	c.Flags().StringVarP(&strategy, "strategy", "s", "css", "locator strategy: css, xpath, id, name or text")
	c.Flags().StringVarP(&name, "name", "n", "element", "display name of the base element")
	c.Flags().BoolVar(&lint, "lint", true, "check that the derived selector parses")
	return c
}

// parseRegion reads header, body, column:N, row:N and cell:R,C.
func parseRegion(s string) (locator.Region, error) {
	kind, arg, _ := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	switch kind {
	case "header":
		return locator.Header(), nil
	case "body":
		return locator.Body(), nil
	case "column", "row":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return locator.Region{}, fmt.Errorf("region %q: expected %s:N: %w", s, kind, err)
		}
		if kind == "column" {
			return locator.Column(n), nil
		}
		return locator.Row(n), nil
	case "cell":
		rs, cs, ok := strings.Cut(arg, ",")
		if !ok {
			return locator.Region{}, fmt.Errorf("region %q: expected cell:R,C", s)
		}
		r, err := strconv.Atoi(strings.TrimSpace(rs))
		if err != nil {
			return locator.Region{}, fmt.Errorf("region %q: bad row: %w", s, err)
		}
		col, err := strconv.Atoi(strings.TrimSpace(cs))
		if err != nil {
			return locator.Region{}, fmt.Errorf("region %q: bad column: %w", s, err)
		}
		return locator.Cell(r, col), nil
	}
	return locator.Region{}, fmt.Errorf("unknown region %q", s)
}
