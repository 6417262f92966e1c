// File: cmd/probe.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pomkit/pkg/locator"
	"github.com/xkilldash9x/pomkit/pkg/observability"
	"github.com/xkilldash9x/pomkit/pkg/session"
)

// opener starts a session; tests replace it with one backed by mocks.
var opener = func(ctx context.Context, a *app, opts ...session.Option) (*session.Session, error) {
	return session.Open(ctx, a.cfg, opts...)
}

func newProbeCmd(a *app) *cobra.Command {
	var (
		locators   []string
		screenshot bool
	)
	c := &cobra.Command{
		Use:   "probe <url>",
		Short: "Open a page and report what each locator matches",
		Long: `Locators are strategy=value, for example css=#login, xpath=//h1, id=submit,
name=email or "text=Sign in". The run writes the usual trace artifacts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			specs, err := parseLocators(locators)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			s, err := opener(ctx, a, session.WithTestName("probe"), session.WithLogger(observability.GetLogger()))
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, s.Dispose(context.Background()))
			}()

			return probe(ctx, s, args[0], specs, screenshot, cmd.OutOrStdout())
		},
	}
	c.Flags().StringArrayVarP(&locators, "locator", "l", nil, "locator to probe as strategy=value (repeatable)")
	c.Flags().BoolVar(&screenshot, "screenshot", false, "save a page screenshot after the probes")
	return c
}

func probe(ctx context.Context, s *session.Session, url string, specs []locator.Spec, screenshot bool, out io.Writer) error {
	if err := s.NavigateTo(ctx, url); err != nil {
		return err
	}
	title, err := s.Title(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "title: %s\n", title)

	for _, spec := range specs {
		el, err := s.Find(spec)
		if err != nil {
			return err
		}
		n, err := el.Count(ctx)
		if err != nil {
			return err
		}
		vis, err := el.Visibility(ctx)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%s: count=%d visibility=%s", spec.Name(), n, vis)
		if vis.IsVisible() {
			if text, err := el.Text(ctx); err == nil {
				line += fmt.Sprintf(" text=%q", strings.TrimSpace(text))
			} else {
				observability.GetLogger().Debug("Text read failed during probe.", zap.Error(err))
			}
		}
		fmt.Fprintln(out, line)
	}

	if screenshot {
		path, err := s.TakeScreenshot(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "screenshot: %s\n", path)
	}
	if dir := s.RunDir(); dir != "" {
		fmt.Fprintf(out, "artifacts: %s\n", dir)
	}
	return nil
}

// parseLocators reads strategy=value pairs. The raw argument becomes the display name.
func parseLocators(raw []string) ([]locator.Spec, error) {
	specs := make([]locator.Spec, 0, len(raw))
	for _, r := range raw {
		st, value, ok := strings.Cut(r, "=")
		if !ok || value == "" {
			return nil, fmt.Errorf("locator %q: expected strategy=value", r)
		}
		strategy, err := locator.ParseStrategy(st)
		if err != nil {
			return nil, fmt.Errorf("locator %q: %w", r, err)
		}
		specs = append(specs, locator.New(r, strategy, value))
	}
	return specs, nil
}
