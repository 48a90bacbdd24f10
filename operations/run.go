package operations

import (
	"context"
	"fmt"

	"github.com/perfpipe/perfpipe/pipeline"
	"github.com/perfpipe/perfpipe/rest"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Run returns the command that drives a full pipeline run: build, benchmark,
// package, publish, compare, comment.
func Run() cli.Command {
	return cli.Command{
		Name:   "run",
		Usage:  "run the full continuous-benchmarking pipeline for the triggering event",
		Flags:  mergeFlags(configFlags(), triggerFlags()),
		Before: requireFileExists(configFlag),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			conf, err := loadConfiguration(c)
			if err != nil {
				return errors.WithStack(err)
			}

			trigger, err := newTrigger(c)
			if err != nil {
				return errors.Wrap(err, "problem resolving trigger context")
			}

			p, err := pipeline.New(ctx, conf, trigger)
			if err != nil {
				return errors.Wrap(err, "problem assembling pipeline")
			}

			return errors.Wrap(p.Run(ctx), "pipeline run failed")
		},
	}
}

// Name returns the command that prints the baseline name the trigger
// resolves to, for wiring into surrounding automation.
func Name() cli.Command {
	return cli.Command{
		Name:  "name",
		Usage: "print the baseline name derived from the triggering event",
		Flags: triggerFlags(),
		Action: func(c *cli.Context) error {
			trigger, err := newTrigger(c)
			if err != nil {
				return errors.Wrap(err, "problem resolving trigger context")
			}

			fmt.Println(trigger.BaselineName())
			return nil
		},
	}
}

// Report returns the command that fetches a rendered comparison report for
// an arbitrary pair of baselines without running any benchmarks.
func Report() cli.Command {
	return cli.Command{
		Name:  "report",
		Usage: "fetch a comparison report from the comparison service",
		Flags: mergeFlags(configFlags(), reportFlags()),
		Before: mergeBeforeFuncs(
			requireFileExists(configFlag),
			requireStringFlag(currentFlag),
		),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			conf, err := loadConfiguration(c)
			if err != nil {
				return errors.WithStack(err)
			}

			if conf.Compare.BaseURL == "" {
				return errors.New("no comparison service configured")
			}

			client, err := rest.NewClient(conf.Compare.BaseURL)
			if err != nil {
				return errors.Wrap(err, "problem creating comparison client")
			}
			defer client.Close()

			report, err := client.FetchComparison(ctx, c.String(currentFlag), c.String(previousFlag))
			if err != nil {
				return errors.Wrap(err, "problem fetching comparison report")
			}

			if out := c.String(outputFlag); out != "" {
				return errors.Wrap(writeString(out, report), "problem writing report")
			}

			fmt.Println(report)
			return nil
		},
	}
}
