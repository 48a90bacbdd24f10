package operations

import (
	"strings"

	"github.com/urfave/cli"
)

////////////////////////////////////////////////////////////////////////
//
// Flag Name Constants

const (
	configFlag = "config"

	eventFlag = "event"
	refFlag   = "ref"
	shaFlag   = "sha"
	prFlag    = "pr"

	bucketNameFlag = "bucket"
	workDirFlag    = "workdir"

	currentFlag  = "current"
	previousFlag = "previous"
	outputFlag   = "output"
)

////////////////////////////////////////////////////////////////////////
//
// Utility Functions

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

func mergeFlags(in ...[]cli.Flag) []cli.Flag {
	out := []cli.Flag{}

	for idx := range in {
		out = append(out, in[idx]...)
	}

	return out
}

////////////////////////////////////////////////////////////////////////
//
// Flag Groups

func configFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:   joinFlagNames(configFlag, "c"),
			Usage:  "path to the perfpipe configuration file",
			EnvVar: "PERFPIPE_CONFIG",
			Value:  "perfpipe.yaml",
		},
		cli.StringFlag{
			Name:   bucketNameFlag,
			Usage:  "override the artifact bucket name",
			EnvVar: "PERFPIPE_BUCKET_NAME",
		},
		cli.StringFlag{
			Name:  workDirFlag,
			Usage: "override the checkout directory the pipeline operates in",
		})
}

func triggerFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:   eventFlag,
			Usage:  "trigger event, either 'push' or 'dispatch'",
			EnvVar: "GITHUB_EVENT_NAME",
			Value:  "push",
		},
		cli.StringFlag{
			Name:   refFlag,
			Usage:  "the pushed branch ref, e.g. refs/heads/main",
			EnvVar: "GITHUB_REF",
		},
		cli.StringFlag{
			Name:   shaFlag,
			Usage:  "the triggering commit SHA",
			EnvVar: "GITHUB_SHA",
		},
		cli.IntFlag{
			Name:   prFlag,
			Usage:  "pull request number for a dispatched run",
			EnvVar: "PR_NUMBER",
		})
}

func reportFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  currentFlag,
			Usage: "baseline or commit SHA to report on",
		},
		cli.StringFlag{
			Name:  previousFlag,
			Usage: "baseline or commit SHA to compare against",
		},
		cli.StringFlag{
			Name:  joinFlagNames(outputFlag, "o"),
			Usage: "write the report to a file instead of standard output",
		})
}
