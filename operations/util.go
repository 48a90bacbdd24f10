package operations

import (
	"os"

	"github.com/perfpipe/perfpipe"
	"github.com/perfpipe/perfpipe/model"
	"github.com/perfpipe/perfpipe/util"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func writeString(fn string, data string) error {
	f, err := os.Create(fn)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	if _, err = f.WriteString(data); err != nil {
		return errors.WithStack(err)
	}

	if _, err = f.WriteString("\n"); err != nil {
		return errors.WithStack(err)
	}

	if err = f.Sync(); err != nil {
		return err
	}

	return nil
}

// loadConfiguration reads the config file named by the config flag and
// applies flag-level overrides.
func loadConfiguration(c *cli.Context) (*perfpipe.Configuration, error) {
	conf := &perfpipe.Configuration{}
	if err := util.ReadFileYAML(c.String(configFlag), conf); err != nil {
		return nil, errors.Wrap(err, "problem loading configuration")
	}

	if name := c.String(bucketNameFlag); name != "" {
		conf.Bucket.Name = name
	}
	if dir := c.String(workDirFlag); dir != "" {
		conf.WorkDir = dir
	}

	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return conf, nil
}

// newTrigger builds the run's TriggerContext from the trigger flags. The
// context is constructed exactly once per invocation; every later stage
// branches on this value rather than re-reading the environment.
func newTrigger(c *cli.Context) (model.TriggerContext, error) {
	trigger := model.TriggerContext{
		Ref:       c.String(refFlag),
		CommitSHA: c.String(shaFlag),
		PRNumber:  c.Int(prFlag),
	}

	switch event := c.String(eventFlag); event {
	case "push":
		trigger.Kind = model.TriggerPush
		if trigger.Ref == "" {
			return trigger, errors.New("push runs require a branch ref")
		}
		if trigger.CommitSHA == "" {
			return trigger, errors.New("push runs require a commit SHA")
		}
	case "dispatch", "workflow_dispatch":
		trigger.Kind = model.TriggerManualDispatch
	default:
		return trigger, errors.Errorf("unknown trigger event '%s'", event)
	}

	return trigger, nil
}
