package perfpipe

import (
	"errors"

	"github.com/mongodb/grip"
)

// Configuration defines the collaborators and commands for a single pipeline
// run. It is loaded once from a YAML file, optionally overridden by CLI
// flags, and never mutated mid-run.
type Configuration struct {
	WorkDir    string        `yaml:"work_dir"`
	ResultsDir string        `yaml:"results_dir"`
	Bucket     BucketConfig  `yaml:"bucket"`
	Compare    CompareConfig `yaml:"compare"`
	GitHub     GitHubConfig  `yaml:"github"`
	Build      StepConfig    `yaml:"build"`
	Bench      BenchConfig   `yaml:"bench"`
	Boost      BoostConfig   `yaml:"boost"`
}

// BucketConfig identifies the object-store bucket that result artifacts are
// published to.
type BucketConfig struct {
	Type      string `yaml:"type"`
	Name      string `yaml:"name"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	AWSKey    string `yaml:"aws_key"`
	AWSSecret string `yaml:"aws_secret"`
}

// CompareConfig points at the remote comparison service and the local
// fallback renderer. When BaseURL is empty the pipeline renders reports
// locally with RenderTool.
type CompareConfig struct {
	BaseURL    string `yaml:"base_url"`
	RenderTool string `yaml:"render_tool"`
}

// GitHubConfig identifies the repository that receives result comments.
// TokenEnv names the environment variable holding the API token so the
// credential itself never appears in the config file.
type GitHubConfig struct {
	Owner    string `yaml:"owner"`
	Repo     string `yaml:"repo"`
	TokenEnv string `yaml:"token_env"`
}

// StepConfig is a single external command invocation.
type StepConfig struct {
	Command []string `yaml:"command"`
}

// BenchConfig describes the benchmark executable. OutputDir is where the
// tool drops its raw result file, keyed by baseline name. PRFilter, when
// set, overrides the default filter applied to pull-request runs.
type BenchConfig struct {
	Command   []string `yaml:"command"`
	OutputDir string   `yaml:"output_dir"`
	PRFilter  string   `yaml:"pr_filter"`
}

// BoostConfig holds the commands that disable and re-enable CPU frequency
// boost around the benchmark stage. Both are optional; leave them unset on
// machines where the pipeline has no business touching frequency scaling.
type BoostConfig struct {
	Disable []string `yaml:"disable"`
	Enable  []string `yaml:"enable"`
}

func (c *Configuration) Validate() error {
	catcher := grip.NewBasicCatcher()

	if c.Bucket.Name == "" {
		catcher.Add(errors.New("must specify a bucket name"))
	}
	if c.Bucket.Type == "" {
		c.Bucket.Type = "s3"
	}
	if c.Bucket.Prefix == "" {
		c.Bucket.Prefix = DefaultBucketPrefix
	}
	if len(c.Bench.Command) == 0 {
		catcher.Add(errors.New("must specify a benchmark command"))
	}
	if c.Bench.OutputDir == "" {
		catcher.Add(errors.New("must specify the benchmark output directory"))
	}
	if c.ResultsDir == "" {
		c.ResultsDir = DefaultResultsDir
	}
	if c.Compare.BaseURL == "" && c.Compare.RenderTool == "" {
		catcher.Add(errors.New("must configure a comparison service or a local render tool"))
	}
	if c.GitHub.TokenEnv == "" {
		c.GitHub.TokenEnv = "GITHUB_TOKEN"
	}
	if (c.GitHub.Owner == "") != (c.GitHub.Repo == "") {
		catcher.Add(errors.New("github owner and repo must be set together"))
	}

	return catcher.Resolve()
}
