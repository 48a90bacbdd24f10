/*
Package perfpipe holds application level constants and the shared
configuration for the perfpipe continuous-benchmarking pipeline.
*/
package perfpipe

// BuildRevision stores the commit in the git repository at build time and is
// specified with -ldflags at build time.
var BuildRevision = ""

const (
	// AppName is the name used for logging senders and user agents.
	AppName = "perfpipe"

	// DefaultBucketPrefix is the object-store prefix under which result
	// artifacts are published.
	DefaultBucketPrefix = "benchmarks"

	// DefaultResultsDir is the local directory that packaged artifacts are
	// staged in before upload.
	DefaultResultsDir = "results"
)
