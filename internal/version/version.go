package version

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/readmegen/internal/version.Version=v0.3.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String is the --version output: "readmegen <version>", followed by the
// commit and build time when they were set at build time.
func String() string {
	s := "readmegen " + Version
	if GitCommit != "unknown" {
		s += " (" + GitCommit
		if BuildTime != "unknown" {
			s += ", built " + BuildTime
		}
		s += ")"
	}
	return s
}
