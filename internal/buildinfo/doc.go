// Package buildinfo reports which verity binary is running. Release builds
// stamp the variables below with
//
//	-ldflags "-X github.com/AbdelazizMoustafa10m/verity/internal/buildinfo.Version=1.2.0"
//
// and GetInfo fills in whatever the toolchain embedded for plain go install
// builds.
package buildinfo

var (
	// Version is the release tag without the leading "v". "dev" marks an
	// unstamped build.
	Version = "dev"

	// Commit is the abbreviated revision the binary was built from.
	Commit = "unknown"

	// Date is when the binary was built, as RFC 3339 in UTC.
	Date = "unknown"
)
