package gncat

var (
	// Version of GNcat.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
