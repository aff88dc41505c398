package catalog

// Target describes the pointer properties the memory catalog assumes when
// reporting sizes for pointer-shaped types.
type Target struct {
	Triple  string // e.g. "x86_64-linux-gnu"
	PtrSize int    // bytes
}

// X86_64LinuxGNU is the default 64-bit target.
func X86_64LinuxGNU() Target {
	return Target{
		Triple:  "x86_64-linux-gnu",
		PtrSize: 8,
	}
}
