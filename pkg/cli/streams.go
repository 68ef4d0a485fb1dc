package cli

import "io"

// Streams bundles the three standard I/O streams a command runs against,
// letting tests substitute buffers for the process's real stdin/stdout/stderr.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}
