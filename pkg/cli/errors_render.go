package cli

import (
	"errors"
	"fmt"

	"github.com/jlrickert/ligi/pkg/ligi"
)

// RenderError prints err to streams.Err with the kind-prefixed format spec
// §7 describes ("error: ..." / "warning: ...") and returns the process exit
// code that kind maps to. A nil err prints nothing and returns 0.
func RenderError(streams Streams, err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, ligi.ErrArtNotFound) {
		fmt.Fprintf(streams.Err, "error: %s (run `ligi init` to create one)\n", err)
		return 3
	}

	switch ligi.ClassifyKind(err) {
	case ligi.KindUsage:
		fmt.Fprintf(streams.Err, "error: %s\n", err)
		return 2
	case ligi.KindWarning:
		fmt.Fprintf(streams.Err, "warning: %s\n", err)
		return 0
	case ligi.KindInternal:
		fmt.Fprintf(streams.Err, "error: %s\n", err)
		return 127
	default:
		fmt.Fprintf(streams.Err, "error: %s\n", err)
		return 1
	}
}
