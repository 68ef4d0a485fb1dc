package cli

import "github.com/atotto/clipboard"

// Clipboard abstracts the system clipboard so pkg/ligi never imports a
// platform-specific dependency directly and tests can substitute a fake.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard backs Clipboard with the real OS clipboard via
// github.com/atotto/clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
