// Package notify provides Notifier implementations. The core reports
// recoverable sync failures through this port instead of failing.
package notify

import (
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/facet/internal/core/ports/driven"
	"github.com/custodia-labs/facet/internal/logger"
)

// Ensure WriterNotifier implements the interface.
var _ driven.Notifier = (*WriterNotifier)(nil)

// WriterNotifier prints notices to a writer, stderr by default, and
// mirrors them to the verbose log.
type WriterNotifier struct {
	out io.Writer
}

// New creates a notifier writing to stderr.
func New() *WriterNotifier {
	return &WriterNotifier{out: os.Stderr}
}

// NewWithWriter creates a notifier writing to w. Useful for testing.
func NewWithWriter(w io.Writer) *WriterNotifier {
	return &WriterNotifier{out: w}
}

// Notify reports a user-visible notice.
func (n *WriterNotifier) Notify(message string) {
	fmt.Fprintf(n.out, "notice: %s\n", message)
	logger.Warn("%s", message)
}
