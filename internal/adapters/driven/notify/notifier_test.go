package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterNotifier_Notify(t *testing.T) {
	var buf bytes.Buffer
	n := NewWithWriter(&buf)

	n.Notify("document a.json: malformed document")

	assert.Equal(t, "notice: document a.json: malformed document\n", buf.String())
}
