package ordernum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "DKN-20260831-00042", Format("20260831", 42))
	assert.Equal(t, "DKN-20260831-00001", Format("20260831", 1))
	// Sequences past five digits widen rather than truncate.
	assert.Equal(t, "DKN-20260831-123456", Format("20260831", 123456))
}

func TestFormat_DistinctSequencesDistinctNumbers(t *testing.T) {
	seen := make(map[string]bool)
	for seq := int64(1); seq <= 1000; seq++ {
		n := Format("20260831", seq)
		assert.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}
}
