package heap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpHeapRespectsDebugLevel(t *testing.T) {
	tests := []struct {
		name        string
		level       DebugLevel
		wantEmpty   bool
		wantPerLine bool
	}{
		{"off writes nothing", DebugOff, true, false},
		{"summary writes only totals", DebugSummary, false, false},
		{"trace writes totals and blocks", DebugTrace, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DebugLevel = tt.level
			mem := make([]byte, 256)
			a, err := NewImplicitAllocator(mem, cfg)
			require.NoError(t, err)

			var buf bytes.Buffer
			a.DumpHeap(&buf)

			if tt.wantEmpty {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), "bytes used")
			hasBlockLine := strings.Contains(buf.String(), "0x0000:")
			assert.Equal(t, tt.wantPerLine, hasBlockLine)
		})
	}
}
