package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBlockSizes(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		blockSize  int
		wantBlocks int
		wantLast   int
	}{
		{"default", 88200, 256, 345, 136},
		{"exact multiple", 1024, 256, 4, 256},
		{"single frame blocks", 10, 1, 10, 1},
		{"block larger than total", 100, 4096, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &recordingUnit{}
			u.Init(44100)
			inputs := NewBuffers(1, tt.total)
			outputs := NewBuffers(1, tt.total)

			var seen int
			blocks := Render(u, inputs, outputs, tt.blockSize, func(start, n int, block [][]float32) {
				assert.Equal(t, seen, start)
				assert.Len(t, block[0], n)
				seen += n
			})

			assert.Equal(t, tt.wantBlocks, blocks)
			require.Len(t, u.calls, tt.wantBlocks)
			assert.Equal(t, tt.wantLast, u.calls[len(u.calls)-1])
			assert.Equal(t, tt.total, seen)
			assert.True(t, u.inputsOK, "inputs must be zero and sized to the block")
			for i := 0; i < tt.total; i++ {
				if outputs.At(0, i) != 1 {
					t.Fatalf("sample %d not written", i)
				}
			}
		})
	}
}

func TestRenderZeroChannelsStillAdvances(t *testing.T) {
	u := &nullUnit{}
	blocks := Render(u, NewBuffers(0, 1000), NewBuffers(0, 1000), 256, nil)
	assert.Equal(t, 4, blocks)
	assert.Equal(t, 4, u.calls)
}

func TestBuffersBlock(t *testing.T) {
	b := NewBuffers(2, 10)
	assert.Equal(t, 2, b.Channels())
	assert.Equal(t, 10, b.Len())

	views := b.Block(4, 3)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.Len(t, v, 3)
		assert.Equal(t, 3, cap(v), "views are capped at the block length")
	}

	views[1][0] = 0.5
	assert.Equal(t, float32(0.5), b.At(1, 4))
	assert.Equal(t, float32(0.5), b.Channel(1)[4])
	assert.Equal(t, float32(0), b.At(0, 4))
}
