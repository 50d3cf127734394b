package processor

import "github.com/linuxmatters/unitprobe/internal/unit"

// Buffers is per-channel sample storage of a fixed length, indexed by
// (channel, sample).
type Buffers struct {
	data   [][]float32
	length int
}

// NewBuffers allocates zero-filled storage for channels x length samples.
func NewBuffers(channels, length int) *Buffers {
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, length)
	}
	return &Buffers{data: data, length: length}
}

// Channels returns the channel count.
func (b *Buffers) Channels() int {
	return len(b.data)
}

// Len returns the per-channel sample count.
func (b *Buffers) Len() int {
	return b.length
}

// At returns one sample.
func (b *Buffers) At(ch, i int) float32 {
	return b.data[ch][i]
}

// Channel returns the full sample slice of one channel.
func (b *Buffers) Channel(ch int) []float32 {
	return b.data[ch]
}

// Block returns one view per channel covering samples [start, start+n).
// Views alias the underlying storage and are capped at n so a unit cannot
// write past the block.
func (b *Buffers) Block(start, n int) [][]float32 {
	views := make([][]float32, len(b.data))
	for c, ch := range b.data {
		views[c] = ch[start : start+n : start+n]
	}
	return views
}

// BlockFunc observes a freshly computed block. outputs holds n samples per
// channel starting at frame start.
type BlockFunc func(start, n int, outputs [][]float32)

// Render drives u over outputs.Len() frames in blocks of at most blockSize,
// feeding it the matching slice of inputs. onBlock, when non-nil, runs after
// every Compute call. Returns the number of blocks computed.
//
// The loop advances on the sample count alone, so units with zero channels
// still render the full length.
func Render(u unit.Unit, inputs, outputs *Buffers, blockSize int, onBlock BlockFunc) int {
	total := outputs.Len()
	blocks := 0
	for cursor := 0; cursor < total; {
		n := min(blockSize, total-cursor)
		out := outputs.Block(cursor, n)
		u.Compute(n, inputs.Block(cursor, n), out)
		if onBlock != nil {
			onBlock(cursor, n, out)
		}
		cursor += n
		blocks++
	}
	return blocks
}
