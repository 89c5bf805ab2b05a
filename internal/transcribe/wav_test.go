package transcribe

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAV(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1.0, -1.0}
	data, err := encodeWAV(samples, 16000)
	require.NoError(t, err)

	require.Greater(t, len(data), 44, "output shorter than a WAV header")
	assert.Equal(t, []byte("RIFF"), data[0:4])
	assert.Equal(t, []byte("WAVE"), data[8:12])

	// fmt chunk: PCM, mono, 16 kHz, 16-bit.
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]))
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(data[34:36]))

	assert.True(t, bytes.Contains(data, []byte("data")))
}

func TestEncodeWAVClampsOverRange(t *testing.T) {
	data, err := encodeWAV([]float32{2.0, -2.0}, 16000)
	require.NoError(t, err)

	idx := bytes.Index(data, []byte("data"))
	require.GreaterOrEqual(t, idx, 0)
	pcm := data[idx+8:]
	require.GreaterOrEqual(t, len(pcm), 4)

	assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(pcm[0:2])))
	assert.Equal(t, int16(-32768), int16(binary.LittleEndian.Uint16(pcm[2:4])))
}

func TestMemWriteSeeker(t *testing.T) {
	m := &memWriteSeeker{}

	_, err := m.Write([]byte("abcdef"))
	require.NoError(t, err)

	// Seek back and overwrite, the pattern the wav encoder uses to patch
	// chunk sizes after the fact.
	_, err = m.Seek(2, 0)
	require.NoError(t, err)
	_, err = m.Write([]byte("XY"))
	require.NoError(t, err)

	assert.Equal(t, []byte("abXYef"), m.data)

	pos, err := m.Seek(0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)

	_, err = m.Seek(-10, 0)
	assert.Error(t, err)
}
