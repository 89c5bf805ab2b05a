package transcribe

import (
	"fmt"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// encodeWAV renders mono float PCM as a 16-bit WAV file in memory for the
// sidecar upload.
func encodeWAV(samples []float32, sampleRate int) ([]byte, error) {
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(samples)),
	}
	for i, s := range samples {
		v := int(s * 32767)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		buf.Data[i] = v
	}

	mem := &memWriteSeeker{}
	enc := wav.NewEncoder(mem, sampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav: %w", err)
	}
	return mem.data, nil
}

// memWriteSeeker is the minimal in-memory io.WriteSeeker the wav encoder
// needs to patch up chunk sizes after writing.
type memWriteSeeker struct {
	data []byte
	pos  int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if end := m.pos + len(p); end > len(m.data) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}
	copy(m.data[m.pos:], p)
	m.pos += len(p)
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int
	switch whence {
	case 0:
		next = int(offset)
	case 1:
		next = m.pos + int(offset)
	case 2:
		next = len(m.data) + int(offset)
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("negative seek position")
	}
	m.pos = next
	return int64(next), nil
}
