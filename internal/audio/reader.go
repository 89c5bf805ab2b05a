package audio

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/wav"

	"github.com/linuxmatters/crosstalk/internal/cache"
)

// Reader decodes WAV files into pipeline PCM. Decoded buffers go through the
// shared audio cache so a batch that revisits a file does not decode twice.
// Safe for concurrent use.
type Reader struct {
	cache *cache.AudioCache

	mu       sync.Mutex
	channels map[string]int
}

// NewReader builds a reader over the given cache; a nil cache gets defaults.
func NewReader(c *cache.AudioCache) *Reader {
	if c == nil {
		c = cache.New(0, 0)
	}
	return &Reader{
		cache:    c,
		channels: make(map[string]int),
	}
}

// Read decodes the WAV file at path into 16 kHz float32 PCM. Stereo files
// return both channels; mono files return the single channel as left with a
// nil right.
func (r *Reader) Read(path string) (left, right []float32, stereo bool, err error) {
	samples, err := r.cache.LoadOrFetch(path, r.decode)
	if err != nil {
		return nil, nil, false, err
	}

	r.mu.Lock()
	channels := r.channels[path]
	r.mu.Unlock()

	switch channels {
	case 1:
		return samples, nil, false, nil
	case 2:
		left, right = DeinterleaveStereo(samples)
		return left, right, true, nil
	default:
		return nil, nil, false, fmt.Errorf("%s: unsupported channel count %d", path, channels)
	}
}

// decode loads a WAV file and converts it to interleaved float32 at the
// pipeline sample rate.
func (r *Reader) decode(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s: not a valid WAV file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("%s: missing format information", path)
	}

	channels := buf.Format.NumChannels
	scale := float32(int64(1) << (dec.BitDepth - 1))
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / scale
	}

	if rate := buf.Format.SampleRate; rate != SampleRate {
		samples = resampleInterleaved(samples, channels, rate, SampleRate)
	}

	r.mu.Lock()
	r.channels[path] = channels
	r.mu.Unlock()
	return samples, nil
}

// resampleInterleaved converts interleaved PCM between sample rates with
// linear interpolation, per channel.
func resampleInterleaved(samples []float32, channels, from, to int) []float32 {
	if from == to || channels <= 0 {
		return samples
	}
	frames := len(samples) / channels
	if frames == 0 {
		return nil
	}

	outFrames := int(float64(frames) * float64(to) / float64(from))
	if outFrames == 0 {
		outFrames = 1
	}
	out := make([]float32, outFrames*channels)

	ratio := float64(from) / float64(to)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := float32(pos - float64(idx))
		next := idx + 1
		if next >= frames {
			next = frames - 1
		}
		for ch := 0; ch < channels; ch++ {
			a := samples[idx*channels+ch]
			b := samples[next*channels+ch]
			out[i*channels+ch] = a + (b-a)*frac
		}
	}
	return out
}
