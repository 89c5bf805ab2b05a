package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/linuxmatters/crosstalk/internal/cache"
)

// writeWAV writes 16-bit PCM test fixtures.
func writeWAV(t *testing.T, path string, sampleRate, channels int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           data,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestReaderReadsStereoWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "call.wav")
	// Frames: L=0.5, R=-0.5 throughout.
	const frames = 100
	data := make([]int, frames*2)
	for i := 0; i < frames; i++ {
		data[2*i] = 16384
		data[2*i+1] = -16384
	}
	writeWAV(t, path, SampleRate, 2, data)

	reader := NewReader(nil)
	left, right, stereo, err := reader.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if !stereo {
		t.Fatal("expected stereo")
	}
	if len(left) != frames || len(right) != frames {
		t.Fatalf("got %d/%d frames, want %d each", len(left), len(right), frames)
	}
	if math.Abs(float64(left[10])-0.5) > 0.01 {
		t.Errorf("left sample = %v, want ~0.5", left[10])
	}
	if math.Abs(float64(right[10])+0.5) > 0.01 {
		t.Errorf("right sample = %v, want ~-0.5", right[10])
	}
}

func TestReaderReadsMonoWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.wav")
	data := make([]int, 200)
	for i := range data {
		data[i] = 8192
	}
	writeWAV(t, path, SampleRate, 1, data)

	reader := NewReader(nil)
	left, right, stereo, err := reader.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if stereo {
		t.Fatal("expected mono")
	}
	if right != nil {
		t.Errorf("mono read returned a right channel of %d samples", len(right))
	}
	if len(left) != 200 {
		t.Errorf("got %d samples, want 200", len(left))
	}
}

func TestReaderResamplesToPipelineRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cd.wav")
	const srcRate = 44100
	data := make([]int, srcRate) // one second of mono
	writeWAV(t, path, srcRate, 1, data)

	reader := NewReader(nil)
	left, _, _, err := reader.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(left); got < SampleRate-10 || got > SampleRate+10 {
		t.Errorf("resampled to %d frames, want ~%d", got, SampleRate)
	}
}

func TestReaderCachesDecodedAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cached.wav")
	writeWAV(t, path, SampleRate, 2, make([]int, 400))

	c := cache.New(4, time.Minute)
	reader := NewReader(c)

	if _, _, _, err := reader.Read(path); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := reader.Read(path); err != nil {
		t.Fatal(err)
	}

	stats := c.Stats()
	if stats.Misses != 1 || stats.Hits != 1 {
		t.Errorf("cache stats = %+v, want 1 miss then 1 hit", stats)
	}
}

func TestReaderRejectsNonWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.wav")
	if err := os.WriteFile(path, []byte("not audio at all"), 0644); err != nil {
		t.Fatal(err)
	}

	reader := NewReader(nil)
	if _, _, _, err := reader.Read(path); err == nil {
		t.Fatal("expected an error for a non-WAV file")
	}
}
