package preview

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// ReadFile decodes a .wav or .mp3 file into samples in [-1, 1).
func ReadFile(path string) (*audio.FloatBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return DecodeWAV(f)
	case ".mp3":
		return DecodeMP3(f)
	}
	return nil, fmt.Errorf("unsupported input format %q: want .wav or .mp3", filepath.Ext(path))
}

// DecodeWAV decodes a PCM WAV stream.
func DecodeWAV(r io.ReadSeeker) (*audio.FloatBuffer, error) {
	dec := wav.NewDecoder(r)
	if dec == nil || !dec.IsValidFile() {
		return nil, fmt.Errorf("wav: not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	depth := int(dec.BitDepth)
	if depth < 8 || depth > 32 {
		return nil, fmt.Errorf("wav: unsupported bit depth %d", depth)
	}
	scale := float64(int64(1) << (depth - 1))

	out := &audio.FloatBuffer{
		Format: &audio.Format{NumChannels: int(dec.NumChans), SampleRate: int(dec.SampleRate)},
		Data:   make([]float64, len(buf.Data)),
	}
	for i, v := range buf.Data {
		// 8-bit WAV samples are unsigned
		if depth == 8 {
			v -= 128
		}
		out.Data[i] = float64(v) / scale
	}
	return out, nil
}

// DecodeMP3 decodes an MP3 stream. The result is always 2 channels.
func DecodeMP3(r io.Reader) (*audio.FloatBuffer, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	// the decoder always produces 16-bit little endian stereo
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	out := &audio.FloatBuffer{
		Format: &audio.Format{NumChannels: 2, SampleRate: dec.SampleRate()},
		Data:   make([]float64, len(pcm)/2),
	}
	for i := range out.Data {
		s := int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8)
		out.Data[i] = float64(s) / 32768
	}
	return out, nil
}

// WriteFile encodes buf as a PCM WAV file of the given bit depth.
func WriteFile(path string, buf *audio.FloatBuffer, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := EncodeWAV(f, buf, bitDepth); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeWAV writes buf as PCM WAV with 16 or 24 bit samples. Samples outside
// [-1, 1) are clipped.
func EncodeWAV(w io.WriteSeeker, buf *audio.FloatBuffer, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("wav: unsupported bit depth %d: want 16 or 24", bitDepth)
	}
	if buf == nil || buf.Format == nil {
		return fmt.Errorf("wav: buffer has no format")
	}

	scale := float64(int64(1) << (bitDepth - 1))
	ints := &audio.IntBuffer{
		Format:         buf.Format,
		Data:           make([]int, len(buf.Data)),
		SourceBitDepth: bitDepth,
	}
	for i, v := range buf.Data {
		s := math.Round(v * scale)
		s = math.Max(-scale, math.Min(scale-1, s))
		ints.Data[i] = int(s)
	}

	const pcmFormat = 1
	enc := wav.NewEncoder(w, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, pcmFormat)
	if err := enc.Write(ints); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return nil
}
