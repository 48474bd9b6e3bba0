package transcode

import (
	"fmt"
	"os"

	"github.com/RyanBlaney/taal-finder/algorithms/common"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// decodeWAV reads a PCM WAV file with go-audio/wav, mixes it to mono and
// resamples it to the target rate.
func (d *Decoder) decodeWAV(filename string) (*AudioData, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid PCM wav file", filename)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read wav pcm: %w", err)
	}

	mono := mixdown(buf)
	sourceRate := buf.Format.SampleRate
	pcm := common.ResampleLinear(mono, sourceRate, d.config.TargetSampleRate)

	return &AudioData{
		PCM:        pcm,
		SampleRate: d.config.TargetSampleRate,
		Channels:   buf.Format.NumChannels,
		Duration:   samplesDuration(len(mono), sourceRate),
		Source:     filename,
	}, nil
}

// mixdown averages interleaved channels and scales integer samples into
// [-1, 1] by the source bit depth
func mixdown(buf *audio.IntBuffer) []float64 {
	channels := max(1, buf.Format.NumChannels)
	scale := 1.0
	if buf.SourceBitDepth > 0 {
		scale = float64(int64(1) << (buf.SourceBitDepth - 1))
	}

	frames := len(buf.Data) / channels
	mono := make([]float64, frames)
	for i := range frames {
		sum := 0
		for c := range channels {
			sum += buf.Data[i*channels+c]
		}
		mono[i] = float64(sum) / float64(channels) / scale
	}
	return mono
}
