package speech

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/teslashibe/lenslab/pkg/tts"
)

// Loudness envelope tuning.
const (
	FrameDuration = 20 * time.Millisecond
	HopDuration   = 10 * time.Millisecond

	// dBFS mapped to 0 and 1.
	LevelFloorDB   = -46.0
	LevelCeilingDB = -18.0
	LevelGamma     = 0.9

	// Per-hop smoothing toward the new level while rising and falling.
	AttackGain  = 0.65
	ReleaseGain = 0.15
)

// Envelope returns a 0..1 loudness level for every HopDuration of a mono
// PCM16 buffer. It drives the speaking indicator in the viewers.
func Envelope(pcm []byte, format tts.Format) []float64 {
	samples := decode(pcm)
	if len(samples) == 0 || format.SampleRate <= 0 {
		return nil
	}

	hop := int(int64(format.SampleRate) * int64(HopDuration) / int64(time.Second))
	frame := int(int64(format.SampleRate) * int64(FrameDuration) / int64(time.Second))
	if hop <= 0 || frame <= 0 {
		return nil
	}

	levels := make([]float64, 0, len(samples)/hop+1)
	env := 0.0
	for start := 0; start < len(samples); start += hop {
		end := min(len(samples), start+frame)
		target := loudness(rmsDBFS(samples[start:end]))

		gain := ReleaseGain
		if target > env {
			gain = AttackGain
		}
		env = clamp(env+gain*(target-env), 0, 1)
		levels = append(levels, env)
	}
	return levels
}

// LevelAt returns the envelope value at offset into the audio.
func LevelAt(levels []float64, offset time.Duration) float64 {
	if len(levels) == 0 || offset < 0 {
		return 0
	}
	i := int(offset / HopDuration)
	if i >= len(levels) {
		return 0
	}
	return levels[i]
}

// ToStereo converts mono PCM16 at srcRate into interleaved stereo PCM16 at
// dstRate, resampling linearly.
func ToStereo(pcm []byte, srcRate, dstRate int) []byte {
	samples := decode(pcm)
	samples = resampleLinear(samples, srcRate, dstRate)

	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		v := uint16(int16(clamp(s, -1, 1) * 32767))
		binary.LittleEndian.PutUint16(out[i*4:], v)
		binary.LittleEndian.PutUint16(out[i*4+2:], v)
	}
	return out
}

func decode(pcm []byte) []float64 {
	n := len(pcm) / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = float64(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / 32768.0
	}
	return out
}

func rmsDBFS(samples []float64) float64 {
	if len(samples) == 0 {
		return -100.0
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	rms := math.Sqrt(sum/float64(len(samples)) + 1e-12)
	return 20.0 * math.Log10(rms+1e-12)
}

func loudness(db float64) float64 {
	t := clamp((db-LevelFloorDB)/(LevelCeilingDB-LevelFloorDB), 0, 1)
	return math.Pow(t, LevelGamma)
}

func resampleLinear(samples []float64, srIn, srOut int) []float64 {
	if srIn == srOut || srIn <= 0 || srOut <= 0 || len(samples) == 0 {
		return samples
	}
	nOut := int(math.Round(float64(len(samples)) * float64(srOut) / float64(srIn)))
	if nOut <= 1 {
		return nil
	}
	out := make([]float64, nOut)
	for i := range out {
		t := float64(i) / float64(nOut-1) * float64(len(samples)-1)
		idx := int(t)
		frac := t - float64(idx)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
		} else {
			out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
