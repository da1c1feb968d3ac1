package atari800

import "github.com/go-audio/audio"

// AudioFrameSamples is the number of mono samples produced per emulated
// video frame at the Atari's 44.1kHz/60Hz-ish pairing, rounded to a
// convenient constant rather than chasing NTSC/PAL exactness (out of
// scope per spec §1).
const AudioFrameSamples = 735

// NewAudioFrame allocates the PCM buffer shape the audio channel
// broadcasts, typed with go-audio/audio so downstream consumers (a wav
// writer in tests, or a real playback sink) get a format-aware buffer
// instead of a bare []byte.
func NewAudioFrame() *audio.IntBuffer {
	return &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  44100,
		},
		Data:           make([]int, AudioFrameSamples),
		SourceBitDepth: 16,
	}
}

// renderSilence fills buf with silence. POKEY sound generation is out of
// scope (spec §1); the façade still needs to produce a frame of the
// right shape on every advance_one_frame call so the audio channel has
// something to broadcast.
func renderSilence(buf *audio.IntBuffer) {
	for i := range buf.Data {
		buf.Data[i] = 0
	}
}
