package orchestrator

import (
	"encoding/binary"

	"github.com/go-audio/audio"
)

// encodeAudioSamples packs a go-audio/audio.IntBuffer of 16-bit samples
// into the little-endian byte payload the AudioPcm message carries.
func encodeAudioSamples(buf *audio.IntBuffer) []byte {
	out := make([]byte, len(buf.Data)*2)
	for i, s := range buf.Data {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(s)))
	}
	return out
}
