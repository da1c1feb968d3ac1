package atari800_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/huegli/attic-sub012/internal/atari800"
	"github.com/huegli/attic-sub012/test"
)

// dumpAudioFrame writes one PCM frame to a standalone WAV file, the
// fixture format used to inspect a captured AudioPcm frame outside of a
// running client — grounded on go-audio/wav's own Encoder, the same
// library go.mod already carries for the emulation core's audio buffers.
func dumpAudioFrame(t *testing.T, path string, buf *audio.IntBuffer) {
	t.Helper()
	f, err := os.Create(path)
	test.ExpectSuccess(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, buf.Format.SampleRate, buf.SourceBitDepth, buf.Format.NumChannels, 1)
	test.ExpectSuccess(t, enc.Write(buf))
	test.ExpectSuccess(t, enc.Close())
}

func TestAdvanceOneFrameProducesAWellFormedAudioBuffer(t *testing.T) {
	f := atari800.NewFacade()
	f.Reset(true)
	f.Fill(0, 0xFFFF, 0xEA) // a NOP sled so the frame runs to completion

	_, pcm, err := f.AdvanceOneFrame()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(pcm.Data), atari800.AudioFrameSamples)
	test.ExpectEquality(t, pcm.Format.NumChannels, 1)

	path := filepath.Join(t.TempDir(), "frame.wav")
	dumpAudioFrame(t, path, pcm)

	info, err := os.Stat(path)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, info.Size() > 0, true)
}
