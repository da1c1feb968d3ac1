package atari800_test

import (
	"testing"

	"github.com/huegli/attic-sub012/internal/aesp"
	"github.com/huegli/attic-sub012/internal/atari800"
	"github.com/huegli/attic-sub012/internal/atticerr"
	"github.com/huegli/attic-sub012/test"
)

func TestSnapshotRoundTrip(t *testing.T) {
	f := atari800.NewFacade()
	f.Reset(true)
	f.WriteBlock(0x0600, []byte{0xA9, 0x42})
	f.SetRegisters(aesp.RegAll, aesp.Registers{A: 1, X: 2, Y: 3, S: 4, P: 5, PC: 0x1234})

	blob := f.Snapshot()

	g := atari800.NewFacade()
	g.Reset(true)
	err := g.Restore(blob)
	test.ExpectSuccess(t, err)

	test.Equate(t, g.ReadBlock(0x0600, 2), []byte{0xA9, 0x42})
	test.ExpectEquality(t, g.GetRegisters(), f.GetRegisters())
}

func TestRestoreRejectsBadMagic(t *testing.T) {
	f := atari800.NewFacade()
	f.Reset(true)
	f.WriteByte(0x0600, 0x11)

	// full-length blob with the right version byte, so only the magic is wrong
	blob := make([]byte, 4+1+7+65536)
	blob[4] = 1
	err := f.Restore(blob)
	test.ExpectEquality(t, atticerr.KindOf(err), atticerr.KindParseArgument)
	// state must be untouched
	test.ExpectEquality(t, f.ReadByte(0x0600), byte(0x11))
}
