package atari800

import "github.com/huegli/attic-sub012/internal/atticerr"

// DiskSlotCount is the number of drives the façade exposes, matching the
// spec's worked examples which never address more than two drives.
const DiskSlotCount = 2

// Disk is an in-memory disk image mounted into a slot. Real ATR parsing
// is out of scope (spec §1 Non-goals); a disk here is an opaque named
// byte blob the façade can report back to callers.
type Disk struct {
	Name string
	Data []byte
}

type diskDrive struct {
	mounted bool
	disk    Disk
}

// disks holds the slot table. It is embedded in Facade and protected by
// the same mutex.
type disks struct {
	slots [DiskSlotCount]diskDrive
}

func (d *disks) mount(slot int, disk Disk) error {
	if slot < 0 || slot >= DiskSlotCount {
		return atticerr.Errorf(atticerr.KindInvalidAddress, "disk slot %d out of range", slot)
	}
	if d.slots[slot].mounted {
		return atticerr.Errorf(atticerr.KindAlreadyExists, "slot %d already has a disk mounted", slot)
	}
	d.slots[slot] = diskDrive{mounted: true, disk: disk}
	return nil
}

func (d *disks) unmount(slot int) error {
	if slot < 0 || slot >= DiskSlotCount {
		return atticerr.Errorf(atticerr.KindInvalidAddress, "disk slot %d out of range", slot)
	}
	if !d.slots[slot].mounted {
		return atticerr.Errorf(atticerr.KindNotFound, "slot %d has no disk mounted", slot)
	}
	d.slots[slot] = diskDrive{}
	return nil
}

func (d *disks) list() []Disk {
	out := make([]Disk, 0, DiskSlotCount)
	for _, s := range d.slots {
		if s.mounted {
			out = append(out, s.disk)
		}
	}
	return out
}
