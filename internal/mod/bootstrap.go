package mod

import (
	"io/fs"

	"redbirden/internal/guest"
)

// BootstrapReport describes what the one-time install did.
type BootstrapReport struct {
	Payload  PayloadResult
	Original [guest.HookHalfWords]uint16 // hook instructions before patching, listing order
	Patches  int                         // table size after the install
}

// Bootstrap registers the hook, the loader trampoline and the encounter hook in
// table and streams the payload body into the scratch region.
//
// The hook at guest.HookAddr saves r0-r7 and calls the loader. The loader saves
// lr, runs its entry slot, restores state, steps lr past the hook, replays the
// instructions the hook replaced and returns. The entry slot jumps into the
// payload only when the payload was read to its end; otherwise it is a no-op
// and everything else still installs.
func Bootstrap(mem guest.Memory, table *PatchTable, fsys fs.FS, payload string) BootstrapReport {
	var rep BootstrapReport

	for i := range rep.Original {
		rep.Original[i] = guest.Swap16(mem.Read16(guest.HookAddr + uint32(i)*2))
	}

	for i, op := range hookSequence {
		table.Add(guest.HookAddr+uint32(i)*2, op)
	}

	table.Add(guest.LoaderAddr+0x0, opPushLR)
	// +0x2 is the entry slot, filled once the payload outcome is known
	table.Add(guest.LoaderAddr+0x4, opPopR0) // lr saved above
	table.Add(guest.LoaderAddr+0x6, opAddR0Imm)
	table.Add(guest.LoaderAddr+0x8, opMovLRR0)
	table.Add(guest.LoaderAddr+0xA, opPopR0R7)
	for i, op := range rep.Original {
		table.Add(guest.LoaderReplayAddr+uint32(i)*2, op)
	}
	table.Add(guest.LoaderReturnAddr, opBxLR)

	if fsys == nil {
		rep.Payload = PayloadResult{Outcome: PayloadMissing, Err: ErrPayloadOpen}
	} else {
		rep.Payload = LoadPayload(fsys, payload, mem, guest.PayloadAddr)
	}

	if rep.Payload.Outcome == PayloadLoaded {
		table.Add(guest.LoaderEntrySlot, opSwiEntry)
	} else {
		table.Add(guest.LoaderEntrySlot, opMovR0R0)
	}

	table.Add(guest.EncounterHookAddr, opSwiWild)
	table.Add(guest.EncounterHookAddr+2, opNop)

	rep.Patches = table.Len()
	return rep
}
