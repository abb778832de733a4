package mod

import "redbirden/internal/guest"

// Thumb half-words in listing (byte) order.
const (
	opPushR0R7 = 0xFFB4 // push {r0-r7}
	opPopR0R7  = 0xFFBC // pop {r0-r7}
	opPushLR   = 0x00B5 // push {lr}
	opPopR0    = 0x01BC // pop {r0}
	opAddR0Imm = 0x0130 // add r0, #0x1
	opMovLRR0  = 0x8646 // mov lr, r0
	opMovLRPC  = 0xFE46 // mov lr, pc
	opBxR0     = 0x0047 // bx r0
	opBxLR     = 0x7047 // bx lr
	opNop      = 0x00BF // nop
	opMovR0R0  = 0x001C // mov r0, r0
	opSwiEntry = 0x31DF // swi #0x31: branch to the payload entry point
	opSwiWild  = 0x30DF // swi #0x30: ask the host for the next species
)

// hookSequence loads LoaderAddr|1 into r0 and calls it in thumb state,
// preserving r0-r7 for the loader to restore.
var hookSequence = [guest.HookHalfWords]uint16{
	opPushR0R7,
	0x0820, // mov r0, #0x08
	0x0006, // lsl r0, r0, #24
	0x7221, // mov r1, #0x72
	0x0904, // lsl r1, r1, #16
	0x0843, // orr r0, r1
	0x0121, // mov r1, #0x1
	0x4018, // add r0, r1
	opMovLRPC,
	opBxR0,
}
