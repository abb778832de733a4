package mod

import (
	"bufio"
	"errors"
	"io"
	"io/fs"

	"go.trai.ch/zerr"

	"redbirden/internal/guest"
)

// Payload file layout.
const (
	DefaultPayloadFile = "redmod.elf"
	PayloadEntryOffset = 0x18
	PayloadBodyOffset  = 0x100
	payloadHeaderLen   = PayloadEntryOffset + 4
)

var (
	// ErrPayloadOpen is recorded when the payload file cannot be opened.
	ErrPayloadOpen = zerr.New("could not open mod payload")
	// ErrPayloadTruncated is recorded when the payload stream ends abnormally.
	ErrPayloadTruncated = zerr.New("mod payload truncated")
)

// PayloadOutcome is how the payload load ended.
type PayloadOutcome int

const (
	PayloadMissing   PayloadOutcome = iota // file could not be opened; loader is inert
	PayloadLoaded                          // stream read to its end; loader jumps to the entry point
	PayloadTruncated                       // header short or read error; loader is inert
)

func (o PayloadOutcome) String() string {
	switch o {
	case PayloadMissing:
		return "Missing"
	case PayloadLoaded:
		return "Loaded"
	case PayloadTruncated:
		return "Truncated"
	default:
		return "Unknown"
	}
}

// PayloadResult describes one payload load.
type PayloadResult struct {
	Outcome   PayloadOutcome
	Entry     uint32 // entry point from the header, 0 unless read
	HalfWords int    // body half-words written
	Err       error
}

// LoadPayload reads name from fsys, records its entry point and streams its
// body into mem at dst as raw half-word writes. A trailing odd byte is written
// zero-padded and still counts as a clean end.
func LoadPayload(fsys fs.FS, name string, mem guest.Memory, dst uint32) PayloadResult {
	f, err := fsys.Open(name)
	if err != nil {
		return PayloadResult{
			Outcome: PayloadMissing,
			Err:     zerr.With(zerr.Wrap(err, ErrPayloadOpen.Error()), "file", name),
		}
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var res PayloadResult

	var header [payloadHeaderLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return truncated(res, name, err)
	}
	res.Entry = guest.ByteOrder.Uint32(header[PayloadEntryOffset:])

	if _, err := io.CopyN(io.Discard, r, PayloadBodyOffset-payloadHeaderLen); err != nil {
		if errors.Is(err, io.EOF) {
			// no body at all
			res.Outcome = PayloadLoaded
			return res
		}
		return truncated(res, name, err)
	}

	var word [2]byte
	addr := dst
	for {
		n, err := io.ReadFull(r, word[:])
		switch {
		case err == nil:
		case errors.Is(err, io.ErrUnexpectedEOF) && n == 1:
			word[1] = 0
		case errors.Is(err, io.EOF):
			res.Outcome = PayloadLoaded
			return res
		default:
			return truncated(res, name, err)
		}

		mem.RawWrite16(addr, guest.ByteOrder.Uint16(word[:]))
		addr += 2
		res.HalfWords++

		if err != nil {
			res.Outcome = PayloadLoaded
			return res
		}
	}
}

func truncated(res PayloadResult, name string, err error) PayloadResult {
	res.Outcome = PayloadTruncated
	res.Err = zerr.With(zerr.Wrap(err, ErrPayloadTruncated.Error()), "file", name)
	return res
}
