package mp3

import "encoding/binary"

// vbrHeader describes an encoder info frame found at the start of a stream.
type vbrHeader struct {
	Kind   string // "Xing", "Info" or "VBRI"
	Frames uint32 // 0 if the header does not declare a frame count
}

// parseVBRHeader checks whether frame (a complete Layer III frame, header
// included) is a Xing/Info or VBRI metadata frame rather than audio.
func parseVBRHeader(fh FrameHeader, frame []byte) (vbrHeader, bool) {
	if fh.Layer != layerIII {
		return vbrHeader{}, false
	}

	// Xing/Info follows the side information.
	off := 4 + fh.sideInfoSize()
	if fh.Protected {
		off += 2
	}
	if len(frame) >= off+8 {
		switch tag := string(frame[off : off+4]); tag {
		case "Xing", "Info":
			h := vbrHeader{Kind: tag}
			flags := binary.BigEndian.Uint32(frame[off+4 : off+8])
			if flags&0x0001 != 0 && len(frame) >= off+12 {
				h.Frames = binary.BigEndian.Uint32(frame[off+8 : off+12])
			}
			return h, true
		}
	}

	// VBRI always sits 32 bytes after the header.
	const vbriOff = 36
	if len(frame) >= vbriOff+18 && string(frame[vbriOff:vbriOff+4]) == "VBRI" {
		return vbrHeader{
			Kind:   "VBRI",
			Frames: binary.BigEndian.Uint32(frame[vbriOff+14 : vbriOff+18]),
		}, true
	}

	return vbrHeader{}, false
}
