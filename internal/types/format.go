package types

import (
	"io"

	"github.com/simonhull/mp3split/internal/binary"
)

// Format represents the detected container format.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatMP3 represents MPEG audio streams (MP3, MP2, MP1).
	FormatMP3
	// FormatFLAC represents FLAC audio files.
	FormatFLAC
	// FormatOgg represents Ogg-encapsulated audio.
	FormatOgg
	// FormatWAV represents WAV audio files.
	FormatWAV
	// FormatAIFF represents AIFF audio files.
	FormatAIFF
	// FormatM4A represents MPEG-4 audio files.
	FormatM4A
)

var formatNames = map[Format]string{
	FormatUnknown: "Unknown",
	FormatMP3:     "MP3",
	FormatFLAC:    "FLAC",
	FormatOgg:     "Ogg",
	FormatWAV:     "WAV",
	FormatAIFF:    "AIFF",
	FormatM4A:     "M4A",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "Unknown"
}

// Extension returns the file extension used for output files of this format.
func (f Format) Extension() string {
	switch f {
	case FormatMP3:
		return ".mp3"
	case FormatFLAC:
		return ".flac"
	case FormatOgg:
		return ".ogg"
	case FormatWAV:
		return ".wav"
	case FormatAIFF:
		return ".aiff"
	case FormatM4A:
		return ".m4a"
	default:
		return ""
	}
}

// DetectFormat determines the container format by examining magic bytes.
//
// Detection does not validate the file structure beyond the signature. Files
// that match no known signature yield a DecodeError.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	if size < 4 {
		return FormatUnknown, &DecodeError{Path: path, Reason: "file too small"}
	}

	sr := binary.NewSafeReader(r, size, path)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "file magic bytes"); err != nil {
		return FormatUnknown, &IOError{Op: "read", Path: path, Err: err}
	}

	switch {
	case string(magic[:3]) == "ID3":
		return FormatMP3, nil
	case magic[0] == 0xFF && magic[1]&0xE0 == 0xE0:
		// MPEG audio frame sync (11 set bits)
		return FormatMP3, nil
	case string(magic) == "fLaC":
		return FormatFLAC, nil
	case string(magic) == "OggS":
		return FormatOgg, nil
	}

	if size >= 12 {
		tag := make([]byte, 4)
		if err := sr.ReadAt(tag, 8, "container brand"); err == nil {
			switch {
			case string(magic) == "RIFF" && string(tag) == "WAVE":
				return FormatWAV, nil
			case string(magic) == "FORM" && (string(tag) == "AIFF" || string(tag) == "AIFC"):
				return FormatAIFF, nil
			}
		}

		atomType, err := binary.Read[uint32](sr, 4, "ftyp atom type")
		if err == nil && atomType == 0x66747970 { // "ftyp"
			return FormatM4A, nil
		}
	}

	return FormatUnknown, &DecodeError{Path: path, Reason: "unrecognized file signature"}
}
