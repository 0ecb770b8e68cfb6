// Package mp3split cuts long MP3 files into consecutive chunks of a target
// duration without re-encoding.
//
// Every MPEG audio frame of the source is copied byte-for-byte into exactly
// one chunk, so concatenating the chunks' audio reproduces the source audio
// and the chunk durations add up to the source duration exactly.
//
// # Quick Start
//
//	result, err := mp3split.Split(mp3split.SplitOptions{
//		InputPath:     "audiobook.mp3",
//		ChunkDuration: 10 * time.Minute,
//		OutputDir:     "mp3_chunks",
//		Prefix:        "audiobook_part",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, path := range result.OutputFiles {
//		fmt.Println(path)
//	}
//
// # Pipeline
//
// A split runs strictly in sequence:
//
//	[Scan]    - read every frame of the source into memory
//	[Tag]     - read the source ID3v2 (or ID3v1) tag once
//	[Plan]    - group frames into chunks at frame boundaries
//	[Write]   - write {prefix}_NNN.mp3 files, each with its own tag
//
// Chunk n of N is tagged with the source title plus " (Part n)", track
// number n of N, and a comment giving its time range. Artwork and other
// frames of the source tag are copied into every chunk.
//
// # Graceful Degradation
//
// Junk bytes between frames, a truncated final frame or an unreadable tag
// do not stop a split. They are returned as SplitResult.Warnings (and
// logged). Use WithStrictParsing to fail on audio irregularities instead.
//
// # Errors
//
// Split returns typed errors that can be inspected with errors.As:
//
//	var empty *mp3split.EmptyInputError
//	if errors.As(err, &empty) {
//		// the file held nothing but tags
//	}
package mp3split
