package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/bastiangx/lexserve/pkg/lexicon"
)

// Chunk layout, little endian:
//
//	int32  entry count
//	repeated entry count times:
//	  uint16 word length, word bytes
//	  uint32 meaning length, meaning bytes
const maxMeaningLen = 1 << 24

// ReadChunkHeader returns the entry count declared by a chunk file
func ReadChunkHeader(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var count int32
	if err := binary.Read(file, binary.LittleEndian, &count); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorruptChunk, err)
	}
	if count < 0 || count > maxChunkEntries {
		return 0, fmt.Errorf("%w: declares %d entries", ErrCorruptChunk, count)
	}
	return int(count), nil
}

// readChunk decodes a chunk and calls fn for each entry until fn returns false
func readChunk(r io.Reader, fn func(word, meaning string) bool) error {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("%w: header: %v", ErrCorruptChunk, err)
	}
	if count < 0 || count > maxChunkEntries {
		return fmt.Errorf("%w: declares %d entries", ErrCorruptChunk, count)
	}

	for i := 0; i < int(count); i++ {
		var wordLen uint16
		if err := binary.Read(r, binary.LittleEndian, &wordLen); err != nil {
			return fmt.Errorf("%w: entry %d word length: %v", ErrCorruptChunk, i, err)
		}
		word := make([]byte, wordLen)
		if _, err := io.ReadFull(r, word); err != nil {
			return fmt.Errorf("%w: entry %d word: %v", ErrCorruptChunk, i, err)
		}

		var meaningLen uint32
		if err := binary.Read(r, binary.LittleEndian, &meaningLen); err != nil {
			return fmt.Errorf("%w: entry %d meaning length: %v", ErrCorruptChunk, i, err)
		}
		if meaningLen > maxMeaningLen {
			return fmt.Errorf("%w: entry %d meaning of %d bytes", ErrCorruptChunk, i, meaningLen)
		}
		meaning := make([]byte, meaningLen)
		if _, err := io.ReadFull(r, meaning); err != nil {
			return fmt.Errorf("%w: entry %d meaning: %v", ErrCorruptChunk, i, err)
		}

		if !fn(string(word), string(meaning)) {
			return nil
		}
	}
	return nil
}

// EncodeChunk writes entries in chunk layout
func EncodeChunk(w io.Writer, entries []lexicon.Entry) error {
	if len(entries) > maxChunkEntries {
		return fmt.Errorf("chunk holds at most %d entries, got %d", maxChunkEntries, len(entries))
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if len(e.Word) > math.MaxUint16 {
			return fmt.Errorf("word %.20q... is %d bytes, limit is %d", e.Word, len(e.Word), math.MaxUint16)
		}
		if len(e.Meaning) > maxMeaningLen {
			return fmt.Errorf("meaning of %q is %d bytes, limit is %d", e.Word, len(e.Meaning), maxMeaningLen)
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(e.Word))); err != nil {
			return err
		}
		if _, err := bw.WriteString(e.Word); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(e.Meaning))); err != nil {
			return err
		}
		if _, err := bw.WriteString(e.Meaning); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteChunk creates a chunk file at path holding entries
func WriteChunk(path string, entries []lexicon.Entry) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chunk file %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	return EncodeChunk(file, entries)
}
