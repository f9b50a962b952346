package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatChunk              // Binary chunk of word/meaning records
	FormatText               // Tab separated word/meaning lines
)

// maxChunkEntries is a sanity bound on the entry count header of a chunk file.
const maxChunkEntries = 1 << 22

var (
	// ErrUnknownFormat is returned when a file matches no supported format.
	ErrUnknownFormat = errors.New("unknown dictionary format")
	// ErrCorruptChunk is returned when a chunk file header or record is malformed.
	ErrCorruptChunk = errors.New("corrupt dictionary chunk")
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Binary Dictionary Chunk",
		Extensions:  []string{".bin"},
		MinSize:     4, // entry count header
	},
	FormatText: {
		Format:      FormatText,
		Description: "Tab Separated Dictionary",
		Extensions:  []string{".txt", ".tsv"},
		MinSize:     0,
	},
}

func (f FileFormat) String() string {
	if info, ok := GetFormatInfo(f); ok {
		return info.Description
	}
	return "Unknown"
}

// ValidateFileFormat checks that filename has an extension and header acceptable for format
func ValidateFileFormat(filename string, format FileFormat) error {
	info, ok := GetFormatInfo(format)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
	stat, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("stat %s: %w", filename, err)
	}
	if stat.Size() < info.MinSize {
		return fmt.Errorf("%s holds %d bytes, a %s needs at least %d",
			filename, stat.Size(), info.Description, info.MinSize)
	}
	if ext := strings.ToLower(filepath.Ext(filename)); !slices.Contains(info.Extensions, ext) {
		return fmt.Errorf("%w: %s is not one of %v", ErrUnknownFormat, filename, info.Extensions)
	}

	switch format {
	case FormatChunk:
		count, err := ReadChunkHeader(filename)
		if err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}
		log.Debugf("Chunk %s declares %d entries", filename, count)
	case FormatText:
		return checkTextHeader(filename)
	}
	return nil
}

// checkTextHeader requires a tab in the first line that is neither blank nor a comment
func checkTextHeader(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if !strings.ContainsRune(line, '\t') {
			return fmt.Errorf("%w: %s has no tab in its first entry", ErrUnknownFormat, filename)
		}
		return nil
	}
	return sc.Err()
}

// DetectFileFormat picks the format registered for the file extension and validates the file against it
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, info := range ListSupportedFormats() {
		if !slices.Contains(info.Extensions, ext) {
			continue
		}
		if err := ValidateFileFormat(filename, info.Format); err != nil {
			return FormatUnknown, err
		}
		return info.Format, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnknownFormat, filename)
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats ordered by FileFormat
func ListSupportedFormats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(supportedFormats))
	for _, info := range supportedFormats {
		formats = append(formats, info)
	}
	sort.Slice(formats, func(i, j int) bool {
		return formats[i].Format < formats[j].Format
	})
	return formats
}
