/*
Package dictionary feeds (word, meaning) pairs from files on disk into a lexicon.

A dictionary directory holds any mix of binary chunk files named dict_0001.bin,
dict_0002.bin, ... and tab separated text files (*.txt, *.tsv). Chunks are loaded
first in ID order, then text files in name order. Loading happens once, in the
calling goroutine, before the lexicon starts serving queries.
*/
package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/lexserve/internal/logger"
	"github.com/bastiangx/lexserve/internal/utils"
	"github.com/charmbracelet/log"
)

// Inserter is the write side of a lexicon.
type Inserter interface {
	Insert(word, meaning string)
}

// Options controls how entries are fed.
type Options struct {
	// Normalize lower-cases words and turns '_' into spaces before insertion.
	// Meanings are trimmed and their whitespace runs collapsed to one space.
	Normalize bool
	// MaxWords stops the feed after that many inserts, 0 means no limit.
	MaxWords int
}

// ChunkInfo describes one dictionary file found in the directory
type ChunkInfo struct {
	ID        int
	Filename  string
	Format    FileFormat
	WordCount int // from the chunk header, -1 for text files
}

// LoadStats summarizes a load
type LoadStats struct {
	Files    int
	Inserted int
	Skipped  int
	Failed   int
	Duration time.Duration
}

// Loader reads dictionary files from a directory
type Loader struct {
	dirPath string
	opts    Options
	logger  *log.Logger
}

// NewLoader creates a loader for dirPath
func NewLoader(dirPath string, opts Options) *Loader {
	return &Loader{
		dirPath: dirPath,
		opts:    opts,
		logger:  logger.New("dict"),
	}
}

// GetAvailable scans the directory for dictionary files
func (l *Loader) GetAvailable() ([]ChunkInfo, error) {
	chunkFiles, err := filepath.Glob(filepath.Join(l.dirPath, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range chunkFiles {
		// dict_0001.bin -> 1
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			l.logger.Debugf("Ignoring %s: not a numbered chunk", file)
			continue
		}
		wordCount, err := ReadChunkHeader(file)
		if err != nil {
			l.logger.Warnf("Failed to get word count for chunk %s: %v", file, err)
			wordCount = 0
		}
		chunks = append(chunks, ChunkInfo{
			ID:        chunkID,
			Filename:  file,
			Format:    FormatChunk,
			WordCount: wordCount,
		})
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ID < chunks[j].ID
	})

	var texts []string
	for _, pattern := range []string{"*.txt", "*.tsv"} {
		matches, err := filepath.Glob(filepath.Join(l.dirPath, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan for text files: %w", err)
		}
		texts = append(texts, matches...)
	}
	sort.Strings(texts)
	for _, file := range texts {
		chunks = append(chunks, ChunkInfo{
			Filename:  file,
			Format:    FormatText,
			WordCount: -1,
		})
	}

	return chunks, nil
}

// LoadInto feeds every available file into lx. A file that fails to load is logged
// and skipped; an error is returned only when nothing could be loaded.
func (l *Loader) LoadInto(lx Inserter) (LoadStats, error) {
	start := time.Now()
	stats := LoadStats{}

	files, err := l.GetAvailable()
	if err != nil {
		return stats, err
	}
	if len(files) == 0 {
		var exts []string
		for _, info := range ListSupportedFormats() {
			exts = append(exts, info.Extensions...)
		}
		return stats, fmt.Errorf("no dictionary files (%s) found in %s", strings.Join(exts, ", "), l.dirPath)
	}
	l.logger.Debugf("Found %d dictionary files", len(files))

	var lastErr error
	for _, f := range files {
		if l.full(&stats) {
			l.logger.Debugf("Word limit %d reached, skipping remaining files", l.opts.MaxWords)
			break
		}
		if err := l.loadFile(f.Filename, f.Format, lx, &stats); err != nil {
			l.logger.Errorf("Failed to load %s: %v", f.Filename, err)
			stats.Failed++
			lastErr = err
			continue
		}
		stats.Files++
	}
	stats.Duration = time.Since(start)

	if stats.Files == 0 && lastErr != nil {
		return stats, fmt.Errorf("no dictionary file could be loaded: %w", lastErr)
	}
	l.logger.Debugf("Loaded %d words from %d files in %v", stats.Inserted, stats.Files, stats.Duration)
	return stats, nil
}

// LoadFile feeds a single file, detecting its format from the name and header
func (l *Loader) LoadFile(path string, lx Inserter) (LoadStats, error) {
	start := time.Now()
	stats := LoadStats{}

	format, err := DetectFileFormat(path)
	if err != nil {
		return stats, err
	}
	if err := l.loadFile(path, format, lx, &stats); err != nil {
		return stats, err
	}
	stats.Files = 1
	stats.Duration = time.Since(start)
	return stats, nil
}

func (l *Loader) loadFile(path string, format FileFormat, lx Inserter, stats *LoadStats) error {
	switch format {
	case FormatChunk:
		return l.loadChunk(path, lx, stats)
	case FormatText:
		return l.loadText(path, lx, stats)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

func (l *Loader) loadChunk(path string, lx Inserter, stats *LoadStats) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open chunk file %s: %w", path, err)
	}
	defer file.Close()

	return readChunk(bufio.NewReader(file), func(word, meaning string) bool {
		return l.insert(lx, word, meaning, stats)
	})
}

func (l *Loader) loadText(path string, lx Inserter, stats *LoadStats) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open text file %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, meaning, ok := strings.Cut(line, "\t")
		if !ok {
			l.logger.Warnf("%s:%d: missing tab separator, skipped", filepath.Base(path), lineNo)
			stats.Skipped++
			continue
		}
		if !l.insert(lx, word, meaning, stats) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

// insert applies normalization and the word limit. It returns false once the
// limit has been reached.
func (l *Loader) insert(lx Inserter, word, meaning string, stats *LoadStats) bool {
	if l.full(stats) {
		return false
	}
	// before normalizing, which would turn invalid bytes into U+FFFD
	if !utf8.ValidString(word) {
		l.logger.Debugf("Skipping headword with invalid UTF-8: %q", word)
		stats.Skipped++
		return true
	}
	if l.opts.Normalize {
		word = utils.NormalizeWord(word)
		meaning = utils.CollapseSpaces(strings.TrimSpace(meaning))
	}
	if word == "" {
		stats.Skipped++
		return true
	}
	lx.Insert(word, meaning)
	stats.Inserted++
	return !l.full(stats)
}

func (l *Loader) full(stats *LoadStats) bool {
	return l.opts.MaxWords > 0 && stats.Inserted >= l.opts.MaxWords
}
