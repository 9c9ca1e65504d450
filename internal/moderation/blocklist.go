package moderation

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// defaultBlockedWords is used whenever the configured word list cannot be read,
// so the filter never runs without a word list.
var defaultBlockedWords = []string{
	"sex", "porn", "xxx", "drug", "kill", "hate",
	"fuck", "shit", "damn",
}

// Blocklist is an immutable set of lowercase words that make a query inappropriate.
// It is loaded once at startup and shared by every request.
type Blocklist struct {
	words map[string]struct{}
}

// NewBlocklist builds a blocklist from the given words. Words are lowercased and trimmed.
func NewBlocklist(words ...string) *Blocklist {
	b := &Blocklist{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			b.words[w] = struct{}{}
		}
	}
	return b
}

// DefaultBlocklist returns the built-in fallback word set.
func DefaultBlocklist() *Blocklist {
	return NewBlocklist(defaultBlockedWords...)
}

// ParseBlocklist reads one word per line. Blank lines and lines starting with '#' are skipped.
func ParseBlocklist(r io.Reader) (*Blocklist, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read blocked words: %w", err)
	}
	return NewBlocklist(words...), nil
}

// LoadBlocklist loads the word list at path. Any failure (missing file, read error,
// or a list with no words) falls back to DefaultBlocklist and is logged as a warning.
func LoadBlocklist(path string, logger *zap.Logger) *Blocklist {
	if logger == nil {
		logger = zap.NewNop()
	}

	b, err := loadBlocklistFile(path)
	if err != nil {
		logger.Warn("Could not load blocked words file, using built-in list",
			zap.String("path", path),
			zap.Error(err),
		)
		return DefaultBlocklist()
	}
	if b.Len() == 0 {
		logger.Warn("Blocked words file is empty, using built-in list", zap.String("path", path))
		return DefaultBlocklist()
	}

	logger.Info("Loaded blocked words", zap.String("path", path), zap.Int("count", b.Len()))
	return b
}

func loadBlocklistFile(path string) (*Blocklist, error) {
	if path == "" {
		return nil, fmt.Errorf("no blocked words path configured")
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open blocked words: %w", err)
	}
	defer f.Close()

	return ParseBlocklist(f)
}

// Contains reports whether word (any case) is blocked.
func (b *Blocklist) Contains(word string) bool {
	_, ok := b.words[strings.ToLower(word)]
	return ok
}

// Len returns the number of blocked words.
func (b *Blocklist) Len() int {
	return len(b.words)
}
