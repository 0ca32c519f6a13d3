package modlog

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"modlog-bot/models"
)

// MessageHistory is the external message/attachment cache consulted when
// reconstructing edited or deleted content. A nil history means the cache
// was never set up for this session (cold start).
type MessageHistory interface {
	GetMessage(messageID string) (*models.CachedMessage, bool)
	AttachmentsString(messageID string) (string, bool)
}

// TranscriptWriter materializes best-effort plain-text transcripts of
// bulk-deleted messages into a dedicated directory.
type TranscriptWriter struct {
	dir string
}

// NewTranscriptWriter ensures the transcript directory exists.
func NewTranscriptWriter(dir string) (*TranscriptWriter, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "modlog-transcripts")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create transcript directory %s: %w", dir, err)
	}
	return &TranscriptWriter{dir: dir}, nil
}

// Write recovers what it can of the given message ids from history and writes
// one block per recoverable message. It returns the path of the finished
// file and the number of messages recovered. When nothing was recoverable,
// or on any I/O failure, no file is left behind and path is empty.
//
// The caller owns the returned file and must remove it after use.
func (t *TranscriptWriter) Write(channelName string, messageIDs []string, history MessageHistory) (path string, recovered int, err error) {
	f, err := os.CreateTemp(t.dir, "transcript-*.txt")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create transcript file: %w", err)
	}
	path = f.Name()

	// Any failure below discards the partial file.
	discard := func(cause error) (string, int, error) {
		f.Close()
		if rmErr := os.Remove(path); rmErr != nil {
			// The hourly sweep picks up what we could not delete now.
			log.Printf("modlog: failed to remove transcript %s: %v", path, rmErr)
		}
		return "", 0, cause
	}

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintf(w, "Transcript of deleted messages in #%s\n\n", channelName); err != nil {
		return discard(fmt.Errorf("failed to write transcript header: %w", err))
	}

	for _, id := range messageIDs {
		msg, ok := history.GetMessage(id)
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s:\n%s\n", msg.AuthorName, msg.Content); err != nil {
			return discard(fmt.Errorf("failed to write transcript block: %w", err))
		}
		if attachments, ok := history.AttachmentsString(id); ok && attachments != "" {
			if _, err := fmt.Fprintf(w, "Attachment(s): %s\n", attachments); err != nil {
				return discard(fmt.Errorf("failed to write transcript attachments: %w", err))
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return discard(fmt.Errorf("failed to write transcript separator: %w", err))
		}
		recovered++
	}

	if recovered == 0 {
		// Nothing to show; fall back to the count-only record.
		discard(nil)
		return "", 0, nil
	}

	if err := w.Flush(); err != nil {
		return discard(fmt.Errorf("failed to flush transcript: %w", err))
	}
	if err := f.Close(); err != nil {
		return discard(fmt.Errorf("failed to close transcript: %w", err))
	}
	return path, recovered, nil
}

// Sweep removes transcript files older than maxAge. Run periodically so
// files that survived a failed immediate delete do not accumulate.
func (t *TranscriptWriter) Sweep(maxAge time.Duration) int {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		log.Printf("modlog: failed to read transcript directory %s: %v", t.dir, err)
		return 0
	}

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || info.IsDir() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(t.dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed
}
