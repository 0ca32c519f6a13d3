package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CaseCounter allocates sequential per-guild case numbers for emitted
// records. It implements the engine's CaseAllocator contract.
type CaseCounter struct {
	db *sqlx.DB
}

// NewCaseCounter wraps the shared database handle.
func NewCaseCounter(db *sqlx.DB) *CaseCounter {
	return &CaseCounter{db: db}
}

// NextCaseNumber increments and returns the guild's case sequence. The upsert
// runs as a single statement, so concurrent callers on separate connections
// still see a strictly increasing sequence.
func (c *CaseCounter) NextCaseNumber(guildID string) (int64, error) {
	var seq int64
	query := `INSERT INTO case_counters (guild_id, seq) VALUES (?, 1)
        ON CONFLICT(guild_id) DO UPDATE SET seq = seq + 1
        RETURNING seq`
	if err := c.db.Get(&seq, query, guildID); err != nil {
		return 0, fmt.Errorf("failed to allocate case number for guild %s: %w", guildID, err)
	}
	return seq, nil
}
