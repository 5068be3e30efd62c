package db

import (
	"time"

	"tradeoffer-engine/internal/trading"
)

// AddBlacklistEntry inserts or updates a blacklist entry.
func (d *DB) AddBlacklistEntry(entry trading.BlacklistEntry) error {
	addedAt := entry.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}
	_, err := d.sql.Exec(
		`INSERT INTO blacklist_entry (steam_id64, reason, added_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(steam_id64) DO UPDATE SET reason = excluded.reason`,
		entry.SteamID64, entry.Reason, addedAt.Format(time.RFC3339),
	)
	return err
}

// RemoveBlacklistEntry deletes a blacklist entry.
func (d *DB) RemoveBlacklistEntry(steamID64 uint64) error {
	_, err := d.sql.Exec(`DELETE FROM blacklist_entry WHERE steam_id64 = ?`, steamID64)
	return err
}

// ListBlacklistEntries returns every persisted blacklist entry.
func (d *DB) ListBlacklistEntries() ([]trading.BlacklistEntry, error) {
	rows, err := d.sql.Query(`SELECT steam_id64, reason, added_at FROM blacklist_entry ORDER BY added_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trading.BlacklistEntry
	for rows.Next() {
		var e trading.BlacklistEntry
		var addedAt string
		if err := rows.Scan(&e.SteamID64, &e.Reason, &addedAt); err != nil {
			return nil, err
		}
		e.AddedAt, _ = time.Parse(time.RFC3339, addedAt)
		out = append(out, e)
	}
	return out, rows.Err()
}
