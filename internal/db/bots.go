package db

import "tradeoffer-engine/internal/trading"

// UpsertBotAccount inserts or updates a bot account registry entry.
func (d *DB) UpsertBotAccount(acc trading.BotAccount) error {
	_, err := d.sql.Exec(
		`INSERT INTO bot_account (steam_id64, name, is_master)
		 VALUES (?, ?, ?)
		 ON CONFLICT(steam_id64) DO UPDATE SET name = excluded.name, is_master = excluded.is_master`,
		acc.SteamID64, acc.Name, acc.IsMaster,
	)
	return err
}

// RemoveBotAccount deletes a bot account registry entry.
func (d *DB) RemoveBotAccount(steamID64 uint64) error {
	_, err := d.sql.Exec(`DELETE FROM bot_account WHERE steam_id64 = ?`, steamID64)
	return err
}

// ListBotAccounts returns every registered bot account.
func (d *DB) ListBotAccounts() ([]trading.BotAccount, error) {
	rows, err := d.sql.Query(`SELECT steam_id64, name, is_master FROM bot_account ORDER BY steam_id64`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trading.BotAccount
	for rows.Next() {
		var acc trading.BotAccount
		if err := rows.Scan(&acc.SteamID64, &acc.Name, &acc.IsMaster); err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}
