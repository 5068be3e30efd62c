package db

import (
	"encoding/json"
	"fmt"
	"strconv"

	"tradeoffer-engine/internal/config"
)

// LoadConfig reads config from SQLite for the default user. If empty,
// returns defaults.
func (d *DB) LoadConfig() *config.Config {
	return d.LoadConfigForUser(DefaultUserID)
}

// LoadConfigForUser reads config from SQLite for a specific user. If empty,
// returns defaults.
func (d *DB) LoadConfigForUser(userID string) *config.Config {
	userID = normalizeUserID(userID)
	cfg := config.Default()

	rows, err := d.sql.Query("SELECT key, value FROM config WHERE user_id = ?", userID)
	if err != nil {
		return cfg
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			continue
		}
		m[k] = v
	}

	if len(m) == 0 {
		return cfg
	}

	if v, ok := m["accept_donations"]; ok {
		cfg.AcceptDonations, _ = strconv.ParseBool(v)
	}
	if v, ok := m["dont_accept_bot_trades"]; ok {
		cfg.DontAcceptBotTrades, _ = strconv.ParseBool(v)
	}
	if v, ok := m["steam_trade_matcher"]; ok {
		cfg.SteamTradeMatcher, _ = strconv.ParseBool(v)
	}
	if v, ok := m["match_everything"]; ok {
		cfg.MatchEverything, _ = strconv.ParseBool(v)
	}
	if v, ok := m["reject_invalid_trades"]; ok {
		cfg.RejectInvalidTrades, _ = strconv.ParseBool(v)
	}
	if v, ok := m["send_on_farming_finished"]; ok {
		cfg.SendOnFarmingFinished, _ = strconv.ParseBool(v)
	}
	if v, ok := m["max_trade_hold_duration"]; ok {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			cfg.MaxTradeHoldDuration = uint8(n)
		}
	}
	if v, ok := m["matchable_types"]; ok {
		var set map[string]bool
		if json.Unmarshal([]byte(v), &set) == nil {
			cfg.MatchableTypes = set
		}
	}
	if v, ok := m["lootable_types"]; ok {
		var set map[string]bool
		if json.Unmarshal([]byte(v), &set) == nil {
			cfg.LootableTypes = set
		}
	}
	if v, ok := m["short_lived_sale_games"]; ok {
		var set map[uint32]bool
		if json.Unmarshal([]byte(v), &set) == nil {
			cfg.ShortLivedSaleGames = set
		}
	}

	return cfg
}

// SaveConfig writes config to SQLite (upsert all fields) for the default user.
func (d *DB) SaveConfig(cfg *config.Config) error {
	return d.SaveConfigForUser(DefaultUserID, cfg)
}

// SaveConfigForUser writes config to SQLite (upsert all fields) for a
// specific user.
func (d *DB) SaveConfigForUser(userID string, cfg *config.Config) error {
	userID = normalizeUserID(userID)

	matchableTypes, err := json.Marshal(cfg.MatchableTypes)
	if err != nil {
		return fmt.Errorf("marshal matchable_types: %w", err)
	}
	lootableTypes, err := json.Marshal(cfg.LootableTypes)
	if err != nil {
		return fmt.Errorf("marshal lootable_types: %w", err)
	}
	shortLivedSaleGames, err := json.Marshal(cfg.ShortLivedSaleGames)
	if err != nil {
		return fmt.Errorf("marshal short_lived_sale_games: %w", err)
	}

	pairs := map[string]string{
		"accept_donations":         strconv.FormatBool(cfg.AcceptDonations),
		"dont_accept_bot_trades":   strconv.FormatBool(cfg.DontAcceptBotTrades),
		"steam_trade_matcher":      strconv.FormatBool(cfg.SteamTradeMatcher),
		"match_everything":         strconv.FormatBool(cfg.MatchEverything),
		"reject_invalid_trades":    strconv.FormatBool(cfg.RejectInvalidTrades),
		"send_on_farming_finished": strconv.FormatBool(cfg.SendOnFarmingFinished),
		"max_trade_hold_duration":  strconv.FormatUint(uint64(cfg.MaxTradeHoldDuration), 10),
		"matchable_types":          string(matchableTypes),
		"lootable_types":           string(lootableTypes),
		"short_lived_sale_games":   string(shortLivedSaleGames),
	}

	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO config (user_id, key, value) VALUES (?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for k, v := range pairs {
		if _, err := stmt.Exec(userID, k, v); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
