package db

import (
	"time"

	"tradeoffer-engine/internal/trading"
)

// RecordDecision writes one DecisionAuditRecord row.
func (d *DB) RecordDecision(rec trading.DecisionAuditRecord) error {
	decidedAt := rec.DecidedAt
	if decidedAt.IsZero() {
		decidedAt = time.Now().UTC()
	}
	_, err := d.sql.Exec(
		`INSERT INTO decision_audit
			(trade_offer_id, other_steam_id64, result, pre_upgrade_result, needs_mobile_confirm, decided_at, pass_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.TradeOfferID, rec.OtherSteamID64, rec.Result, rec.PreUpgradeResult, rec.NeedsMobileConfirm,
		decidedAt.Format(time.RFC3339), rec.PassID,
	)
	return err
}

// ListRecentDecisions returns the most recent decision audit rows, newest
// first, capped at limit.
func (d *DB) ListRecentDecisions(limit int) ([]trading.DecisionAuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(
		`SELECT trade_offer_id, other_steam_id64, result, pre_upgrade_result, needs_mobile_confirm, decided_at, pass_id
		   FROM decision_audit
		  ORDER BY decided_at DESC, id DESC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trading.DecisionAuditRecord
	for rows.Next() {
		var rec trading.DecisionAuditRecord
		var decidedAt string
		if err := rows.Scan(
			&rec.TradeOfferID, &rec.OtherSteamID64, &rec.Result, &rec.PreUpgradeResult,
			&rec.NeedsMobileConfirm, &decidedAt, &rec.PassID,
		); err != nil {
			return nil, err
		}
		rec.DecidedAt, _ = time.Parse(time.RFC3339, decidedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}
