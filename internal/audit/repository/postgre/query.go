package postgre

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/friendsofgo/errors"

	"carelink-srv/internal/audit"
	"carelink-srv/internal/model"
)

func (r *implRepository) Alerts(ctx context.Context, filter audit.AlertFilter, limit, offset int64) ([]model.EmergencyAlert, int64, error) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.UserID != "" {
		add("user_id = $%d", filter.UserID)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Priority != nil {
		add("priority = $%d", int(*filter.Priority))
	}
	if !filter.Since.IsZero() {
		add("created_at >= $%d", filter.Since)
	}
	if !filter.Until.IsZero() {
		add("created_at < $%d", filter.Until)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM emergency_alerts"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count alerts")
	}

	q := fmt.Sprintf(`
		SELECT id, event_id, user_id, type, message, priority, target_links, results,
		       status, retry_count, max_retries, response_deadline,
		       escalated_to_elder_rights, created_at, updated_at
		FROM emergency_alerts%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "query alerts")
	}
	defer rows.Close()

	var out []model.EmergencyAlert
	for rows.Next() {
		var a model.EmergencyAlert
		var prio int
		var targetsJSON, resultsJSON []byte
		var deadline sql.NullTime
		if err := rows.Scan(&a.ID, &a.EventID, &a.UserID, &a.Type, &a.Message, &prio,
			&targetsJSON, &resultsJSON, &a.Status, &a.RetryCount, &a.MaxRetries,
			&deadline, &a.EscalatedToElderRights, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, errors.Wrap(err, "scan alert")
		}
		a.Prio = model.Priority(prio)
		if deadline.Valid {
			a.ResponseDeadline = deadline.Time
		}
		if err := json.Unmarshal(targetsJSON, &a.TargetLinks); err != nil {
			return nil, 0, errors.Wrap(err, "unmarshal alert targets")
		}
		if len(resultsJSON) > 0 {
			if err := json.Unmarshal(resultsJSON, &a.Results); err != nil {
				return nil, 0, errors.Wrap(err, "unmarshal alert results")
			}
			for i := range a.Results {
				a.Results[i].Target = r.reveal(a.Results[i].Target)
			}
		}
		out = append(out, a)
	}
	return out, total, errors.Wrap(rows.Err(), "iterate alerts")
}

func (r *implRepository) Escalations(ctx context.Context, onlyOpen bool, limit, offset int64) ([]model.EscalationRecord, int64, error) {
	where := ""
	if onlyOpen {
		where = " WHERE resolved_at IS NULL"
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM escalation_records"+where).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count escalations")
	}

	q := fmt.Sprintf(`
		SELECT id, alert_id, user_id, reason, path, notify_succeeded,
		       requires_manual_intervention, created_at, resolved_at, resolved_by
		FROM escalation_records%s
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2`, where)
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "query escalations")
	}
	defer rows.Close()

	var out []model.EscalationRecord
	for rows.Next() {
		var rec model.EscalationRecord
		var resolvedAt sql.NullTime
		var resolvedBy sql.NullString
		if err := rows.Scan(&rec.ID, &rec.AlertID, &rec.UserID, &rec.Reason, &rec.Path,
			&rec.NotifySucceeded, &rec.RequiresManualIntervention,
			&rec.CreatedAt, &resolvedAt, &resolvedBy); err != nil {
			return nil, 0, errors.Wrap(err, "scan escalation")
		}
		if resolvedAt.Valid {
			t := resolvedAt.Time
			rec.ResolvedAt = &t
		}
		rec.ResolvedBy = resolvedBy.String
		out = append(out, rec)
	}
	return out, total, errors.Wrap(rows.Err(), "iterate escalations")
}

func (r *implRepository) SyncOperations(ctx context.Context, linkID string, limit, offset int64) ([]model.SyncOperation, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT count(*) FROM sync_operations WHERE link_id = $1", linkID).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count sync operations")
	}

	const q = `
		SELECT id, link_id, categories, status, records_transferred, started_at, ended_at, error
		FROM sync_operations
		WHERE link_id = $1
		ORDER BY started_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, linkID, limit, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "query sync operations")
	}
	defer rows.Close()

	var out []model.SyncOperation
	for rows.Next() {
		var op model.SyncOperation
		var categories []byte
		var ended sql.NullTime
		var opErr sql.NullString
		if err := rows.Scan(&op.ID, &op.LinkID, &categories, &op.Status,
			&op.RecordsTransferred, &op.StartedAt, &ended, &opErr); err != nil {
			return nil, 0, errors.Wrap(err, "scan sync operation")
		}
		if err := json.Unmarshal(categories, &op.Categories); err != nil {
			return nil, 0, errors.Wrap(err, "unmarshal sync categories")
		}
		if ended.Valid {
			op.EndedAt = ended.Time
		}
		op.Error = opErr.String
		out = append(out, op)
	}
	return out, total, errors.Wrap(rows.Err(), "iterate sync operations")
}

func (r *implRepository) Heartbeats(ctx context.Context, linkID string, limit int) ([]model.Heartbeat, error) {
	const q = `
		SELECT link_id, success, rtt_ms, hard_error, at
		FROM caregiver_heartbeats
		WHERE link_id = $1
		ORDER BY at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, linkID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query heartbeats")
	}
	defer rows.Close()

	var out []model.Heartbeat
	for rows.Next() {
		var hb model.Heartbeat
		var rttMS int64
		if err := rows.Scan(&hb.LinkID, &hb.Success, &rttMS, &hb.HardError, &hb.At); err != nil {
			return nil, errors.Wrap(err, "scan heartbeat")
		}
		hb.RTT = time.Duration(rttMS) * time.Millisecond
		out = append(out, hb)
	}
	return out, errors.Wrap(rows.Err(), "iterate heartbeats")
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
