package postgre

import (
	"context"
	"encoding/json"

	"github.com/friendsofgo/errors"

	"carelink-srv/internal/model"
)

func (r *implRepository) InsertHeartbeat(ctx context.Context, hb model.Heartbeat) error {
	const q = `
		INSERT INTO caregiver_heartbeats (link_id, success, rtt_ms, hard_error, at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, q, hb.LinkID, hb.Success, hb.RTT.Milliseconds(), hb.HardError, hb.At)
	if err != nil {
		return errors.Wrap(err, "insert heartbeat")
	}
	return nil
}

func (r *implRepository) UpsertLink(ctx context.Context, link model.CaregiverLink) error {
	policy, err := json.Marshal(link.Policy)
	if err != nil {
		return errors.Wrap(err, "marshal link policy")
	}
	const q = `
		INSERT INTO caregiver_connections
			(id, user_id, caregiver_id, target, state, quality, last_heartbeat_at, policy, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (id) DO UPDATE SET
			target = EXCLUDED.target,
			state = EXCLUDED.state,
			quality = EXCLUDED.quality,
			last_heartbeat_at = EXCLUDED.last_heartbeat_at,
			policy = EXCLUDED.policy,
			updated_at = now()`
	_, err = r.db.ExecContext(ctx, q,
		link.ID, link.UserID, link.CaregiverID, r.protect(link.Target),
		link.State, link.Quality, link.LastHeartbeatAt, policy, link.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "upsert link")
	}
	return nil
}

func (r *implRepository) UpsertAlert(ctx context.Context, alert model.EmergencyAlert) error {
	results := make([]model.ChannelResult, len(alert.Results))
	copy(results, alert.Results)
	for i := range results {
		results[i].Target = r.protect(results[i].Target)
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return errors.Wrap(err, "marshal alert results")
	}
	targetsJSON, err := json.Marshal(alert.TargetLinks)
	if err != nil {
		return errors.Wrap(err, "marshal alert targets")
	}

	const q = `
		INSERT INTO emergency_alerts
			(id, event_id, user_id, type, message, priority, target_links, results,
			 status, retry_count, max_retries, response_deadline,
			 escalated_to_elder_rights, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			results = EXCLUDED.results,
			status = EXCLUDED.status,
			retry_count = EXCLUDED.retry_count,
			escalated_to_elder_rights = EXCLUDED.escalated_to_elder_rights,
			updated_at = EXCLUDED.updated_at`
	_, err = r.db.ExecContext(ctx, q,
		alert.ID, alert.EventID, alert.UserID, alert.Type, alert.Message, int(alert.Prio),
		targetsJSON, resultsJSON, alert.Status, alert.RetryCount, alert.MaxRetries,
		nullableTime(alert.ResponseDeadline), alert.EscalatedToElderRights,
		alert.CreatedAt, alert.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "upsert alert")
	}
	return nil
}

func (r *implRepository) InsertQueueDrop(ctx context.Context, item model.QueueItem, reason string) error {
	const q = `
		INSERT INTO offline_queue_drops
			(item_id, kind, alert_id, link_id, category, priority, reason, enqueued_at, expires_at, dropped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())`
	_, err := r.db.ExecContext(ctx, q,
		item.ID, item.Kind, item.AlertID, item.LinkID, item.Category,
		int(item.Prio), reason, item.EnqueuedAt, nullableTime(item.ExpiresAt))
	if err != nil {
		return errors.Wrap(err, "insert queue drop")
	}
	return nil
}

func (r *implRepository) InsertSyncOperation(ctx context.Context, op model.SyncOperation) error {
	categories, err := json.Marshal(op.Categories)
	if err != nil {
		return errors.Wrap(err, "marshal sync categories")
	}
	const q = `
		INSERT INTO sync_operations
			(id, link_id, categories, status, records_transferred, started_at, ended_at, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			records_transferred = EXCLUDED.records_transferred,
			ended_at = EXCLUDED.ended_at,
			error = EXCLUDED.error`
	_, err = r.db.ExecContext(ctx, q,
		op.ID, op.LinkID, categories, op.Status, op.RecordsTransferred,
		op.StartedAt, nullableTime(op.EndedAt), op.Error)
	if err != nil {
		return errors.Wrap(err, "insert sync operation")
	}
	return nil
}

func (r *implRepository) UpsertEscalation(ctx context.Context, rec model.EscalationRecord) error {
	const q = `
		INSERT INTO escalation_records
			(id, alert_id, user_id, reason, path, notify_succeeded,
			 requires_manual_intervention, created_at, resolved_at, resolved_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (alert_id) DO UPDATE SET
			notify_succeeded = EXCLUDED.notify_succeeded,
			requires_manual_intervention = EXCLUDED.requires_manual_intervention,
			resolved_at = EXCLUDED.resolved_at,
			resolved_by = EXCLUDED.resolved_by`
	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.AlertID, rec.UserID, rec.Reason, rec.Path, rec.NotifySucceeded,
		rec.RequiresManualIntervention, rec.CreatedAt, rec.ResolvedAt, rec.ResolvedBy)
	if err != nil {
		return errors.Wrap(err, "upsert escalation")
	}
	return nil
}
