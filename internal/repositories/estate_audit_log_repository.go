package repositories

import (
	"context"

	"github.com/poofware/estate-service/internal/models"
)

type EstateAuditLogRepository interface {
	Create(ctx context.Context, entry *models.EstateAuditLog) error
}

type estateAuditLogRepo struct {
	db DB
}

func NewEstateAuditLogRepository(db DB) EstateAuditLogRepository {
	return &estateAuditLogRepo{db: db}
}

func (r *estateAuditLogRepo) Create(ctx context.Context, entry *models.EstateAuditLog) error {
	q := `
        INSERT INTO estate_audit_logs (
            id, actor_id, action, target_id, target_type, details, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, NOW())
    `
	_, err := r.db.Exec(ctx, q,
		entry.ID,
		entry.ActorID,
		entry.Action,
		entry.TargetID,
		entry.TargetType,
		entry.Details,
	)
	return err
}
