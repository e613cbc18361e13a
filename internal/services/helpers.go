package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/poofware/estate-service/internal/dtos"
	"github.com/poofware/estate-service/internal/models"
	"github.com/poofware/estate-service/internal/repositories"
	"github.com/poofware/estate-service/internal/utils"
	"github.com/sirupsen/logrus"
)

// Unique indexes whose violations map back to a domain error.
var uniqueConstraintErrors = map[string]error{
	"properties_name_key":    utils.ErrPropertyNameTaken,
	"property_tags_name_key": utils.ErrPropertyTagNameTaken,
}

func notFound(resource string) *utils.AppError {
	return &utils.AppError{
		StatusCode: http.StatusNotFound,
		Code:       utils.ErrCodeNotFound,
		Message:    resource + " not found",
	}
}

// toAppError turns repository and domain errors into the AppError a
// controller hands to utils.HandleAppError. resource names the entity for
// 404 messages.
func toAppError(err error, resource string) error {
	if err == nil {
		return nil
	}

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if mapped, ok := uniqueConstraintErrors[pgErr.ConstraintName]; ok {
			err = mapped
		}
	}

	var vErr *utils.ValidationError
	var opErr *utils.OperationError
	switch {
	case errors.As(err, &vErr):
		return &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    vErr.Message,
			Details:    dtos.DomainErrorDetail{Reason: vErr.Code},
			Err:        err,
		}
	case errors.As(err, &opErr):
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeOperationNotAllowed,
			Message:    opErr.Message,
			Details:    dtos.DomainErrorDetail{Reason: opErr.Code},
			Err:        err,
		}
	case errors.Is(err, pgx.ErrNoRows):
		return notFound(resource)
	case errors.Is(err, utils.ErrRowVersionConflict):
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeRowVersionConflict,
			Message:    resource + " was modified concurrently, please retry",
			Err:        err,
		}
	default:
		return &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "An unexpected error occurred",
			Err:        err,
		}
	}
}

// parseDate reads a YYYY-MM-DD wire date as UTC midnight.
func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dtos.DateLayout, s)
	if err != nil {
		return time.Time{}, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidPayload,
			Message:    fmt.Sprintf("%s must be a YYYY-MM-DD date", field),
			Err:        err,
		}
	}
	return t, nil
}

// auditLogger records successful writes. Failures are logged and swallowed.
type auditLogger struct {
	repo repositories.EstateAuditLogRepository
}

func (a auditLogger) record(
	ctx context.Context,
	actorID uuid.UUID,
	action models.AuditAction,
	targetType models.AuditTargetType,
	targetID uuid.UUID,
	details any,
) {
	if a.repo == nil {
		return
	}
	entry := &models.EstateAuditLog{
		ID:         uuid.New(),
		ActorID:    actorID,
		Action:     action,
		TargetID:   targetID,
		TargetType: targetType,
	}
	if details != nil {
		marshalled, err := json.Marshal(details)
		if err == nil {
			raw := json.RawMessage(marshalled)
			entry.Details = &raw
		}
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		utils.Logger.WithError(err).WithFields(logrus.Fields{
			"action":      action,
			"target_type": targetType,
			"target_id":   targetID,
		}).Warn("Failed to write estate audit log")
	}
}
