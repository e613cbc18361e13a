package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
	AuditSell   AuditAction = "SELL"
	AuditCancel AuditAction = "CANCEL"
	AuditAccept AuditAction = "ACCEPT"
	AuditRefuse AuditAction = "REFUSE"
)

type AuditTargetType string

const (
	TargetProperty     AuditTargetType = "PROPERTY"
	TargetOffer        AuditTargetType = "OFFER"
	TargetPropertyType AuditTargetType = "PROPERTY_TYPE"
	TargetPropertyTag  AuditTargetType = "PROPERTY_TAG"
)

type EstateAuditLog struct {
	ID         uuid.UUID        `json:"id"`
	ActorID    uuid.UUID        `json:"actor_id"`
	Action     AuditAction      `json:"action"`
	TargetID   uuid.UUID        `json:"target_id"`
	TargetType AuditTargetType  `json:"target_type"`
	Details    *json.RawMessage `json:"details,omitempty"` // JSONB: request payload or resulting state
	CreatedAt  time.Time        `json:"created_at"`
}
