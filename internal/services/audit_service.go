package services

import (
	"github.com/cnds86/kiptrack/internal/logger"
)

// auditService records ledger mutations to the structured log.
type auditService struct{}

// NewAuditService creates a new AuditServicer.
func NewAuditService() AuditServicer {
	return &auditService{}
}

// Log records an audit event. It never fails so the main operation is never disrupted.
func (s *auditService) Log(action, resourceType, resourceID string, changes map[string]any) {
	fields := []any{
		"action", action,
		"resource_type", resourceType,
		"resource_id", resourceID,
	}
	if len(changes) > 0 {
		fields = append(fields, "changes", changes)
	}
	logger.Get().Infow("Ledger change", fields...)
}
