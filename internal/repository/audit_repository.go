package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/darisadam/bankist-server/internal/domain/audit"
	"github.com/darisadam/bankist-server/internal/pkg/logger"
	"go.uber.org/zap"
)

type AuditRepository interface {
	Create(log *audit.AuditLog) error
}

type auditRepository struct {
	db *sql.DB
}

// NewAuditRepository writes audit events to the audit_logs table.
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(log *audit.AuditLog) error {
	metadataJSON, err := json.Marshal(log.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal audit metadata: %w", err)
	}

	query := `
		INSERT INTO audit_logs (event_id, account_id, action, resource, ip_address,
		                        user_agent, status, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, timestamp
	`

	err = r.db.QueryRow(
		query,
		log.EventID,
		log.AccountID,
		log.Action,
		log.Resource,
		log.IPAddress,
		log.UserAgent,
		log.Status,
		metadataJSON,
	).Scan(&log.ID, &log.Timestamp)

	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

type logAuditRepository struct{}

// NewLogAuditRepository emits audit events as structured log lines. Used when
// no database is configured.
func NewLogAuditRepository() AuditRepository {
	return logAuditRepository{}
}

func (logAuditRepository) Create(log *audit.AuditLog) error {
	fields := []zap.Field{
		zap.String("event_id", log.EventID.String()),
		zap.String("action", log.Action),
		zap.String("status", log.Status),
		zap.Time("timestamp", log.Timestamp),
	}
	if log.AccountID != nil {
		fields = append(fields, zap.String("account_id", log.AccountID.String()))
	}
	if log.Resource != "" {
		fields = append(fields, zap.String("resource", log.Resource))
	}
	if log.IPAddress != "" {
		fields = append(fields, zap.String("ip", log.IPAddress))
	}
	if log.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", log.UserAgent))
	}
	if len(log.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", log.Metadata))
	}

	logger.Info("audit", fields...)
	return nil
}
