package service

import (
	"context"

	"github.com/darisadam/bankist-server/internal/domain/audit"
	"github.com/darisadam/bankist-server/internal/pkg/logger"
	"github.com/darisadam/bankist-server/internal/repository"
	"go.uber.org/zap"
)

// recordAudit stamps the event with the client behind ctx and writes it. A
// failing sink never fails the caller.
func recordAudit(ctx context.Context, repo repository.AuditRepository, log *audit.AuditLog) {
	if repo == nil {
		return
	}
	log.FromRequest(ctx)
	if err := repo.Create(log); err != nil {
		logger.Warn("failed to write audit log",
			zap.String("action", log.Action),
			zap.Error(err),
		)
	}
}
