package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"

	ActionLogin        = "LOGIN"
	ActionLogout       = "LOGOUT"
	ActionTransfer     = "TRANSFER"
	ActionLoan         = "LOAN"
	ActionCloseAccount = "CLOSE_ACCOUNT"
)

type AuditLog struct {
	ID        int64                  `json:"id"`
	EventID   uuid.UUID              `json:"event_id"`
	Timestamp time.Time              `json:"timestamp"`
	AccountID *uuid.UUID             `json:"account_id,omitempty"`
	Action    string                 `json:"action"`
	Resource  string                 `json:"resource,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	Status    string                 `json:"status"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// New builds an event for action on resource with a fresh event id.
func New(accountID *uuid.UUID, action, resource, status string, metadata map[string]interface{}) *AuditLog {
	return &AuditLog{
		EventID:   uuid.New(),
		Timestamp: time.Now(),
		AccountID: accountID,
		Action:    action,
		Resource:  resource,
		Status:    status,
		Metadata:  metadata,
	}
}

func AccountResource(id uuid.UUID) string {
	return "account:" + id.String()
}

func TransactionResource(id uuid.UUID) string {
	return "transaction:" + id.String()
}

// RequestMeta identifies the client behind an audited call.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type requestMetaKey struct{}

func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFrom returns the meta stored on ctx, or the zero value.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	if ctx == nil {
		return RequestMeta{}
	}
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

// FromRequest copies the client ip and user agent carried by ctx.
func (l *AuditLog) FromRequest(ctx context.Context) *AuditLog {
	meta := RequestMetaFrom(ctx)
	l.IPAddress = meta.IPAddress
	l.UserAgent = meta.UserAgent
	return l
}
