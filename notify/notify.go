// Package notify delivers admin and policy alerts raised by the ledger.
// Delivery is fire-and-forget: a failing sink never affects a ledger
// operation.
package notify

import (
	"context"
	"time"

	"github.com/rustyeddy/funds/logger"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Alert subjects raised by the ledger.
const (
	SubjectPolicyUpdated = "policy_updated"
	SubjectAccountReset  = "account_reset"
	SubjectWarning       = "ledger_warning"
)

type Alert struct {
	Subject   string    `json:"subject"`
	Level     Level     `json:"level"`
	AccountID string    `json:"account_id"`
	Account   string    `json:"account"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, a Alert)
}

// Discard drops every alert.
type Discard struct{}

func (Discard) Notify(context.Context, Alert) {}

// Multi fans an alert out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, a Alert) {
	for _, n := range m {
		n.Notify(ctx, a)
	}
}

// Log writes alerts to a logger.
type Log struct {
	log logger.Logger
}

func NewLog(l logger.Logger) *Log {
	return &Log{log: l.With("component", "notify")}
}

func (n *Log) Notify(_ context.Context, a Alert) {
	switch a.Level {
	case LevelWarning:
		n.log.Warnf("%s account=%s: %s", a.Subject, a.Account, a.Message)
	default:
		n.log.Infof("%s account=%s: %s", a.Subject, a.Account, a.Message)
	}
}
