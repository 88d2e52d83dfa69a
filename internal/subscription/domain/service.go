package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	// FreeTierQuota is the per-period allowance without a subscription.
	FreeTierQuota = 10
	// ProTierQuota is the allowance granted when a Pro subscription row
	// is first created by the reconciler.
	ProTierQuota = 125
	// UsageLookback bounds how far back usage is counted.
	UsageLookback = 31 * 24 * time.Hour
)

type QuotaInfo struct {
	Quota     int `json:"quota"`
	UsedCount int `json:"used_count"`
}

type Evaluation struct {
	QuotaInfo
	Subscription *Subscription `json:"-"`
}

// Remaining reports whether another metered action is currently allowed.
// The boundary is strict: used == quota denies.
func (e Evaluation) Remaining() bool {
	return e.UsedCount < e.Quota
}

type Service interface {
	// Evaluate computes the user's quota, current-period usage and active
	// subscription, if any.
	Evaluate(ctx context.Context, userID snowflake.ID) (Evaluation, error)
	// CheckAllowance evaluates and returns ErrQuotaExceeded when the
	// period allowance is spent. It must run before the metered action;
	// the caller records usage only after the action succeeds.
	CheckAllowance(ctx context.Context, userID snowflake.ID) (Evaluation, error)
}

var (
	ErrQuotaExceeded = errors.New("quota_exceeded")
	ErrStorage       = errors.New("database_error")
)
