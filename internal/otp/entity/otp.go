package entity

import "time"

const (
	// CodeLength is the number of digits in an issued code.
	CodeLength = 6
	// DefaultTTL is how long an issued code stays valid.
	DefaultTTL = 10 * time.Minute
	// DefaultMaxAttempts is the number of wrong guesses a code tolerates.
	DefaultMaxAttempts int16 = 3
)

// Record is one issued code. CodeHash is the keyed digest of the code.
type Record struct {
	ID          int64
	Phone       string
	Purpose     Purpose
	CodeHash    string
	Attempts    int16
	MaxAttempts int16
	Used        bool
	UsedAt      *time.Time
	DeliveryRef string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// Expired reports whether now is past the expiry instant.
func (r Record) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Exhausted reports whether the record has no guesses left.
func (r Record) Exhausted() bool {
	return r.Attempts >= r.MaxAttempts
}

// NewRecord holds what is inserted on issue.
type NewRecord struct {
	ID          int64
	Phone       string
	Purpose     Purpose
	CodeHash    string
	MaxAttempts int16
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// IssuePolicy bounds how often codes are issued for one phone.
type IssuePolicy struct {
	// Window and MaxIssues cap issues per phone across purposes.
	Window    time.Duration
	MaxIssues int64
	// Cooldown is the minimum gap between issues for one phone and purpose.
	// Zero disables the check.
	Cooldown time.Duration
}

// SweepResult summarises one cleanup run.
type SweepResult struct {
	Deleted  int64
	Archived int64
}
