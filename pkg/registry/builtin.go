package registry

import (
	"sync"

	"github.com/aretw0/waymark/pkg/domain"
)

// Built-in guard names.
const (
	GuardProfileComplete    = "profile_complete"
	GuardHasFullName        = "has_full_name"
	GuardHasPhone           = "has_phone"
	GuardHasBusinessName    = "has_business_name"
	GuardHasCustomers       = "has_customers"
	GuardHasJobs            = "has_jobs"
	GuardHasQuotes          = "has_quotes"
	GuardHasContent         = "has_content"
	GuardBankLinked         = "bank_linked"
	GuardSubscriptionActive = "subscription_active"
)

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the shared registry pre-loaded with the built-in guards.
// Callers may register additional guards on it.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry()
		RegisterBuiltins(defaultReg)
	})
	return defaultReg
}

// RegisterBuiltins adds the built-in snapshot guards to r.
func RegisterBuiltins(r *Registry) {
	r.Register(GuardProfileComplete, domain.Snapshot.ProfileComplete)
	r.Register(GuardHasFullName, func(s domain.Snapshot) bool { return s.HasFullName })
	r.Register(GuardHasPhone, func(s domain.Snapshot) bool { return s.HasPhone })
	r.Register(GuardHasBusinessName, func(s domain.Snapshot) bool { return s.HasBusinessName })
	r.Register(GuardHasCustomers, func(s domain.Snapshot) bool { return s.CustomerCount > 0 })
	r.Register(GuardHasJobs, func(s domain.Snapshot) bool { return s.JobCount > 0 })
	r.Register(GuardHasQuotes, func(s domain.Snapshot) bool { return s.QuoteCount > 0 })
	r.Register(GuardHasContent, domain.Snapshot.HasContent)
	r.Register(GuardBankLinked, func(s domain.Snapshot) bool { return s.BankLinked })
	r.Register(GuardSubscriptionActive, func(s domain.Snapshot) bool { return s.SubscriptionActive })
}
