package domain

// Snapshot aggregates the tenant facts the onboarding guards read.
// It is assembled by the host from its own data sources and passed by value;
// the engine never fetches or mutates it.
type Snapshot struct {
	// Profile
	HasFullName bool `json:"has_full_name" yaml:"has_full_name" mapstructure:"has_full_name"`
	HasPhone    bool `json:"has_phone" yaml:"has_phone" mapstructure:"has_phone"`

	HasBusinessName bool `json:"has_business_name" yaml:"has_business_name" mapstructure:"has_business_name"`

	// Entity counts
	CustomerCount int `json:"customer_count" yaml:"customer_count" mapstructure:"customer_count"`
	JobCount      int `json:"job_count" yaml:"job_count" mapstructure:"job_count"`
	QuoteCount    int `json:"quote_count" yaml:"quote_count" mapstructure:"quote_count"`

	// Billing
	BankLinked         bool `json:"bank_linked" yaml:"bank_linked" mapstructure:"bank_linked"`
	SubscriptionActive bool `json:"subscription_active" yaml:"subscription_active" mapstructure:"subscription_active"`
}

// ProfileComplete reports whether the profile and business identity are filled in.
func (s Snapshot) ProfileComplete() bool {
	return s.HasFullName && s.HasPhone && s.HasBusinessName
}

// HasContent reports whether at least one job or quote exists.
func (s Snapshot) HasContent() bool {
	return s.JobCount > 0 || s.QuoteCount > 0
}
