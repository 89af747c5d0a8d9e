package onboarding

import (
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/dsl"
	"github.com/aretw0/waymark/pkg/registry"
)

// DefaultSteps returns the built-in five-step checklist:
// profile, customers, content, bank and subscription, each gated on the ones before it.
func DefaultSteps() []domain.StepDefinition {
	builtins := registry.NewRegistry()
	registry.RegisterBuiltins(builtins)
	b := dsl.New().WithRegistry(builtins)

	b.Step(domain.StepProfile).
		Title("Complete your profile").
		Route("/settings/profile").
		Focus("full_name").
		Describe("Add your name, phone number and business name.").
		GuardNamed(registry.GuardProfileComplete)

	b.Step(domain.StepCustomers).
		Title("Add your first customer").
		Route("/customers/new").
		Describe("Create a customer record to send work to.").
		GuardNamed(registry.GuardHasCustomers).
		After(domain.StepProfile)

	b.Step(domain.StepContent).
		Title("Create your first job or quote").
		Route("/jobs/new").
		Describe("Schedule a job or send a quote to a customer.").
		GuardNamed(registry.GuardHasContent).
		After(domain.StepProfile, domain.StepCustomers)

	b.Step(domain.StepBank).
		Title("Link your bank account").
		Route("/settings/billing").
		Focus("bank_account").
		Describe("Connect a bank account to receive payments.").
		GuardNamed(registry.GuardBankLinked).
		After(domain.StepProfile, domain.StepCustomers, domain.StepContent)

	b.Step(domain.StepSubscription).
		Title("Start your subscription").
		Route("/settings/subscription").
		Describe("Choose a plan to keep using the service.").
		GuardNamed(registry.GuardSubscriptionActive).
		After(domain.StepProfile, domain.StepCustomers, domain.StepContent, domain.StepBank)

	return b.MustBuild()
}

// DefaultPlan returns a Plan over DefaultSteps.
func DefaultPlan() *Plan {
	return &Plan{steps: DefaultSteps()}
}
