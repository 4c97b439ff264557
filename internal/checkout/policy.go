package checkout

// Step identifies an external call made during checkout.
type Step string

const (
	StepExchangeRate       Step = "exchange_rate"
	StepAuthoritativeStore Step = "authoritative_store"
	StepPaymentPreference  Step = "payment_preference"
	StepDeliveryScheduling Step = "delivery_scheduling"
)

type FailureMode int

const (
	// FailureSoft: log and continue; the step's outcome does not gate the flow.
	FailureSoft FailureMode = iota
	// FailureHard: abort the submission and keep the session on payment.
	FailureHard
)

// failurePolicy is the single place where the soft-vs-hard classification of
// each external call lives. Change it here, not in branch logic.
var failurePolicy = map[Step]FailureMode{
	StepExchangeRate:       FailureSoft,
	StepAuthoritativeStore: FailureHard,
	StepPaymentPreference:  FailureHard,
	StepDeliveryScheduling: FailureSoft,
}

func PolicyFor(step Step) FailureMode {
	mode, ok := failurePolicy[step]
	if !ok {
		// Unknown steps fail hard rather than silently passing.
		return FailureHard
	}
	return mode
}
