package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyTable(t *testing.T) {
	assert.Equal(t, FailureSoft, PolicyFor(StepExchangeRate))
	assert.Equal(t, FailureSoft, PolicyFor(StepDeliveryScheduling))
	assert.Equal(t, FailureHard, PolicyFor(StepAuthoritativeStore))
	assert.Equal(t, FailureHard, PolicyFor(StepPaymentPreference))
}

func TestPolicyFor_UnknownStepFailsHard(t *testing.T) {
	assert.Equal(t, FailureHard, PolicyFor(Step("loyalty_points")))
}
