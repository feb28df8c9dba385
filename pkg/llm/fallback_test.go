package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackFromSeverity_Boundary(t *testing.T) {
	at := FallbackFromSeverity(0.30)
	above := FallbackFromSeverity(0.31)

	assert.Equal(t, "HIGH", at.RiskLevel)
	assert.Equal(t, "CRITICAL", above.RiskLevel)
}
