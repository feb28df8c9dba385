package agents

import (
	"math"

	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
)

// NormalizedEntropy implements spec.md §4.2 step 2: normalize confidences to
// a probability distribution, compute Shannon entropy, and normalize by
// log2(N). With N <= 1 hypotheses or a zero confidence sum, uncertainty is
// defined as 1.0 (maximally uncertain).
func NormalizedEntropy(hypotheses []diagnosis.Result) float64 {
	n := len(hypotheses)
	if n <= 1 {
		return 1.0
	}

	var sum float64
	for _, h := range hypotheses {
		sum += h.Confidence
	}
	if sum == 0 {
		return 1.0
	}

	var shannon float64
	for _, h := range hypotheses {
		p := h.Confidence / sum
		if p <= 0 {
			continue
		}
		shannon -= p * math.Log2(p)
	}

	return shannon / math.Log2(float64(n))
}
