package features

// ICD lookup table referenced by spec.md §4.2: "interpreted against a fixed
// lookup table". Codes are ICD-9-CM style without dots. These history codes
// are matched exactly against the record's code set (Record.HasICD); only
// the hypertension/diabetes lists below are matched by prefix. Dotted codes
// such as "530.11" are not normalized by either lookup.
const (
	ICDGERD           = "5301"
	ICDUlcer1         = "5310"
	ICDUlcer2         = "5311"
	ICDCholelithiasis1 = "5750"
	ICDCholelithiasis2 = "5751"
	ICDPancreatitis   = "5770"
)

// Hypertension and diabetes codes feed the Cardiology HEART-score risk-factor
// count (spec.md §4.3.2): "count of ICD matches against HTN/DM codes".
var hypertensionCodes = []string{"401", "4010", "4011", "4019"}
var diabetesCodes = []string{"250", "2500", "2501", "2502"}

func hasPrefixMatch(codes map[string]struct{}, prefixes ...string) bool {
	for code := range codes {
		for _, p := range prefixes {
			if len(code) >= len(p) && code[:len(p)] == p {
				return true
			}
		}
	}
	return false
}

func matchCount(codes map[string]struct{}, groups ...[]string) int {
	n := 0
	for _, g := range groups {
		if hasPrefixMatch(codes, g...) {
			n++
		}
	}
	return n
}
