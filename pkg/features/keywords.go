package features

import "strings"

// keywordSet maps a feature name to the chief-complaint substrings that
// trigger it. Matching is case-insensitive substring search, consistent with
// the lightweight chief-complaint NLP spec.md §4.3.3 refers to.
var keywordSet = map[string][]string{
	"burning":                  {"burning", "burns"},
	"meal_related":             {"after eating", "after meal", "meal related", "postprandial"},
	"positional":               {"lying down", "worse lying", "positional", "when reclining"},
	"relieved_by_antacids":     {"antacid", "tums", "relieved by antacid"},
	"dysphagia":                {"difficulty swallowing", "dysphagia", "trouble swallowing"},
	"epigastric":               {"epigastric", "upper abdomen", "stomach pain"},
	"nausea":                   {"nausea", "vomiting", "nauseous"},
	"ruq":                      {"right upper quadrant", "ruq", "right upper abdomen"},
	"back_radiation":           {"radiat", "back pain", "radiates to back"},
	"alcohol":                  {"alcohol", "drinking", "etoh"},
	"reproducible_with_palpation": {"reproducible", "tender to touch", "worse with touch", "palpation"},
	"point_tenderness":         {"point tender", "localized tenderness", "tender spot"},
	"sharp":                    {"sharp"},
	"worse_with_breathing":     {"worse with breathing", "worse with deep breath", "breathing hurts", "deep breath"},
	"worse_with_movement":      {"worse with movement", "worse when moving", "movement"},
	"recent_exertion_or_trauma": {"after lifting", "exertion", "strain", "trauma", "injury", "fell", "hit"},
	"unilateral":               {"one side", "unilateral", "left side only", "right side only"},
	"recent_trauma":            {"trauma", "fell", "accident", "hit", "injury"},
	"swelling":                 {"swelling", "swollen"},
	"leg_swelling":             {"leg swelling", "swollen leg", "calf swelling"},
	"hemoptysis":               {"coughing blood", "hemoptysis", "blood in sputum"},
	"dyspnea":                  {"shortness of breath", "dyspnea", "can't breathe", "difficulty breathing"},
	"sudden_onset":             {"sudden", "abrupt", "out of nowhere"},
	"pleuritic":                {"worse with breath", "pleuritic", "hurts to breathe", "worse when i breathe"},
	"cough":                    {"cough", "coughing"},
	"nsaid":                    {"nsaid", "ibuprofen", "advil", "naproxen"},
	"recent_surgery_or_immobilization": {"surgery", "immobil", "bed rest", "long flight", "cast", "post-op"},
}

// extractKeywords lower-cases the chief complaint once and reports which
// keyword-driven boolean features are present.
func extractKeywords(chiefComplaint string) map[string]bool {
	lower := strings.ToLower(chiefComplaint)
	out := make(map[string]bool, len(keywordSet))
	for feature, phrases := range keywordSet {
		for _, phrase := range phrases {
			if strings.Contains(lower, phrase) {
				out[feature] = true
				break
			}
		}
	}
	return out
}
