package patient

import "time"

// Sex is the closed set of sex values a PatientRecord carries.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
	SexOther  Sex = "other"
)

func (s Sex) Valid() bool {
	switch s {
	case SexMale, SexFemale, SexOther:
		return true
	}
	return false
}

// Record is the immutable patient snapshot used by every agent, the triage
// engine, and the treatment planner for one assessment. It is never mutated
// after construction: callers that need a different snapshot build a new one.
type Record struct {
	PatientID      string
	HadmID         string
	Age            int
	Sex            Sex
	ChiefComplaint string
	Vitals         Vitals
	Labs           Labs
	ICDCodes       map[string]struct{}
	AdmissionTime  time.Time
}

// HasICD reports whether the record's ICD code set contains code.
func (r Record) HasICD(code string) bool {
	_, ok := r.ICDCodes[code]
	return ok
}

// HasAnyICD reports whether any of codes is present.
func (r Record) HasAnyICD(codes ...string) bool {
	for _, c := range codes {
		if r.HasICD(c) {
			return true
		}
	}
	return false
}

// NewRecord constructs a Record with initialized map fields, so callers never
// need to guard against nil Vitals/Labs/ICDCodes.
func NewRecord(patientID string, age int, sex Sex) *Record {
	return &Record{
		PatientID:     patientID,
		Age:           age,
		Sex:           sex,
		Vitals:        make(Vitals),
		Labs:          make(Labs),
		ICDCodes:      make(map[string]struct{}),
		AdmissionTime: time.Now(),
	}
}
