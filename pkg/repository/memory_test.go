package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_SaveAndListAssessmentsScopedByPatient(t *testing.T) {
	repo := NewMemoryRepository()

	require.NoError(t, repo.SaveAssessment(AssessmentRecord{PatientID: "p1", PrimaryKind: "STEMI"}))
	require.NoError(t, repo.SaveAssessment(AssessmentRecord{PatientID: "p2", PrimaryKind: "NSTEMI"}))
	require.NoError(t, repo.SaveAssessment(AssessmentRecord{PatientID: "p1", PrimaryKind: "PE"}))

	p1, err := repo.ListAssessments("p1")
	require.NoError(t, err)
	require.Len(t, p1, 2)
	assert.Equal(t, "STEMI", p1[0].PrimaryKind)
	assert.Equal(t, "PE", p1[1].PrimaryKind)
	assert.NotZero(t, p1[0].ID)
	assert.NotEqual(t, p1[0].ID, p1[1].ID)

	p2, err := repo.ListAssessments("p2")
	require.NoError(t, err)
	require.Len(t, p2, 1)
}

func TestMemoryRepository_SaveBaselineUpsertsByPatientAndMetric(t *testing.T) {
	repo := NewMemoryRepository()

	require.NoError(t, repo.SaveBaseline(BaselineRecord{PatientID: "p1", Metric: "heart_rate", Mean: 70}))
	require.NoError(t, repo.SaveBaseline(BaselineRecord{PatientID: "p1", Metric: "heart_rate", Mean: 72}))
	require.NoError(t, repo.SaveBaseline(BaselineRecord{PatientID: "p1", Metric: "spo2", Mean: 97}))

	baselines, err := repo.LoadBaselines("p1")
	require.NoError(t, err)
	require.Len(t, baselines, 2, "same patient+metric must upsert, not duplicate")

	for _, b := range baselines {
		if b.Metric == "heart_rate" {
			assert.Equal(t, 72.0, b.Mean)
		}
	}
}
