package mimic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical/chestpain-copilot/pkg/patient"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func seedMIMICDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeCSV(t, dir, "admissions.csv", ""+
		"subject_id,hadm_id,admittime\n"+
		"10001,20001,2150-03-10 08:00:00\n"+
		"10002,20002,2150-04-01 09:00:00\n")

	writeCSV(t, dir, "patients.csv", ""+
		"subject_id,gender,anchor_age,anchor_year\n"+
		"10001,F,60,2150\n"+
		"10002,M,45,2150\n")

	writeCSV(t, dir, "diagnoses_icd.csv", ""+
		"subject_id,hadm_id,icd_code\n"+
		"10001,20001,41071\n"+
		"10002,20002,99999\n") // non-chest-pain code, should be excluded

	writeCSV(t, dir, "d_icd_diagnoses.csv", ""+
		"icd_code,long_title\n"+
		"41071,\"Subendocardial infarction, initial episode\"\n")

	writeCSV(t, dir, "labevents.csv", ""+
		"subject_id,hadm_id,itemid,charttime,valuenum\n"+
		"10001,20001,51003,2150-03-10 09:00:00,0.08\n"+
		"10001,20001,51265,2150-03-10 09:00:00,12.1\n")

	return dir
}

func TestLoadChestPainPatients_FiltersAndJoinsAcrossTables(t *testing.T) {
	loader := NewLoader(seedMIMICDir(t))

	records, err := loader.LoadChestPainPatients(0)

	require.NoError(t, err)
	require.Len(t, records, 1, "only the ICD-9 41071 admission is chest-pain relevant")

	rec := records[0]
	assert.Equal(t, "10001", rec.PatientID)
	assert.Equal(t, "20001", rec.HadmID)
	assert.Equal(t, patient.SexFemale, rec.Sex)
	assert.Equal(t, 60, rec.Age)
	assert.True(t, rec.HasICD("41071"))

	troponin, ok := rec.Labs.Latest(patient.Troponin)
	require.True(t, ok)
	assert.Equal(t, 0.08, troponin)
}

func TestLoadChestPainPatients_RespectsLimit(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "admissions.csv", ""+
		"subject_id,hadm_id,admittime\n"+
		"1,100,2150-01-01 00:00:00\n"+
		"2,200,2150-01-01 00:00:00\n")
	writeCSV(t, dir, "patients.csv", ""+
		"subject_id,gender,anchor_age,anchor_year\n"+
		"1,M,50,2150\n"+
		"2,F,55,2150\n")
	writeCSV(t, dir, "diagnoses_icd.csv", ""+
		"subject_id,hadm_id,icd_code\n"+
		"1,100,7865\n"+
		"2,200,4139\n")
	writeCSV(t, dir, "d_icd_diagnoses.csv", "icd_code,long_title\n")

	loader := NewLoader(dir)
	records, err := loader.LoadChestPainPatients(1)

	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestHasChestPainPrefix(t *testing.T) {
	assert.True(t, hasChestPainPrefix("41071"))
	assert.True(t, hasChestPainPrefix("78650"))
	assert.False(t, hasChestPainPrefix("25000"))
}
