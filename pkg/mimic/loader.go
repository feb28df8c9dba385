// Package mimic loads MIMIC-IV-shaped CSV exports into patient.Record
// values for offline batch assessment, generalizing
// original_source/src/data_loader.py's MIMICDataLoader from pandas
// DataFrames to encoding/csv, in the style of the
// olaflaitinen-triagegeist export package's CSV helpers.
package mimic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/clinical/chestpain-copilot/pkg/patient"
)

// ChestPainICD9Prefixes are the ICD-9 code prefixes used to filter
// admissions down to chest-pain-relevant diagnoses, carried over from the
// CHEST_PAIN_ICD9_CODES table the original loader keyed lab extraction on.
var ChestPainICD9Prefixes = []string{
	"7865",  // chest pain, unspecified / precordial pain
	"4139",  // angina pectoris, unspecified
	"41071", // subendocardial infarction
	"4109",  // acute myocardial infarction, unspecified site
}

// labItemIDs maps MIMIC-IV labevents itemid to the LabName it measures,
// carried over from the important_labs table in data_loader.py.
var labItemIDs = map[string]patient.LabName{
	"51265": patient.WBC,
	"50912": patient.Creatinine,
	"50878": patient.AST,
	"50861": patient.ALT,
	"51222": patient.Hemoglobin,
	"51003": patient.Troponin,
}

// Loader reads a directory of MIMIC-IV-shaped CSV exports
// (admissions.csv, patients.csv, diagnoses_icd.csv, d_icd_diagnoses.csv,
// labevents.csv) and joins them into patient.Record values.
type Loader struct {
	Dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

type admission struct {
	subjectID string
	hadmID    string
	admitTime time.Time
}

type demographics struct {
	gender     string
	anchorAge  int
	anchorYear int
}

// LoadChestPainPatients reads the admissions/patients/diagnoses/labevents
// tables, filters admissions to chest-pain ICD-9 prefixes, and returns up
// to limit assembled patient.Record values (limit <= 0 means unbounded).
// It mirrors filter_chest_pain_patients + get_patient_data from
// data_loader.py, without the vitals/troponin simulation that function
// used to cover demo-dataset gaps: this loader reports only what the CSVs
// actually carry.
func (l *Loader) LoadChestPainPatients(limit int) ([]*patient.Record, error) {
	admissions, err := l.readAdmissions()
	if err != nil {
		return nil, fmt.Errorf("mimic: reading admissions: %w", err)
	}
	demo, err := l.readPatients()
	if err != nil {
		return nil, fmt.Errorf("mimic: reading patients: %w", err)
	}
	dxByHadm, icdTitles, err := l.readDiagnoses()
	if err != nil {
		return nil, fmt.Errorf("mimic: reading diagnoses: %w", err)
	}
	_ = icdTitles

	chestPainHadm := filterChestPain(dxByHadm)

	labsByHadm, err := l.readLabevents(chestPainHadm)
	if err != nil {
		return nil, fmt.Errorf("mimic: reading labevents: %w", err)
	}

	var hadmIDs []string
	for hadmID := range chestPainHadm {
		hadmIDs = append(hadmIDs, hadmID)
	}
	sort.Strings(hadmIDs) // deterministic ordering regardless of CSV/map iteration order

	var out []*patient.Record
	for _, hadmID := range hadmIDs {
		if limit > 0 && len(out) >= limit {
			break
		}
		adm, ok := admissions[hadmID]
		if !ok {
			continue
		}
		dem, ok := demo[adm.subjectID]
		if !ok {
			continue
		}
		rec := buildRecord(adm, dem, dxByHadm[hadmID], labsByHadm[hadmID])
		out = append(out, rec)
	}
	return out, nil
}

func buildRecord(adm admission, dem demographics, icdCodes []string, labs patient.Labs) *patient.Record {
	age := dem.anchorAge
	if !adm.admitTime.IsZero() && dem.anchorYear > 0 {
		age = dem.anchorAge + (adm.admitTime.Year() - dem.anchorYear)
	}

	sex := patient.SexOther
	switch dem.gender {
	case "M":
		sex = patient.SexMale
	case "F":
		sex = patient.SexFemale
	}

	rec := patient.NewRecord(adm.subjectID, age, sex)
	rec.HadmID = adm.hadmID
	rec.ChiefComplaint = "chest pain"
	if !adm.admitTime.IsZero() {
		rec.AdmissionTime = adm.admitTime
	}
	for _, code := range icdCodes {
		rec.ICDCodes[code] = struct{}{}
	}
	if labs != nil {
		rec.Labs = labs
	}
	return rec
}

func filterChestPain(dxByHadm map[string][]string) map[string][]string {
	matches := make(map[string][]string)
	for hadmID, codes := range dxByHadm {
		for _, code := range codes {
			if hasChestPainPrefix(code) {
				matches[hadmID] = codes
				break
			}
		}
	}
	return matches
}

func hasChestPainPrefix(code string) bool {
	for _, prefix := range ChestPainICD9Prefixes {
		if len(code) >= len(prefix) && code[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func (l *Loader) readAdmissions() (map[string]admission, error) {
	rows, err := readCSV(l.path("admissions.csv"))
	if err != nil {
		return nil, err
	}
	out := make(map[string]admission)
	for _, row := range rows {
		hadmID := row["hadm_id"]
		if hadmID == "" {
			continue
		}
		admitTime, _ := time.Parse("2006-01-02 15:04:05", row["admittime"])
		out[hadmID] = admission{
			subjectID: row["subject_id"],
			hadmID:    hadmID,
			admitTime: admitTime,
		}
	}
	return out, nil
}

func (l *Loader) readPatients() (map[string]demographics, error) {
	rows, err := readCSV(l.path("patients.csv"))
	if err != nil {
		return nil, err
	}
	out := make(map[string]demographics)
	for _, row := range rows {
		subjectID := row["subject_id"]
		if subjectID == "" {
			continue
		}
		anchorAge, _ := strconv.Atoi(row["anchor_age"])
		anchorYear, _ := strconv.Atoi(row["anchor_year"])
		out[subjectID] = demographics{
			gender:     row["gender"],
			anchorAge:  anchorAge,
			anchorYear: anchorYear,
		}
	}
	return out, nil
}

func (l *Loader) readDiagnoses() (map[string][]string, map[string]string, error) {
	rows, err := readCSV(l.path("diagnoses_icd.csv"))
	if err != nil {
		return nil, nil, err
	}
	dxByHadm := make(map[string][]string)
	for _, row := range rows {
		hadmID := row["hadm_id"]
		code := row["icd_code"]
		if hadmID == "" || code == "" {
			continue
		}
		dxByHadm[hadmID] = append(dxByHadm[hadmID], code)
	}

	titles := make(map[string]string)
	titleRows, err := readCSV(l.path("d_icd_diagnoses.csv"))
	if err == nil {
		for _, row := range titleRows {
			titles[row["icd_code"]] = row["long_title"]
		}
	}
	return dxByHadm, titles, nil
}

// readLabevents only parses rows for admissions already known to be
// chest-pain relevant, since labevents.csv is the largest MIMIC-IV table.
func (l *Loader) readLabevents(wanted map[string][]string) (map[string]patient.Labs, error) {
	rows, err := readCSV(l.path("labevents.csv"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	out := make(map[string]patient.Labs)
	for _, row := range rows {
		hadmID := row["hadm_id"]
		if _, ok := wanted[hadmID]; !ok {
			continue
		}
		labName, ok := labItemIDs[row["itemid"]]
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(row["valuenum"], 64)
		if err != nil {
			continue
		}
		charttime, _ := time.Parse("2006-01-02 15:04:05", row["charttime"])

		labs, ok := out[hadmID]
		if !ok {
			labs = make(patient.Labs)
			out[hadmID] = labs
		}
		labs[labName] = append(labs[labName], patient.LabPoint{Timestamp: charttime, Value: value})
	}

	for _, labs := range out {
		for name, series := range labs {
			sort.Slice(series, func(i, j int) bool { return series[i].Timestamp.Before(series[j].Timestamp) })
			labs[name] = series
		}
	}
	return out, nil
}

func (l *Loader) path(name string) string {
	return l.Dir + string(os.PathSeparator) + name
}

// readCSV loads a CSV file into a slice of header-keyed rows, the same
// encoding/csv approach export.WriteCSV uses for writing.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = false

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
