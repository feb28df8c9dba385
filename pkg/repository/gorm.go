package repository

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// GormRepository persists assessments and baselines to a SQLite file via
// GORM, generalizing the teacher's database.go connect-then-AutoMigrate
// pattern from a Postgres-specific DSN to an embedded, dependency-free
// store suitable for a single-node deployment or the demo CLI.
type GormRepository struct {
	db *gorm.DB
}

// OpenGormRepository opens (creating if absent) a SQLite database at path
// and migrates the schema.
func OpenGormRepository(path string) (*GormRepository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&AssessmentRecord{}, &BaselineRecord{}); err != nil {
		return nil, err
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) SaveAssessment(record AssessmentRecord) error {
	return r.db.Create(&record).Error
}

func (r *GormRepository) ListAssessments(patientID string) ([]AssessmentRecord, error) {
	var out []AssessmentRecord
	err := r.db.Where("patient_id = ?", patientID).Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *GormRepository) SaveBaseline(record BaselineRecord) error {
	var existing BaselineRecord
	err := r.db.Where("patient_id = ? AND metric = ?", record.PatientID, record.Metric).First(&existing).Error
	if err == nil {
		record.ID = existing.ID
		return r.db.Save(&record).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.Create(&record).Error
}

func (r *GormRepository) LoadBaselines(patientID string) ([]BaselineRecord, error) {
	var out []BaselineRecord
	err := r.db.Where("patient_id = ?", patientID).Find(&out).Error
	return out, err
}
