package data

import (
	"time"

	"gorm.io/gorm"
)

// Operation is the direction of a recorded run.
type Operation string

const (
	Encrypt Operation = "encrypt"
	Decrypt Operation = "decrypt"
)

// Job records a single encrypt or decrypt run. The key itself is never
// stored, only its fingerprint.
type Job struct {
	ID             uint64    `gorm:"primaryKey"`
	Operation      Operation `gorm:"not null"`
	InputPath      string    `gorm:"not null"`
	OutputPath     string    `gorm:"not null"`
	KeyFingerprint string    `gorm:"index; not null"`
	Rounds         int
	Permute        bool `gorm:"default:false"`
	Width          int
	Height         int
	CreatedAt      time.Time
}

// CreateJob persists the Job record to the database.
func CreateJob(db *gorm.DB, job *Job) error {
	return db.Create(job).Error
}

// RecentJobs returns up to limit jobs, newest first. A limit of zero or less
// returns every job.
func RecentJobs(db *gorm.DB, limit int) ([]Job, error) {
	var jobs []Job
	q := db.Order("created_at desc").Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// JobsForKey returns every job run with the key identified by fingerprint,
// newest first.
func JobsForKey(db *gorm.DB, fingerprint string) ([]Job, error) {
	var jobs []Job
	err := db.Where("key_fingerprint = ?", fingerprint).
		Order("created_at desc").
		Order("id desc").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}
