package model

import (
	"encoding/json"
	"time"
)

// TranslationKey identifies one distinct source string, scoped by a
// component namespace. (Component, Key) is unique; the key identity is
// stable even when a re-capture overwrites the source text.
type TranslationKey struct {
	ID         int64     `json:"id" db:"id"`
	Component  string    `json:"component" db:"component"`
	Key        string    `json:"key" db:"key"`
	SourceText string    `json:"source_text" db:"source_text"`
	Context    string    `json:"context,omitempty" db:"context"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	ModifiedAt time.Time `json:"modified_at" db:"modified_at"`
}

// Translation is the stored text for a (key, language) pair.
// At most one row exists per (KeyID, Lang); writes are upserts.
type Translation struct {
	ID         int64     `json:"id" db:"id"`
	KeyID      int64     `json:"key_id" db:"key_id"`
	Lang       string    `json:"lang" db:"lang"`
	Text       string    `json:"text" db:"text"`
	Active     bool      `json:"active" db:"active"`
	Reviewed   bool      `json:"reviewed" db:"reviewed"`
	ModifiedAt time.Time `json:"modified_at" db:"modified_at"`
}

// KeyCourseAssociation links a translation key to a course. Its ID is
// the insertion-ordered pagination cursor used by course jobs.
type KeyCourseAssociation struct {
	ID       int64 `json:"id" db:"id"`
	KeyID    int64 `json:"key_id" db:"key_id"`
	CourseID int64 `json:"course_id" db:"course_id"`
}

// CourseKeyRow is one page row for a course job: an association joined
// to its key's component, structural key and source text.
type CourseKeyRow struct {
	AssociationID int64  `json:"association_id" db:"association_id"`
	KeyID         int64  `json:"key_id" db:"key_id"`
	Component     string `json:"component" db:"component"`
	Key           string `json:"key" db:"key"`
	SourceText    string `json:"source_text" db:"source_text"`
	Context       string `json:"context,omitempty" db:"context"`
}

// JobStatus is the lifecycle state of a course job.
type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusRunning  JobStatus = "running"
	JobStatusComplete JobStatus = "complete"
	JobStatusFailed   JobStatus = "failed"
)

// Terminal reports whether no further batches may run for this status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusComplete || s == JobStatusFailed
}

// GlossaryEntry is one advisory (term, preferred replacement) pair.
type GlossaryEntry struct {
	Term        string `json:"term"`
	Replacement string `json:"replacement"`
}

// JobOptions is the serialized options blob stored on a course job.
type JobOptions struct {
	SourceLang  string          `json:"source_lang"`
	TargetLangs []string        `json:"target_langs"`
	BatchSize   int             `json:"batch_size"`
	Glossary    []GlossaryEntry `json:"glossary,omitempty"`
}

// CourseJob is one resumable, course-scoped translation run.
// Processed and LastID only ever increase; Failures counts per-language
// engine failures so partial failure is visible to polling clients.
type CourseJob struct {
	ID         int64     `json:"id" db:"id"`
	CourseID   int64     `json:"course_id" db:"course_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Status     JobStatus `json:"status" db:"status"`
	Total      int       `json:"total" db:"total"`
	Processed  int       `json:"processed" db:"processed"`
	Failures   int       `json:"failures" db:"failures"`
	BatchSize  int       `json:"batch_size" db:"batch_size"`
	Options    string    `json:"options" db:"options"`
	LastID     int64     `json:"last_id" db:"last_id"`
	LastError  string    `json:"last_error,omitempty" db:"last_error"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	ModifiedAt time.Time `json:"modified_at" db:"modified_at"`
}

// DecodeOptions parses the serialized options blob.
func (j *CourseJob) DecodeOptions() (*JobOptions, error) {
	var opts JobOptions
	if err := json.Unmarshal([]byte(j.Options), &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// EncodeOptions serializes options for storage on a job row.
func EncodeOptions(opts *JobOptions) (string, error) {
	data, err := json.Marshal(opts)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
