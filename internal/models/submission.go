package models

import (
	"time"

	"github.com/google/uuid"
)

// ProposalStatus описывает жизненный цикл заявки в базе.
// Запись создаётся со статусом processing и обновляется не более одного раза.
type ProposalStatus string

const (
	StatusProcessing ProposalStatus = "processing"
	StatusDraftReady ProposalStatus = "draft_ready"
	StatusFailed     ProposalStatus = "failed"
)

// ServiceTypes — фиксированный набор услуг из формы.
var ServiceTypes = []string{
	"Managed Detection & Response (MDR)",
	"Digital Forensics (DFIR)",
	"Managed Infrastructure (MIS)",
	"SOCaaS",
}

// ToneOptions — варианты тона предложения.
var ToneOptions = []string{
	"Formal",
	"Consultative",
	"Aggressive/Competitive",
}

// UploadedDocument описывает загруженный файл до и после кодирования.
type UploadedDocument struct {
	Filename    string
	ContentType string
	SizeBytes   int64
	// ContentBase64 заполняется кодировщиком, пустая строка до кодирования.
	ContentBase64 string
}

// Submission — одна отправка формы. Значение живёт только в рамках одного запроса.
type Submission struct {
	ID              string
	ClientName      string
	Services        []string
	Tone            string
	IncludePricing  bool
	IncludeTimeline bool
	AdditionalNotes string
	RFP             *UploadedDocument
	References      []UploadedDocument
	SubmittedAt     time.Time
}

// ProposalRecord — строка таблицы proposals.
type ProposalRecord struct {
	ID              uuid.UUID      `db:"id" json:"id"`
	SubmissionID    string         `db:"submission_id" json:"submission_id"`
	ClientName      string         `db:"client_name" json:"client_name"`
	ServiceTypes    []string       `db:"service_types" json:"service_types"`
	Status          ProposalStatus `db:"status" json:"status"`
	RFPFilename     string         `db:"rfp_filename" json:"rfp_filename"`
	Tone            string         `db:"tone" json:"tone"`
	IncludePricing  bool           `db:"include_pricing" json:"include_pricing"`
	IncludeTimeline bool           `db:"include_timeline" json:"include_timeline"`
	AdditionalNotes string         `db:"additional_notes" json:"additional_notes"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// ReferenceDoc — строка таблицы reference_docs, метаданные дополнительного файла.
type ReferenceDoc struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ProposalID uuid.UUID `db:"proposal_id" json:"proposal_id"`
	Filename   string    `db:"filename" json:"filename"`
	FileSize   int64     `db:"file_size" json:"file_size"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// IsKnownService проверяет, что услуга входит в фиксированный набор.
func IsKnownService(service string) bool {
	for _, s := range ServiceTypes {
		if s == service {
			return true
		}
	}
	return false
}
