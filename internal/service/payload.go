package service

import (
	"fmt"
	"time"

	"github.com/dactasg/proposal-architect/internal/models"
)

// WebhookPayload — структура, уходящая в автоматизацию. Четыре группы:
// клиент и услуги, документ RFP, дополнительные документы, опции с метаданными.
type WebhookPayload struct {
	Client     ClientGroup     `json:"client"`
	RFP        DocumentGroup   `json:"rfp_document"`
	References []DocumentGroup `json:"reference_documents"`
	Options    OptionsGroup    `json:"options"`
}

type ClientGroup struct {
	Name     string   `json:"name"`
	Services []string `json:"services"`
}

type DocumentGroup struct {
	Filename      string `json:"filename"`
	ContentType   string `json:"content_type"`
	SizeBytes     int64  `json:"size_bytes"`
	ContentBase64 string `json:"content_base64"`
}

type OptionsGroup struct {
	Tone            string `json:"tone"`
	IncludePricing  bool   `json:"include_pricing"`
	IncludeTimeline bool   `json:"include_timeline"`
	AdditionalNotes string `json:"additional_notes"`
	SubmissionID    string `json:"submission_id"`
	SubmittedAt     string `json:"submitted_at"`
}

// NewSubmissionID генерирует идентификатор отправки.
// TODO: точность до секунды — две отправки в одну секунду получат одинаковый id.
func NewSubmissionID(now time.Time) string {
	return fmt.Sprintf("DACTA-%d", now.Unix())
}

// BuildPayload — чистая сборка без валидации, поля считаются уже проверенными.
func BuildPayload(sub *models.Submission) WebhookPayload {
	references := make([]DocumentGroup, 0, len(sub.References))
	for _, ref := range sub.References {
		references = append(references, documentGroup(&ref))
	}

	return WebhookPayload{
		Client: ClientGroup{
			Name:     sub.ClientName,
			Services: sub.Services,
		},
		RFP:        documentGroup(sub.RFP),
		References: references,
		Options: OptionsGroup{
			Tone:            sub.Tone,
			IncludePricing:  sub.IncludePricing,
			IncludeTimeline: sub.IncludeTimeline,
			AdditionalNotes: sub.AdditionalNotes,
			SubmissionID:    sub.ID,
			SubmittedAt:     sub.SubmittedAt.Format(time.RFC3339),
		},
	}
}

func documentGroup(doc *models.UploadedDocument) DocumentGroup {
	return DocumentGroup{
		Filename:      doc.Filename,
		ContentType:   doc.ContentType,
		SizeBytes:     doc.SizeBytes,
		ContentBase64: doc.ContentBase64,
	}
}
