package dto

// SubmissionResponse — сводная таблица успешной отправки.
type SubmissionResponse struct {
	SubmissionID   string   `json:"submission_id"`
	ClientName     string   `json:"client_name"`
	Services       []string `json:"services"`
	Tone           string   `json:"tone"`
	RFPFilename    string   `json:"rfp_filename"`
	ReferenceCount int      `json:"reference_count"`
	Status         string   `json:"status"`
	Message        string   `json:"message"`
	Warnings       []string `json:"warnings,omitempty"`
}

// ErrorResponse — баннер ошибки с чек-листом для починки.
type ErrorResponse struct {
	Error           string   `json:"error"`
	Troubleshooting []string `json:"troubleshooting,omitempty"`
}

// StatsResponse — счётчики сессии для отображения.
type StatsResponse struct {
	SubmissionCount  int    `json:"submission_count"`
	LastSubmissionID string `json:"last_submission_id"`
}

// CatalogResponse — справочники формы: услуги и тон предложения.
type CatalogResponse struct {
	Services []string `json:"services"`
	Tones    []string `json:"tones"`
}
