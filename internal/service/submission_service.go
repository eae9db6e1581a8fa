package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dactasg/proposal-architect/internal/logger"
	"github.com/dactasg/proposal-architect/internal/models"
	"github.com/dactasg/proposal-architect/internal/pkg/apperror"
	"github.com/dactasg/proposal-architect/internal/validation"
	"github.com/dactasg/proposal-architect/internal/webhook"
)

// ProposalStore — запись состояния заявки в базу. Ошибки хранилища по политике
// никогда не блокируют отправку, сервис переводит их в предупреждения.
type ProposalStore interface {
	Create(ctx context.Context, record *models.ProposalRecord) error
	CreateReferenceDocs(ctx context.Context, proposalID uuid.UUID, docs []models.ReferenceDoc) error
	UpdateStatus(ctx context.Context, submissionID string, status models.ProposalStatus) error
}

// Dispatcher отправляет payload на вебхук и классифицирует исход.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload any) *webhook.Result
}

// FileUpload — загруженный файл из формы. Open выдаёт свежий reader содержимого.
type FileUpload struct {
	Filename    string
	ContentType string
	SizeBytes   int64
	// Head — первые байты файла для проверки магических байтов.
	Head []byte
	Open func() (io.ReadCloser, error)
}

// SubmissionInput — поля формы одной отправки.
type SubmissionInput struct {
	ClientName      string
	Services        []string
	Tone            string
	IncludePricing  bool
	IncludeTimeline bool
	AdditionalNotes string
	RFP             *FileUpload
	References      []FileUpload
}

// SubmissionResult — итог конвейера для отображения пользователю.
type SubmissionResult struct {
	SubmissionID   string
	ClientName     string
	Services       []string
	Tone           string
	RFPFilename    string
	ReferenceCount int
	Status         models.ProposalStatus
	Dispatch       *webhook.Result
	Warnings       []string
}

// SubmissionService прогоняет отправку через конвейер:
// валидация → кодирование → сборка payload → запись в базу → вебхук → обновление статуса.
// Ровно один проход на клик, без очередей и ретраев.
type SubmissionService struct {
	store       ProposalStore
	dispatcher  Dispatcher
	maxUploadMB int64
	now         func() time.Time

	// Счётчики сессии, существуют только для отображения.
	mu               sync.Mutex
	submissionCount  int
	lastSubmissionID string
}

// NewSubmissionService создаёт сервис.
func NewSubmissionService(store ProposalStore, dispatcher Dispatcher, maxUploadMB int64) *SubmissionService {
	return &SubmissionService{
		store:       store,
		dispatcher:  dispatcher,
		maxUploadMB: maxUploadMB,
		now:         time.Now,
	}
}

// Process выполняет конвейер. Ошибки валидации и кодирования RFP фатальны и
// возвращаются до любых сетевых вызовов и записей в базу; результат отправки
// всегда возвращается вместе с предупреждениями.
func (s *SubmissionService) Process(ctx context.Context, input SubmissionInput) (*SubmissionResult, error) {
	var rfpDoc *models.UploadedDocument
	if input.RFP != nil {
		rfpDoc = &models.UploadedDocument{
			Filename:    input.RFP.Filename,
			ContentType: input.RFP.ContentType,
			SizeBytes:   input.RFP.SizeBytes,
		}
	}

	if err := validation.ValidateSubmission(input.ClientName, input.Services, rfpDoc, s.maxUploadMB); err != nil {
		return nil, err
	}
	if err := validation.ValidateRFPContent(input.RFP.Filename, input.RFP.Head); err != nil {
		return nil, err
	}

	now := s.now()
	sub := &models.Submission{
		ID:              NewSubmissionID(now),
		ClientName:      input.ClientName,
		Services:        input.Services,
		Tone:            input.Tone,
		IncludePricing:  input.IncludePricing,
		IncludeTimeline: input.IncludeTimeline,
		AdditionalNotes: input.AdditionalNotes,
		RFP:             rfpDoc,
		SubmittedAt:     now,
	}

	log := logger.WithSubmission(sub.ID)
	var warnings []string

	// Кодирование RFP фатально: усечённый payload отправлять нельзя.
	if err := s.encodeUpload(input.RFP, rfpDoc); err != nil {
		log.WithError(err).Error("не удалось закодировать RFP")
		return nil, apperror.Wrap(err, apperror.ErrCodeEncoding, "не удалось прочитать файл RFP")
	}

	// Дополнительные файлы некритичны: проблемный файл пропускается.
	for i := range input.References {
		ref := &input.References[i]
		if !validation.IsAllowedReference(ref.Filename) {
			log.WithField("filename", ref.Filename).Warn("дополнительный файл не в PDF, пропущен")
			warnings = append(warnings, fmt.Sprintf("файл %s пропущен: допускается только PDF", ref.Filename))
			continue
		}

		doc := models.UploadedDocument{
			Filename:    ref.Filename,
			ContentType: ref.ContentType,
			SizeBytes:   ref.SizeBytes,
		}
		if err := s.encodeUpload(ref, &doc); err != nil {
			log.WithError(err).WithField("filename", ref.Filename).Warn("дополнительный файл не закодировался, пропущен")
			warnings = append(warnings, fmt.Sprintf("файл %s пропущен: не удалось прочитать", ref.Filename))
			continue
		}
		sub.References = append(sub.References, doc)
	}

	payload := BuildPayload(sub)

	// Запись о намерении обработать заявку. Неудача не останавливает конвейер.
	record := &models.ProposalRecord{
		SubmissionID:    sub.ID,
		ClientName:      sub.ClientName,
		ServiceTypes:    sub.Services,
		Status:          models.StatusProcessing,
		RFPFilename:     sub.RFP.Filename,
		Tone:            sub.Tone,
		IncludePricing:  sub.IncludePricing,
		IncludeTimeline: sub.IncludeTimeline,
		AdditionalNotes: sub.AdditionalNotes,
	}

	recorded := false
	if err := s.store.Create(ctx, record); err != nil {
		log.WithError(err).Warn("не удалось записать заявку в базу")
		warnings = append(warnings, "заявка не записана в базу, отправка продолжается")
	} else {
		recorded = true
	}

	// Метаданные дополнительных файлов никогда не блокируют отправку:
	// любая ошибка проглатывается с предупреждением.
	if recorded && len(sub.References) > 0 {
		refDocs := make([]models.ReferenceDoc, 0, len(sub.References))
		for _, ref := range sub.References {
			refDocs = append(refDocs, models.ReferenceDoc{
				Filename: ref.Filename,
				FileSize: ref.SizeBytes,
			})
		}
		if err := s.store.CreateReferenceDocs(ctx, record.ID, refDocs); err != nil {
			log.WithError(err).Warn("метаданные дополнительных файлов не записались")
			warnings = append(warnings, "метаданные дополнительных файлов не записались")
		}
	}

	result := s.dispatcher.Dispatch(ctx, payload)
	log.WithField("outcome", string(result.Outcome)).Info("отправка вебхука завершена")

	status := finalStatus(result)
	if err := s.store.UpdateStatus(ctx, sub.ID, status); err != nil {
		// Итог уже определён отправкой, неудача обновления — только предупреждение.
		log.WithError(err).Warn("не удалось обновить статус заявки")
		warnings = append(warnings, "статус заявки в базе не обновился")
	}

	s.mu.Lock()
	s.submissionCount++
	s.lastSubmissionID = sub.ID
	s.mu.Unlock()

	return &SubmissionResult{
		SubmissionID:   sub.ID,
		ClientName:     sub.ClientName,
		Services:       sub.Services,
		Tone:           sub.Tone,
		RFPFilename:    sub.RFP.Filename,
		ReferenceCount: len(sub.References),
		Status:         status,
		Dispatch:       result,
		Warnings:       warnings,
	}, nil
}

// Stats возвращает счётчики сессии: количество отправок и последний идентификатор.
func (s *SubmissionService) Stats() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submissionCount, s.lastSubmissionID
}

// encodeUpload читает файл и заполняет base64 представление документа.
func (s *SubmissionService) encodeUpload(upload *FileUpload, doc *models.UploadedDocument) error {
	src, err := upload.Open()
	if err != nil {
		return fmt.Errorf("submission: не удалось открыть файл %s: %w", upload.Filename, err)
	}
	defer src.Close()

	encoded, size, err := EncodeDocument(src, s.maxUploadMB*1024*1024)
	if err != nil {
		return err
	}

	doc.ContentBase64 = encoded
	doc.SizeBytes = size
	return nil
}

// finalStatus отображает исход отправки в статус записи:
// доставлено с непустым телом — draft_ready, с пустым — processing, иначе — failed.
func finalStatus(result *webhook.Result) models.ProposalStatus {
	if !result.Delivered() {
		return models.StatusFailed
	}
	if result.HasBody() {
		return models.StatusDraftReady
	}
	return models.StatusProcessing
}
