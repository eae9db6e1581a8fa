package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dactasg/proposal-architect/internal/dto"
	"github.com/dactasg/proposal-architect/internal/pkg/apperror"
	"github.com/dactasg/proposal-architect/internal/service"
)

// SubmissionHandler принимает отправку формы и прогоняет её через конвейер.
type SubmissionHandler struct {
	submissions *service.SubmissionService
}

// NewSubmissionHandler создаёт новый хэндлер.
func NewSubmissionHandler(submissions *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// Submit обрабатывает POST /api/submissions (multipart/form-data).
func (h *SubmissionHandler) Submit(c *gin.Context) {
	input := service.SubmissionInput{
		ClientName:      c.PostForm("client_name"),
		Services:        c.PostFormArray("services"),
		Tone:            c.PostForm("tone"),
		IncludePricing:  c.PostForm("include_pricing") == "true",
		IncludeTimeline: c.PostForm("include_timeline") == "true",
		AdditionalNotes: c.PostForm("additional_notes"),
	}

	if rfpHeader, err := c.FormFile("rfp"); err == nil {
		upload, err := fileUpload(rfpHeader)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "не удалось прочитать файл RFP"})
			return
		}
		input.RFP = upload
	}

	if form, err := c.MultipartForm(); err == nil {
		for _, refHeader := range form.File["references"] {
			upload, err := fileUpload(refHeader)
			if err != nil {
				// Дополнительные файлы некритичны, нечитаемый пропускаем.
				continue
			}
			input.References = append(input.References, *upload)
		}
	}

	result, err := h.submissions.Process(c.Request.Context(), input)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.HTTPStatus, dto.ErrorResponse{Error: appErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "внутренняя ошибка сервера"})
		return
	}

	if !result.Dispatch.Delivered() {
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error:           result.Dispatch.Message,
			Troubleshooting: troubleshooting(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.SubmissionResponse{
		SubmissionID:   result.SubmissionID,
		ClientName:     result.ClientName,
		Services:       result.Services,
		Tone:           result.Tone,
		RFPFilename:    result.RFPFilename,
		ReferenceCount: result.ReferenceCount,
		Status:         string(result.Status),
		Message:        result.Dispatch.Message,
		Warnings:       result.Warnings,
	})
}

// Stats обрабатывает GET /api/stats.
func (h *SubmissionHandler) Stats(c *gin.Context) {
	count, lastID := h.submissions.Stats()
	c.JSON(http.StatusOK, dto.StatsResponse{
		SubmissionCount:  count,
		LastSubmissionID: lastID,
	})
}

// fileUpload превращает multipart заголовок в FileUpload с прочитанными
// магическими байтами.
func fileUpload(header *multipart.FileHeader) (*service.FileUpload, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return nil, err
	}

	return &service.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   header.Size,
		Head:        head[:n],
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}, nil
}

// troubleshooting — чек-лист для баннера ошибки.
func troubleshooting() []string {
	return []string{
		"проверьте URL вебхука в настройках окружения",
		"убедитесь, что сценарий в Make.com включён",
		"проверьте доступ в интернет с сервера",
		"повторите отправку через пару минут",
	}
}
