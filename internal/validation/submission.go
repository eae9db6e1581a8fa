package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"github.com/dactasg/proposal-architect/internal/models"
	"github.com/dactasg/proposal-architect/internal/pkg/apperror"
)

// Разрешённые расширения для файла RFP
var allowedRFPExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
}

// Дополнительные файлы принимаем только в PDF
var allowedReferenceExtensions = map[string]bool{
	".pdf": true,
}

// ValidateSubmission проверяет поля формы по порядку, первая ошибка останавливает
// проверку. Без побочных эффектов, результат детерминирован.
func ValidateSubmission(clientName string, services []string, rfp *models.UploadedDocument, maxUploadMB int64) error {
	if strings.TrimSpace(clientName) == "" {
		return apperror.New(apperror.ErrCodeValidation, "укажите название клиента")
	}

	if len(services) == 0 {
		return apperror.New(apperror.ErrCodeValidation, "выберите хотя бы одну услугу")
	}
	for _, service := range services {
		if !models.IsKnownService(service) {
			return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("неизвестная услуга: %s", service))
		}
	}

	if rfp == nil || rfp.Filename == "" {
		return apperror.New(apperror.ErrCodeValidation, "файл RFP обязателен")
	}

	ext := strings.ToLower(filepath.Ext(rfp.Filename))
	if !allowedRFPExtensions[ext] {
		return apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("неподдерживаемый формат файла %s. Разрешены: %s", ext, strings.Join(rfpExtensions(), ", ")))
	}

	maxBytes := maxUploadMB * 1024 * 1024
	if rfp.SizeBytes > maxBytes {
		return apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("размер файла %.1f MB превышает лимит %d MB", float64(rfp.SizeBytes)/(1024*1024), maxUploadMB))
	}

	return nil
}

// ValidateRFPContent сверяет заявленное расширение с магическими байтами.
// head — первые 512 байт файла. Для .docx/.doc детектор видит zip/ole контейнер,
// поэтому жёстко проверяем только PDF.
func ValidateRFPContent(filename string, head []byte) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" {
		return nil
	}

	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return apperror.New(apperror.ErrCodeValidation, "не удалось определить тип файла RFP")
	}
	if kind.Extension != "pdf" {
		return apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("расширение файла (%s) не соответствует реальному типу (.%s)", ext, kind.Extension))
	}
	return nil
}

// IsAllowedReference сообщает, можно ли взять дополнительный файл в работу.
// Нарушение — не ошибка, файл просто пропускается с предупреждением.
func IsAllowedReference(filename string) bool {
	return allowedReferenceExtensions[strings.ToLower(filepath.Ext(filename))]
}

// rfpExtensions возвращает список разрешённых расширений в стабильном порядке.
func rfpExtensions() []string {
	return []string{".pdf", ".docx", ".doc"}
}
