package validate

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxFileSize — потолок размера загружаемого файла (10 MiB).
const MaxFileSize = 10 * 1024 * 1024

var (
	emailRegex         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneCleanRegex    = regexp.MustCompile(`[^\d+]`)
	phoneIntlRegex     = regexp.MustCompile(`^\+\d{1,3}\d{10,}$`)
	phoneNationalRegex = regexp.MustCompile(`^\d{10,}$`)
)

// allowedFileTypes сопоставляет MIME тип с допустимыми расширениями.
var allowedFileTypes = map[string][]string{
	"application/pdf":    {"pdf"},
	"application/msword": {"doc"},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {"docx"},
	"text/plain": {"txt"},
}

type FileError struct {
	Reason       string
	ReceivedType string
	ReceivedSize int64
}

func (e *FileError) Error() string {
	return e.Reason
}

func Email(email string) bool {
	return emailRegex.MatchString(email)
}

// Phone принимает номера с необязательным кодом страны: после удаления
// пунктуации требуется минимум 10 цифр, а при ведущем "+" — код страны
// из 1-3 цифр и не менее 10 цифр номера.
func Phone(phone string) bool {
	cleaned := phoneCleanRegex.ReplaceAllString(phone, "")

	digits := strings.TrimPrefix(cleaned, "+")
	if len(digits) < 10 {
		return false
	}

	if strings.HasPrefix(cleaned, "+") {
		return phoneIntlRegex.MatchString(cleaned)
	}
	return phoneNationalRegex.MatchString(cleaned)
}

func Name(name string) bool {
	return len(strings.TrimSpace(name)) >= 2
}

// File проверяет пару MIME тип / расширение и размер файла. Расширение
// обязано соответствовать заявленному MIME типу — защита от подмены
// Content-Type.
func File(filename, mimeType string, size int64) error {
	extensions, ok := allowedFileTypes[mimeType]
	if !ok {
		return &FileError{
			Reason:       fmt.Sprintf("file type not allowed: %s", AllowedTypesHint()),
			ReceivedType: mimeType,
			ReceivedSize: size,
		}
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	matched := false
	for _, allowed := range extensions {
		if ext == allowed {
			matched = true
			break
		}
	}
	if !matched {
		return &FileError{
			Reason:       fmt.Sprintf("file extension %q does not match declared type %s", ext, mimeType),
			ReceivedType: mimeType,
			ReceivedSize: size,
		}
	}

	if size > MaxFileSize {
		return &FileError{
			Reason:       fmt.Sprintf("file too large: maximum size is %dMB", MaxFileSize/(1024*1024)),
			ReceivedType: mimeType,
			ReceivedSize: size,
		}
	}

	return nil
}

// AllowedTypesHint возвращает список форматов для сообщений об ошибках.
func AllowedTypesHint() string {
	return "pdf, doc, docx, txt"
}
