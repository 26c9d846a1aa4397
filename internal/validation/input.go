package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

// Константы валидации
const (
	MaxJobTitleLength       = 200
	MaxJobDescriptionLength = 5000
	MaxCategoryLength       = 100
	MaxShortTextLength      = 100
	MaxCoverLetterLength    = 2000
	MaxCompletionNoteLength = 2000
)

// Required проверяет, что поле не пустое после обрезки пробелов.
func Required(message, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.New(apperror.ErrCodeInvalidArgument, message)
	}
	return nil
}

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(strings.TrimSpace(value))
	if min > 0 && length < min {
		return apperror.New(apperror.ErrCodeInvalidArgument, fmt.Sprintf("%s должно быть не менее %d символов", fieldName, min))
	}
	if max > 0 && length > max {
		return apperror.New(apperror.ErrCodeInvalidArgument, fmt.Sprintf("%s должно быть не более %d символов", fieldName, max))
	}
	return nil
}

// First возвращает первую ошибку из списка проверок.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
