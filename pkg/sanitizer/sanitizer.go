package sanitizer

import (
	"errors"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidPhone номер не распознан для заданного региона
var ErrInvalidPhone = errors.New("invalid phone number")

// Strategy один шаг нормализации строки
type Strategy func(string) string

// Pipeline последовательность шагов нормализации
type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var reSpaces = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return reSpaces.ReplaceAllString(s, " ")
}

// NormalizeName убирает лишние пробелы в имени
func NormalizeName(name string) string {
	return Pipeline{strings.TrimSpace, collapseSpaces}.Apply(name)
}

// NormalizeEmail приводит email к нижнему регистру без пробелов по краям
func NormalizeEmail(email string) string {
	return Pipeline{strings.TrimSpace, strings.ToLower}.Apply(email)
}

// NormalizeText обрезает пробелы; пустая строка после обрезки означает отсутствие значения
func NormalizeText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// NormalizePhone приводит номер к формату E.164, region используется для номеров без кода страны
func NormalizePhone(phone, region string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", ErrInvalidPhone
	}

	parsed, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", ErrInvalidPhone
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
