// Package validator проверяет данные формы проходной: номер машины, документ водителя и имя.
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"truck-route-system/internal/models"
)

var (
	// ErrEmptyPlate номер машины не указан
	ErrEmptyPlate = errors.New("truck plate is required")

	// ErrInvalidPlate номер не соответствует ни старому формату, ни формату Mercosul
	ErrInvalidPlate = errors.New("invalid plate format, use ABC1234 or ABC1D23")

	// ErrCPFLength CPF должен содержать 11 цифр
	ErrCPFLength = errors.New("CPF must have 11 digits")

	// ErrInvalidCPF контрольные цифры CPF не сходятся
	ErrInvalidCPF = errors.New("invalid CPF")

	// ErrCNPJLength CNPJ должен содержать 14 цифр
	ErrCNPJLength = errors.New("CNPJ must have 14 digits")

	// ErrInvalidCNPJ контрольные цифры CNPJ не сходятся
	ErrInvalidCNPJ = errors.New("invalid CNPJ")

	// ErrInvalidDocument документ не похож ни на CPF, ни на CNPJ
	ErrInvalidDocument = errors.New("document must be a CPF (11 digits) or CNPJ (14 digits)")

	// ErrEmptyDriverName имя водителя не указано
	ErrEmptyDriverName = errors.New("driver name is required")

	// ErrDriverNameTooShort имя короче трех символов
	ErrDriverNameTooShort = errors.New("driver name must have at least 3 characters")

	// ErrDriverNameFormat имя содержит что-то кроме букв и пробелов
	ErrDriverNameFormat = errors.New("driver name must contain only letters")

	// ErrMissingLocation проходная или дока не выбрана
	ErrMissingLocation = errors.New("location is required")
)

var (
	oldPlateRegex      = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)
	mercosulPlateRegex = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)
	driverNameRegex    = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s]+$`)
	whitespaceRegex    = regexp.MustCompile(`\s`)
	nonDigitRegex      = regexp.MustCompile(`\D`)
)

// FieldError ошибка проверки конкретного поля формы
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidatePlate проверяет номер машины и возвращает его без пробелов в верхнем регистре
func ValidatePlate(plate string) (string, error) {
	clean := strings.ToUpper(whitespaceRegex.ReplaceAllString(plate, ""))
	if clean == "" {
		return "", ErrEmptyPlate
	}

	if oldPlateRegex.MatchString(clean) || mercosulPlateRegex.MatchString(clean) {
		return clean, nil
	}

	return "", ErrInvalidPlate
}

// ValidateCPF проверяет CPF и возвращает его в формате 000.000.000-00.
// Пустое значение допустимо: поле необязательное.
func ValidateCPF(cpf string) (string, error) {
	if cpf == "" {
		return "", nil
	}

	digits := onlyDigits(cpf)
	if len(digits) != 11 {
		return "", ErrCPFLength
	}

	if allSame(digits) {
		return "", ErrInvalidCPF
	}

	if cpfCheckDigit(digits, 9) != digits[9] || cpfCheckDigit(digits, 10) != digits[10] {
		return "", ErrInvalidCPF
	}

	return fmt.Sprintf("%s.%s.%s-%s", digits[0:3], digits[3:6], digits[6:9], digits[9:11]), nil
}

// ValidateCNPJ проверяет CNPJ и возвращает его в формате 00.000.000/0000-00.
// Пустое значение допустимо.
func ValidateCNPJ(cnpj string) (string, error) {
	if cnpj == "" {
		return "", nil
	}

	digits := onlyDigits(cnpj)
	if len(digits) != 14 {
		return "", ErrCNPJLength
	}

	if allSame(digits) {
		return "", ErrInvalidCNPJ
	}

	if cnpjCheckDigit(digits, 12) != digits[12] || cnpjCheckDigit(digits, 13) != digits[13] {
		return "", ErrInvalidCNPJ
	}

	return fmt.Sprintf("%s.%s.%s/%s-%s", digits[0:2], digits[2:5], digits[5:8], digits[8:12], digits[12:14]), nil
}

// ValidateDocument определяет вид документа по количеству цифр и проверяет его
func ValidateDocument(document string) (string, error) {
	if document == "" {
		return "", nil
	}

	switch len(onlyDigits(document)) {
	case 11:
		return ValidateCPF(document)
	case 14:
		return ValidateCNPJ(document)
	default:
		return "", ErrInvalidDocument
	}
}

// ValidateDriverName проверяет имя водителя и возвращает его без крайних пробелов
func ValidateDriverName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return "", ErrEmptyDriverName
	case utf8.RuneCountInString(trimmed) < 3:
		return "", ErrDriverNameTooShort
	case !driverNameRegex.MatchString(trimmed):
		return "", ErrDriverNameFormat
	}
	return trimmed, nil
}

// ValidateForm проверяет форму проходной и возвращает нормализованную копию.
// Срок действия и существование точек проверяет сборщик маршрута.
func ValidateForm(form models.RouteForm) (models.RouteForm, error) {
	plate, err := ValidatePlate(form.TruckPlate)
	if err != nil {
		return form, &FieldError{Field: "truckPlate", Err: err}
	}

	name, err := ValidateDriverName(form.DriverName)
	if err != nil {
		return form, &FieldError{Field: "driverName", Err: err}
	}

	document, err := ValidateDocument(strings.TrimSpace(form.DriverDocument))
	if err != nil {
		return form, &FieldError{Field: "driverDocument", Err: err}
	}

	if form.EntryGateID == 0 {
		return form, &FieldError{Field: "entryGateId", Err: ErrMissingLocation}
	}
	if form.DestinationDockID == 0 {
		return form, &FieldError{Field: "destinationDockId", Err: ErrMissingLocation}
	}

	normalized := form
	normalized.TruckPlate = plate
	normalized.DriverName = name
	normalized.DriverDocument = document
	normalized.TruckModel = strings.TrimSpace(form.TruckModel)
	normalized.CompanyName = strings.TrimSpace(form.CompanyName)
	return normalized, nil
}

func onlyDigits(s string) string {
	return nonDigitRegex.ReplaceAllString(s, "")
}

func allSame(digits string) bool {
	return strings.Count(digits, digits[:1]) == len(digits)
}

// cpfCheckDigit считает контрольную цифру по первым n цифрам
func cpfCheckDigit(digits string, n int) byte {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (n + 1 - i)
	}
	remainder := (sum * 10) % 11
	if remainder == 10 {
		remainder = 0
	}
	return byte('0' + remainder)
}

// cnpjCheckDigit считает контрольную цифру по первым n цифрам, веса 2..9 справа налево
func cnpjCheckDigit(digits string, n int) byte {
	sum := 0
	weight := 2
	for i := n - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		if weight == 9 {
			weight = 2
		} else {
			weight++
		}
	}
	remainder := sum % 11
	if remainder < 2 {
		return '0'
	}
	return byte('0' + 11 - remainder)
}
