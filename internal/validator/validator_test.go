package validator

import (
	"errors"
	"testing"

	"truck-route-system/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePlate(t *testing.T) {
	valid := []struct {
		input    string
		expected string
		name     string
	}{
		{"ABC1234", "ABC1234", "Old format"},
		{"abc1d23", "ABC1D23", "Mercosul lower case"},
		{" ABC 1D23 ", "ABC1D23", "With spaces"},
	}

	for _, tc := range valid {
		t.Run(tc.name, func(t *testing.T) {
			plate, err := ValidatePlate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, plate)
		})
	}

	invalid := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyPlate, "Empty"},
		{"   ", ErrEmptyPlate, "Only spaces"},
		{"AB12345", ErrInvalidPlate, "Two letters"},
		{"ABC-1234", ErrInvalidPlate, "With dash"},
		{"ABC12D3", ErrInvalidPlate, "Letter in wrong place"},
	}

	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidatePlate(tc.input)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestValidateCPF(t *testing.T) {
	formatted, err := ValidateCPF("52998224725")
	require.NoError(t, err)
	assert.Equal(t, "529.982.247-25", formatted)

	formatted, err = ValidateCPF("111.444.777-35")
	require.NoError(t, err)
	assert.Equal(t, "111.444.777-35", formatted)

	formatted, err = ValidateCPF("")
	require.NoError(t, err)
	assert.Empty(t, formatted)

	_, err = ValidateCPF("529.982.247-24")
	assert.ErrorIs(t, err, ErrInvalidCPF)

	_, err = ValidateCPF("111.111.111-11")
	assert.ErrorIs(t, err, ErrInvalidCPF)

	_, err = ValidateCPF("1234")
	assert.ErrorIs(t, err, ErrCPFLength)
}

func TestValidateCNPJ(t *testing.T) {
	formatted, err := ValidateCNPJ("11222333000181")
	require.NoError(t, err)
	assert.Equal(t, "11.222.333/0001-81", formatted)

	formatted, err = ValidateCNPJ("45.723.174/0001-10")
	require.NoError(t, err)
	assert.Equal(t, "45.723.174/0001-10", formatted)

	_, err = ValidateCNPJ("11.222.333/0001-82")
	assert.ErrorIs(t, err, ErrInvalidCNPJ)

	_, err = ValidateCNPJ("00000000000000")
	assert.ErrorIs(t, err, ErrInvalidCNPJ)

	_, err = ValidateCNPJ("112223330001")
	assert.ErrorIs(t, err, ErrCNPJLength)
}

func TestValidateDocument(t *testing.T) {
	formatted, err := ValidateDocument("52998224725")
	require.NoError(t, err)
	assert.Equal(t, "529.982.247-25", formatted)

	formatted, err = ValidateDocument("11222333000181")
	require.NoError(t, err)
	assert.Equal(t, "11.222.333/0001-81", formatted)

	formatted, err = ValidateDocument("")
	require.NoError(t, err)
	assert.Empty(t, formatted)

	_, err = ValidateDocument("123456")
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestValidateDriverName(t *testing.T) {
	name, err := ValidateDriverName("  João da Silva ")
	require.NoError(t, err)
	assert.Equal(t, "João da Silva", name)

	_, err = ValidateDriverName("")
	assert.ErrorIs(t, err, ErrEmptyDriverName)

	_, err = ValidateDriverName("Jo")
	assert.ErrorIs(t, err, ErrDriverNameTooShort)

	_, err = ValidateDriverName("João 2")
	assert.ErrorIs(t, err, ErrDriverNameFormat)
}

func TestValidateFormNormalizes(t *testing.T) {
	form := models.RouteForm{
		TruckPlate:        "abc 1d23",
		TruckModel:        " Volvo FH ",
		DriverName:        " João Silva ",
		DriverDocument:    "52998224725",
		EntryGateID:       1,
		DestinationDockID: 2,
		ExpiryHours:       2,
	}

	normalized, err := ValidateForm(form)
	require.NoError(t, err)
	assert.Equal(t, "ABC1D23", normalized.TruckPlate)
	assert.Equal(t, "Volvo FH", normalized.TruckModel)
	assert.Equal(t, "João Silva", normalized.DriverName)
	assert.Equal(t, "529.982.247-25", normalized.DriverDocument)
	assert.Equal(t, 2, normalized.ExpiryHours)
}

func TestValidateFormReportsField(t *testing.T) {
	form := models.RouteForm{
		TruckPlate:  "ABC1234",
		DriverName:  "João Silva",
		EntryGateID: 1,
	}

	_, err := ValidateForm(form)
	require.Error(t, err)

	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "destinationDockId", fieldErr.Field)
	assert.ErrorIs(t, err, ErrMissingLocation)
}
