package domainerrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "licensegen/pkg/domain-errors"
)

func TestIsMatchesCode(t *testing.T) {
	err := dErrors.New(dErrors.CodeValidation, "bad height")

	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
	assert.False(t, dErrors.Is(err, dErrors.CodeInternal))
	assert.False(t, dErrors.Is(errors.New("plain"), dErrors.CodeValidation))
}

func TestIsSeesThroughWrapping(t *testing.T) {
	inner := dErrors.New(dErrors.CodeEncoding, "symbol too dense")
	outer := fmt.Errorf("generate: %w", inner)

	assert.True(t, dErrors.Is(outer, dErrors.CodeEncoding))
}

func TestFieldAttribution(t *testing.T) {
	err := dErrors.NewField("postal_code", "must be exactly 5 digits")

	assert.Equal(t, "postal_code", dErrors.FieldOf(err))
	assert.Equal(t, "must be exactly 5 digits", dErrors.MessageOf(err))
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
	assert.Contains(t, err.Error(), "postal_code")
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("png encode failed")
	err := dErrors.Wrap(cause, dErrors.CodeEncoding, "barcode rendering failed")

	assert.ErrorIs(t, err, cause)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeEncoding))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeBadRequest:     http.StatusBadRequest,
		dErrors.CodeValidation:     http.StatusBadRequest,
		dErrors.CodeNotFound:       http.StatusNotFound,
		dErrors.CodeRecordTooLarge: http.StatusUnprocessableEntity,
		dErrors.CodeEncoding:       http.StatusBadGateway,
		dErrors.CodeInternal:       http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, dErrors.ToHTTPStatus(code), "code %s", code)
	}
}
