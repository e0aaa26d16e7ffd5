package validator

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Age   int    `validate:"gte=0,lte=150"`
}

func TestValidate_Success(t *testing.T) {
	s := testStruct{Name: "Alice", Email: "alice@example.com", Age: 30}
	assert.NoError(t, Validate(s))
}

func TestValidate_MissingRequired(t *testing.T) {
	s := testStruct{Email: "alice@example.com", Age: 30}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Name")
	assert.Equal(t, "is required", fields["Name"])
}

func TestValidate_InvalidEmail(t *testing.T) {
	s := testStruct{Name: "Alice", Email: "not-an-email", Age: 30}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["Email"])
}

func TestValidationError_First_FollowsDeclarationOrder(t *testing.T) {
	// Both Name and Email are missing; the first declared field wins.
	err := Validate(testStruct{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "Name is required", valErr.First())
}

func TestValidationError_First_RangeTag(t *testing.T) {
	type ratingStruct struct {
		Rating int `validate:"required,gte=1,lte=5"`
	}

	err := Validate(ratingStruct{Rating: 6})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "Rating must be less than or equal to 5", valErr.First())
}

func TestValidate_UUID(t *testing.T) {
	type uuidStruct struct {
		ID string `validate:"uuid"`
	}

	err := Validate(uuidStruct{ID: "not-a-uuid"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid UUID", valErr.Fields()["ID"])

	assert.NoError(t, Validate(uuidStruct{ID: "550e8400-e29b-41d4-a716-446655440000"}))
}

func TestValidate_OmitemptySkipsNilPointers(t *testing.T) {
	type sparseStruct struct {
		Name  *string  `validate:"omitempty,min=1"`
		Price *float64 `validate:"omitempty,gt=0"`
	}

	assert.NoError(t, Validate(sparseStruct{}))

	bad := 0.0
	err := Validate(sparseStruct{Price: &bad})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "Price must be greater than 0", valErr.First())
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := bytes.NewReader([]byte(`{"Name":"Alice","Email":"alice@example.com","Age":30}`))
	req := httptest.NewRequest("POST", "/", body)

	var dst testStruct
	require.NoError(t, DecodeAndValidate(req, &dst))
	assert.Equal(t, "Alice", dst.Name)
}

func TestDecodeAndValidate_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(`{invalid`)))

	var dst testStruct
	err := DecodeAndValidate(req, &dst)
	require.Error(t, err)

	var valErr *ValidationError
	assert.NotErrorAs(t, err, &valErr)
}

func TestDecodeAndValidate_ValidationFailure(t *testing.T) {
	req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(`{"Email":"alice@example.com"}`)))

	var dst testStruct
	err := DecodeAndValidate(req, &dst)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "Name is required", valErr.First())
}
