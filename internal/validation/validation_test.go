package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
)

func TestValidators_ReturnValidationErrors(t *testing.T) {
	cases := map[string]error{
		"short title":         ValidateComplaintTitle("x"),
		"empty title":         ValidateComplaintTitle("   "),
		"short description":   ValidateComplaintDescription("too short"),
		"blank reason":        ValidateRejectionReason(""),
		"bad phone":           ValidatePhone("12ab"),
		"bad pincode":         ValidatePincode("12345"),
		"bad email":           ValidateEmail("not-an-email"),
		"short username":      ValidateUsername("ab"),
		"weak password":       ValidatePassword("short"),
		"lowercase password":  ValidatePassword("alllower1"),
		"digitless password":  ValidatePassword("NoDigitsHere"),
		"blank generic field": ValidateNonEmpty("name", " "),
	}

	for name, err := range cases {
		require.Error(t, err, name)
		assert.True(t, apperror.IsValidation(err), "%s: got %T", name, err)
	}
}

func TestValidators_AcceptGoodInput(t *testing.T) {
	assert.NoError(t, ValidateComplaintTitle("Broken streetlight"))
	assert.NoError(t, ValidateComplaintDescription("The streetlight at the corner has been out for a week."))
	assert.NoError(t, ValidateRejectionReason("completion photo does not match the reported site"))
	assert.NoError(t, ValidatePhone("9876543210"))
	assert.NoError(t, ValidatePincode(""))
	assert.NoError(t, ValidatePincode("560001"))
	assert.NoError(t, ValidateEmail("citizen@example.com"))
	assert.NoError(t, ValidateUsername("asha_k"))
	assert.NoError(t, ValidatePassword("Str0ngPass"))
}
