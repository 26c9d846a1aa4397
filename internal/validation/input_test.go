package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

func TestValidateLength_CountsRunes(t *testing.T) {
	assert.NoError(t, ValidateLength("поле", strings.Repeat("я", 10), 0, 10))

	err := ValidateLength("поле", strings.Repeat("я", 11), 0, 10)
	assert.True(t, apperror.IsInvalidArgument(err))

	err = ValidateLength("поле", "  аб  ", 3, 0)
	assert.True(t, apperror.IsInvalidArgument(err))
}

func TestFirstAndRequired(t *testing.T) {
	assert.NoError(t, First(nil, Required("обязательно", "x")))

	err := First(nil, Required("название обязательно", "   "), Required("другое", ""))
	assert.EqualError(t, err, "INVALID_ARGUMENT: название обязательно")
}
