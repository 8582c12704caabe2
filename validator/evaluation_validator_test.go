package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEvaluationRequest(t *testing.T) {
	t.Run("valid without params", func(t *testing.T) {
		assert.NoError(t, ValidateEvaluationRequest(EvaluationRequest{Flag: "flag_notExist"}))
	})

	t.Run("valid with params", func(t *testing.T) {
		req := EvaluationRequest{Flag: "checkout.v2:eu", Params: map[string]string{"data": "dt_true"}}
		assert.NoError(t, ValidateEvaluationRequest(req))
	})

	t.Run("empty params map is allowed", func(t *testing.T) {
		assert.NoError(t, ValidateEvaluationRequest(EvaluationRequest{Flag: "flag2", Params: map[string]string{}}))
	})

	t.Run("missing flag name", func(t *testing.T) {
		err := ValidateEvaluationRequest(EvaluationRequest{})
		require.Error(t, err)

		var verr ValidationErrors
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Errors, 1)
		assert.Equal(t, "Flag", verr.Errors[0].Field)
		assert.Equal(t, "This field is required", verr.Errors[0].Message)
	})

	t.Run("invalid characters", func(t *testing.T) {
		err := ValidateEvaluationRequest(EvaluationRequest{Flag: "flag name"})
		assert.ErrorContains(t, err, "Flag name must contain")
	})

	t.Run("flag name too long", func(t *testing.T) {
		err := ValidateEvaluationRequest(EvaluationRequest{Flag: strings.Repeat("f", 256)})
		assert.Error(t, err)
	})

	t.Run("empty param key", func(t *testing.T) {
		err := ValidateEvaluationRequest(EvaluationRequest{Flag: "flag2", Params: map[string]string{"": "x"}})
		assert.Error(t, err)
	})
}
