package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Email string `json:"email" validate:"required,email"`
	Score int    `json:"score" validate:"gte=0,lte=100"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(&samplePayload{Email: "builder@example.com", Score: 80}))
}

func TestValidateStructFailuresUseJSONNames(t *testing.T) {
	err := ValidateStruct(&samplePayload{Email: "not-an-email", Score: 150})
	require.Error(t, err)

	failures, ok := err.(ValidationErrors)
	require.True(t, ok)
	require.Len(t, failures, 2)
	require.Equal(t, "email", failures[0].Field)
	require.Equal(t, "score", failures[1].Field)
	require.Contains(t, err.Error(), "lte=100")
}
