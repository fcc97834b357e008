package model

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestConsultationCode(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d")
	code := ConsultationCode(id)

	assert.Equal(t, "A1B2C3D4E5F6", code)
	assert.Len(t, code, 12)
	assert.Equal(t, strings.ToUpper(code), code)
}

func TestConsultationStatusTerminal(t *testing.T) {
	assert.False(t, ConsultationPending.Terminal())
	assert.True(t, ConsultationCanceled.Terminal())
	assert.True(t, ConsultationDone.Terminal())
}
