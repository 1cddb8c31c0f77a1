package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResume_RejectsBadInput(t *testing.T) {
	svc := NewResumeService(&stubGateway{})

	_, err := svc.ParseResume(context.Background(), nil)
	assert.Error(t, err)

	oversized := make([]byte, MaxResumeSizeBytes+1)
	_, err = svc.ParseResume(context.Background(), oversized)
	assert.Error(t, err)
}

func TestParseResume_ValidatesExtraction(t *testing.T) {
	gw := &stubGateway{response: "```json\n" + `{"name": "  Priya Sharma  ", "skills": ["Go", "Postgres"], "email": 42}` + "\n```"}
	svc := NewResumeService(gw)

	parsed, err := svc.ParseResume(context.Background(), []byte("%PDF-1.4 fake"))
	require.NoError(t, err)

	assert.Equal(t, "Priya Sharma", parsed["name"])
	assert.Equal(t, []any{"Go", "Postgres"}, parsed["skills"])
	// Malformed fields fall back to zero values instead of failing the parse.
	assert.Equal(t, "", parsed["email"])
	assert.Equal(t, []any{}, parsed["experience"])
}

func TestParseResume_GatewayFailureSurfaces(t *testing.T) {
	svc := NewResumeService(&stubGateway{err: ErrGatewayUnavailable})

	_, err := svc.ParseResume(context.Background(), []byte("%PDF-1.4 fake"))
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestValidateParsedResume_NilInput(t *testing.T) {
	out := ValidateParsedResume(nil)
	assert.Equal(t, "", out["name"])
	assert.Equal(t, []any{}, out["skills"])
	assert.Equal(t, []any{}, out["projects"])
}
