package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intervu-ai/backend/config"
)

func TestCleanJSONResponse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced object", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence without language", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose around object", `Here is the JSON you asked for: {"a": 1} hope that helps`, `{"a": 1}`},
		{"array payload", "```json\n[{\"id\": 1}]\n```", `[{"id": 1}]`},
		{"prose around array", `Sure! [{"id": 1}, {"id": 2}] as requested.`, `[{"id": 1}, {"id": 2}]`},
		{"no json at all", "I cannot answer that.", "{}"},
		{"unbalanced", "{ this never closes", "{}"},
		{"empty", "", "{}"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cleanJSONResponse(tc.in))
		})
	}
}

func TestNewGeminiGateway_MissingKeyDegrades(t *testing.T) {
	gw, err := NewGeminiGateway(&config.Config{})
	require.NoError(t, err)

	_, err = gw.Complete(context.Background(), "prompt", "", 100, 0.5)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)

	_, err = gw.CompleteWithFile(context.Background(), "prompt", "application/pdf", []byte("%PDF-1.4"), 100)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}
