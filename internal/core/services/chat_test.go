package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/aptview/internal/core/domain"
)

func TestChatOrchestrator_Guards(t *testing.T) {
	rows := []domain.TransactionRecord{trade("2024", "1", "100")}
	tests := []struct {
		name     string
		rows     []domain.TransactionRecord
		question string
		target   error
	}{
		{"no rows", nil, "평균 가격은?", domain.ErrNoData},
		{"blank question", rows, "   ", domain.ErrValidation},
		{"empty question", rows, "", domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{}
			c := NewChatOrchestrator(backend)

			_, err := c.Ask(context.Background(), tt.rows, tt.question)
			assert.True(t, errors.Is(err, tt.target))
			assert.Empty(t, backend.calls)
		})
	}
}

func TestChatOrchestrator_Ask(t *testing.T) {
	rows := []domain.TransactionRecord{trade("2024", "1", "100")}
	var gotQuestion string
	backend := &mockBackend{
		ChatFunc: func(_ context.Context, _ []domain.TransactionRecord, q string) (string, error) {
			gotQuestion = q
			return "답변: " + q, nil
		},
	}
	c := NewChatOrchestrator(backend)

	answer, err := c.Ask(context.Background(), rows, "  가장 비싼 거래는?  ")
	require.NoError(t, err)
	assert.Equal(t, "가장 비싼 거래는?", gotQuestion)
	assert.Equal(t, "답변: 가장 비싼 거래는?", answer)
	assert.Equal(t, answer, c.Answer())

	_, err = c.Ask(context.Background(), rows, "두번째")
	require.NoError(t, err)
	assert.Equal(t, "답변: 두번째", c.Answer())
}

func TestChatOrchestrator_FailureKeepsAnswer(t *testing.T) {
	rows := []domain.TransactionRecord{trade("2024", "1", "100")}
	fail := false
	backend := &mockBackend{
		ChatFunc: func(_ context.Context, _ []domain.TransactionRecord, _ string) (string, error) {
			if fail {
				return "", &domain.NetworkError{Op: "POST /chat", StatusCode: 502, Detail: "LLM 오류"}
			}
			return "ok", nil
		},
	}
	c := NewChatOrchestrator(backend)
	_, err := c.Ask(context.Background(), rows, "q")
	require.NoError(t, err)

	fail = true
	_, err = c.Ask(context.Background(), rows, "q")
	assert.Equal(t, "LLM 오류", domain.UserMessage(err))
	assert.Equal(t, "ok", c.Answer())
	assert.False(t, c.Busy())

	c.Clear()
	assert.Empty(t, c.Answer())
}

func TestChatOrchestrator_Busy(t *testing.T) {
	rows := []domain.TransactionRecord{trade("2024", "1", "100")}
	var c *ChatOrchestrator
	var nested error
	backend := &mockBackend{
		ChatFunc: func(ctx context.Context, r []domain.TransactionRecord, q string) (string, error) {
			_, nested = c.Ask(ctx, r, q)
			return "ok", nil
		},
	}
	c = NewChatOrchestrator(backend)

	_, err := c.Ask(context.Background(), rows, "q")
	require.NoError(t, err)
	assert.True(t, errors.Is(nested, domain.ErrChatInProgress))
}
