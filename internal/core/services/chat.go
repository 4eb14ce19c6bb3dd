package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/ports/driven"
	"github.com/custodia-labs/aptview/internal/core/ports/driving"
	"github.com/custodia-labs/aptview/internal/logger"
)

// Ensure ChatOrchestrator implements the interface.
var _ driving.ChatService = (*ChatOrchestrator)(nil)

// ChatOrchestrator sends questions about the loaded rows to the backend.
type ChatOrchestrator struct {
	backend driven.Backend

	mu     sync.Mutex
	busy   bool
	answer string
}

// NewChatOrchestrator creates a chat orchestrator.
func NewChatOrchestrator(backend driven.Backend) *ChatOrchestrator {
	return &ChatOrchestrator{backend: backend}
}

// Ask posts the rows and question. No call is made without rows or with a
// blank question.
func (c *ChatOrchestrator) Ask(ctx context.Context, rows []domain.TransactionRecord, question string) (string, error) {
	if len(rows) == 0 {
		return "", domain.ErrNoData
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", &domain.ValidationError{Fields: []string{domain.FieldQuestion}, Reason: "질문을 입력해 주세요"}
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return "", domain.ErrChatInProgress
	}
	c.busy = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	logger.Debug("chat: %d rows, question %q", len(rows), question)
	answer, err := c.backend.Chat(ctx, rows, question)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}

	c.mu.Lock()
	c.answer = answer
	c.mu.Unlock()
	return answer, nil
}

// Answer returns the last successful answer.
func (c *ChatOrchestrator) Answer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answer
}

// Busy reports whether a question is being answered.
func (c *ChatOrchestrator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Clear drops the stored answer.
func (c *ChatOrchestrator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answer = ""
}
