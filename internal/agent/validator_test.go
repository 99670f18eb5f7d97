package agent

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator records prompts and answers with a fixed response.
type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	answer  string
	err     error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

func TestRenderPrompt_EmbedsRulesAndDocument(t *testing.T) {
	prompt, err := RenderPrompt("5.1 Wet zones must not be placed above living rooms.", "Move the bathroom over the bedroom below.")
	require.NoError(t, err)

	assert.Contains(t, prompt, "--- RULES ---\n5.1 Wet zones must not be placed above living rooms.\n--- END OF RULES ---")
	assert.Contains(t, prompt, "--- WORK PLAN ---\nMove the bathroom over the bedroom below.\n--- END OF WORK PLAN ---")
	assert.Contains(t, prompt, `"`+NoViolations+`"`)
}

func TestRenderPrompt_DoesNotInterpretInput(t *testing.T) {
	prompt, err := RenderPrompt("{{.Document}}", "{{ panic }}")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Document}}")
	assert.Contains(t, prompt, "{{ panic }}")
}

func TestValidator_Analyze(t *testing.T) {
	gen := &fakeGenerator{answer: "1. Plan item 2 removes a load-bearing wall (rule 3.4)."}
	v := NewValidator(gen)

	report, err := v.Analyze(context.Background(), "rules text", "plan text")
	require.NoError(t, err)
	assert.Equal(t, gen.answer, report)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "rules text")
	assert.Contains(t, gen.prompts[0], "plan text")
}

func TestValidator_GeneratorErrorIsWrapped(t *testing.T) {
	cause := errors.New("connection refused")
	v := NewValidator(&fakeGenerator{err: cause})

	_, err := v.Analyze(context.Background(), "r", "d")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "validator: connection refused", err.Error())
}

func TestValidator_EmptyReport(t *testing.T) {
	v := NewValidator(&fakeGenerator{answer: "  \n"})

	_, err := v.Analyze(context.Background(), "r", "d")
	assert.ErrorIs(t, err, ErrEmptyReport)
}

func TestValidator_ConcurrentUse(t *testing.T) {
	gen := &fakeGenerator{answer: NoViolations}
	v := NewValidator(gen)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := v.Analyze(context.Background(), "r", "d")
			assert.NoError(t, err)
			assert.Equal(t, NoViolations, report)
		}()
	}
	wg.Wait()
	assert.Len(t, gen.prompts, 10)
}
