package generation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageforge/gateway/internal/gateway/backends"
	"github.com/pageforge/gateway/internal/shared/models"
)

// scriptedInvoker replays a fixed response or error and records calls.
type scriptedInvoker struct {
	output string
	err    error
	calls  int
}

func (s *scriptedInvoker) Invoke(ctx context.Context, prompt, model string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.output, nil
}

// fakeSource is an in-test BackendSource over a fixed backend order.
type fakeSource struct {
	order    []models.Backend
	invokers map[string]backends.Invoker
}

func (f *fakeSource) List() []models.Backend {
	out := make([]models.Backend, len(f.order))
	copy(out, f.order)
	return out
}

func (f *fakeSource) Invoker(id string) (backends.Invoker, bool) {
	inv, ok := f.invokers[id]
	return inv, ok
}

func newFakeSource(invokers map[string]backends.Invoker, ids ...string) *fakeSource {
	f := &fakeSource{invokers: invokers}
	for i, id := range ids {
		f.order = append(f.order, models.Backend{
			ID:       id,
			Priority: i + 1,
			Models:   []string{id + "-model"},
		})
	}
	return f
}

func goodOutput() string {
	return "```html\n" + GenerateTemplate("a calculator", "test-dep") + "\n```"
}

func TestResolveFirstSuccessWins(t *testing.T) {
	a := &scriptedInvoker{output: goodOutput()}
	b := &scriptedInvoker{output: goodOutput()}
	src := newFakeSource(map[string]backends.Invoker{"a": a, "b": b}, "a", "b")

	result := NewOrchestrator(src, 0).Resolve(context.Background(), models.GenerationRequest{Prompt: "a calculator"})

	assert.Equal(t, "a", result.Method)
	assert.Equal(t, "a", result.BackendID)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 0, b.calls, "later backends must not be invoked after a success")
	assert.True(t, IsValid(result.Code))
}

func TestResolveFallsThroughInPriorityOrder(t *testing.T) {
	a := &scriptedInvoker{err: backends.ErrUnavailable}
	b := &scriptedInvoker{err: backends.ErrRequestFailed}
	c := &scriptedInvoker{output: goodOutput()}
	src := newFakeSource(map[string]backends.Invoker{"a": a, "b": b, "c": c}, "a", "b", "c")

	result := NewOrchestrator(src, 0).Resolve(context.Background(), models.GenerationRequest{Prompt: "p"})

	assert.Equal(t, "c", result.Method)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 1, c.calls)
}

func TestResolvePreferredBackendGoesFirst(t *testing.T) {
	t.Run("preferred succeeds", func(t *testing.T) {
		a := &scriptedInvoker{output: goodOutput()}
		c := &scriptedInvoker{output: goodOutput()}
		src := newFakeSource(map[string]backends.Invoker{
			"a": a, "b": &scriptedInvoker{output: goodOutput()}, "c": c,
		}, "a", "b", "c")

		result := NewOrchestrator(src, 0).Resolve(context.Background(), models.GenerationRequest{
			Prompt:             "p",
			PreferredBackendID: "c",
		})

		assert.Equal(t, "c", result.Method)
		assert.Equal(t, 0, a.calls)
	})

	t.Run("preferred fails then normal order resumes", func(t *testing.T) {
		// Order becomes [c, a, b]; c fails, a fails, b succeeds.
		a := &scriptedInvoker{err: backends.ErrRequestFailed}
		b := &scriptedInvoker{output: goodOutput()}
		c := &scriptedInvoker{err: backends.ErrUnavailable}
		src := newFakeSource(map[string]backends.Invoker{"a": a, "b": b, "c": c}, "a", "b", "c")

		result := NewOrchestrator(src, 0).Resolve(context.Background(), models.GenerationRequest{
			Prompt:             "p",
			PreferredBackendID: "c",
		})

		assert.Equal(t, "b", result.Method)
		assert.Equal(t, 1, c.calls)
		assert.Equal(t, 1, a.calls)
	})

	t.Run("unknown preferred id is ignored", func(t *testing.T) {
		a := &scriptedInvoker{output: goodOutput()}
		src := newFakeSource(map[string]backends.Invoker{"a": a}, "a")

		result := NewOrchestrator(src, 0).Resolve(context.Background(), models.GenerationRequest{
			Prompt:             "p",
			PreferredBackendID: "nope",
		})

		assert.Equal(t, "a", result.Method)
	})
}

func TestResolveTotalWhenEverythingFails(t *testing.T) {
	src := newFakeSource(map[string]backends.Invoker{
		"a": &scriptedInvoker{err: backends.ErrUnavailable},
		"b": &scriptedInvoker{err: backends.ErrRequestFailed},
	}, "a", "b")

	result := NewOrchestrator(src, 0).Resolve(context.Background(), models.GenerationRequest{Prompt: "a todo list"})

	assert.Equal(t, models.MethodTemplate, result.Method)
	assert.Empty(t, result.BackendID)
	assert.True(t, IsValid(result.Code))
	assert.Contains(t, result.Code, "<title>Todo List</title>")
}

func TestResolveTotalWithNoBackends(t *testing.T) {
	src := newFakeSource(map[string]backends.Invoker{})

	result := NewOrchestrator(src, 0).Resolve(context.Background(), models.GenerationRequest{Prompt: "p"})

	assert.Equal(t, models.MethodTemplate, result.Method)
	assert.True(t, IsValid(result.Code))
}

func TestResolveSkipsInvalidOutput(t *testing.T) {
	a := &scriptedInvoker{output: "Sorry, I cannot produce a page for that."}
	b := &scriptedInvoker{output: goodOutput()}
	src := newFakeSource(map[string]backends.Invoker{"a": a, "b": b}, "a", "b")

	result := NewOrchestrator(src, 0).Resolve(context.Background(), models.GenerationRequest{Prompt: "p"})

	assert.Equal(t, "b", result.Method)
	assert.Equal(t, 1, a.calls)
}

func TestResolveNormalizesBeforeValidating(t *testing.T) {
	doc := GenerateTemplate("a timer", "test-dep")
	a := &scriptedInvoker{output: "Here you go:\n```html\n" + doc + "\n```\nHope that helps!"}
	src := newFakeSource(map[string]backends.Invoker{"a": a}, "a")

	result := NewOrchestrator(src, 0).Resolve(context.Background(), models.GenerationRequest{Prompt: "a timer"})

	require.Equal(t, "a", result.Method)
	assert.True(t, strings.HasPrefix(result.Code, "<!DOCTYPE html>"))
	assert.True(t, strings.HasSuffix(result.Code, "</html>"))
}

func TestResolveTreatsMissingInvokerAsUnavailable(t *testing.T) {
	b := &scriptedInvoker{output: goodOutput()}
	src := newFakeSource(map[string]backends.Invoker{"b": b}, "a", "b")

	result := NewOrchestrator(src, 0).Resolve(context.Background(), models.GenerationRequest{Prompt: "p"})

	assert.Equal(t, "b", result.Method)
}
