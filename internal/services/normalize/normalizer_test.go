package normalize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/francids/escruta/internal/common"
	"github.com/francids/escruta/internal/interfaces"
)

// fakeLLM returns a canned chat response or error.
type fakeLLM struct {
	response string
	err      error
	lastMsgs []interfaces.Message
}

func (f *fakeLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	f.lastMsgs = messages
	return f.response, f.err
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }

func (f *fakeLLM) GetMode() interfaces.LLMMode { return interfaces.LLMModeCloud }

func (f *fakeLLM) Close() error { return nil }

func TestNormalize_UsesEngineOutput(t *testing.T) {
	llm := &fakeLLM{response: "# Clean Title\n\nClean body."}
	normalizer := NewNormalizer(llm, common.GetLogger())

	result, converted := normalizer.Normalize(context.Background(), "raw   messy\n\n\n\ntext", true)
	assert.Equal(t, "# Clean Title\n\nClean body.", result)
	assert.True(t, converted)

	// The system prompt rides along with the raw text.
	assert.Len(t, llm.lastMsgs, 2)
	assert.Equal(t, "system", llm.lastMsgs[0].Role)
	assert.Equal(t, "user", llm.lastMsgs[1].Role)
}

func TestNormalize_FallbackOnError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("quota exceeded")}
	normalizer := NewNormalizer(llm, common.GetLogger())

	result, converted := normalizer.Normalize(context.Background(), "  first line  \n\n\n\n  second line  ", true)
	assert.Equal(t, "first line\n\nsecond line", result)
	assert.False(t, converted)
}

func TestNormalize_FallbackOnBlankOutput(t *testing.T) {
	llm := &fakeLLM{response: "   \n  "}
	normalizer := NewNormalizer(llm, common.GetLogger())

	result, converted := normalizer.Normalize(context.Background(), "keep this text", true)
	assert.Equal(t, "keep this text", result)
	assert.False(t, converted)
}

func TestNormalize_OptOutSkipsEngine(t *testing.T) {
	llm := &fakeLLM{response: "should not be called"}
	normalizer := NewNormalizer(llm, common.GetLogger())

	result, converted := normalizer.Normalize(context.Background(), "  first line  \n\n\n\n  second line  ", false)
	assert.Equal(t, "first line\n\nsecond line", result)
	assert.False(t, converted)
	assert.Nil(t, llm.lastMsgs, "engine must not be called without opt-in")
}

func TestNormalize_EmptyInput(t *testing.T) {
	llm := &fakeLLM{response: "should not be called"}
	normalizer := NewNormalizer(llm, common.GetLogger())

	result, converted := normalizer.Normalize(context.Background(), "   ", true)
	assert.Equal(t, "", result)
	assert.False(t, converted)
	assert.Nil(t, llm.lastMsgs)
}
