package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francids/escruta/internal/common"
	"github.com/francids/escruta/internal/interfaces"
)

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
func (f *fakeLLM) GetMode() interfaces.LLMMode           { return interfaces.LLMModeCloud }
func (f *fakeLLM) Close() error                          { return nil }

func TestSummarize(t *testing.T) {
	llm := &fakeLLM{response: "A concise summary."}
	svc := NewService(llm, 3, common.GetLogger())

	summary, err := svc.Summarize(context.Background(), "long source content here")
	require.NoError(t, err)
	assert.Equal(t, "A concise summary.", summary)

	require.Len(t, llm.lastMsgs, 2)
	assert.Equal(t, "system", llm.lastMsgs[0].Role)
	assert.Contains(t, llm.lastMsgs[0].Content, "expert content summarizer")
	assert.Contains(t, llm.lastMsgs[0].Content, "3 or fewer sentences")
}

func TestSummarize_EmptyContent(t *testing.T) {
	svc := NewService(&fakeLLM{}, 3, common.GetLogger())

	_, err := svc.Summarize(context.Background(), "   ")
	assert.Error(t, err)
}

func TestSummarize_EngineFailure(t *testing.T) {
	svc := NewService(&fakeLLM{err: errors.New("timeout")}, 3, common.GetLogger())

	_, err := svc.Summarize(context.Background(), "content")
	assert.Error(t, err)
}

func TestSummarize_BlankOutput(t *testing.T) {
	svc := NewService(&fakeLLM{response: "  "}, 3, common.GetLogger())

	_, err := svc.Summarize(context.Background(), "content")
	assert.Error(t, err)
}

func TestSummarizeAll(t *testing.T) {
	llm := &fakeLLM{response: "Rollup summary."}
	svc := NewService(llm, 3, common.GetLogger())

	summary, err := svc.SummarizeAll(context.Background(), []string{"first source", "", "second source"})
	require.NoError(t, err)
	assert.Equal(t, "Rollup summary.", summary)

	user := llm.lastMsgs[1].Content
	assert.Contains(t, user, "first source")
	assert.Contains(t, user, "second source")
}

func TestSummarizeAll_NoContent(t *testing.T) {
	svc := NewService(&fakeLLM{}, 3, common.GetLogger())

	_, err := svc.SummarizeAll(context.Background(), []string{"", "  "})
	assert.Error(t, err)
}
