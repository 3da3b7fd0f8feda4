package llm

import (
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIChatParams(t *testing.T) {
	client, err := NewOpenAIClient(DefaultOpenAIConfig(), "test-key")
	require.NoError(t, err)
	messages := []openai.ChatCompletionMessageParamUnion{openai.UserMessage("hi")}

	params, err := client.chatParams(messages, TierSmall, true)
	require.NoError(t, err)
	data, err := params.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"response_format":{"type":"json_object"}`)
	assert.Contains(t, string(data), `"model":"gpt-4o-mini"`)

	params, err = client.chatParams(messages, TierLarge, false)
	require.NoError(t, err)
	data, err = params.MarshalJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "response_format")
	assert.Contains(t, string(data), `"model":"gpt-4o"`)
}

func TestOpenAIChatParams_NoModel(t *testing.T) {
	client, err := NewOpenAIClient(DefaultOpenAIConfig().WithModel(TierLarge, ""), "test-key")
	require.NoError(t, err)

	_, err = client.chatParams(nil, TierLarge, true)
	var apiErr *APICallError
	assert.ErrorAs(t, err, &apiErr)
}
