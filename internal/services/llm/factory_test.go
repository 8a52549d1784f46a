package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/common"
	"github.com/mymind-ai/mymind/internal/interfaces"
)

func TestNewServices_NoKeyDegradesToDisabled(t *testing.T) {
	config := common.NewDefaultConfig()

	services, err := NewServices(config, arbor.NewLogger())
	require.NoError(t, err)

	assert.Equal(t, interfaces.LLMModeDisabled, services.Chat.GetMode())
	assert.Equal(t, interfaces.LLMModeDisabled, services.Embed.GetMode())

	_, err = services.Chat.Chat(context.Background(), []interfaces.Message{{Role: "user", Content: "hi"}})
	assert.Error(t, err)

	_, err = services.Embed.Embed(context.Background(), "text")
	assert.Error(t, err)

	assert.NoError(t, services.Close())
}

func TestNewServices_UnknownProvider(t *testing.T) {
	config := common.NewDefaultConfig()
	config.LLM.DefaultProvider = "openai"

	_, err := NewServices(config, arbor.NewLogger())
	assert.Error(t, err)
}

func TestConvertMessagesToGemini(t *testing.T) {
	contents, system, err := convertMessagesToGemini([]interfaces.Message{
		{Role: "system", Content: "You are helpful."},
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	})
	require.NoError(t, err)

	assert.Equal(t, "You are helpful.", system)
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
}

func TestConvertMessagesToGemini_RequiresUserMessage(t *testing.T) {
	_, _, err := convertMessagesToGemini(nil)
	assert.Error(t, err)

	_, _, err = convertMessagesToGemini([]interfaces.Message{{Role: "system", Content: "only system"}})
	assert.Error(t, err)
}

func TestConvertMessagesToClaude(t *testing.T) {
	msgs, system, err := convertMessagesToClaude([]interfaces.Message{
		{Role: "system", Content: "Be kind."},
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Be kind.", system)
	assert.Len(t, msgs, 2)
}
