package llm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/habiliai/caremem/llm"
)

func TestNewOpenAIClient(t *testing.T) {
	client := llm.NewOpenAIClient("test-key")
	require.NotNil(t, client)

	var _ llm.Client = client
}

func TestNewAnthropicClient(t *testing.T) {
	client := llm.NewAnthropicClient("test-key")
	require.NotNil(t, client)

	var _ llm.Client = client
}
