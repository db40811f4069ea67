package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/callsight-lab/callsight/pkg/cli/config"
)

func TestLLM_Configure(t *testing.T) {
	t.Run("returns nil client when gemini project is empty", func(t *testing.T) {
		cfg := config.NewLLMForTest("gemini", "", "us-central1", "", "")
		client, err := cfg.Configure(t.Context())
		gt.NoError(t, err)
		gt.Value(t, client).Nil()
	})

	t.Run("returns nil client when openai key is empty", func(t *testing.T) {
		cfg := config.NewLLMForTest("openai", "", "", "", "")
		client, err := cfg.Configure(t.Context())
		gt.NoError(t, err)
		gt.Value(t, client).Nil()
	})

	t.Run("returns nil client when claude key is empty", func(t *testing.T) {
		cfg := config.NewLLMForTest("claude", "", "", "", "")
		client, err := cfg.Configure(t.Context())
		gt.NoError(t, err)
		gt.Value(t, client).Nil()
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		cfg := config.NewLLMForTest("watson", "", "", "", "")
		_, err := cfg.Configure(t.Context())
		gt.Value(t, err).NotNil()
	})

	t.Run("returns flags", func(t *testing.T) {
		cfg := config.NewLLMForTest("", "", "", "", "")
		flags := cfg.Flags()
		gt.Value(t, len(flags)).Equal(5)
	})
}
