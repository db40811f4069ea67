package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/callsight-lab/callsight/pkg/cli/config"
)

func TestSlack_Configure(t *testing.T) {
	t.Run("returns nil service when unconfigured", func(t *testing.T) {
		cfg := config.NewSlackForTest("", "")
		svc, err := cfg.Configure()
		gt.NoError(t, err)
		gt.Value(t, svc).Nil()
	})

	t.Run("rejects token without channel", func(t *testing.T) {
		cfg := config.NewSlackForTest("xoxb-token", "")
		_, err := cfg.Configure()
		gt.Value(t, err).NotNil()
	})

	t.Run("rejects channel without token", func(t *testing.T) {
		cfg := config.NewSlackForTest("", "#sales-insights")
		_, err := cfg.Configure()
		gt.Value(t, err).NotNil()
	})

	t.Run("creates service when fully configured", func(t *testing.T) {
		cfg := config.NewSlackForTest("xoxb-token", "#sales-insights")
		svc, err := cfg.Configure()
		gt.NoError(t, err)
		gt.Value(t, svc).NotNil()
	})
}

func TestSlack_IsConfigured(t *testing.T) {
	tests := []struct {
		name           string
		botToken       string
		channel        string
		wantConfigured bool
	}{
		{"both set", "token", "#channel", true},
		{"only token", "token", "", false},
		{"only channel", "", "#channel", false},
		{"neither set", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewSlackForTest(tt.botToken, tt.channel)
			if got := cfg.IsConfigured(); got != tt.wantConfigured {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.wantConfigured)
			}
		})
	}
}
