package notion_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/callsight-lab/callsight/pkg/service/notion"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		parent  string
		wantErr bool
	}{
		{
			name:   "valid",
			token:  "test-token",
			parent: "parent-page-id",
		},
		{
			name:    "empty token",
			token:   "",
			parent:  "parent-page-id",
			wantErr: true,
		},
		{
			name:    "empty parent page",
			token:   "test-token",
			parent:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := notion.New(tt.token, tt.parent)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err).Required()
			gt.V(t, svc).NotNil()
		})
	}
}

func TestPublishBatchReport_Integration(t *testing.T) {
	token := os.Getenv("TEST_NOTION_API_TOKEN")
	if token == "" {
		t.Skip("TEST_NOTION_API_TOKEN environment variable not set")
	}
	parent := os.Getenv("TEST_NOTION_PARENT_PAGE_ID")
	if parent == "" {
		t.Skip("TEST_NOTION_PARENT_PAGE_ID environment variable not set")
	}

	svc, err := notion.New(token, parent)
	gt.NoError(t, err).Required()

	url, err := svc.PublishBatchReport(context.Background(), sampleResult())
	gt.NoError(t, err).Required()
	gt.S(t, url).Contains("notion")

	t.Logf("published report page: %s", url)
}
