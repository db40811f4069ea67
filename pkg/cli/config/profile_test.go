package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/callsight-lab/callsight/pkg/cli/config"
	"github.com/callsight-lab/callsight/pkg/domain/types"
)

func TestLoadExtractionProfile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name: "valid profile overriding two categories",
			content: `
[[category]]
id = "faq"
name = "Common Questions"
description = "Questions prospects keep asking"
guidance = "Frame as questions"

[[category]]
id = "blog_topic"
name = "Content Ideas"
description = "Topics worth a long-form article"
`,
			wantErr: nil,
		},
		{
			name:    "profile file not found",
			content: "", // Won't create the file
			wantErr: config.ErrProfileNotFound,
		},
		{
			name: "malformed TOML",
			content: `
[[category]
id = "faq"
`,
			wantErr: config.ErrInvalidProfile,
		},
		{
			name: "unknown category ID",
			content: `
[[category]]
id = "press_release"
name = "Press Releases"
description = "Not a real category"
`,
			wantErr: config.ErrInvalidProfile,
		},
		{
			name: "duplicate category ID",
			content: `
[[category]]
id = "faq"
name = "FAQs"
description = "Questions"

[[category]]
id = "faq"
name = "Duplicate"
description = "Questions again"
`,
			wantErr: config.ErrInvalidProfile,
		},
		{
			name: "missing category name",
			content: `
[[category]]
id = "faq"
description = "Questions"
`,
			wantErr: config.ErrInvalidProfile,
		},
		{
			name: "missing category description",
			content: `
[[category]]
id = "faq"
name = "FAQs"
`,
			wantErr: config.ErrInvalidProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			profilePath := filepath.Join(tmpDir, "profile.toml")

			if tt.content != "" {
				err := os.WriteFile(profilePath, []byte(tt.content), 0o600)
				gt.NoError(t, err).Required()
			}

			profile, err := config.LoadExtractionProfile(profilePath)

			if tt.wantErr != nil {
				gt.Value(t, err).NotNil()
				if err != nil {
					gt.Error(t, err).Is(tt.wantErr)
				}
				return
			}

			gt.NoError(t, err)
			gt.Value(t, profile).NotNil()
		})
	}
}

func TestLoadExtractionProfile_ValidContent(t *testing.T) {
	content := `
[[category]]
id = "faq"
name = "Common Questions"
description = "Questions prospects keep asking"
guidance = "Frame as questions"
`
	tmpDir := t.TempDir()
	profilePath := filepath.Join(tmpDir, "profile.toml")
	err := os.WriteFile(profilePath, []byte(content), 0o600)
	gt.NoError(t, err).Required()

	profile, err := config.LoadExtractionProfile(profilePath)
	gt.NoError(t, err).Required()

	gt.Array(t, profile.Categories).Length(1).Required()
	guide := profile.Guide(types.CategoryFAQ)
	gt.Value(t, guide.Name).Equal("Common Questions")
	gt.Value(t, guide.Description).Equal("Questions prospects keep asking")
	gt.Value(t, guide.Guidance).Equal("Frame as questions")

	// Categories the profile does not override fall back to the defaults
	fallback := profile.Guide(types.CategoryBlogTopic)
	gt.Value(t, fallback.Name).Equal(types.CategoryBlogTopic.DisplayName())
}

func TestProfile_Configure(t *testing.T) {
	t.Run("returns nil profile when path is empty", func(t *testing.T) {
		cfg := config.NewProfileForTest("")
		profile, err := cfg.Configure()
		gt.NoError(t, err)
		gt.Value(t, profile).Nil()
	})

	t.Run("returns flags", func(t *testing.T) {
		cfg := config.NewProfileForTest("")
		flags := cfg.Flags()
		gt.Value(t, len(flags)).Equal(1)
	})
}
