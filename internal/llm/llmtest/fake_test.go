package llmtest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hirable/internal/llm"
	"github.com/jonathan/hirable/internal/prompts"
)

func TestMarkersAppearInPrompts(t *testing.T) {
	tests := []struct {
		file, key, marker string
	}{
		{"ingest.json", "job", MarkIngestJob},
		{"ingest.json", "resume", MarkIngestResume},
		{"adapt.json", "basic_info", MarkBasicInfo},
		{"adapt.json", "experience", MarkExperience},
		{"adapt.json", "education", MarkEducation},
		{"adapt.json", "projects", MarkProjects},
		{"adapt.json", "publications", MarkPublications},
		{"adapt.json", "skills", MarkSkills},
		{"cover_letter.json", "generate", MarkCoverLetter},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Contains(t, prompts.MustGet(tt.file, tt.key), tt.marker)
		})
	}
}

func TestFake_Rules(t *testing.T) {
	f := (&Fake{}).On("hello", `{"a":1}`).Fail("boom", errors.New("exploded"))

	out, err := f.GenerateJSON(context.Background(), "say hello", llm.TierSmall)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)

	_, err = f.GenerateContent(context.Background(), "boom now", llm.TierLarge)
	assert.EqualError(t, err, "exploded")

	_, err = f.GenerateJSON(context.Background(), "unmatched", llm.TierSmall)
	assert.Error(t, err)

	assert.Equal(t, 3, f.Calls())
	assert.Equal(t, 1, f.CallsMatching("boom"))
	assert.True(t, f.Requests()[0].JSON)
	assert.False(t, f.Requests()[1].JSON)
}

func TestFake_Default(t *testing.T) {
	f := &Fake{Default: "{}"}
	out, err := f.GenerateJSON(context.Background(), "anything", llm.TierSmall)
	require.NoError(t, err)
	assert.Equal(t, "{}", out)

	require.NoError(t, f.Close())
	assert.True(t, f.Closed())
	assert.Equal(t, "fake-large", f.GetModel(llm.TierLarge))
}
