package voice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "benovitz-content-api/pkg/errors"
)

func TestFormats_OrderAndValues(t *testing.T) {
	got := Formats()
	require.Len(t, got, 5)

	assert.Equal(t, []Format{
		FormatArticle, FormatSocialMedia, FormatShiurOutline, FormatShortReflection, FormatAdvisorTraining,
	}, Values())
	assert.Equal(t, "Article/Essay", got[0].Name)
	assert.Equal(t, "Brief daily wisdom (75-150 words)", got[3].Description)

	// 返回副本，调用方修改不影响目录
	got[0].Name = "mutated"
	assert.Equal(t, "Article/Essay", Formats()[0].Name)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("shiur_outline")
	require.NoError(t, err)
	assert.Equal(t, FormatShiurOutline, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatArticle, f)
}

func TestParseFormat_InvalidListsValidFormats(t *testing.T) {
	_, err := ParseFormat("poem")
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeInvalidFormat, appErr.Code)
	assert.Equal(t,
		"Invalid format 'poem'. Valid formats: ['article', 'social_media', 'shiur_outline', 'short_reflection', 'advisor_training']",
		appErr.PublicDetail(),
	)
}

func TestInstructions(t *testing.T) {
	for _, f := range Values() {
		text := Instructions(f)
		assert.True(t, strings.HasPrefix(text, "## FORMAT:"), f)
	}
	assert.Contains(t, Instructions(FormatShortReflection), "Total length: 75-150 words")
	assert.Equal(t, Instructions(FormatArticle), Instructions(Format("unknown")))
}

func TestProfile_Trimmed(t *testing.T) {
	p := DefaultProfile().Trimmed()

	assert.Equal(t, "Rabbi Moshe Benovitz", p.Name)
	assert.True(t, strings.HasPrefix(p.Tone, "- Warm"))
	assert.False(t, strings.HasSuffix(p.Transitions, "\n"))
	assert.Contains(t, p.HebrewVocabulary, "Kiruv (outreach/bringing close)")
}
