package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/normanking/voicevedic/internal/language"
)

func TestT_AllLanguagesCoverEnglishKeys(t *testing.T) {
	for key := range translations[language.English] {
		for _, tag := range language.All() {
			_, ok := translations[tag][key]
			assert.True(t, ok, "%s missing %s", tag, key)
		}
	}
}

func TestT_Fallbacks(t *testing.T) {
	assert.Equal(t, translations[language.English][KeyAudioGeneric], T(language.Tag("fr-FR"), KeyAudioGeneric))
	assert.Equal(t, "no_such_key", T(language.Hindi, "no_such_key"))
}

func TestTf(t *testing.T) {
	msg := Tf(language.English, KeyVoiceFallback, "Hindi")
	assert.Contains(t, msg, "No Hindi voice")
}
