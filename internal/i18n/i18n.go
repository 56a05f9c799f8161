// Package i18n provides localized user-facing copy for the assistant.
package i18n

import (
	"fmt"

	"github.com/normanking/voicevedic/internal/language"
)

// Message keys.
const (
	KeyFallbackMissingCredential = "fallback_missing_credential"
	KeyFallbackUpstream          = "fallback_upstream"
	KeyFallbackGeneric           = "fallback_generic"

	KeyTextOnly            = "advisory_text_only"
	KeyVoicesDegraded      = "advisory_voices_degraded"
	KeyVoiceFallback       = "advisory_voice_fallback"
	KeyKannadaVoiceMissing = "advisory_kannada_voice_missing"

	KeyAudioNotAllowed    = "advisory_audio_not_allowed"
	KeyAudioNetwork       = "advisory_audio_network"
	KeyAudioSynthesis     = "advisory_audio_synthesis"
	KeyAudioGeneric       = "advisory_audio_generic"
	KeyMicNotAllowed      = "advisory_mic_not_allowed"
	KeyCaptureUnsupported = "advisory_capture_unsupported"

	KeyTimingHeader   = "section_timing"
	KeyGuidanceHeader = "section_guidance"
	KeyMoreItems      = "section_more_items"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		KeyFallbackMissingCredential: "🪔 Jai Shree Krishna. The guidance service is not configured yet (its API key is missing). Please try again later.",
		KeyFallbackUpstream:          "🪔 Jai Shree Krishna. The guidance service is having trouble right now. Please try again in a moment.",
		KeyFallbackGeneric:           "🪔 Jai Shree Krishna. I could not get an answer just now. Please check your connection and try again.",

		KeyTextOnly:            "Voice playback is not available in this environment. Responses will be shown as text only.",
		KeyVoicesDegraded:      "Voices are taking too long to load. Playback may use the default voice.",
		KeyVoiceFallback:       "No %s voice is installed, so the answer is read with an English voice.",
		KeyKannadaVoiceMissing: "No Kannada voice is installed on this device. Install a Kannada text-to-speech voice in your system speech settings, then reload. Until then answers are read with an English voice.",

		KeyAudioNotAllowed:    "Audio playback was blocked. Allow sound for this app and tap play again.",
		KeyAudioNetwork:       "The voice needs a network connection. Check your connection and try again.",
		KeyAudioSynthesis:     "The voice engine could not read this answer. Try a different voice or language.",
		KeyAudioGeneric:       "Something went wrong while playing the answer.",
		KeyMicNotAllowed:      "Microphone access was denied. Allow microphone access in your settings to ask by voice.",
		KeyCaptureUnsupported: "Voice input is not available here. Please type your question.",

		KeyTimingHeader:   "📅 Timing details",
		KeyGuidanceHeader: "✨ Guidance",
		KeyMoreItems:      "%d more, type /more to show all",
	},
	language.Hindi: {
		KeyFallbackMissingCredential: "🪔 जय श्री कृष्ण। मार्गदर्शन सेवा अभी कॉन्फ़िगर नहीं है (API कुंजी नहीं मिली)। कृपया बाद में पुनः प्रयास करें।",
		KeyFallbackUpstream:          "🪔 जय श्री कृष्ण। मार्गदर्शन सेवा में अभी समस्या है। कृपया थोड़ी देर बाद पुनः प्रयास करें।",
		KeyFallbackGeneric:           "🪔 जय श्री कृष्ण। अभी उत्तर नहीं मिल सका। कृपया अपना कनेक्शन जांचें और पुनः प्रयास करें।",

		KeyTextOnly:            "इस वातावरण में आवाज़ उपलब्ध नहीं है। उत्तर केवल पाठ के रूप में दिखाए जाएंगे।",
		KeyVoicesDegraded:      "आवाज़ें लोड होने में देर हो रही है। डिफ़ॉल्ट आवाज़ का उपयोग हो सकता है।",
		KeyVoiceFallback:       "%s आवाज़ उपलब्ध नहीं है, इसलिए उत्तर अंग्रेज़ी आवाज़ में पढ़ा जा रहा है।",
		KeyKannadaVoiceMissing: "इस डिवाइस पर कन्नड़ आवाज़ इंस्टॉल नहीं है। सिस्टम सेटिंग्स में कन्नड़ टेक्स्ट-टू-स्पीच आवाज़ इंस्टॉल करें और फिर से खोलें।",

		KeyAudioNotAllowed:    "ऑडियो चलाने की अनुमति नहीं मिली। ध्वनि की अनुमति दें और फिर से चलाएं।",
		KeyAudioNetwork:       "आवाज़ के लिए नेटवर्क आवश्यक है। कनेक्शन जांचें और पुनः प्रयास करें।",
		KeyAudioSynthesis:     "आवाज़ इंजन यह उत्तर नहीं पढ़ सका। कोई दूसरी आवाज़ या भाषा चुनें।",
		KeyAudioGeneric:       "उत्तर चलाते समय कुछ गलत हो गया।",
		KeyMicNotAllowed:      "माइक्रोफ़ोन की अनुमति नहीं मिली। आवाज़ से पूछने के लिए सेटिंग्स में अनुमति दें।",
		KeyCaptureUnsupported: "यहाँ आवाज़ इनपुट उपलब्ध नहीं है। कृपया प्रश्न टाइप करें।",

		KeyTimingHeader:   "📅 समय विवरण",
		KeyGuidanceHeader: "✨ मार्गदर्शन",
		KeyMoreItems:      "%d और, सभी देखने के लिए /more लिखें",
	},
	language.Kannada: {
		KeyFallbackMissingCredential: "🪔 ಜೈ ಶ್ರೀ ಕೃಷ್ಣ. ಮಾರ್ಗದರ್ಶನ ಸೇವೆ ಇನ್ನೂ ಸಿದ್ಧವಾಗಿಲ್ಲ (API ಕೀ ಇಲ್ಲ). ದಯವಿಟ್ಟು ನಂತರ ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ.",
		KeyFallbackUpstream:          "🪔 ಜೈ ಶ್ರೀ ಕೃಷ್ಣ. ಮಾರ್ಗದರ್ಶನ ಸೇವೆಯಲ್ಲಿ ಈಗ ತೊಂದರೆ ಇದೆ. ಸ್ವಲ್ಪ ಸಮಯದ ನಂತರ ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ.",
		KeyFallbackGeneric:           "🪔 ಜೈ ಶ್ರೀ ಕೃಷ್ಣ. ಈಗ ಉತ್ತರ ಸಿಗಲಿಲ್ಲ. ನಿಮ್ಮ ಸಂಪರ್ಕ ಪರಿಶೀಲಿಸಿ ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ.",

		KeyTextOnly:            "ಇಲ್ಲಿ ಧ್ವನಿ ಲಭ್ಯವಿಲ್ಲ. ಉತ್ತರಗಳನ್ನು ಪಠ್ಯವಾಗಿ ಮಾತ್ರ ತೋರಿಸಲಾಗುತ್ತದೆ.",
		KeyVoicesDegraded:      "ಧ್ವನಿಗಳು ಲೋಡ್ ಆಗಲು ತಡವಾಗುತ್ತಿದೆ. ಡೀಫಾಲ್ಟ್ ಧ್ವನಿ ಬಳಸಬಹುದು.",
		KeyVoiceFallback:       "%s ಧ್ವನಿ ಲಭ್ಯವಿಲ್ಲ, ಆದ್ದರಿಂದ ಉತ್ತರವನ್ನು ಇಂಗ್ಲಿಷ್ ಧ್ವನಿಯಲ್ಲಿ ಓದಲಾಗುತ್ತಿದೆ.",
		KeyKannadaVoiceMissing: "ಈ ಸಾಧನದಲ್ಲಿ ಕನ್ನಡ ಧ್ವನಿ ಸ್ಥಾಪಿಸಿಲ್ಲ. ಸಿಸ್ಟಮ್ ಸೆಟ್ಟಿಂಗ್‌ಗಳಲ್ಲಿ ಕನ್ನಡ ಟೆಕ್ಸ್ಟ್-ಟು-ಸ್ಪೀಚ್ ಧ್ವನಿಯನ್ನು ಸ್ಥಾಪಿಸಿ ಮತ್ತು ಮರುಲೋಡ್ ಮಾಡಿ.",

		KeyAudioNotAllowed:    "ಆಡಿಯೋ ಪ್ಲೇಬ್ಯಾಕ್ ನಿರ್ಬಂಧಿಸಲಾಗಿದೆ. ಧ್ವನಿಗೆ ಅನುಮತಿ ನೀಡಿ ಮತ್ತೆ ಪ್ಲೇ ಮಾಡಿ.",
		KeyAudioNetwork:       "ಧ್ವನಿಗೆ ನೆಟ್‌ವರ್ಕ್ ಅಗತ್ಯವಿದೆ. ಸಂಪರ್ಕ ಪರಿಶೀಲಿಸಿ ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ.",
		KeyAudioSynthesis:     "ಧ್ವನಿ ಎಂಜಿನ್ ಈ ಉತ್ತರವನ್ನು ಓದಲು ಆಗಲಿಲ್ಲ. ಬೇರೆ ಧ್ವನಿ ಅಥವಾ ಭಾಷೆ ಆರಿಸಿ.",
		KeyAudioGeneric:       "ಉತ್ತರವನ್ನು ಪ್ಲೇ ಮಾಡುವಾಗ ಏನೋ ತಪ್ಪಾಗಿದೆ.",
		KeyMicNotAllowed:      "ಮೈಕ್ರೊಫೋನ್ ಅನುಮತಿ ನಿರಾಕರಿಸಲಾಗಿದೆ. ಧ್ವನಿಯಲ್ಲಿ ಕೇಳಲು ಸೆಟ್ಟಿಂಗ್‌ಗಳಲ್ಲಿ ಅನುಮತಿ ನೀಡಿ.",
		KeyCaptureUnsupported: "ಇಲ್ಲಿ ಧ್ವನಿ ಇನ್‌ಪುಟ್ ಲಭ್ಯವಿಲ್ಲ. ದಯವಿಟ್ಟು ಪ್ರಶ್ನೆಯನ್ನು ಟೈಪ್ ಮಾಡಿ.",

		KeyTimingHeader:   "📅 ಸಮಯದ ವಿವರಗಳು",
		KeyGuidanceHeader: "✨ ಮಾರ್ಗದರ್ಶನ",
		KeyMoreItems:      "ಇನ್ನೂ %d, ಎಲ್ಲವನ್ನೂ ನೋಡಲು /more ಟೈಪ್ ಮಾಡಿ",
	},
}

// T returns the copy for key in the given language, falling back to
// English and finally to the key itself.
func T(tag language.Tag, key string) string {
	if msgs, ok := translations[tag]; ok {
		if s, ok := msgs[key]; ok {
			return s
		}
	}
	if s, ok := translations[language.English][key]; ok {
		return s
	}
	return key
}

// Tf formats the copy for key with args.
func Tf(tag language.Tag, key string, args ...any) string {
	return fmt.Sprintf(T(tag, key), args...)
}
