package suggest

// DefaultRoutes are checked in order.
var DefaultRoutes = []Route{
	{
		Keywords: []string{"rahu", "राहु", "ರಾಹು", "yamaganda", "gulika"},
		Suggestions: map[string][]string{
			"en": {"What is Rahu Kaal today?", "What should I avoid during Rahu Kaal?", "When is Yamaganda today?"},
			"hi": {"आज राहु काल कब है?", "राहु काल में क्या नहीं करना चाहिए?", "आज यमगंड कब है?"},
			"kn": {"ಇಂದು ರಾಹು ಕಾಲ ಯಾವಾಗ?", "ರಾಹು ಕಾಲದಲ್ಲಿ ಏನು ಮಾಡಬಾರದು?", "ಇಂದು ಯಮಗಂಡ ಯಾವಾಗ?"},
		},
	},
	{
		Keywords: []string{"tithi", "तिथि", "ತಿಥಿ", "amavasya", "purnima", "ekadashi", "अमावस्या", "एकादशी", "ಅಮಾವಾಸ್ಯೆ", "ಏಕಾದಶಿ"},
		Suggestions: map[string][]string{
			"en": {"What is today's tithi?", "When is the next Ekadashi?", "When is the next Amavasya?", "When is the next Purnima?"},
			"hi": {"आज कौन सी तिथि है?", "अगली एकादशी कब है?", "अगली अमावस्या कब है?", "अगली पूर्णिमा कब है?"},
			"kn": {"ಇಂದು ಯಾವ ತಿಥಿ?", "ಮುಂದಿನ ಏಕಾದಶಿ ಯಾವಾಗ?", "ಮುಂದಿನ ಅಮಾವಾಸ್ಯೆ ಯಾವಾಗ?", "ಮುಂದಿನ ಹುಣ್ಣಿಮೆ ಯಾವಾಗ?"},
		},
	},
	{
		Keywords: []string{"muhurat", "muhurta", "auspicious", "मुहूर्त", "शुभ", "ಮುಹೂರ್ತ", "ಶುಭ"},
		Suggestions: map[string][]string{
			"en": {"What is the Abhijit Muhurat today?", "Is today auspicious for a new beginning?", "Best muhurat for griha pravesh this month?"},
			"hi": {"आज अभिजीत मुहूर्त कब है?", "क्या आज नए कार्य के लिए शुभ है?", "इस महीने गृह प्रवेश का शुभ मुहूर्त?"},
			"kn": {"ಇಂದು ಅಭಿಜಿತ್ ಮುಹೂರ್ತ ಯಾವಾಗ?", "ಹೊಸ ಕೆಲಸಕ್ಕೆ ಇಂದು ಶುಭವೇ?", "ಈ ತಿಂಗಳು ಗೃಹ ಪ್ರವೇಶಕ್ಕೆ ಶುಭ ಮುಹೂರ್ತ?"},
		},
	},
	{
		Keywords: []string{"festival", "diwali", "navratri", "janmashtami", "holi", "त्योहार", "दिवाली", "ಹಬ್ಬ", "ದೀಪಾವಳಿ"},
		Suggestions: map[string][]string{
			"en": {"Which festivals are coming up this month?", "When is Janmashtami this year?", "How should I celebrate Diwali?"},
			"hi": {"इस महीने कौन से त्योहार हैं?", "इस वर्ष जन्माष्टमी कब है?", "दिवाली कैसे मनाएं?"},
			"kn": {"ಈ ತಿಂಗಳು ಯಾವ ಹಬ್ಬಗಳಿವೆ?", "ಈ ವರ್ಷ ಜನ್ಮಾಷ್ಟಮಿ ಯಾವಾಗ?", "ದೀಪಾವಳಿಯನ್ನು ಹೇಗೆ ಆಚರಿಸಬೇಕು?"},
		},
	},
	{
		Keywords: []string{"mantra", "puja", "pooja", "chant", "मंत्र", "पूजा", "ಮಂತ್ರ", "ಪೂಜೆ"},
		Suggestions: map[string][]string{
			"en": {"Which mantra should I chant today?", "How do I perform a simple daily puja?", "What is the meaning of the Gayatri Mantra?"},
			"hi": {"आज कौन सा मंत्र जपें?", "सरल दैनिक पूजा कैसे करें?", "गायत्री मंत्र का अर्थ क्या है?"},
			"kn": {"ಇಂದು ಯಾವ ಮಂತ್ರ ಜಪಿಸಬೇಕು?", "ಸರಳ ದೈನಂದಿನ ಪೂಜೆ ಹೇಗೆ ಮಾಡುವುದು?", "ಗಾಯತ್ರಿ ಮಂತ್ರದ ಅರ್ಥವೇನು?"},
		},
	},
}

// DefaultSuggestions are shown when nothing matches.
var DefaultSuggestions = map[string][]string{
	"en": {"What is today's tithi?", "What is Rahu Kaal today?", "When is the next Ekadashi?", "Which mantra should I chant today?"},
	"hi": {"आज कौन सी तिथि है?", "आज राहु काल कब है?", "अगली एकादशी कब है?", "आज कौन सा मंत्र जपें?"},
	"kn": {"ಇಂದು ಯಾವ ತಿಥಿ?", "ಇಂದು ರಾಹು ಕಾಲ ಯಾವಾಗ?", "ಮುಂದಿನ ಏಕಾದಶಿ ಯಾವಾಗ?", "ಇಂದು ಯಾವ ಮಂತ್ರ ಜಪಿಸಬೇಕು?"},
}
