package chat

// DefaultLanguage is used whenever no language code is known.
const DefaultLanguage = "en"

// WelcomeMessage seeds an empty transcript.
const WelcomeMessage = "Welcome to the Citizen Grievance Redressal System! How can I help you today?"

// ApologyMessage is appended when a query fails for any reason.
const ApologyMessage = "Sorry, I encountered an error. Please try again later."

// SupportedLanguages maps every language code the assistant can serve to its
// display name.
func SupportedLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"es": "Spanish",
		"fr": "French",
		"hi": "Hindi",
		"mr": "Marathi",
		"ta": "Tamil",
		"te": "Telugu",
		"bn": "Bengali",
		"gu": "Gujarati",
		"kn": "Kannada",
		"ml": "Malayalam",
		"pa": "Punjabi",
		"ur": "Urdu",
	}
}

// FallbackLanguages is the minimal table used when the language listing
// endpoint is unreachable.
func FallbackLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"es": "Spanish",
		"fr": "French",
		"hi": "Hindi",
	}
}

// FallbackSuggestions is shown when the suggested-questions endpoint fails.
func FallbackSuggestions() []string {
	return []string{
		"How do I submit my life certificate?",
		"Why is my pension payment delayed?",
		"How do I update my bank details?",
		"What documents are required for family pension?",
		"How can I check my pension status online?",
	}
}
