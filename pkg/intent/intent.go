// Package intent pre-classifies incoming messages with local pattern
// matching so greetings and thanks never pay the embedding or search
// cost of a real query.
package intent

import (
	"regexp"
	"strings"

	"github.com/iamswethaa/chatbot/internal/models"
)

// The vocabularies are data so they can change without touching the
// classification logic.
var (
	greetingWords = []string{
		"hi", "hii", "hello", "helo", "hellow", "hey", "heyy",
		"good morning", "good afternoon", "good evening",
	}

	thanksPhrases = []string{
		"thank you", "thanks", "thankyou", "good job", "well done",
		"great", "appreciate", "super",
	}

	greetingPattern = regexp.MustCompile(
		`(?i)^(` + strings.Join(greetingWords, "|") + `)( there| everyone| all)?[\s!.,]*$`,
	)
)

// Classify returns the intent of a message. Greeting requires the whole
// trimmed message to match; Thanks matches anywhere in the message.
// Greeting is checked first, so a message matching both classifies as
// Greeting.
func Classify(message string) models.Intent {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return models.IntentSubstantive
	}

	if greetingPattern.MatchString(trimmed) {
		return models.IntentGreeting
	}

	lower := strings.ToLower(trimmed)
	for _, phrase := range thanksPhrases {
		if strings.Contains(lower, phrase) {
			return models.IntentThanks
		}
	}

	return models.IntentSubstantive
}
