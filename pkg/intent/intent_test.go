package intent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iamswethaa/chatbot/internal/models"
	"github.com/iamswethaa/chatbot/pkg/intent"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    models.Intent
	}{
		{"Hello there!", models.IntentGreeting},
		{"hi", models.IntentGreeting},
		{"  Hey  ", models.IntentGreeting},
		{"HELLO", models.IntentGreeting},
		{"helo", models.IntentGreeting},
		{"good morning", models.IntentGreeting},
		{"Good Evening!", models.IntentGreeting},
		{"thanks a lot", models.IntentThanks},
		{"thank you so much", models.IntentThanks},
		{"that was great, well done", models.IntentThanks},
		{"really appreciate it", models.IntentThanks},
		{"What is the maximum voltage?", models.IntentSubstantive},
		{"explain the charging procedure", models.IntentSubstantive},
		{"hello everyone at the office, I have a question", models.IntentSubstantive},
		{"", models.IntentSubstantive},
		{"   ", models.IntentSubstantive},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, intent.Classify(tt.message))
		})
	}
}

func TestClassify_GreetingWinsOverThanks(t *testing.T) {
	// "good morning" could read as thanks ("good ...") but the whole
	// message is a greeting, and greeting is checked first.
	assert.Equal(t, models.IntentGreeting, intent.Classify("good morning!"))

	// A greeting buried in a thanks message is not anchored, so thanks.
	assert.Equal(t, models.IntentThanks, intent.Classify("thanks, hello again"))
}
