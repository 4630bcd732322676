// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bot is the assistant behind the conversation service.
package bot

import (
	"strings"
)

// =============================================================================
// RESPONDER INTERFACE
// =============================================================================

// Responder produces the assistant side of a turn.
type Responder interface {
	// Greeting returns the opening message and suggestions for a new
	// conversation.
	Greeting() (response string, suggestions []string)

	// Reply answers a user message.
	Reply(message string) (response string, suggestions []string)
}

// =============================================================================
// CANNED RESPONDER
// =============================================================================

// FallbackResponse is returned for any prompt not in the table.
const FallbackResponse = "Sorry, I don't understand that. Can you ask something else?"

// greetingResponse opens every new conversation.
const greetingResponse = "Hello! How can I assist you today?"

// CannedResponder answers from a fixed prompt table, matched
// case-insensitively on the trimmed message.
type CannedResponder struct {
	responses   map[string]string
	suggestions map[string][]string
	defaults    []string
}

// NewCannedResponder creates the stock responder.
func NewCannedResponder() *CannedResponder {
	r := &CannedResponder{
		responses:   make(map[string]string, len(cannedResponses)),
		suggestions: make(map[string][]string, len(cannedSuggestions)),
		defaults:    defaultSuggestions,
	}
	for prompt, response := range cannedResponses {
		r.responses[normalize(prompt)] = response
	}
	for prompt, followups := range cannedSuggestions {
		r.suggestions[normalize(prompt)] = followups
	}
	return r
}

// Greeting implements Responder.
func (r *CannedResponder) Greeting() (string, []string) {
	return greetingResponse, cloneSuggestions(r.defaults)
}

// Reply implements Responder.
func (r *CannedResponder) Reply(message string) (string, []string) {
	key := normalize(message)

	response, ok := r.responses[key]
	if !ok {
		return FallbackResponse, cloneSuggestions(r.defaults)
	}

	if followups, ok := r.suggestions[key]; ok {
		return response, cloneSuggestions(followups)
	}
	return response, cloneSuggestions(r.defaults)
}

// normalize folds a prompt for lookup.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func cloneSuggestions(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// =============================================================================
// RESPONSE TABLE
// =============================================================================

// cannedResponses maps user prompts to replies.
var cannedResponses = map[string]string{
	"Hello":                         "Hello! How can I assist you today?",
	"What is your name?":            "I am a simple chatbot created to assist you.",
	"How are you?":                  "I'm doing well! Thanks for asking. How can I assist you today?",
	"Bye":                           "Goodbye! Have a great day!",
	"Help":                          "I'm here to help! What kind of assistance do you need?",
	"Thank you":                     "You're welcome! Is there anything else I can help you with?",
	"Weather":                       "I'm sorry, I don't have real-time weather information. You might want to check a weather website or app for that.",
	"Tell me a joke":                "Why don't scientists trust atoms? Because they make up everything!",
	"What time is it?":              "I'm sorry, I don't have access to real-time information. You can check the time on your device.",
	"Who created you?":              "I was created by Abirami as a simple chatbot to assist users.",
	"What can you do?":              "I can answer your questions, provide assistance, and even tell you jokes. Just ask away!",
	"Where are you from?":           "I live in the cloud, available whenever you need me.",
	"How old are you?":              "I don't age like humans, but I was created quite recently!",
	"Do you have hobbies?":          "I enjoy helping people and learning new things from our conversations!",
	"What is AI?":                   "AI stands for Artificial Intelligence, which is a branch of computer science aimed at creating smart machines that can perform tasks that usually require human intelligence.",
	"Do you sleep?":                 "I don't need sleep! I'm here 24/7 to assist you.",
	"Are you a human?":              "No, I'm not human. I'm a chatbot created to assist you.",
	"What is your favorite color?":  "I like all colors equally, but if I had to choose, I'd go with blue. It feels calm and friendly.",
	"What is the meaning of life?":  "The meaning of life is a deep philosophical question. Some say it's to be happy and enjoy the moment, while others believe it's to make a difference in the world.",
	"Do you have any pets?":         "I'm sorry, I don't have any physical form. But I can help you with your questions!",
	"What is the capital of France?": "The capital of France is Paris.",
	"Can you play music?":           "I'm sorry, I don't have the ability to play music. I can help you with your questions though!",
	"What is the speed of light?":   "The speed of light is approximately 299,792,458 meters per second in a vacuum.",
	"Do you have any siblings?":     "I'm sorry, I don't have any physical form. But I can help you with your questions!",
	"What is the square root of 144?": "The square root of 144 is 12.",
	"Can you tell me a secret?":     "I'm sorry, I don't have the ability to store or share secrets. I can help you with your questions though!",
}

// cannedSuggestions maps prompts to follow-ups shown with the reply.
var cannedSuggestions = map[string][]string{
	"Hello":              {"What can you do?", "Tell me a joke", "What is AI?"},
	"What is your name?": {"Who created you?", "What can you do?", "Are you a human?"},
	"Tell me a joke":     {"Tell me a joke", "What is the meaning of life?", "Bye"},
	"What is AI?":        {"What can you do?", "Are you a human?", "Do you sleep?"},
	"What can you do?":   {"Tell me a joke", "What is the capital of France?", "Help"},
	"Thank you":          {"Help", "Bye"},
	"Who created you?":   {"What is your name?", "Where are you from?", "How old are you?"},
}

// defaultSuggestions is the fallback follow-up set.
var defaultSuggestions = []string{"Help", "What can you do?", "Tell me a joke"}
