// Package prompt builds the text prompts sent to the generation backend.
// Every builder is pure: same inputs, same prompt.
package prompt

import (
	"fmt"
	"strings"
)

// Chat returns the prompt for a conversational turn. The user message is
// forwarded to the model unmodified.
func Chat(message string) string {
	return message
}

// Research returns the research-brief prompt for a topic at the given depth.
func Research(topic string, depth int) string {
	return fmt.Sprintf(
		"You are a meticulous research assistant. Produce a structured research brief with: "+
			"Key points, Sources to check, and Next steps about the topic: '%s'. Aim for depth level %d.",
		topic, depth)
}

// Planner returns the weekly-plan prompt. A non-empty focus is appended as
// context before the closing JSON-only instruction.
func Planner(focus string) string {
	var b strings.Builder
	b.WriteString("Create a weekly plan from Monday to Sunday with 3-5 focused tasks per day. ")
	b.WriteString("Return JSON with keys days:[{day, tasks[]}]. ")
	if focus != "" {
		fmt.Fprintf(&b, "Focus context: %s. ", focus)
	}
	b.WriteString("Ensure valid JSON only.")
	return b.String()
}

// Roleplay returns the persona preamble followed by the user message.
func Roleplay(persona, message string) string {
	return fmt.Sprintf("You are role-playing as: %s. Stay in character.\n\n%s", persona, message)
}
