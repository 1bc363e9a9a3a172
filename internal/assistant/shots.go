package assistant

import (
	"fmt"
	"strings"

	"wanderbot/internal/domain"
)

// ZeroShotSystem is the system instruction for single-turn questions.
const ZeroShotSystem = "You are a helpful assistant that responds in a friendly and concise style."

// oneShotMaxTokens keeps example-driven answers as terse as the example.
const oneShotMaxTokens = 200

// ZeroShot builds a request with no conversational context.
func ZeroShot(system, prompt string) domain.GenerateRequest {
	if system == "" {
		system = ZeroShotSystem
	}
	temp := float32(0.7)
	return domain.GenerateRequest{
		System:      system,
		Messages:    []domain.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	}
}

// OneShot prefixes the query with a single worked example. An empty system
// sends no system instruction, letting the example set the tone.
func OneShot(system, exampleInput, exampleOutput, query string) domain.GenerateRequest {
	text := fmt.Sprintf("Here's an example:\nInput: %s\nOutput: %s\n\nNow, answer this:\n%s",
		strings.TrimSpace(exampleInput), strings.TrimSpace(exampleOutput), strings.TrimSpace(query))
	return domain.GenerateRequest{
		System:          system,
		Messages:        []domain.Message{{Role: "user", Content: text}},
		MaxOutputTokens: oneShotMaxTokens,
	}
}
