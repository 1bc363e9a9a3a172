package assistant

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	ToolGetHotels  = "get_hotels"
	ToolGetWeather = "get_weather"
)

type ToolCall struct {
	Name string
	Args map[string]any
}

var (
	cityRe   = regexp.MustCompile(`\bin\s+([a-z][a-z ]{2,})`)
	budgetRe = regexp.MustCompile(`under\s*(?:₹|rs\.?|inr)?\s*(\d{3,6})`)

	hotelWords   = []string{"hotel", "stay", "accommodation"}
	weatherWords = []string{"weather", "rain", "temperature"}

	// words that end a place name captured after "in"
	cityStop = map[string]bool{
		"under": true, "for": true, "on": true, "this": true, "next": true, "during": true,
		"with": true, "from": true, "by": true, "at": true, "around": true, "near": true,
		"below": true, "within": true, "and": true, "today": true, "tomorrow": true,
		"tonight": true, "weekend": true, "the": true, "is": true, "be": true, "like": true,
	}
)

// PlanTool is a lightweight keyword intent detector. Hotel intents win over
// weather intents; anything else needs no tool.
func PlanTool(message string) (ToolCall, bool) {
	text := strings.ToLower(message)
	switch {
	case containsAny(text, hotelWords):
		args := map[string]any{}
		if city := extractCity(text); city != "" {
			args["city"] = city
		}
		if m := budgetRe.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				args["budget_per_night_inr"] = n
			}
		}
		return ToolCall{Name: ToolGetHotels, Args: args}, true
	case containsAny(text, weatherWords):
		args := map[string]any{}
		if city := extractCity(text); city != "" {
			args["city"] = city
		}
		return ToolCall{Name: ToolGetWeather, Args: args}, true
	}
	return ToolCall{}, false
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func extractCity(text string) string {
	for _, m := range cityRe.FindAllStringSubmatch(text, -1) {
		var words []string
		for _, w := range strings.Fields(m[1]) {
			if cityStop[w] {
				break
			}
			words = append(words, strings.ToUpper(w[:1])+w[1:])
		}
		city := strings.Join(words, " ")
		if len(city) >= 3 {
			return city
		}
	}
	return ""
}
