// Package classify turns raw translator text into a typed response.
package classify

import (
	"strings"

	"github.com/doeshing/cmdllm/internal/domain"
)

// FallbackPrefix introduces the raw text when no usable marker was found.
const FallbackPrefix = "LLM response did not follow the expected format:\n"

// Classify scans raw for the COMMAND:, DANGEROUS: and ANSWER: markers. Only the
// first line carrying each marker counts. A command wins over an answer; when
// neither yields text the raw response is returned as a degraded answer.
func Classify(raw string) domain.ClassifiedResponse {
	var (
		command, dangerous, answer          string
		haveCommand, haveDangerous, haveAns bool
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimLeft(strings.TrimRight(line, "\r"), " \t")
		switch {
		case !haveCommand && strings.HasPrefix(line, domain.MarkerCommand):
			command = strings.TrimSpace(strings.TrimPrefix(line, domain.MarkerCommand))
			haveCommand = true
		case !haveDangerous && strings.HasPrefix(line, domain.MarkerDangerous):
			dangerous = strings.TrimSpace(strings.TrimPrefix(line, domain.MarkerDangerous))
			haveDangerous = true
		case !haveAns && strings.HasPrefix(line, domain.MarkerAnswer):
			answer = strings.TrimSpace(strings.TrimPrefix(line, domain.MarkerAnswer))
			haveAns = true
		}
	}

	if command != "" {
		return domain.NewCommand(command, strings.EqualFold(dangerous, "true"))
	}
	if answer != "" {
		return domain.NewAnswer(answer)
	}
	return domain.ClassifiedResponse{
		Kind:     domain.ResponseAnswer,
		Text:     FallbackPrefix + raw,
		Degraded: true,
	}
}
