package domain

// ResponseKind tags a classified translator response.
type ResponseKind string

const (
	ResponseCommand ResponseKind = "command"
	ResponseAnswer  ResponseKind = "answer"
)

// Response markers the translator is asked to emit.
const (
	MarkerCommand   = "COMMAND:"
	MarkerDangerous = "DANGEROUS:"
	MarkerAnswer    = "ANSWER:"
)

// ClassifiedResponse is either a command proposal or a free-form answer.
type ClassifiedResponse struct {
	Kind      ResponseKind
	Text      string
	Dangerous bool
	// Degraded marks an answer produced because the raw text carried no usable marker.
	Degraded bool
}

// NewCommand builds a command response.
func NewCommand(text string, dangerous bool) ClassifiedResponse {
	return ClassifiedResponse{Kind: ResponseCommand, Text: text, Dangerous: dangerous}
}

// NewAnswer builds an answer response.
func NewAnswer(text string) ClassifiedResponse {
	return ClassifiedResponse{Kind: ResponseAnswer, Text: text}
}

// IsCommand reports whether the response proposes a command.
func (r ClassifiedResponse) IsCommand() bool {
	return r.Kind == ResponseCommand
}
