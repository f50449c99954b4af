// internal/workers/assistant/answer-question/models.go
package answerquestion

import "wind-workers/internal/windfarm/engine"

type Input struct {
	Question   string                    `json:"question"`
	District   string                    `json:"district"`
	Parameters *engine.ProjectParameters `json:"parameters"`
	Summary    *engine.Summary           `json:"summary"`
}

type Output struct {
	Answer     string   `json:"assistantAnswer"`
	Confidence float64  `json:"assistantConfidence"`
	Sources    []string `json:"assistantSources,omitempty"`
}

type generateRequest struct {
	Prompt      string                 `json:"prompt"`
	Context     map[string]interface{} `json:"context,omitempty"`
	MaxTokens   int                    `json:"max_tokens"`
	Temperature float64                `json:"temperature"`
}

type generateResponse struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}
