package llm

import "time"

// TaskType names a prompt family; each one carries its own sampling knobs.
type TaskType string

// TaskQuestionSet asks the backend for the next batch of questions.
const TaskQuestionSet TaskType = "question_set"

// TaskConfig holds per-task sampling parameters. A zero Timeout falls back
// to LLMConfig.Timeout.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// LLMConfig describes how to reach the reasoning backend.
type LLMConfig struct {
	Endpoint string
	Model    string
	Timeout  time.Duration
	LogCalls bool
	Tasks    map[TaskType]TaskConfig
}

// DefaultConfig targets a local Ollama on its standard port.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Endpoint: "http://localhost:11434",
		Model:    "llama3.2",
		Timeout:  time.Minute,
		Tasks: map[TaskType]TaskConfig{
			TaskQuestionSet: {Temperature: 0.2, MaxTokens: 4096},
		},
	}
}

// Resolve returns the effective parameters for task with the global timeout
// filled in. Unknown tasks get zero sampling values.
func (c LLMConfig) Resolve(task TaskType) TaskConfig {
	tc := c.Tasks[task]
	if tc.Timeout <= 0 {
		tc.Timeout = c.Timeout
	}
	return tc
}
