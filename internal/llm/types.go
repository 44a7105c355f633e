package llm

type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

type CompletionResponse struct {
	Content    string
	StopReason string
}
