package api

// Status is a job's lifecycle state as reported by the service.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether a job in this state will never change again.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Job is the read-only projection of a server-side job returned by each
// status poll. The job id itself is an opaque server-assigned token.
type Job struct {
	Status   Status  `json:"status"`
	Progress float64 `json:"progress,omitempty"` // fractional, 0.0-1.0
	AudioURL string  `json:"audio_url,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Health describes the service's self-reported state. When the service is
// unreachable, Status is "unavailable" and Error carries the transport error.
type Health struct {
	Status       string `json:"status"`
	Version      string `json:"version,omitempty"`
	GPUAvailable bool   `json:"gpu_available,omitempty"`
	MockMode     bool   `json:"mock_mode,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Speaker is a preset voice offered by the service.
type Speaker struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Languages   []string `json:"languages"`
}

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Model struct {
	Name   string `json:"name"`
	Loaded bool   `json:"loaded"`
}

// TokenSet is the result of encoding audio with the tokenizer.
type TokenSet struct {
	Tokens []int `json:"tokens"`
	Count  int   `json:"count"`
}
