package chat

import "fmt"

// State is the position of a session in the two-round request flow:
//
//	AwaitingInitialPrompt -> AwaitingResponse -> AwaitingClarifyingAnswer -> AwaitingResponse -> Completed
//	AwaitingInitialPrompt -> AwaitingResponse -> Completed
//
// A failed request returns AwaitingResponse to the state it came from.
// Nothing leaves Completed.
type State int

const (
	AwaitingInitialPrompt State = iota
	AwaitingResponse
	AwaitingClarifyingAnswer
	Completed
)

func (s State) String() string {
	switch s {
	case AwaitingInitialPrompt:
		return "awaiting_initial_prompt"
	case AwaitingResponse:
		return "awaiting_response"
	case AwaitingClarifyingAnswer:
		return "awaiting_clarifying_answer"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText encodes the state by name in JSON responses.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
