package model

// ChatMessage is one turn of a member's conversation with the
// assistant.  Role is "user" or "model".
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
