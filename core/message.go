package core

// Role identifies the author of a Message.
type Role string

const (
	// RoleSystem carries persona / system instructions.
	RoleSystem Role = "system"
	// RoleUser carries player facing prompt material.
	RoleUser Role = "user"
	// RoleAssistant carries prior model output.
	RoleAssistant Role = "assistant"
)

// Message holds role + text. Providers adapt it into their own wire format.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// SystemMessage builds a system role message.
func SystemMessage(text string) Message { return Message{Role: RoleSystem, Text: text} }

// UserMessage builds a user role message.
func UserMessage(text string) Message { return Message{Role: RoleUser, Text: text} }

// AssistantMessage builds an assistant role message.
func AssistantMessage(text string) Message { return Message{Role: RoleAssistant, Text: text} }
