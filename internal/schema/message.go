package schema

// Message is one entry in the conversation sent to the LLM.
// Role is one of: "system", "user", "assistant".
type Message struct {
	Role    string
	Content string
}
