package chat

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is a single transcript entry. Immutable once appended; transcript
// order is append order.
type Message struct {
	Sender   Sender `json:"sender"`
	Content  string `json:"content"`
	Language string `json:"language,omitempty"`
}

// NewMessage builds a message, defaulting the language code to English when
// the caller has nothing better.
func NewMessage(sender Sender, content, language string) Message {
	if language == "" {
		language = DefaultLanguage
	}
	return Message{Sender: sender, Content: content, Language: language}
}
