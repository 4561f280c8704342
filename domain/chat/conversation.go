package chat

import (
	"encoding/json"
	"time"
	"unicode/utf8"
)

// Role identifies who authored a message.
type Role string

// Role values.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultChatID is used for conversations that belong to no composer.
const DefaultChatID = "aiService"

// Message is one turn of a conversation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp int64     `json:"timestamp"`
	Metadata  *Document `json:"metadata,omitempty"`
}

// Length returns the content length in Unicode code points.
func (m Message) Length() int {
	return utf8.RuneCountInString(m.Content)
}

// FormattedChat is a normalized conversation ready for rendering.
// The messages are in chronological order and owned by the chat.
type FormattedChat struct {
	id       string
	created  int64
	name     string
	messages []Message
}

// NewFormattedChat creates a FormattedChat. created is in milliseconds.
func NewFormattedChat(id string, created int64, name string, messages []Message) FormattedChat {
	m := make([]Message, len(messages))
	copy(m, messages)
	return FormattedChat{
		id:       id,
		created:  created,
		name:     name,
		messages: m,
	}
}

// ID returns the conversation identifier.
func (c FormattedChat) ID() string { return c.id }

// CreatedMs returns the creation time in milliseconds.
func (c FormattedChat) CreatedMs() int64 { return c.created }

// Created returns the creation time in UTC.
func (c FormattedChat) Created() time.Time { return time.UnixMilli(c.created).UTC() }

// Name returns the conversation name, or empty.
func (c FormattedChat) Name() string { return c.name }

// Messages returns the messages in conversation order.
func (c FormattedChat) Messages() []Message {
	m := make([]Message, len(c.messages))
	copy(m, c.messages)
	return m
}

// TotalLength returns the summed length of all message contents in Unicode
// code points. Characters outside the Basic Multilingual Plane, such as most
// emoji, count once here where a UTF-16 length counts them twice, so a chat
// heavy in emoji collapses later than a UTF-16 count would suggest.
func (c FormattedChat) TotalLength() int {
	total := 0
	for _, m := range c.messages {
		total += m.Length()
	}
	return total
}

// Empty reports whether the conversation has no messages.
func (c FormattedChat) Empty() bool { return len(c.messages) == 0 }

// formattedChatJSON is the wire shape of FormattedChat.
type formattedChatJSON struct {
	ID       string    `json:"id"`
	Created  int64     `json:"created"`
	Name     string    `json:"name,omitempty"`
	Messages []Message `json:"messages"`
}

// MarshalJSON encodes the chat.
func (c FormattedChat) MarshalJSON() ([]byte, error) {
	msgs := c.messages
	if msgs == nil {
		msgs = []Message{}
	}
	return json.Marshal(formattedChatJSON{
		ID:       c.id,
		Created:  c.created,
		Name:     c.name,
		Messages: msgs,
	})
}

// UnmarshalJSON decodes a chat.
func (c *FormattedChat) UnmarshalJSON(data []byte) error {
	var v formattedChatJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = NewFormattedChat(v.ID, v.Created, v.Name, v.Messages)
	return nil
}
