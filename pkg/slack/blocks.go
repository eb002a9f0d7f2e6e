package slack

// Message is the body posted to an incoming webhook
type Message struct {
	Text   string  `json:"text,omitempty"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Block is a Block Kit layout block
type Block struct {
	Type   string  `json:"type"`
	Text   *Text   `json:"text,omitempty"`
	Fields []*Text `json:"fields,omitempty"`
}

// Text is a Block Kit text object
type Text struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

func header(text string) Block {
	return Block{
		Type: "header",
		Text: &Text{Type: "plain_text", Text: text, Emoji: true},
	}
}

func section(markdown string, fields ...string) Block {
	b := Block{
		Type: "section",
		Text: mrkdwn(markdown),
	}
	for _, f := range fields {
		b.Fields = append(b.Fields, mrkdwn(f))
	}
	return b
}

func mrkdwn(text string) *Text {
	return &Text{Type: "mrkdwn", Text: text}
}
