package domain

import "time"

// Message is the payload handed to a destination. It stays chat-platform
// neutral; the concrete binding maps it onto whatever the transport needs.
type Message struct {
	Content string
	Embed   *Embed
}

// Embed is a rich-card payload: a linked title with an optional thumbnail,
// timestamp and short labelled fields.
type Embed struct {
	Title       string
	Description string
	URL         string
	Thumbnail   string
	Color       int
	Timestamp   time.Time
	Fields      []EmbedField
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}
