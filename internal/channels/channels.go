// Package channels defines the shared wire types and interface that bind
// the chat-gateway adapters (Discord, Slack) to the channel-mode dispatcher.
// The adapters themselves are thin, mostly out-of-scope collaborators (see
// spec §1): this package only carries the shapes they exchange with the
// core.
package channels

import "context"

// ChannelConfig is the credential bundle passed to an adapter's Connect.
type ChannelConfig struct {
	Token string
}

// InboundMessage is one message observed by an adapter, normalized for the
// dispatcher regardless of origin.
type InboundMessage struct {
	ChannelType string // "discord", "slack"
	ChannelID   string
	MessageID   string
	ThreadID    string
	Text        string
	SenderID    string
	SenderName  string
	IsBot       bool
	IsDM        bool
	MentionsBot bool
	ReplyToID   string
	Raw         any
}

// OutboundMessage is a reply the dispatcher asks an adapter to deliver.
type OutboundMessage struct {
	ChannelID string
	Text      string
	ReplyToID string
	ThreadID  string
}

// Adapter is the surface a chat gateway (Discord, Slack) exposes to the rest
// of the hub: connect with credentials, accept a callback for inbound
// messages, and send outbound ones.
type Adapter interface {
	ID() string
	Connect(ctx context.Context, cfg ChannelConfig) error
	Disconnect() error
	Send(ctx context.Context, msg OutboundMessage) error
	SetHandler(fn func(InboundMessage))
}
