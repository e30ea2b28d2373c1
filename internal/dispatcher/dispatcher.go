package dispatcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/raro42/hearthhub/internal/catalog"
	"github.com/raro42/hearthhub/internal/channels"
	"github.com/raro42/hearthhub/internal/llm"
	"github.com/raro42/hearthhub/internal/logging"
	"github.com/raro42/hearthhub/internal/router"
	"github.com/raro42/hearthhub/internal/tools"
)

const tickInterval = 10 * time.Second
const messageSplitLimit = 2000
const chunkPacing = 300 * time.Millisecond

// Dispatcher consults the hot-reloaded channel map to decide whether and how
// to respond to an inbound chat message, and runs the having-fun background
// loop for channels in that mode.
type Dispatcher struct {
	Config *Config
	Router *router.Router
	LLM    llm.Provider
	Catalog *catalog.Catalog
	Soul   string

	// Adapters is keyed by channels.InboundMessage.ChannelType ("discord",
	// "slack"), used to post replies and unsolicited thoughts.
	Adapters map[string]channels.Adapter

	state *stateStore
}

// New builds a Dispatcher. Adapters may be registered after construction
// via RegisterAdapter.
func New(cfg *Config, r *router.Router, provider llm.Provider, cat *catalog.Catalog, soul string) *Dispatcher {
	return &Dispatcher{
		Config:   cfg,
		Router:   r,
		LLM:      provider,
		Catalog:  cat,
		Soul:     soul,
		Adapters: map[string]channels.Adapter{},
		state:    newStateStore(),
	}
}

// RegisterAdapter wires an outbound channel so the dispatcher can post
// replies and unsolicited thoughts to it.
func (d *Dispatcher) RegisterAdapter(a channels.Adapter) {
	d.Adapters[a.ID()] = a
}

// Handle is the adapter-facing entrypoint: every inbound message from every
// connected channel is routed through here.
func (d *Dispatcher) Handle(ctx context.Context, msg channels.InboundMessage) {
	d.Config.Reload()
	entry := d.Config.Entry(msg.ChannelID)

	switch entry.Mode {
	case ModeAllMessages:
		if msg.IsBot || strings.TrimSpace(msg.Text) == "" {
			return
		}
		d.respondDirect(ctx, msg, entry)
	case ModeHavingFun:
		now := time.Now()
		if !d.state.offer(msg.ChannelID, msg, now, d.Config.Knobs()) {
			return
		}
	default: // ModeMentionOnly and unrecognized modes
		if msg.IsBot {
			return
		}
		if !msg.IsDM && !msg.MentionsBot {
			return
		}
		d.respondDirect(ctx, msg, entry)
	}
}

// respondDirect sends a message through the full agent router (plan/execute
// tool loop) for mention_only and all_messages channels, then posts the
// reply back through the originating adapter.
func (d *Dispatcher) respondDirect(ctx context.Context, msg channels.InboundMessage, entry ChannelEntry) {
	reply, err := d.Router.Answer(ctx, router.Params{
		Question: msg.Text,
		Author:   msg.SenderName,
		Origin: tools.Origin{
			ChannelKind: msg.ChannelType,
			ChannelID:   msg.ChannelID,
			IsDiscord:   msg.ChannelType == "discord",
		},
		AllowSchedule: true,
	})
	if err != nil {
		logging.Errorf("dispatcher: answer for channel %s: %v", msg.ChannelID, err)
		return
	}
	d.send(ctx, msg.ChannelType, channels.OutboundMessage{
		ChannelID: msg.ChannelID,
		Text:      reply,
		ReplyToID: msg.MessageID,
		ThreadID:  msg.ThreadID,
	})
}

// Run drives the 10-second having-fun background tick until ctx is
// cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

func (d *Dispatcher) tick(ctx context.Context) {
	now := time.Now()
	knobs := d.Config.Knobs()
	for _, channelID := range d.state.channelIDs() {
		d.tickResponse(ctx, channelID, now, knobs)
		d.tickIdleThought(ctx, channelID, now, knobs)
	}
}

func (d *Dispatcher) tickResponse(ctx context.Context, channelID string, now time.Time, knobs HavingFunKnobs) {
	st := d.state.get(channelID, now, knobs)

	d.state.mu.Lock()
	if len(st.buffer) == 0 || now.Sub(st.lastResponse) < st.nextResponseDelay {
		d.state.mu.Unlock()
		return
	}
	batch := st.buffer
	st.buffer = nil
	containsBot := false
	for _, m := range batch {
		if m.isBot {
			containsBot = true
			break
		}
	}
	d.state.mu.Unlock()

	channelType, channelPrompt := d.channelTypeOf(channelID), d.Config.Entry(channelID).Prompt
	reply, err := d.generateReply(ctx, channelPrompt, now, batch)
	if err != nil {
		logging.Errorf("dispatcher: having-fun reply for %s: %v", channelID, err)
		return
	}

	outbound := channels.OutboundMessage{ChannelID: channelID, Text: reply}
	d.send(ctx, channelType, outbound)

	d.state.mu.Lock()
	st.lastResponse = now
	st.lastResponseMsgID = lastMessageID(batch)
	st.nextResponseDelay = randomDuration(knobs.ResponseDelayMin, knobs.ResponseDelayMax)
	if containsBot {
		st.consecutiveBotReplies++
	}
	d.state.mu.Unlock()
}

func (d *Dispatcher) tickIdleThought(ctx context.Context, channelID string, now time.Time, knobs HavingFunKnobs) {
	st := d.state.get(channelID, now, knobs)

	d.state.mu.Lock()
	idleSince := now.Sub(st.lastActivity)
	quietSince := now.Sub(st.lastThought)
	due := len(st.buffer) == 0 && idleSince >= st.nextIdleThoughtDelay && quietSince >= st.nextIdleThoughtDelay
	d.state.mu.Unlock()
	if !due {
		return
	}

	channelType := d.channelTypeOf(channelID)
	thought, err := d.generateThought(ctx, d.Config.Entry(channelID).Prompt, now)
	if err != nil {
		logging.Errorf("dispatcher: idle thought for %s: %v", channelID, err)
		return
	}
	d.send(ctx, channelType, channels.OutboundMessage{ChannelID: channelID, Text: thought})

	d.state.mu.Lock()
	st.lastThought = now
	st.lastResponse = now
	st.nextIdleThoughtDelay = randomDuration(knobs.IdleThoughtMin, knobs.IdleThoughtMax)
	st.nextResponseDelay = randomDuration(knobs.ResponseDelayMin, knobs.ResponseDelayMax)
	d.state.mu.Unlock()
}

func lastMessageID(batch []bufferedMessage) string {
	if len(batch) == 0 {
		return ""
	}
	return batch[len(batch)-1].id
}

func (d *Dispatcher) generateReply(ctx context.Context, channelPrompt string, now time.Time, batch []bufferedMessage) (string, error) {
	var lines strings.Builder
	for _, m := range batch {
		fmt.Fprintf(&lines, "%s: %s\n", m.author, m.text)
	}

	system := joinNonEmpty(d.Soul, channelPrompt, timeOfDayBlock(now))
	model := d.resolveModel(ctx)
	return d.LLM.Chat(ctx, llm.ChatRequest{
		Model: model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: lines.String()},
		},
	})
}

func (d *Dispatcher) generateThought(ctx context.Context, channelPrompt string, now time.Time) (string, error) {
	system := joinNonEmpty(d.Soul, channelPrompt, timeOfDayBlock(now))
	model := d.resolveModel(ctx)
	return d.LLM.Chat(ctx, llm.ChatRequest{
		Model: model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: "Share a random thought, brief, one or two sentences."},
		},
	})
}

func (d *Dispatcher) resolveModel(ctx context.Context) string {
	if d.Catalog != nil {
		if m, ok := d.Catalog.Resolve(catalog.RoleGeneral); ok {
			return m.Name
		}
	}
	if d.LLM != nil {
		if m, err := d.LLM.DefaultModel(ctx); err == nil {
			return m
		}
	}
	return ""
}

// channelTypeOf has no reliable reverse lookup from channel id alone, since
// ids are only unique within one adapter's namespace; having-fun state is
// only ever populated by Handle, so the type is inferred from whichever
// adapter is registered (single-adapter deployments are the common case).
// With several adapters registered, an id starting with "D" goes to Slack if
// it is registered, any other id goes to Discord if it is registered, and
// otherwise an arbitrary registered adapter is used.
func (d *Dispatcher) channelTypeOf(channelID string) string {
	if len(d.Adapters) == 1 {
		for id := range d.Adapters {
			return id
		}
	}
	if strings.HasPrefix(channelID, "D") {
		if _, ok := d.Adapters["slack"]; ok {
			return "slack"
		}
	}
	if _, ok := d.Adapters["discord"]; ok {
		return "discord"
	}
	for id := range d.Adapters {
		return id
	}
	return ""
}

func (d *Dispatcher) send(ctx context.Context, channelType string, msg channels.OutboundMessage) {
	adapter, ok := d.Adapters[channelType]
	if !ok {
		logging.Warnf("dispatcher: no adapter registered for channel type %q", channelType)
		return
	}
	for _, chunk := range splitMessage(msg.Text) {
		out := msg
		out.Text = chunk
		if err := adapter.Send(ctx, out); err != nil {
			logging.Errorf("dispatcher: send to %s: %v", msg.ChannelID, err)
			return
		}
		time.Sleep(chunkPacing)
	}
}

// splitMessage breaks text exceeding messageSplitLimit characters at the
// last newline within the first messageSplitLimit characters of each
// remaining chunk.
func splitMessage(text string) []string {
	if len(text) <= messageSplitLimit {
		return []string{text}
	}

	var chunks []string
	for len(text) > messageSplitLimit {
		cut := strings.LastIndex(text[:messageSplitLimit], "\n")
		if cut <= 0 {
			cut = messageSplitLimit
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimPrefix(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
