package dispatcher

import (
	"math/rand"
	"sync"
	"time"

	"github.com/raro42/hearthhub/internal/channels"
)

const loopGuardLimit = 5

// bufferedMessage is one message retained in a having-fun channel's buffer,
// pending the next response tick.
type bufferedMessage struct {
	id     string
	author string
	text   string
	isBot  bool
}

// channelState is the per-channel bookkeeping for the having-fun protocol.
// Every field is only ever touched under the owning stateStore's mutex.
type channelState struct {
	buffer                []bufferedMessage
	consecutiveBotReplies int

	lastActivity         time.Time
	lastResponse         time.Time
	lastResponseMsgID    string
	lastThought          time.Time
	nextResponseDelay    time.Duration
	nextIdleThoughtDelay time.Duration
}

func newChannelState(now time.Time, knobs HavingFunKnobs) *channelState {
	return &channelState{
		lastActivity:         now,
		lastResponse:         now,
		lastThought:          now,
		nextResponseDelay:    randomDuration(knobs.ResponseDelayMin, knobs.ResponseDelayMax),
		nextIdleThoughtDelay: randomDuration(knobs.IdleThoughtMin, knobs.IdleThoughtMax),
	}
}

func randomDuration(minSeconds, maxSeconds int) time.Duration {
	if maxSeconds <= minSeconds {
		return time.Duration(minSeconds) * time.Second
	}
	span := maxSeconds - minSeconds
	return time.Duration(minSeconds+rand.Intn(span+1)) * time.Second
}

// stateStore guards the having-fun state map, independent of the rest of
// the Dispatcher, matching the spec's "own mutex per shared map" model.
type stateStore struct {
	mu     sync.Mutex
	byChan map[string]*channelState
}

func newStateStore() *stateStore {
	return &stateStore{byChan: map[string]*channelState{}}
}

func (s *stateStore) get(channelID string, now time.Time, knobs HavingFunKnobs) *channelState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.byChan[channelID]
	if !ok {
		st = newChannelState(now, knobs)
		s.byChan[channelID] = st
	}
	return st
}

// offer applies the loop guard and buffers the message if accepted. Returns
// false if the message was dropped.
func (s *stateStore) offer(channelID string, msg channels.InboundMessage, now time.Time, knobs HavingFunKnobs) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.byChan[channelID]
	if !ok {
		st = newChannelState(now, knobs)
		s.byChan[channelID] = st
	}

	if msg.IsBot && st.consecutiveBotReplies >= loopGuardLimit {
		return false
	}
	if !msg.IsBot {
		st.consecutiveBotReplies = 0
	}

	st.buffer = append(st.buffer, bufferedMessage{id: msg.MessageID, author: msg.SenderName, text: msg.Text, isBot: msg.IsBot})
	st.lastActivity = now
	return true
}

// channelIDs lists every known channel id, for the background tick to range
// over without holding the lock during LLM calls.
func (s *stateStore) channelIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.byChan))
	for id := range s.byChan {
		ids = append(ids, id)
	}
	return ids
}
