// Package dispatcher implements the channel-mode dispatcher and the
// having-fun background loop (spec §4.6): per-channel policy for whether and
// how the hub responds to an inbound message, hot-reloaded from a config
// file polled by mtime.
package dispatcher

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/raro42/hearthhub/internal/logging"
)

// Mode is a channel's response policy.
type Mode string

const (
	ModeMentionOnly Mode = "mention_only"
	ModeAllMessages Mode = "all_messages"
	ModeHavingFun   Mode = "having_fun"
)

const (
	minKnobSeconds = 1
	maxKnobSeconds = 86400
)

// HavingFunKnobs are the four integer delay bounds shared by every
// having-fun channel.
type HavingFunKnobs struct {
	ResponseDelayMin int
	ResponseDelayMax int
	IdleThoughtMin   int
	IdleThoughtMax   int
}

func defaultKnobs() HavingFunKnobs {
	return HavingFunKnobs{ResponseDelayMin: 15, ResponseDelayMax: 90, IdleThoughtMin: 1800, IdleThoughtMax: 7200}
}

func (k HavingFunKnobs) clamp() HavingFunKnobs {
	clampOne := func(v, def int) int {
		if v <= 0 {
			return def
		}
		if v < minKnobSeconds {
			return minKnobSeconds
		}
		if v > maxKnobSeconds {
			return maxKnobSeconds
		}
		return v
	}
	d := defaultKnobs()
	return HavingFunKnobs{
		ResponseDelayMin: clampOne(k.ResponseDelayMin, d.ResponseDelayMin),
		ResponseDelayMax: clampOne(k.ResponseDelayMax, d.ResponseDelayMax),
		IdleThoughtMin:   clampOne(k.IdleThoughtMin, d.IdleThoughtMin),
		IdleThoughtMax:   clampOne(k.IdleThoughtMax, d.IdleThoughtMax),
	}
}

// ChannelEntry is one channel's resolved mode and optional prompt overlay.
type ChannelEntry struct {
	Mode   Mode
	Prompt string
}

type rawChannelEntry struct {
	Mode   string `json:"mode"`
	Prompt string `json:"prompt"`
}

// fileShape mirrors channels.json: a bare string entry means "mode only",
// an object entry carries mode and an optional prompt.
type fileShape struct {
	Default       string                     `json:"default"`
	DefaultPrompt string                     `json:"default_prompt"`
	Channels      map[string]json.RawMessage `json:"channels"`
	HavingFun     HavingFunKnobs             `json:"having_fun"`
}

// Config is the hot-reloaded channel-mode map.
type Config struct {
	path string

	mu            sync.RWMutex
	lastMod       time.Time
	defaultMode   Mode
	defaultPrompt string
	channels      map[string]ChannelEntry
	knobs         HavingFunKnobs
}

// LoadConfig binds a Config to a channels.json path and performs the first
// load; a missing file degrades to mention_only defaults rather than erroring.
func LoadConfig(path string) *Config {
	c := &Config{path: path, defaultMode: ModeMentionOnly, knobs: defaultKnobs(), channels: map[string]ChannelEntry{}}
	c.Reload()
	return c
}

// Reload re-reads the file if its mtime changed since the last load.
func (c *Config) Reload() {
	info, err := os.Stat(c.path)
	if err != nil {
		return
	}
	c.mu.RLock()
	unchanged := info.ModTime().Equal(c.lastMod)
	c.mu.RUnlock()
	if unchanged {
		return
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		logging.Warnf("dispatcher: read %s: %v", c.path, err)
		return
	}

	var raw fileShape
	if err := json.Unmarshal(data, &raw); err != nil {
		logging.Warnf("dispatcher: parse %s: %v", c.path, err)
		return
	}

	channels := make(map[string]ChannelEntry, len(raw.Channels))
	for id, v := range raw.Channels {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			channels[id] = ChannelEntry{Mode: Mode(s)}
			continue
		}
		var obj rawChannelEntry
		if err := json.Unmarshal(v, &obj); err == nil {
			channels[id] = ChannelEntry{Mode: Mode(obj.Mode), Prompt: obj.Prompt}
		}
	}

	defaultMode := ModeMentionOnly
	if raw.Default != "" {
		defaultMode = Mode(raw.Default)
	}

	c.mu.Lock()
	c.lastMod = info.ModTime()
	c.defaultMode = defaultMode
	c.defaultPrompt = raw.DefaultPrompt
	c.channels = channels
	c.knobs = raw.HavingFun.clamp()
	c.mu.Unlock()
}

// Entry resolves a channel id's effective mode and prompt, falling back to
// the file's default.
func (c *Config) Entry(channelID string) ChannelEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.channels[channelID]; ok {
		if e.Mode == "" {
			e.Mode = c.defaultMode
		}
		if e.Prompt == "" {
			e.Prompt = c.defaultPrompt
		}
		return e
	}
	return ChannelEntry{Mode: c.defaultMode, Prompt: c.defaultPrompt}
}

// Knobs returns the current having-fun delay bounds.
func (c *Config) Knobs() HavingFunKnobs {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.knobs
}

func (e ChannelEntry) String() string {
	return fmt.Sprintf("%s(%q)", e.Mode, e.Prompt)
}
