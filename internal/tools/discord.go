package tools

import (
	"context"
	"fmt"
	"strings"
)

const discordResponseTruncateLen = 8000

// discordAPI only operates when the origin channel is Discord. GET is always
// allowed; POST is allowed only to /channels/{id}/messages; other methods
// are rejected.
func discordAPI(ctx context.Context, tc *Context, arg string) Result {
	if !tc.Origin.IsDiscord {
		return Result{Text: "DISCORD_API is only available from a Discord channel. Answer without this result."}
	}
	if tc.Discord == nil {
		return Result{Text: "DISCORD_API is not configured. Answer without this result."}
	}

	fields := strings.Fields(arg)
	if len(fields) < 2 {
		return Result{Text: "DISCORD_API requires a method and a path: DISCORD_API: <METHOD> <path> [json body]. Answer without this result."}
	}
	method := strings.ToUpper(fields[0])
	path := fields[1]
	body := strings.TrimSpace(strings.TrimPrefix(arg, fields[0]+" "+fields[1]))

	if method != "GET" {
		segs := strings.Split(strings.Trim(path, "/"), "/")
		isChannelMessages := len(segs) == 3 && segs[0] == "channels" && segs[1] != "" && segs[2] == "messages"
		if method != "POST" || !isChannelMessages {
			return Result{Text: fmt.Sprintf("DISCORD_API: method %s on %s is not allowed. Answer without this result.", method, path)}
		}
	}

	out, err := tc.Discord.Do(ctx, method, path, body)
	if err != nil {
		return Result{Text: fmt.Sprintf("DISCORD_API failed: %v. Answer without this result.", err)}
	}
	if len(out) > discordResponseTruncateLen {
		out = out[:discordResponseTruncateLen]
	}
	return Result{Text: out}
}
