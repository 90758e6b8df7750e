package pageinsight

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var errSourcesExhausted = errors.New("no source returned the page")

// Sources is a ranked fetch ladder. Each Fetcher is tried in order and the
// first 2xx response wins.
type Sources []Fetcher

// DefaultSources returns the browser-like request followed by the bot
// request. opts.UserAgent, when set, replaces the bot's User-Agent.
func DefaultSources(opts ClientOptions) Sources {
	browser := opts
	browser.UserAgent = BrowserUserAgent
	browser.Accept = "text/html,application/xhtml+xml"

	bot := opts
	if bot.UserAgent == "" {
		bot.UserAgent = BotUserAgent
	}
	bot.Accept = "text/html"

	return Sources{NewHTTPClient(browser), NewHTTPClient(bot)}
}

// Fetch implements Fetcher. When every rung fails, the returned status is
// the last one seen and the error wraps the last failure.
func (s Sources) Fetch(ctx context.Context, url string) (io.ReadCloser, int, error) {
	var (
		lastStatus int
		lastErr    error
	)
	for i, f := range s {
		body, status, err := f.Fetch(ctx, url)
		if err != nil {
			lastErr = fmt.Errorf("source %d: %w", i, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if status >= 200 && status < 300 {
			return body, status, nil
		}
		_ = body.Close()
		lastStatus = status
		lastErr = fmt.Errorf("source %d: status %d", i, status)
	}

	if lastErr == nil {
		return nil, 0, errSourcesExhausted
	}
	return nil, lastStatus, fmt.Errorf("%w: %w", errSourcesExhausted, lastErr)
}
