package ai

import (
	"context"
	"log"
	"unicode/utf8"
)

// Observer receives progress while the agent works on a question.
type Observer interface {
	OnThought(ctx context.Context, text string)
	OnToolStart(ctx context.Context, tool, input string)
	OnToolEnd(ctx context.Context, tool, output string, err error)
	OnAnswer(ctx context.Context, answer string)
}

type observers []Observer

func (o observers) OnThought(ctx context.Context, text string) {
	for _, obs := range o {
		obs.OnThought(ctx, text)
	}
}

func (o observers) OnToolStart(ctx context.Context, tool, input string) {
	for _, obs := range o {
		obs.OnToolStart(ctx, tool, input)
	}
}

func (o observers) OnToolEnd(ctx context.Context, tool, output string, err error) {
	for _, obs := range o {
		obs.OnToolEnd(ctx, tool, output, err)
	}
}

func (o observers) OnAnswer(ctx context.Context, answer string) {
	for _, obs := range o {
		obs.OnAnswer(ctx, answer)
	}
}

// LogObserver writes agent progress to the standard logger.
type LogObserver struct {
	Prefix string
}

func (l LogObserver) OnThought(_ context.Context, text string) {
	log.Printf("%sThought: %s", l.Prefix, truncate(text, 300))
}

func (l LogObserver) OnToolStart(_ context.Context, tool, input string) {
	log.Printf("%sTool %s started: %s", l.Prefix, tool, truncate(input, 300))
}

func (l LogObserver) OnToolEnd(_ context.Context, tool, output string, err error) {
	if err != nil {
		log.Printf("%sTool %s failed: %v", l.Prefix, tool, err)
		return
	}
	log.Printf("%sTool %s returned %d bytes", l.Prefix, tool, len(output))
}

func (l LogObserver) OnAnswer(_ context.Context, answer string) {
	log.Printf("%sAnswer: %s", l.Prefix, truncate(answer, 300))
}

func truncate(s string, n int) string {
	return Truncate(s, n, "...")
}

// Truncate cuts s to at most n bytes on a rune boundary and appends suffix
// when anything was removed.
func Truncate(s string, n int, suffix string) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + suffix
}
