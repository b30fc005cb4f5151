package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mindnest/internal/analytics"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var ErrDisabled = errors.New("reflection disabled")

// maxEntries bounds how many recent entries go into one prompt.
const maxEntries = 10

const systemPrompt = `You are a gentle journaling companion. Based on the writer's recent journal entries and their statistics, write a short reflection.

Please include:
- Recurring themes or feelings you notice across entries
- How their mood and writing rhythm has moved lately
- One question they could explore in their next entry

Be warm and specific. Refer to the entries when you can. Do not diagnose or give medical advice. Keep it under 200 words.`

type Reflector interface {
	Reflect(ctx context.Context, summary analytics.Summary, recent []analytics.Entry) (string, error)
}

// New returns an Anthropic-backed reflector, or a disabled one when no
// API key is configured.
func New(apiKey, model string) Reflector {
	if strings.TrimSpace(apiKey) == "" {
		return Disabled{}
	}
	return &Anthropic{
		Client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		Model:   model,
		Timeout: 60 * time.Second,
	}
}

type Disabled struct{}

func (Disabled) Reflect(context.Context, analytics.Summary, []analytics.Entry) (string, error) {
	return "", ErrDisabled
}

type Anthropic struct {
	Client  anthropic.Client
	Model   string
	Timeout time.Duration
}

func (a *Anthropic) Reflect(ctx context.Context, summary analytics.Summary, recent []analytics.Entry) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	response, err := a.Client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.Model),
		MaxTokens: 600,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt, Type: "text"}},
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					{
						OfText: &anthropic.TextBlockParam{
							Text: BuildPrompt(summary, recent),
							Type: "text",
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	for _, content := range response.Content {
		if content.Type == "text" && content.Text != "" {
			return content.Text, nil
		}
	}
	return "", errors.New("anthropic: no text in response")
}

// BuildPrompt renders the statistics and up to maxEntries recent entries
// as plain text.
func BuildPrompt(summary analytics.Summary, recent []analytics.Entry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Journals: %d, words: %d, current streak: %d days, longest streak: %d days.\n",
		summary.TotalJournals, summary.TotalWords, summary.CurrentStreak, summary.LongestStreak)
	if len(summary.Moods) > 0 {
		parts := make([]string, 0, len(summary.Moods))
		for _, m := range summary.Moods {
			parts = append(parts, fmt.Sprintf("%s %d", m.Label, m.Count))
		}
		fmt.Fprintf(&b, "Top moods: %s.\n", strings.Join(parts, ", "))
	}
	if len(summary.Tags) > 0 {
		parts := make([]string, 0, len(summary.Tags))
		for _, t := range summary.Tags {
			parts = append(parts, "#"+t.Tag)
		}
		fmt.Fprintf(&b, "Top tags: %s.\n", strings.Join(parts, " "))
	}

	if len(recent) > maxEntries {
		recent = recent[:maxEntries]
	}
	if len(recent) == 0 {
		b.WriteString("\nNo entries yet.\n")
		return b.String()
	}

	b.WriteString("\nRecent entries:\n")
	for _, e := range recent {
		fmt.Fprintf(&b, "\n=== %s: %s ===\n", e.CreatedAt.Format("Monday, January 2, 2006"), e.Title)
		if e.Mood != nil && e.Mood.Label != "" {
			fmt.Fprintf(&b, "Mood: %s (%d/5)\n", e.Mood.Label, e.Mood.Intensity)
		}
		text := e.PlainText
		if strings.TrimSpace(text) == "" {
			text = analytics.StripMarkup(e.Content)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}
