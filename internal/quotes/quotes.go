package quotes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultZenURL    = "https://api.allorigins.win/get?url=https%3A%2F%2Fzenquotes.io%2Fapi%2Frandom"
	DefaultAdviceURL = "https://api.adviceslip.com/advice"

	FallbackAuthor = "MindNest"
	AdviceAuthor   = "Daily Advice"
)

// DeepThoughts is the offline pool used whenever the upstreams fail.
var DeepThoughts = []string{
	"If your life was a book, what would the current chapter be titled?",
	"What does 'freedom' mean to you in your current stage of life?",
	"Are you being the person you needed when you were younger?",
	"Is it better to be respected or to be liked?",
	"If you could have a 30-minute conversation with your future self, what would you ask?",
	"What is the difference between living and existing?",
	"What is the one thing you would change about the world?",
	"If you could have dinner with anyone, dead or alive, who would it be?",
	"What is the most important lesson you have learned in life?",
	"What is your biggest regret?",
	"What makes you truly happy?",
	"What is your definition of success?",
	"How do you want to be remembered?",
	"What is the one thing you are most grateful for?",
	"What is the biggest risk you have ever taken?",
	"What is the best piece of advice you have ever received?",
	"What is the one thing you would tell your younger self?",
	"What is your purpose in life?",
	"What is the meaning of life?",
	"What is the one thing you would do if you knew you could not fail?",
}

var errEmpty = errors.New("empty quote")

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Source string `json:"source"`
}

type Client struct {
	HTTP      *http.Client
	ZenURL    string
	AdviceURL string
	Timeout   time.Duration

	// Intn picks the upstream and the fallback entry; nil uses math/rand.
	Intn func(n int) int
}

func New(timeout time.Duration) *Client {
	return &Client{
		HTTP:      &http.Client{},
		ZenURL:    DefaultZenURL,
		AdviceURL: DefaultAdviceURL,
		Timeout:   timeout,
	}
}

func (c *Client) intn(n int) int {
	if c.Intn != nil {
		return c.Intn(n)
	}
	return rand.IntN(n)
}

// Random asks one upstream, chosen at random, and falls back to a static
// thought on any failure. It never returns an error.
func (c *Client) Random(ctx context.Context) Quote {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		q   Quote
		err error
	)
	if c.intn(2) == 0 {
		q, err = c.zen(ctx)
	} else {
		q, err = c.advice(ctx)
	}
	if err != nil {
		return c.Fallback()
	}
	return q
}

func (c *Client) Fallback() Quote {
	return Quote{
		Text:   DeepThoughts[c.intn(len(DeepThoughts))],
		Author: FallbackAuthor,
		Source: "local",
	}
}

// zen reads zenquotes through the allorigins proxy, which wraps the
// upstream body as a JSON string under "contents".
func (c *Client) zen(ctx context.Context) (Quote, error) {
	body, err := c.get(ctx, c.ZenURL)
	if err != nil {
		return Quote{}, err
	}
	contents := gjson.GetBytes(body, "contents")
	if !contents.Exists() {
		return Quote{}, errEmpty
	}
	first := gjson.Get(contents.String(), "0")
	text := strings.TrimSpace(first.Get("q").String())
	if text == "" {
		return Quote{}, errEmpty
	}
	return Quote{Text: text, Author: strings.TrimSpace(first.Get("a").String()), Source: "zenquotes"}, nil
}

func (c *Client) advice(ctx context.Context) (Quote, error) {
	body, err := c.get(ctx, c.AdviceURL)
	if err != nil {
		return Quote{}, err
	}
	text := strings.TrimSpace(gjson.GetBytes(body, "slip.advice").String())
	if text == "" {
		return Quote{}, errEmpty
	}
	return Quote{Text: text, Author: AdviceAuthor, Source: "adviceslip"}, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 64<<10))
}
