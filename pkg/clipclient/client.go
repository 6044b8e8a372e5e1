// Package clipclient talks to a remote clipboard server. It can push text
// to the server clipboard (copy) or pull the server clipboard into the
// local clipboard (paste).
//
// Each operation is one stateless HTTP request and returns a Result. A
// Client holds no per-operation state and may be shared between
// goroutines.
package clipclient

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"srvclip/pkg/clipboard"
	"srvclip/pkg/logger"

	"github.com/carlmjohnson/requests"
	"github.com/goccy/go-json"
)

// SecretHeader carries the shared secret. It is sent on every request,
// with an empty value when no secret is configured.
const SecretHeader = "password"

// DefaultBaseURL is used when neither the caller nor the configuration
// names a server.
const DefaultBaseURL = "http://localhost:5025"

const userAgent = "srvclip"

// Endpoint is the per-session target of an operation.
type Endpoint struct {
	BaseURL string
	Secret  string
}

// Payload is the JSON body of a copy request.
type Payload struct {
	Text string `json:"text"`
}

type Options struct {
	// HTTPClient defaults to NewHTTPClient().
	HTTPClient *http.Client
	// Local receives pasted text. Defaults to the system clipboard.
	Local clipboard.Writer
	// DefaultBaseURL is used for blank Endpoint.BaseURL values.
	DefaultBaseURL string
}

type Client struct {
	httpClient     *http.Client
	local          clipboard.Writer
	defaultBaseURL string
}

// NewHTTPClient returns an http.Client without an overall timeout;
// deadlines come from the context passed to each operation.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func NewClient(opts Options) *Client {
	c := &Client{
		httpClient:     opts.HTTPClient,
		local:          opts.Local,
		defaultBaseURL: strings.TrimSpace(opts.DefaultBaseURL),
	}
	if c.httpClient == nil {
		c.httpClient = NewHTTPClient()
	}
	if c.local == nil {
		c.local = clipboard.NewSystem()
	}
	if c.defaultBaseURL == "" {
		c.defaultBaseURL = DefaultBaseURL
	}
	return c
}

// DefaultBaseURL returns the URL used when an Endpoint has none.
func (c *Client) DefaultBaseURL() string {
	return c.defaultBaseURL
}

// Copy stores text in the server clipboard.
func (c *Client) Copy(ctx context.Context, ep Endpoint, text string) Result {
	target := URLJoin(c.ResolveBaseURL(ep.BaseURL), "copy")
	result := Result{Op: OpCopy, Target: target, Bytes: len(text)}

	body, err := json.Marshal(Payload{Text: text})
	if err != nil {
		result.Outcome = OutcomeTransportFailed
		result.Err = err
		return result
	}

	rb := requests.URL(target).
		Method(http.MethodPost).
		ContentType("application/json").
		Header(SecretHeader, ep.Secret).
		BodyBytes(body)

	res, err := c.send(ctx, OpCopy, target, rb, false)
	result.StatusCode = res.statusCode
	result.StatusText = res.statusText

	switch {
	case !res.received:
		result.Outcome = OutcomeTransportFailed
		result.Err = err
	case res.statusCode != http.StatusOK:
		result.Outcome = OutcomeRejected
	default:
		result.Outcome = OutcomeSuccess
	}
	return result
}

// Paste fetches the server clipboard and writes it to the local
// clipboard. An empty server clipboard is a silent no-op (OutcomeEmpty).
func (c *Client) Paste(ctx context.Context, ep Endpoint) Result {
	target := URLJoin(c.ResolveBaseURL(ep.BaseURL), "paste")
	result := Result{Op: OpPaste, Target: target}

	rb := requests.URL(target).
		Method(http.MethodGet).
		Header(SecretHeader, ep.Secret)

	res, err := c.send(ctx, OpPaste, target, rb, true)
	result.StatusCode = res.statusCode
	result.StatusText = res.statusText

	switch {
	case !res.received:
		result.Outcome = OutcomeTransportFailed
		result.Err = err
		return result
	case res.statusCode != http.StatusOK:
		result.Outcome = OutcomeRejected
		return result
	case err != nil:
		// 200 but the body could not be read.
		result.Outcome = OutcomeTransportFailed
		result.Err = err
		return result
	}

	text := res.body
	result.Bytes = len(text)
	if text == "" {
		logger.Info().Str("url", target).Msg("server returned empty clipboard")
		result.Outcome = OutcomeEmpty
		return result
	}

	if err := c.local.WriteAll(text); err != nil {
		result.Outcome = OutcomeClipboardDenied
		result.Err = err
		result.Text = text
		return result
	}

	result.Outcome = OutcomeSuccess
	return result
}

type response struct {
	received   bool
	statusCode int
	statusText string
	body       string
}

// send performs the request. Every status is accepted: the caller decides
// what a non-200 means. received is false when no response arrived.
func (c *Client) send(ctx context.Context, op Operation, target string, rb *requests.Builder, readBody bool) (response, error) {
	var res response
	start := time.Now()

	err := rb.
		Client(c.httpClient).
		UserAgent(userAgent).
		AddValidator(func(r *http.Response) error {
			res.received = true
			res.statusCode = r.StatusCode
			res.statusText = statusText(r)
			return nil
		}).
		Handle(func(r *http.Response) error {
			if !readBody || r.StatusCode != http.StatusOK {
				return nil
			}
			b, err := io.ReadAll(r.Body)
			if err != nil {
				return err
			}
			res.body = string(b)
			return nil
		}).
		Fetch(ctx)

	event := logger.Debug()
	if err != nil {
		event = event.Err(err)
	}
	event.
		Str("op", string(op)).
		Str("url", target).
		Int("status", res.statusCode).
		Int("bytes", len(res.body)).
		Dur("elapsed", time.Since(start)).
		Msg("clipboard request finished")

	return res, err
}

func statusText(r *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(r.Status, strconv.Itoa(r.StatusCode)))
	if text == "" {
		text = http.StatusText(r.StatusCode)
	}
	return text
}
