package zeptrion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/domain/model"
)

// Command tokens understood by the hub's chctrl endpoint.
const (
	CommandOn      = "on"
	CommandOff     = "off"
	CommandDimUp   = "dim_up_200"
	CommandDimDown = "dim_down_200"
	CommandToggle  = "toggle"
)

const (
	channelDescriptionEndpoint = "/zrap/chdes"
	channelStateEndpoint       = "/zrap/chscan"
	sendCommandEndpoint        = "/zrap/chctrl"
	channelNotifyEndpoint      = "/zrap/chnotify"
	networkInfoEndpoint        = "/zrap/net"
	deviceInfoEndpoint         = "/zrap/id"
)

const defaultNotifyTimeout = time.Second

// StatusError is returned when the hub answers with a status other than
// 200 or 302.
type StatusError struct {
	Status int
	Body   string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("hub returned %d: %s", e.Status, strings.TrimSpace(e.Body))
}

// Client talks to a Zeptrion hub over its plaintext HTTP+XML protocol.
// It is stateless apart from the shared connection pool and safe for
// concurrent use.
type Client struct {
	host          string
	httpClient    *http.Client
	notifyTimeout time.Duration
	metrics       *Metrics
	logger        *slog.Logger
}

type Option func(*Client)

// WithTimeout bounds every request except the short state-change poll.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithNotifyTimeout bounds the chnotify poll issued around light commands.
func WithNotifyTimeout(d time.Duration) Option {
	return func(c *Client) { c.notifyTimeout = d }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(host string, opts ...Option) *Client {
	c := &Client{
		host: host,
		httpClient: &http.Client{
			// The hub acks some commands with a bare 302; never follow it.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		notifyTimeout: defaultNotifyTimeout,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the client's connection pool.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// ChannelDescriptions fetches and parses the hub's channel list. The result
// is empty, not an error, when the hub answers with XML we cannot parse.
func (c *Client) ChannelDescriptions(ctx context.Context, overrides map[string]string) (map[string]model.Channel, error) {
	data, err := c.request(ctx, http.MethodGet, channelDescriptionEndpoint, nil, "")
	if err != nil {
		return nil, err
	}
	return parseChannelDescriptions(data, overrides), nil
}

// NetworkInfo returns nil without an error on a malformed response.
func (c *Client) NetworkInfo(ctx context.Context) (*model.NetworkInfo, error) {
	data, err := c.request(ctx, http.MethodGet, networkInfoEndpoint, nil, "")
	if err != nil {
		return nil, err
	}
	return parseNetworkInfo(data), nil
}

// DeviceInfo returns nil without an error on a malformed response.
func (c *Client) DeviceInfo(ctx context.Context) (*model.DeviceInfo, error) {
	data, err := c.request(ctx, http.MethodGet, deviceInfoEndpoint, nil, "")
	if err != nil {
		return nil, err
	}
	return parseDeviceInfo(data), nil
}

func (c *Client) TurnLightOn(ctx context.Context, channel string) error {
	return c.switchLight(ctx, channel, CommandOn)
}

func (c *Client) TurnLightOff(ctx context.Context, channel string) error {
	return c.switchLight(ctx, channel, CommandOff)
}

// switchLight starts the hub's state-change poll before sending the command
// so the hub has converged by the time the caller re-polls, then waits for
// the poll to finish. A failed poll is not an error.
func (c *Client) switchLight(ctx context.Context, channel, command string) error {
	done := c.awaitUpdate(ctx)
	err := c.sendCommand(ctx, channel, command)
	<-done
	return err
}

func (c *Client) awaitUpdate(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.notifyTimeout)
		defer cancel()
		if _, err := c.request(ctx, http.MethodGet, channelNotifyEndpoint, nil, ""); err != nil {
			c.logger.Debug("state-change poll did not complete", "error", err)
		}
	}()
	return done
}

// LightState reports whether the channel reads on in the hub's live scan.
// Any fetch or parse problem reads as off.
func (c *Client) LightState(ctx context.Context, channel string) bool {
	data, err := c.request(ctx, http.MethodGet, channelStateEndpoint, nil, "")
	if err != nil {
		c.logger.Warn("fetching channel states", "channel", channel, "error", err)
		return false
	}
	state, ok := parseChannelState(channel, data)
	if !ok {
		return false
	}
	value, err := strconv.Atoi(state)
	if err != nil {
		c.logger.Warn("invalid state value", "channel", channel, "value", state)
		return false
	}
	return value > 0
}

func (c *Client) BlindOpen(ctx context.Context, channel string) error {
	return c.sendCommand(ctx, channel, CommandOn)
}

func (c *Client) BlindClose(ctx context.Context, channel string) error {
	return c.sendCommand(ctx, channel, CommandOff)
}

// BlindStop halts a travelling motor. The hub stops mid-travel when it
// receives the pulse opposite to the one that started the movement, so the
// stop command is the inverse of the last directional command.
func (c *Client) BlindStop(ctx context.Context, channel string, last model.CoverMovement) error {
	switch last {
	case model.MovedOpen:
		return c.BlindClose(ctx, channel)
	case model.MovedClosed:
		return c.BlindOpen(ctx, channel)
	default:
		return nil
	}
}

func (c *Client) BlindOpenTilt(ctx context.Context, channel string) error {
	return c.sendCommand(ctx, channel, CommandDimUp)
}

func (c *Client) BlindCloseTilt(ctx context.Context, channel string) error {
	return c.sendCommand(ctx, channel, CommandDimDown)
}

func (c *Client) BlindToggle(ctx context.Context, channel string) error {
	return c.sendCommand(ctx, channel, CommandToggle)
}

// WaitForChange blocks on the hub's chnotify long poll until the hub reports
// a change, its own poll window elapses, or ctx is done.
func (c *Client) WaitForChange(ctx context.Context) error {
	_, err := c.request(ctx, http.MethodGet, channelNotifyEndpoint, nil, "")
	return err
}

func (c *Client) sendCommand(ctx context.Context, channel, command string) error {
	headers := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
	_, err := c.request(ctx, http.MethodPost, sendCommandEndpoint, headers, encodeCommand(channel, command).Encode())
	return err
}

// request executes one exchange against the hub. 200 and 302 count as
// success and return the body as-is; the hub's success signalling is too
// inconsistent to validate further.
func (c *Client) request(ctx context.Context, method, endpoint string, headers map[string]string, body string) (string, error) {
	url := "http://" + c.host + endpoint
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", url, err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, err)
		return "", fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(endpoint, err)
		return "", fmt.Errorf("reading %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusFound {
		err := StatusError{Status: resp.StatusCode, Body: string(payload)}
		c.observe(endpoint, err)
		return "", err
	}

	c.observe(endpoint, nil)
	return string(payload), nil
}

func (c *Client) observe(endpoint string, err error) {
	if c.metrics != nil {
		c.metrics.observe(endpoint, err)
	}
}
