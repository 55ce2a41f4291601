// Package node runs the destination-side agent: it dials the router hub,
// registers under its node name, and executes relayed commands locally.
package node

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/azsu/crossfwd/internal/engine"
	"github.com/azsu/crossfwd/internal/identity"
	"github.com/azsu/crossfwd/internal/wire"
)

// Config identifies this node to the hub.
type Config struct {
	HubURL  string
	Name    string
	Channel string
	Backoff BackoffConfig
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.HubURL) == "" {
		return fmt.Errorf("node: missing hub url")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("node: missing node name")
	}
	if strings.TrimSpace(c.Channel) == "" {
		return fmt.Errorf("node: missing channel id")
	}
	return nil
}

// Agent consumes relay messages for one destination.
type Agent struct {
	log       zerolog.Logger
	cfg       Config
	directory identity.Directory
	engine    engine.Submitter
}

func NewAgent(log zerolog.Logger, cfg Config, directory identity.Directory, eng engine.Submitter) *Agent {
	return &Agent{log: log, cfg: cfg, directory: directory, engine: eng}
}

// Run keeps one registration alive until the context ends, reconnecting with
// capped backoff after connection loss.
func (a *Agent) Run(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	attempt := 0
	for {
		attempt++
		conn, err := a.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			delay := NextBackoffDelay(a.cfg.Backoff, attempt, rng)
			a.log.Warn().Err(err).
				Int("attempt", attempt).
				Dur("retry_in", delay).
				Msg("hub dial failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}
		attempt = 0
		a.log.Info().Str("hub", a.cfg.HubURL).Str("node", a.cfg.Name).Msg("registered with hub")
		a.readLoop(ctx, conn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.log.Warn().Msg("hub connection lost")
	}
}

func (a *Agent) dial(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(a.cfg.HubURL)
	if err != nil {
		return nil, fmt.Errorf("node: bad hub url: %w", err)
	}
	q := u.Query()
	q.Set("node", a.cfg.Name)
	q.Set("channel", a.cfg.Channel)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (a *Agent) readLoop(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	defer func() { _ = conn.Close() }()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		a.HandleRelay(data)
	}
}

// HandleRelay processes one relay payload: decode, resolve the executor
// against the local directory, submit to the engine. Every failure ends in
// one log line and drops only that message.
func (a *Agent) HandleRelay(data []byte) {
	msg, err := wire.DecodeRelay(data)
	if err != nil {
		a.log.Warn().Err(err).Msg("malformed relay payload dropped")
		return
	}
	exec, err := identity.Resolve(a.directory, msg.ExecutorName, msg.ExecutorUUID, msg.ExecuteAsConsole)
	if err != nil {
		a.log.Warn().Err(err).
			Str("executor", msg.ExecutorName).
			Str("command", msg.Command).
			Msg("executor not resolvable, relay dropped")
		return
	}
	a.log.Info().
		Str("command", msg.Command).
		Str("executor", exec.DisplayName()).
		Msg("executing relayed command")
	fut := a.engine.Submit(exec, msg.Command)
	go a.watchExecution(msg.Command, fut)
}

func (a *Agent) watchExecution(command string, fut *engine.Future) {
	res := <-fut.Done()
	switch {
	case res.Err != nil:
		a.log.Error().Err(res.Err).Str("command", command).Msg("execution errored")
	case res.OK:
		a.log.Info().Str("command", command).Msg("execution succeeded")
	default:
		a.log.Warn().Str("command", command).Msg("execution failed")
	}
}
