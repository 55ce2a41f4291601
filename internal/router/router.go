// Package router decides where and as whom a forwarded command executes.
//
// Ownership boundary:
// - target classification (all / proxy / named destination)
// - relay re-encoding from the resolved identity
// - outcome reporting (logs only, no state)
//
// The destination registry, live-session directory, command engine, and
// transport are host capabilities referenced behind narrow interfaces.
package router

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/azsu/crossfwd/internal/engine"
	"github.com/azsu/crossfwd/internal/identity"
	"github.com/azsu/crossfwd/internal/wire"
)

var ErrUnknownDestination = errors.New("router: unknown destination")

// Reserved TargetServer values, matched ignoring case.
const (
	TargetAll      = "all"
	TargetProxy    = "proxy"
	TargetVelocity = "velocity"
)

// Registry enumerates and resolves destination names. Lookup ignores case
// and returns the canonical name.
type Registry interface {
	Lookup(name string) (string, bool)
	All() []string
}

// Transport sends one opaque payload to a named destination. False means the
// payload did not go out; the router never retries.
type Transport interface {
	Send(channel, destination string, payload []byte) bool
}

// Router routes inbound ForwardRequests. It holds no per-request state, so
// concurrent Route calls need no locking.
type Router struct {
	registry  Registry
	transport Transport
	directory identity.Directory
	engine    engine.Submitter
	channel   string
	log       zerolog.Logger
}

func New(log zerolog.Logger, channel string, registry Registry, transport Transport, directory identity.Directory, eng engine.Submitter) *Router {
	return &Router{
		registry:  registry,
		transport: transport,
		directory: directory,
		engine:    eng,
		channel:   channel,
		log:       log,
	}
}

// Route resolves, classifies, and acts on one request. It returns nothing:
// every outcome, including every failure, ends in a log line. Identity
// failure aborts the whole request before any destination action.
func (r *Router) Route(req wire.ForwardRequest) {
	exec, err := identity.Resolve(r.directory, req.ExecutorName, req.ExecutorUUID, req.ExecuteAsConsole)
	if err != nil {
		r.log.Warn().Err(err).
			Str("executor", req.ExecutorName).
			Str("command", req.Command).
			Msg("executor not resolvable, request dropped")
		return
	}

	switch {
	case strings.EqualFold(req.TargetServer, TargetAll):
		r.broadcast(exec, req.Command)
	case strings.EqualFold(req.TargetServer, TargetProxy), strings.EqualFold(req.TargetServer, TargetVelocity):
		r.executeLocal(exec, req.Command)
	default:
		r.sendTargeted(exec, req.Command, req.TargetServer)
	}
}

// broadcast relays the command to every registered destination in
// enumeration order. One failing send never stops the siblings.
func (r *Router) broadcast(exec identity.Executor, command string) {
	payload, ok := r.relayPayload(exec, command)
	if !ok {
		return
	}
	agg := BroadcastOutcome{}
	for _, dest := range r.registry.All() {
		agg.Total++
		sent := r.transport.Send(r.channel, dest, payload)
		if sent {
			agg.Success++
		}
		r.reportSend(SendOutcome{Destination: dest, Sent: sent}, command)
	}
	r.reportBroadcast(agg, command)
}

// executeLocal runs the command on this process through the engine. The only
// branch that bypasses the codec entirely.
func (r *Router) executeLocal(exec identity.Executor, command string) {
	r.log.Info().
		Str("command", command).
		Str("executor", exec.DisplayName()).
		Msg("executing on proxy")
	fut := r.engine.Submit(exec, command)
	go r.watchExecution(command, fut)
}

func (r *Router) sendTargeted(exec identity.Executor, command, name string) {
	dest, ok := r.registry.Lookup(name)
	if !ok {
		r.log.Warn().
			Err(ErrUnknownDestination).
			Str("destination", name).
			Str("command", command).
			Msg("target not registered, request dropped")
		return
	}
	payload, ok := r.relayPayload(exec, command)
	if !ok {
		return
	}
	sent := r.transport.Send(r.channel, dest, payload)
	r.reportSend(SendOutcome{Destination: dest, Sent: sent}, command)
}

// relayPayload builds the destination-bound message from the resolved
// identity, not from the raw request fields.
func (r *Router) relayPayload(exec identity.Executor, command string) ([]byte, bool) {
	msg := wire.RelayMessage{Command: command}
	switch exec.Kind {
	case identity.KindPlayer:
		msg.ExecutorName = exec.Player.Name
		msg.ExecutorUUID = exec.Player.ID.String()
	default:
		msg.ExecutorName = identity.ConsoleName
		msg.ExecutorUUID = identity.ConsoleName
		msg.ExecuteAsConsole = true
	}
	payload, err := wire.EncodeRelay(msg)
	if err != nil {
		r.log.Error().Err(err).Str("command", command).Msg("relay encode failed, nothing sent")
		return nil, false
	}
	return payload, true
}
