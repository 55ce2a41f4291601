package router

import "github.com/azsu/crossfwd/internal/engine"

// SendOutcome is one per-destination result. Ephemeral, logging only.
type SendOutcome struct {
	Destination string
	Sent        bool
}

// BroadcastOutcome aggregates a fan-out. An empty registry reports {0,0},
// which counts as vacuous success.
type BroadcastOutcome struct {
	Success int
	Total   int
}

func (r *Router) reportSend(out SendOutcome, command string) {
	if out.Sent {
		r.log.Info().
			Str("destination", out.Destination).
			Str("command", command).
			Msg("relay sent")
		return
	}
	r.log.Warn().
		Str("destination", out.Destination).
		Str("command", command).
		Msg("relay send failed")
}

func (r *Router) reportBroadcast(agg BroadcastOutcome, command string) {
	r.log.Info().
		Int("success", agg.Success).
		Int("total", agg.Total).
		Str("command", command).
		Msg("broadcast complete")
}

// watchExecution observes one async execution and logs exactly one of three
// outcomes. An engine error is absorbed here; it never reaches Route's
// caller.
func (r *Router) watchExecution(command string, fut *engine.Future) {
	res := <-fut.Done()
	switch {
	case res.Err != nil:
		r.log.Error().Err(res.Err).Str("command", command).Msg("proxy execution errored")
	case res.OK:
		r.log.Info().Str("command", command).Msg("proxy execution succeeded")
	default:
		r.log.Warn().Str("command", command).Msg("proxy execution failed")
	}
}
