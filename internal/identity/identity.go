// Package identity resolves executor descriptors to a console or a live
// player session.
package identity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ConsoleName is the reserved executor name and UUID token that forces
// console identity regardless of the console flag.
const ConsoleName = "CONSOLE"

var ErrUnknownExecutor = errors.New("identity: unknown executor")

type Kind int

const (
	KindConsole Kind = iota
	KindPlayer
)

// Player is a currently connected session the command can execute as.
type Player struct {
	Name string
	ID   uuid.UUID
}

// Executor is a tagged union: console or one live player. Player is zero
// unless Kind is KindPlayer.
type Executor struct {
	Kind   Kind
	Player Player
}

func Console() Executor {
	return Executor{Kind: KindConsole}
}

func AsPlayer(p Player) Executor {
	return Executor{Kind: KindPlayer, Player: p}
}

// DisplayName is the log-facing executor name.
func (e Executor) DisplayName() string {
	switch e.Kind {
	case KindPlayer:
		return e.Player.Name
	default:
		return ConsoleName
	}
}

// Directory is the read-only capability over the host's live-session
// registry.
type Directory interface {
	Lookup(id uuid.UUID) (Player, bool)
}

// Resolve maps an executor descriptor to an executable identity.
//
// Console-ness is decided before any UUID parsing: either the flag or the
// literal CONSOLE name yields the console, so a garbage UUID alongside the
// flag still resolves. An unparseable UUID otherwise collapses to
// ErrUnknownExecutor, never to console.
func Resolve(dir Directory, name, rawUUID string, asConsole bool) (Executor, error) {
	if asConsole || name == ConsoleName {
		return Console(), nil
	}
	id, err := parseExecutorUUID(rawUUID)
	if err != nil {
		return Executor{}, fmt.Errorf("%w: invalid uuid %q for %s", ErrUnknownExecutor, rawUUID, name)
	}
	player, ok := dir.Lookup(id)
	if !ok {
		return Executor{}, fmt.Errorf("%w: %s (%s) is offline", ErrUnknownExecutor, name, id)
	}
	return AsPlayer(player), nil
}

// parseExecutorUUID accepts only the canonical hyphenated form. The wider
// inputs uuid.Parse tolerates (bare 32-hex, urn:uuid: prefix, braces) are
// invalid-format on this wire.
func parseExecutorUUID(raw string) (uuid.UUID, error) {
	if len(raw) != 36 || raw[8] != '-' || raw[13] != '-' || raw[18] != '-' || raw[23] != '-' {
		return uuid.UUID{}, fmt.Errorf("identity: non-canonical uuid form %q", raw)
	}
	return uuid.Parse(raw)
}
