package motion

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
)

// Command is the effect of a key press.
type Command int

const (
	CommandNone Command = iota
	CommandTurnLeft
	CommandTurnRight
	CommandRecolor
	CommandReset
	CommandAccelerate
	CommandDecelerate
)

var commandNames = [...]string{
	CommandNone:       "none",
	CommandTurnLeft:   "turn-left",
	CommandTurnRight:  "turn-right",
	CommandRecolor:    "recolor",
	CommandReset:      "reset",
	CommandAccelerate: "accelerate",
	CommandDecelerate: "decelerate",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[c]
}

// Bindings maps literal key characters to commands. Case matters.
var Bindings = map[rune]Command{
	'a': CommandTurnLeft,
	'd': CommandTurnRight,
	'c': CommandRecolor,
	'r': CommandReset,
	'w': CommandAccelerate,
	's': CommandDecelerate,
}

// ColorSource yields a 0xRRGGBB light color.
type ColorSource func() uint32

// RandomColor returns floor(u * 0xffffff) for u uniform in [0, 1).
func RandomColor() uint32 {
	return uint32(rand.Float64() * 0xffffff)
}

// HandleKey applies the binding for key and returns what it did.
// Unbound keys are ignored. While Unloaded only the recolor key acts;
// actor keys leave the state untouched.
func (s *State) HandleKey(key rune) Command {
	cmd, ok := Bindings[key]
	if !ok {
		return CommandNone
	}

	if cmd == CommandRecolor {
		if s.light == nil {
			return CommandNone
		}
		hex := s.colors()
		s.light.SetHex(hex)
		s.log.Debug("light recolored", zap.String("color", fmt.Sprintf("#%06x", hex)))
		return cmd
	}

	if s.lifecycle != Ready {
		return CommandNone
	}

	switch cmd {
	case CommandTurnLeft:
		s.actor.Yaw += s.params.YawStep
	case CommandTurnRight:
		s.actor.Yaw -= s.params.YawStep
	case CommandReset:
		s.Reset()
	case CommandAccelerate:
		s.Accel += s.params.AccelStep
	case CommandDecelerate:
		s.Accel -= s.params.AccelStep
	}

	s.log.Debug("key",
		zap.Stringer("command", cmd),
		zap.Float64("yaw", s.actor.Yaw),
		zap.Float64("accel", s.Accel),
	)
	return cmd
}
