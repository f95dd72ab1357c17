package pvpchan

import (
	"errors"
	"time"
)

// State is the lifecycle of an open challenge.
type State string

const (
	StateOpen    State = "OPEN"
	StateClaimed State = "CLAIMED"
)

// ColorChoice is the side the creator asked for.
type ColorChoice string

const (
	ColorWhite  ColorChoice = "white"
	ColorBlack  ColorChoice = "black"
	ColorRandom ColorChoice = "random"
)

func ParseColorChoice(s string) ColorChoice {
	switch s {
	case "white", "w":
		return ColorWhite
	case "black", "b":
		return ColorBlack
	default:
		return ColorRandom
	}
}

// Challenge is stored as JSON under ch:<code>.
type Challenge struct {
	Code        string      `json:"code"`
	Room        string      `json:"room"`
	State       State       `json:"state"`
	Color       ColorChoice `json:"color"`
	CreatorID   string      `json:"creator_id"`
	CreatorName string      `json:"creator_name"`
	CreatedAt   time.Time   `json:"created_at"`
}

var (
	ErrInvalidArgs      = errors.New("invalid arguments")
	ErrNoChallenge      = errors.New("no open challenge")
	ErrChallengeExists  = errors.New("room already has an open challenge")
	ErrSelfJoin         = errors.New("cannot accept your own challenge")
	ErrNotChallenger    = errors.New("only the creator can withdraw a challenge")
	ErrChallengeClaimed = errors.New("challenge already accepted")
)
