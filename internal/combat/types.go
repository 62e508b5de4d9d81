package combat

import "fmt"

// Event is one entry of a battle trace. Traces are kept per battle and only
// when requested; nothing is written to shared files.
type Event struct {
	Round   int            `json:"round"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

type Team int

const (
	Group Team = iota
	Solo
)

func (t Team) String() string {
	switch t {
	case Group:
		return "Group"
	case Solo:
		return "Solo"
	}
	return fmt.Sprintf("Team(%d)", int(t))
}

func (t Team) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Team) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Group":
		*t = Group
	case "Solo":
		*t = Solo
	default:
		return fmt.Errorf("unknown team %q", string(b))
	}
	return nil
}

type Termination string

const (
	Extinction Termination = "extinction"
	RoundCap   Termination = "round_cap"
	Stalemate  Termination = "stalemate"
)
