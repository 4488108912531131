package plant

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/san-kum/tfdrive/internal/dynamo"
	"gopkg.in/yaml.v3"
)

// Kind names a Mode variant.
type Kind int

const (
	KindFirstOrder Kind = iota
	KindSecondOrder
	KindPoleZero
)

var kindNames = map[Kind]string{
	KindFirstOrder:  "first_order",
	KindSecondOrder: "second_order",
	KindPoleZero:    "pole_zero",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a mode name into a Kind. Dashes and case are ignored.
func ParseKind(value string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	switch normalized {
	case "first_order", "first":
		return KindFirstOrder, nil
	case "second_order", "second":
		return KindSecondOrder, nil
	case "pole_zero", "zero":
		return KindPoleZero, nil
	default:
		return KindFirstOrder, fmt.Errorf("%w: %q", dynamo.ErrUnknownMode, value)
	}
}

// UnmarshalYAML allows kinds to be loaded from YAML strings.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseKind(raw)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML writes the kind as its name.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Mode is the tagged variant selecting how Params are derived.
type Mode interface {
	Kind() Kind
	params() (Params, error)
}

type FirstOrder struct {
	Tau float64
}

type SecondOrder struct {
	PercentOvershoot float64
	SettlingTime     float64
}

type PoleZero struct {
	Zero float64
	Pole float64
}

func (FirstOrder) Kind() Kind  { return KindFirstOrder }
func (SecondOrder) Kind() Kind { return KindSecondOrder }
func (PoleZero) Kind() Kind    { return KindPoleZero }

// Ranges exposed to the user for each adjustable value.
const (
	MinTau, MaxTau             = 0.1, 10.0
	MinOvershoot, MaxOvershoot = 1.0, 90.0
	MinSettling, MaxSettling   = 0.5, 10.0
	MinZero, MaxZero           = 0.1, 10.0
	MinPole, MaxPole           = 0.1, 10.0
)

// Clamp pulls a mode's values into the user-facing ranges. Map does not
// clamp, so callers that accept free-form input should clamp first.
func Clamp(m Mode) Mode {
	switch v := m.(type) {
	case FirstOrder:
		return FirstOrder{Tau: lo.Clamp(v.Tau, MinTau, MaxTau)}
	case SecondOrder:
		return SecondOrder{
			PercentOvershoot: lo.Clamp(v.PercentOvershoot, MinOvershoot, MaxOvershoot),
			SettlingTime:     lo.Clamp(v.SettlingTime, MinSettling, MaxSettling),
		}
	case PoleZero:
		return PoleZero{
			Zero: lo.Clamp(v.Zero, MinZero, MaxZero),
			Pole: lo.Clamp(v.Pole, MinPole, MaxPole),
		}
	}
	return m
}
