// Package pocket turns physics collision pairs into pocket entry events.
package pocket

// Kind is the closed set of sensor pockets on the board.
type Kind int

const (
	// KindUnknown is a sensor whose label is not a known pocket. It is still routed
	// so the ball gets removed, and pays nothing.
	KindUnknown Kind = iota
	KindHeso
	KindDenchu
	KindAttacker
	KindLeftPocket
	KindRightPocket
	KindOut
)

// Sensor labels used on physics bodies.
const (
	LabelBall        = "ball"
	LabelHeso        = "heso"
	LabelDenchu      = "denchu"
	LabelAttacker    = "attacker"
	LabelLeftPocket  = "left_pocket"
	LabelRightPocket = "right_pocket"
	LabelOut         = "out"
)

var kindByLabel = map[string]Kind{
	LabelHeso:        KindHeso,
	LabelDenchu:      KindDenchu,
	LabelAttacker:    KindAttacker,
	LabelLeftPocket:  KindLeftPocket,
	LabelRightPocket: KindRightPocket,
	LabelOut:         KindOut,
}

// KindFromLabel resolves a sensor label. Unrecognized labels map to KindUnknown.
func KindFromLabel(label string) Kind {
	if k, ok := kindByLabel[label]; ok {
		return k
	}
	return KindUnknown
}

// Label is the body label for k, or "" for KindUnknown.
func (k Kind) Label() string {
	for l, kk := range kindByLabel {
		if kk == k {
			return l
		}
	}
	return ""
}

func (k Kind) String() string {
	if l := k.Label(); l != "" {
		return l
	}
	return "unknown"
}
