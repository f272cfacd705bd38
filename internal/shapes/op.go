package shapes

import "fmt"

// Op is a boolean function of two occupancy flags stored as a truth table.
// Bit (a<<1 | b) holds the result for inputs a and b.
type Op uint8

const (
	False      Op = 0b0000
	NotOr      Op = 0b0001
	OnlySecond Op = 0b0010
	NotFirst   Op = 0b0011
	OnlyFirst  Op = 0b0100
	NotSecond  Op = 0b0101
	NotSame    Op = 0b0110
	NotAnd     Op = 0b0111
	And        Op = 0b1000
	Same       Op = 0b1001
	Second     Op = 0b1010
	Causes     Op = 0b1011
	First      Op = 0b1100
	CausedBy   Op = 0b1101
	Or         Op = 0b1110
	True       Op = 0b1111
)

var opNames = [16]string{
	"false", "not_or", "only_second", "not_first",
	"only_first", "not_second", "not_same", "not_and",
	"and", "same", "second", "causes",
	"first", "caused_by", "or", "true",
}

// Ops lists the whole catalogue in truth-table order.
var Ops = [16]Op{
	False, NotOr, OnlySecond, NotFirst,
	OnlyFirst, NotSecond, NotSame, NotAnd,
	And, Same, Second, Causes,
	First, CausedBy, Or, True,
}

func (o Op) Apply(a, b bool) bool {
	i := 0
	if a {
		i |= 2
	}
	if b {
		i |= 1
	}
	return o>>i&1 == 1
}

func (o Op) String() string {
	if o > True {
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
	return opNames[o]
}

// firstOnly reports whether cells covered only by the first operand can be
// full in the result; secondOnly is the mirror.
func (o Op) firstOnly() bool  { return o.Apply(true, false) }
func (o Op) secondOnly() bool { return o.Apply(false, true) }

// mustBeBounded panics for operators that are true outside both operands;
// joining with them would describe an unbounded region.
func (o Op) mustBeBounded() {
	if o > True {
		panic(fmt.Sprintf("shapes: invalid operator %d", uint8(o)))
	}
	if o.Apply(false, false) {
		panic(fmt.Sprintf("shapes: operator %s is true outside both shapes", o))
	}
}
