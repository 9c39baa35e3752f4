package game

import "fmt"

// BalanceError reports an inventory that does not match shots and payouts.
type BalanceError struct {
	Balls int
	Want  int
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("ball inventory %d, want %d", e.Balls, e.Want)
}
