package lending

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBallsForYen(t *testing.T) {
	r := Standard()
	cases := []struct {
		yen, balls, change int
	}{
		{0, 0, 0},
		{-500, 0, 0},
		{999, 0, 999},
		{1000, 250, 0},
		{2500, 500, 500},
	}
	for _, c := range cases {
		balls, change := r.BallsForYen(c.yen)
		if balls != c.balls || change != c.change {
			t.Fatalf("BallsForYen(%d)=%d,%d want %d,%d", c.yen, balls, change, c.balls, c.change)
		}
	}
}

func TestYenForBalls(t *testing.T) {
	r := Standard()
	for n, want := range map[int]int{0: 0, 1: 1000, 250: 1000, 251: 2000} {
		if got := r.YenForBalls(n); got != want {
			t.Fatalf("YenForBalls(%d)=%d want %d", n, got, want)
		}
	}
}

func TestNewRate(t *testing.T) {
	if _, err := NewRate(1000, 0, 4); !errors.Is(err, ErrBadRate) {
		t.Fatalf("err=%v", err)
	}
	r, err := NewRate(500, 125, 3.57)
	if err != nil {
		t.Fatal(err)
	}
	if !r.LendPrice().Equal(decimal.NewFromInt(4)) {
		t.Fatalf("lend price=%s", r.LendPrice())
	}
	if got := r.ExchangeValue(100).String(); got != "357" {
		t.Fatalf("exchange=%s", got)
	}
}

func TestSettle(t *testing.T) {
	s := Standard().Settle(250, 1000)
	if s.Cost.String() != "1000" || s.Value.String() != "4000" || s.Net.String() != "3000" {
		t.Fatalf("settlement=%+v", s)
	}
	if s.BallRatio.String() != "4" {
		t.Fatalf("ratio=%s", s.BallRatio)
	}

	empty := Standard().Settle(0, 0)
	if !empty.BallRatio.IsZero() || !empty.Net.IsZero() {
		t.Fatalf("empty settlement=%+v", empty)
	}
}
