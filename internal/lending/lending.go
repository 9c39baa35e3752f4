// Package lending converts between yen and balls at the hall's rates.
package lending

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Rate defines how balls are lent and exchanged back.
type Rate struct {
	YenPerUnit         int             // yen per lending unit, e.g. 1000
	BallsPerUnit       int             // balls per lending unit, e.g. 250
	ExchangeYenPerBall decimal.Decimal // prize value of one ball at the counter
}

var ErrBadRate = errors.New("lending rate must be positive")

// Standard is the 4-yen rate: 250 balls per 1000 yen, exchanged at par.
func Standard() Rate {
	return Rate{YenPerUnit: 1000, BallsPerUnit: 250, ExchangeYenPerBall: decimal.NewFromInt(4)}
}

// NewRate builds a rate from config values.
func NewRate(yenPerUnit, ballsPerUnit int, exchangeYenPerBall float64) (Rate, error) {
	if yenPerUnit <= 0 || ballsPerUnit <= 0 || exchangeYenPerBall <= 0 {
		return Rate{}, ErrBadRate
	}
	return Rate{
		YenPerUnit:         yenPerUnit,
		BallsPerUnit:       ballsPerUnit,
		ExchangeYenPerBall: decimal.NewFromFloat(exchangeYenPerBall),
	}, nil
}

// BallsForYen returns the balls lent for yen. Only whole units are lent; the
// remainder comes back as change.
func (r Rate) BallsForYen(yen int) (balls, change int) {
	if yen <= 0 || r.YenPerUnit <= 0 {
		return 0, max(yen, 0)
	}
	units := yen / r.YenPerUnit
	return units * r.BallsPerUnit, yen % r.YenPerUnit
}

// YenForBalls returns the yen needed to borrow at least n balls.
func (r Rate) YenForBalls(n int) int {
	if n <= 0 || r.BallsPerUnit <= 0 {
		return 0
	}
	units := (n + r.BallsPerUnit - 1) / r.BallsPerUnit
	return units * r.YenPerUnit
}

// LendPrice is the yen cost of one lent ball.
func (r Rate) LendPrice() decimal.Decimal {
	if r.BallsPerUnit <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(r.YenPerUnit)).Div(decimal.NewFromInt(int64(r.BallsPerUnit)))
}

// ExchangeValue is the yen paid out for balls at the counter.
func (r Rate) ExchangeValue(balls int) decimal.Decimal {
	if balls <= 0 {
		return decimal.Zero
	}
	return r.ExchangeYenPerBall.Mul(decimal.NewFromInt(int64(balls)))
}

// Settlement values a finished session.
type Settlement struct {
	StartBalls int             `json:"start_balls"`
	FinalBalls int             `json:"final_balls"`
	Cost       decimal.Decimal `json:"cost"`  // starting balls at the lending price
	Value      decimal.Decimal `json:"value"` // final balls at the exchange rate
	Net        decimal.Decimal `json:"net"`
	BallRatio  decimal.Decimal `json:"ball_ratio"` // final / start, zero when start is zero
}

// Settle values a session that started with start balls and ended with final.
func (r Rate) Settle(start, final int) Settlement {
	s := Settlement{
		StartBalls: start,
		FinalBalls: final,
		Cost:       r.LendPrice().Mul(decimal.NewFromInt(int64(max(start, 0)))).Round(2),
		Value:      r.ExchangeValue(final).Round(2),
		BallRatio:  decimal.Zero,
	}
	s.Net = s.Value.Sub(s.Cost)
	if start > 0 {
		s.BallRatio = decimal.NewFromInt(int64(final)).Div(decimal.NewFromInt(int64(start))).Round(4)
	}
	return s
}
