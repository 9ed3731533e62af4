package strategy

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/quantdesk/notify"
)

var ErrInvalidParams = errors.New("invalid strategy parameters")

type Indicators struct {
	RSI       bool `json:"rsi" yaml:"rsi"`
	MACD      bool `json:"macd" yaml:"macd"`
	Bollinger bool `json:"bb" yaml:"bb"`
	Sentiment bool `json:"sentiment" yaml:"sentiment"`
}

// Params describe the strategy shown to the user. They do not influence
// the synthetic fills.
type Params struct {
	Name       string     `json:"name" yaml:"name"`
	StopLoss   float64    `json:"stop_loss" yaml:"stop_loss"`
	TakeProfit float64    `json:"take_profit" yaml:"take_profit"`
	Indicators Indicators `json:"indicators" yaml:"indicators"`
}

func DefaultParams() Params {
	return Params{
		Name:       "Momentum Alpha v1",
		StopLoss:   2.5,
		TakeProfit: 5.0,
		Indicators: Indicators{RSI: true, Bollinger: true, Sentiment: true},
	}
}

func (p Params) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidParams)
	}
	if p.StopLoss <= 0 || p.StopLoss > 100 {
		return fmt.Errorf("%w: stop loss %.2f%%", ErrInvalidParams, p.StopLoss)
	}
	if p.TakeProfit <= 0 || p.TakeProfit > 100 {
		return fmt.Errorf("%w: take profit %.2f%%", ErrInvalidParams, p.TakeProfit)
	}
	return nil
}

func (r *Runner) Params() Params {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.params
}

func (r *Runner) UpdateParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.params = p
	r.logLocked(notify.Warning, fmt.Sprintf("Updated Parameters: SL %g%%, TP %g%%", p.StopLoss, p.TakeProfit))
	sink := r.sink
	r.mu.Unlock()

	sink.Notify("Strategy Updated", "Parameters have been saved successfully.", notify.Success)
	return nil
}
