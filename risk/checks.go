package risk

import (
	"fmt"
	"strings"
)

type Violation struct {
	Code string
	Msg  string
}

type Decision struct {
	Allowed    bool
	Violations []Violation

	DrawdownPct float64
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Reason joins the violation messages.
func (d Decision) Reason() string {
	msgs := make([]string, len(d.Violations))
	for i, v := range d.Violations {
		msgs[i] = v.Msg
	}
	return strings.Join(msgs, "; ")
}

func Evaluate(p Policy, s Snapshot) Decision {
	d := Decision{Allowed: true, DrawdownPct: s.DrawdownPct()}

	if p.MaxDrawdownPct > 0 && d.DrawdownPct >= p.MaxDrawdownPct {
		d.add("MAX_DRAWDOWN",
			fmt.Sprintf("drawdown %.2f%% reached the %.2f%% limit", d.DrawdownPct, p.MaxDrawdownPct))
	}
	return d
}
