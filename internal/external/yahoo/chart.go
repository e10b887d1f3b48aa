package yahoo

import (
	"errors"
	"fmt"
	"time"

	"github.com/wonny/scalpdesk/internal/contracts"
)

// chartResponse is the subset of /v8/finance/chart we read.
// Every price slot may be null.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

var errNoResult = errors.New("chart has no result")

// series converts the response into time-ordered bars.
// Bars without a close are dropped; missing OHL fall back to the close.
func (r chartResponse) series() (contracts.Series, error) {
	if r.Chart.Error != nil {
		return nil, fmt.Errorf("%s: %s", r.Chart.Error.Code, r.Chart.Error.Description)
	}
	if len(r.Chart.Result) == 0 {
		return nil, errNoResult
	}

	res := r.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return contracts.Series{}, nil
	}
	q := res.Indicators.Quote[0]

	out := make(contracts.Series, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		closePx := at(q.Close, i)
		if closePx == nil {
			continue
		}

		bar := contracts.Bar{
			Time:   time.Unix(ts, 0).UTC(),
			Close:  *closePx,
			Open:   valueOr(at(q.Open, i), *closePx),
			High:   valueOr(at(q.High, i), *closePx),
			Low:    valueOr(at(q.Low, i), *closePx),
			Volume: valueOr(at(q.Volume, i), 0),
		}
		out = append(out, bar)
	}
	return out.Sorted(), nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
