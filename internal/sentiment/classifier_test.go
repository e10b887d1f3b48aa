package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/scalpdesk/internal/contracts"
)

func h(title, desc string) contracts.Headline {
	return contracts.Headline{Title: title, Description: desc}
}

func TestScore_Empty(t *testing.T) {
	res := Default().Score(nil)

	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, contracts.SentimentNeutral, res.Label)
	assert.Equal(t, NoNewsSummary, res.Summary)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		headlines []contracts.Headline
		wantScore float64
		wantLabel contracts.SentimentLabel
	}{
		{
			name:      "positive only",
			headlines: []contracts.Headline{h("Broker upgrade after record quarter", "")},
			// upgrade, record = +2, normalized by 2
			wantScore: 1.0,
			wantLabel: contracts.SentimentPositive,
		},
		{
			name:      "negative only",
			headlines: []contracts.Headline{h("Shares drop on fraud probe", "")},
			wantScore: -1.0,
			wantLabel: contracts.SentimentNegative,
		},
		{
			name: "mixed cancels out",
			headlines: []contracts.Headline{
				h("Rally continues", ""),
				h("Analysts see downside", "stock could drop"),
			},
			wantScore: 0.0,
			wantLabel: contracts.SentimentNeutral,
		},
		{
			name: "weak positive stays neutral",
			headlines: []contracts.Headline{
				h("Strong open", ""),
				h("Company AGM scheduled", ""),
				h("Board meets", ""),
				h("Management commentary", ""),
				h("Nothing notable", ""),
			},
			// 1/5 = 0.2 is not > 0.2
			wantScore: 0.2,
			wantLabel: contracts.SentimentNeutral,
		},
		{
			name:      "description counts",
			headlines: []contracts.Headline{h("Company update", "profit growth beats street")},
			// profit, growth, beat = +3 -> 3/3
			wantScore: 1.0,
			wantLabel: contracts.SentimentPositive,
		},
		{
			name:      "case insensitive",
			headlines: []contracts.Headline{h("SURGE IN VOLUMES", "")},
			wantScore: 1.0,
			wantLabel: contracts.SentimentPositive,
		},
	}

	c := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Score(tt.headlines)
			assert.InDelta(t, tt.wantScore, res.Score, 1e-9)
			assert.Equal(t, tt.wantLabel, res.Label)
			assert.GreaterOrEqual(t, res.Score, -1.0)
			assert.LessOrEqual(t, res.Score, 1.0)
		})
	}
}

func TestScore_Summary(t *testing.T) {
	c := Default()

	res := c.Score([]contracts.Headline{
		h("", "no title here"),
		h("First", ""),
		h("Second", ""),
		h("Third", ""),
	})
	assert.Equal(t, "First; Second", res.Summary)

	res = c.Score([]contracts.Headline{h("", "description only")})
	assert.Equal(t, FallbackSummary, res.Summary)
}

func TestScore_Deterministic(t *testing.T) {
	batch := []contracts.Headline{h("Profit surge", "record growth"), h("Penalty", "")}
	c := Default()
	assert.Equal(t, c.Score(batch), c.Score(batch))
}

func TestRisk(t *testing.T) {
	tests := []struct {
		name      string
		headlines []contracts.Headline
		want      contracts.NewsRiskFlag
	}{
		{"empty", nil, contracts.RiskNone},
		{"no match", []contracts.Headline{h("Shares trade flat", "")}, contracts.RiskNone},
		{"earnings only", []contracts.Headline{h("Earnings due next week", "")}, contracts.RiskEvent},
		{"breaking dominates earnings", []contracts.Headline{h("Breaking: earnings restated", "")}, contracts.RiskBreaking},
		{"breaking in another headline", []contracts.Headline{
			h("Q2 results ahead", ""),
			h("Exchange alert issued", ""),
		}, contracts.RiskBreaking},
		{"event in description", []contracts.Headline{h("Update", "board approves dividend")}, contracts.RiskEvent},
	}

	c := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Risk(tt.headlines))
		})
	}
}

func TestClassify(t *testing.T) {
	res, risk := Default().Classify([]contracts.Headline{h("Just in: strong growth", "")})
	assert.Equal(t, contracts.SentimentPositive, res.Label)
	assert.Equal(t, contracts.RiskBreaking, risk)
}

func TestNew_CustomLexicon(t *testing.T) {
	lex := Lexicon{Positive: []string{" Moon "}, Negative: []string{"Crash"}, Event: []string{""}}
	c := New(Config{Lexicon: lex, LabelThreshold: 0.5, SummaryTitles: 1})

	res := c.Score([]contracts.Headline{h("to the moon", ""), h("moon again", "")})
	assert.Equal(t, contracts.SentimentPositive, res.Label)
	assert.Equal(t, "to the moon", res.Summary)

	// empty keyword is dropped, not matched against everything
	assert.Equal(t, contracts.RiskNone, c.Risk([]contracts.Headline{h("anything", "")}))

	// caller mutation does not leak into the classifier
	lex.Positive[0] = "crash"
	assert.Equal(t, contracts.SentimentPositive, c.Score([]contracts.Headline{h("moon", "")}).Label)
}

func TestDescribe(t *testing.T) {
	assert.Contains(t, DescribeLabel(contracts.SentimentPositive), "appears positive")
	assert.Contains(t, DescribeLabel(""), "No clear sentiment")
	assert.Contains(t, DescribeRisk(contracts.RiskBreaking), "breaking news")
	assert.Contains(t, DescribeRisk("???"), "could not be clearly classified")
}
