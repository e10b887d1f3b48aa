package sentiment

import "github.com/wonny/scalpdesk/internal/contracts"

// DescribeLabel returns the dashboard sentence for a sentiment label
func DescribeLabel(label contracts.SentimentLabel) string {
	switch label {
	case contracts.SentimentPositive:
		return "Overall news sentiment for this stock appears positive based on recent headlines."
	case contracts.SentimentNegative:
		return "Overall news sentiment for this stock appears negative based on recent headlines."
	case contracts.SentimentNeutral:
		return "Overall news sentiment for this stock is neutral based on recent headlines."
	}
	return "No clear sentiment could be derived from recent news."
}

// DescribeRisk returns the dashboard sentence for a news risk flag
func DescribeRisk(flag contracts.NewsRiskFlag) string {
	switch flag {
	case contracts.RiskNone:
		return "No special news-related risk has been detected at this time."
	case contracts.RiskEvent:
		return "There is an important scheduled or structural news event around this stock " +
			"(for example earnings, policy decisions, corporate actions, or legal matters). " +
			"Price movements may be faster and more volatile."
	case contracts.RiskBreaking:
		return "There is very fresh or breaking news around this stock. " +
			"This can create sharp and unpredictable price moves. Please use extra caution."
	}
	return "News risk could not be clearly classified."
}
