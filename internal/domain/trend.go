package domain

// Trend aggregates are precomputed by an upstream analytics job and held by
// the record store; the service serves them as-is. Live rollups derived from
// the review collection are exposed separately (see app.ChannelRollup).
type Trend struct {
	MonthlyStats       []MonthlyStat `json:"monthlyStats"`
	CommonIssues       []CommonIssue `json:"commonIssues"`
	ChannelPerformance []ChannelStat `json:"channelPerformance"`
}

type MonthlyStat struct {
	Month         string  `json:"month"`
	TotalReviews  int     `json:"totalReviews"`
	AverageRating float64 `json:"averageRating"`
	ApprovalRate  float64 `json:"approvalRate"`
}

type CommonIssue struct {
	Issue      string  `json:"issue"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ChannelStat struct {
	Channel       string  `json:"channel"`
	TotalReviews  int     `json:"totalReviews"`
	AverageRating float64 `json:"averageRating"`
	ApprovalRate  float64 `json:"approvalRate"`
}
