package domain

// ReportRecord counts community reports for one canonical number.
type ReportRecord struct {
	SpamReports  int `json:"spamReports" msgpack:"spamReports"`
	LegitReports int `json:"legitReports" msgpack:"legitReports"`
}

func (r ReportRecord) Total() int {
	return r.SpamReports + r.LegitReports
}

// HistoryEntry is one past check as shown in the recent list.
type HistoryEntry struct {
	DisplayNumber string `json:"number" msgpack:"number"`
	IsSpam        bool   `json:"isSpam" msgpack:"isSpam"`
	Timestamp     string `json:"timestamp" msgpack:"timestamp"`
	Location      string `json:"location" msgpack:"location"`
}
