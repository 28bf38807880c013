package models

// DailyLatency is the mean latency of one day bucket
type DailyLatency struct {
	Day     string  `json:"day"`
	Average float64 `json:"average_ms"`
	Count   int     `json:"count"`
}

// DailyAvailability is the success/error split of one day bucket
type DailyAvailability struct {
	Day        string  `json:"day"`
	Success    int     `json:"success"`
	Errors     int     `json:"errors"`
	Percentage float64 `json:"percentage"`
}
