package analytics

import (
	"sort"
	"time"

	"github.com/your-username/poke-search-api/internal/models"
)

const (
	statusSuccess = 200
	statusError   = 500
)

// DayKey buckets a timestamp by calendar day. Without the year, the same
// day of different years shares a bucket.
func DayKey(t time.Time, withYear bool) string {
	if withYear {
		return t.Format("2006/01/02")
	}
	return t.Format("01/02")
}

// LatencyByDay averages latency per day, in ascending key order
func LatencyByDay(records []models.Record, withYear bool) []models.DailyLatency {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, r := range records {
		day := DayKey(r.Timestamp, withYear)
		sums[day] += r.Latency
		counts[day]++
	}

	days := sortedKeys(counts)
	result := make([]models.DailyLatency, 0, len(days))
	for _, day := range days {
		result = append(result, models.DailyLatency{
			Day:     day,
			Average: float64(sums[day]) / float64(counts[day]),
			Count:   counts[day],
		})
	}
	return result
}

// AvailabilityByDay counts successes (200) and errors (500) per day.
// Every other status is left out of both counts.
func AvailabilityByDay(records []models.Record, withYear bool) []models.DailyAvailability {
	buckets := make(map[string]*models.DailyAvailability)
	for _, r := range records {
		day := DayKey(r.Timestamp, withYear)
		b, ok := buckets[day]
		if !ok {
			b = &models.DailyAvailability{Day: day}
			buckets[day] = b
		}
		switch r.Status {
		case statusSuccess:
			b.Success++
		case statusError:
			b.Errors++
		}
	}

	days := sortedKeys(buckets)
	result := make([]models.DailyAvailability, 0, len(days))
	for _, day := range days {
		b := buckets[day]
		b.Percentage = Percentage(b.Success, b.Errors)
		result = append(result, *b)
	}
	return result
}

// Percentage is success/(success+errors)*100, or 0 when both are zero
func Percentage(success, errors int) float64 {
	total := success + errors
	if total == 0 {
		return 0
	}
	return float64(success) / float64(total) * 100
}

// MeanLatency averages latency over all records
func MeanLatency(records []models.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0
	for _, r := range records {
		sum += r.Latency
	}
	return float64(sum) / float64(len(records))
}

// Availability computes the overall availability of records
func Availability(records []models.Record) (success, errors int, pct float64) {
	for _, r := range records {
		switch r.Status {
		case statusSuccess:
			success++
		case statusError:
			errors++
		}
	}
	return success, errors, Percentage(success, errors)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
