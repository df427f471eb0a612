package study

import "github.com/heartmarshall/flashdeck-backend/internal/domain"

// RecordResultOutput is returned by RecordResult.
type RecordResultOutput struct {
	Log domain.StudyLog

	// Decision is set only for final reports. It tells the client what to
	// do when its deck runs out.
	Decision *domain.ReportDecision
}

// Deck is one fetched slice of the catalog.
type Deck struct {
	Cards []domain.Card

	// Total counts all cards matching the filter, ignoring chunking.
	Total int
}
