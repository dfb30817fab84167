package models

import "time"

// Batch is one submission of photos plus a single comment. Immutable once
// created; the only mutation a draft allows is removing the whole batch.
type Batch struct {
	BatchID   string            `json:"batch_id"`
	ImageURLs []string          `json:"image_urls"`
	Comment   string            `json:"comment"`
	Extracted map[string]string `json:"extracted,omitempty"` // image URL -> extracted text, best effort
	CreatedAt time.Time         `json:"created_at"`
}

// Draft is the in-progress journal session: batches accumulate here until the
// user composes (or cancels). Stored in Redis as JSON with a TTL; it never
// outlives composition.
type Draft struct {
	DraftID   string    `json:"draft_id"`
	Owner     string    `json:"owner"`
	Batches   []Batch   `json:"batches"`
	CreatedAt time.Time `json:"created_at"`
}

// PhotoCount returns the total number of photos across all batches.
func (d *Draft) PhotoCount() int {
	n := 0
	for _, b := range d.Batches {
		n += len(b.ImageURLs)
	}
	return n
}
