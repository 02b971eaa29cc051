package subscription

// Index tracks stream ids already handled inside one reconciliation pass.
// It is created per call and never shared, so concurrent passes for
// different owners cannot interfere.
type Index struct {
	seen map[string]struct{}
}

func NewIndex() *Index {
	return &Index{seen: make(map[string]struct{})}
}

// Seen reports whether the stream id was already marked in this pass.
func (i *Index) Seen(streamID string) bool {
	_, ok := i.seen[streamID]
	return ok
}

// Mark records a stream id as processed. Callers mark only after a
// successful upsert, so a failed stream may still be retried by a later
// duplicate in the same batch.
func (i *Index) Mark(streamID string) {
	i.seen[streamID] = struct{}{}
}

// Collapse removes duplicates from a stored result set at read time.
// Records with a stream id are deduplicated on it, keeping the first
// occurrence. Records without one (legacy rows) are grouped by
// (merchant, amount); within a group the most recently created record wins,
// replacing the older one in place so output order stays deterministic.
func Collapse(subs []*Subscription) []*Subscription {
	unique := make([]*Subscription, 0, len(subs))
	seenStreamIDs := make(map[string]struct{})
	byMerchantAmount := make(map[string]int) // key -> index into unique

	for _, sub := range subs {
		if sub.StreamID != "" {
			if _, ok := seenStreamIDs[sub.StreamID]; ok {
				continue
			}
			seenStreamIDs[sub.StreamID] = struct{}{}
			unique = append(unique, sub)
			continue
		}

		key := sub.MerchantName + "_" + sub.Amount.String()
		if idx, ok := byMerchantAmount[key]; ok {
			if sub.CreatedAt.After(unique[idx].CreatedAt) {
				unique[idx] = sub
			}
			continue
		}
		byMerchantAmount[key] = len(unique)
		unique = append(unique, sub)
	}

	return unique
}
