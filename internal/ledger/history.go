package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/Tanvirgit07/TK-Anii-server/internal/store"
)

const (
	KindSendMoney     = "Send Money"
	KindCashOut       = "Cash Out"
	KindCashInRequest = "Cash In Request"
)

// HistoryEntry tags a transaction record with its kind for the merged feed.
type HistoryEntry struct {
	Kind      string    `json:"type"`
	Timestamp time.Time `json:"date"`
	Record    any       `json:"record"`
}

// History merges the three transaction logs into one feed.
type History struct {
	store store.Store
}

func NewHistory(st store.Store) *History {
	return &History{store: st}
}

// AllTransactions reads every record of every kind and returns them newest
// first. Full-scan semantics are intentional; there is no pagination.
func (h *History) AllTransactions(ctx context.Context) ([]HistoryEntry, error) {
	sends, err := h.store.SendMoneyRecords(ctx)
	if err != nil {
		return nil, err
	}
	cashOuts, err := h.store.CashOutRecords(ctx)
	if err != nil {
		return nil, err
	}
	cashIns, err := h.store.CashInRequests(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(sends)+len(cashOuts)+len(cashIns))
	for i := range sends {
		entries = append(entries, HistoryEntry{KindSendMoney, sends[i].CreatedAt, sends[i]})
	}
	for i := range cashOuts {
		entries = append(entries, HistoryEntry{KindCashOut, cashOuts[i].CreatedAt, cashOuts[i]})
	}
	for i := range cashIns {
		entries = append(entries, HistoryEntry{KindCashInRequest, cashIns[i].CreatedAt, cashIns[i]})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

// CashInTransactions returns the cash-in log alone, newest first.
func (h *History) CashInTransactions(ctx context.Context) ([]HistoryEntry, error) {
	cashIns, err := h.store.CashInRequests(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]HistoryEntry, 0, len(cashIns))
	for i := range cashIns {
		entries = append(entries, HistoryEntry{KindCashInRequest, cashIns[i].CreatedAt, cashIns[i]})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}
