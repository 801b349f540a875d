package artcards

import (
	"sync"

	"github.com/agentstation/artcards/pkg/catalog"
	pricesync "github.com/agentstation/artcards/pkg/sync"
)

// Hook function types for inventory events
type (
	// CatalogRefreshedHook is called after the ledgers were rebuilt from a
	// fresh catalog listing
	CatalogRefreshedHook func(items []catalog.Item)

	// BatchCompleteHook is called after every price batch was persisted
	BatchCompleteHook func(result *pricesync.BatchResult)

	// PassCompleteHook is called when a batch finished a full pass over
	// the Regular ledger
	PassCompleteHook func(result *pricesync.BatchResult)
)

// Hooks provides event callback registration.
type Hooks interface {
	OnCatalogRefreshed(fn CatalogRefreshedHook)
	OnBatchComplete(fn BatchCompleteHook)
	OnPassComplete(fn PassCompleteHook)
}

// hooks manages event callbacks
type hooks struct {
	mu                 sync.RWMutex
	onCatalogRefreshed []CatalogRefreshedHook
	onBatchComplete    []BatchCompleteHook
	onPassComplete     []PassCompleteHook
}

func newHooks() *hooks {
	return &hooks{}
}

func (h *hooks) OnCatalogRefreshed(fn CatalogRefreshedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCatalogRefreshed = append(h.onCatalogRefreshed, fn)
}

func (h *hooks) OnBatchComplete(fn BatchCompleteHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onBatchComplete = append(h.onBatchComplete, fn)
}

func (h *hooks) OnPassComplete(fn PassCompleteHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onPassComplete = append(h.onPassComplete, fn)
}

func (h *hooks) catalogRefreshed(items []catalog.Item) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onCatalogRefreshed {
		fn(items)
	}
}

// batchComplete fires the batch hooks, then the pass hooks when the batch
// ended the pass.
func (h *hooks) batchComplete(result *pricesync.BatchResult) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onBatchComplete {
		fn(result)
	}
	if !result.Completed {
		return
	}
	for _, fn := range h.onPassComplete {
		fn(result)
	}
}
