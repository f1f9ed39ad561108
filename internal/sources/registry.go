package sources

import (
	"fmt"

	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/samber/lo"
)

// Registry keeps adapters in registration order.
type Registry struct {
	adapters map[entities.SourceID]Adapter
	order    []entities.SourceID
}

func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[entities.SourceID]Adapter, len(adapters))}
	for _, adapter := range adapters {
		id := adapter.ID()
		if _, exists := r.adapters[id]; exists {
			return nil, fmt.Errorf("duplicate source id %q", id)
		}
		r.adapters[id] = adapter
		r.order = append(r.order, id)
	}
	return r, nil
}

func (r *Registry) IDs() []entities.SourceID {
	return append([]entities.SourceID(nil), r.order...)
}

func (r *Registry) Has(id entities.SourceID) bool {
	_, ok := r.adapters[id]
	return ok || id == entities.AllSources
}

// Resolve maps selected ids to adapters keeping the declared order. "all"
// expands to every registered source. Unknown ids are returned separately.
func (r *Registry) Resolve(selected []entities.SourceID) ([]Adapter, []entities.SourceID) {
	var ids []entities.SourceID
	for _, id := range selected {
		if id == entities.AllSources {
			ids = append(ids, r.order...)
		} else {
			ids = append(ids, id)
		}
	}
	ids = lo.Uniq(ids)

	var adapters []Adapter
	var unknown []entities.SourceID
	for _, id := range ids {
		if adapter, ok := r.adapters[id]; ok {
			adapters = append(adapters, adapter)
		} else {
			unknown = append(unknown, id)
		}
	}
	return adapters, unknown
}
