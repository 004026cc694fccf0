package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.EntryRepository        = (*entryRepo)(nil)
	_ repository.SaleRepository         = (*saleRepo)(nil)
	_ repository.DistributionRepository = (*distributionRepo)(nil)
	_ repository.AdjustmentRepository   = (*adjustmentRepo)(nil)
	_ repository.StoreDirectory         = (*Store)(nil)
)

// stage agrega el documento al estado pendiente o, sin transacción, directamente a lo confirmado.
func stage[T any](ss *session, doc *T, pending *[]*T, committed *[]*T) {
	if ss.tx != nil {
		*pending = append(*pending, doc)
		return
	}
	ss.store.mu.Lock()
	defer ss.store.mu.Unlock()
	*committed = append(*committed, doc)
}

// collect une lo confirmado con lo pendiente, del más reciente al más antiguo.
func collect[T any](ss *session, committed *[]*T, pending []*T, keep func(*T) bool, createdAt func(*T) int64) []*T {
	ss.store.mu.RLock()
	all := append(slices.Clone(*committed), pending...)
	ss.store.mu.RUnlock()

	out := make([]*T, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if keep(all[i]) {
			out = append(out, all[i])
		}
	}
	slices.SortStableFunc(out, func(a, b *T) int {
		ta, tb := createdAt(a), createdAt(b)
		switch {
		case ta > tb:
			return -1
		case ta < tb:
			return 1
		}
		return 0
	})
	return out
}

func find[T any](ss *session, committed *[]*T, pending []*T, match func(*T) bool) *T {
	for _, d := range pending {
		if match(d) {
			return d
		}
	}
	ss.store.mu.RLock()
	defer ss.store.mu.RUnlock()
	for _, d := range *committed {
		if match(d) {
			return d
		}
	}
	return nil
}

// ── Entradas ──────────────────────────────────────────────────────────────────

type entryRepo struct {
	ss *session
}

func cloneEntry(e *entity.Entry) *entity.Entry {
	c := *e
	c.Items = slices.Clone(e.Items)
	return &c
}

func (r *entryRepo) pending() []*entity.Entry {
	if r.ss.tx == nil {
		return nil
	}
	return r.ss.tx.entries
}

func (r *entryRepo) Create(_ context.Context, entry *entity.Entry) error {
	var pending *[]*entity.Entry
	if r.ss.tx != nil {
		pending = &r.ss.tx.entries
	}
	stage(r.ss, cloneEntry(entry), pending, &r.ss.store.entries)
	return nil
}

func (r *entryRepo) GetByID(_ context.Context, id string) (*entity.Entry, error) {
	e := find(r.ss, &r.ss.store.entries, r.pending(), func(e *entity.Entry) bool { return e.ID == id })
	if e == nil {
		return nil, nil
	}
	return cloneEntry(e), nil
}

func (r *entryRepo) List(_ context.Context, f repository.DocumentFilter) ([]*entity.Entry, error) {
	list := collect(r.ss, &r.ss.store.entries, r.pending(), func(e *entity.Entry) bool {
		return (f.StoreID == "" || e.StoreID == f.StoreID) &&
			(f.PartnerID == "" || e.SupplierID == f.PartnerID) &&
			(f.Status == "" || e.Status == f.Status)
	}, func(e *entity.Entry) int64 { return e.CreatedAt.UnixNano() })
	out := page(list, f.Limit, f.Offset)
	for i := range out {
		out[i] = cloneEntry(out[i])
	}
	return out, nil
}

// ── Ventas ────────────────────────────────────────────────────────────────────

type saleRepo struct {
	ss *session
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Items = slices.Clone(s.Items)
	return &c
}

func (r *saleRepo) pending() []*entity.Sale {
	if r.ss.tx == nil {
		return nil
	}
	return r.ss.tx.sales
}

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	var pending *[]*entity.Sale
	if r.ss.tx != nil {
		pending = &r.ss.tx.sales
	}
	stage(r.ss, cloneSale(sale), pending, &r.ss.store.sales)
	return nil
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	s := find(r.ss, &r.ss.store.sales, r.pending(), func(s *entity.Sale) bool { return s.ID == id })
	if s == nil {
		return nil, nil
	}
	return cloneSale(s), nil
}

func (r *saleRepo) List(_ context.Context, f repository.DocumentFilter) ([]*entity.Sale, error) {
	list := collect(r.ss, &r.ss.store.sales, r.pending(), func(s *entity.Sale) bool {
		return (f.StoreID == "" || s.StoreID == f.StoreID) &&
			(f.PartnerID == "" || s.ClientID == f.PartnerID) &&
			(f.Status == "" || s.Status == f.Status)
	}, func(s *entity.Sale) int64 { return s.CreatedAt.UnixNano() })
	out := page(list, f.Limit, f.Offset)
	for i := range out {
		out[i] = cloneSale(out[i])
	}
	return out, nil
}

// ── Distribuciones internas ───────────────────────────────────────────────────

type distributionRepo struct {
	ss *session
}

func cloneDistribution(d *entity.Distribution) *entity.Distribution {
	c := *d
	c.Items = slices.Clone(d.Items)
	return &c
}

func (r *distributionRepo) pending() []*entity.Distribution {
	if r.ss.tx == nil {
		return nil
	}
	return r.ss.tx.distributions
}

func (r *distributionRepo) Create(_ context.Context, d *entity.Distribution) error {
	var pending *[]*entity.Distribution
	if r.ss.tx != nil {
		pending = &r.ss.tx.distributions
	}
	stage(r.ss, cloneDistribution(d), pending, &r.ss.store.distributions)
	return nil
}

func (r *distributionRepo) GetByID(_ context.Context, id string) (*entity.Distribution, error) {
	d := find(r.ss, &r.ss.store.distributions, r.pending(), func(d *entity.Distribution) bool { return d.ID == id })
	if d == nil {
		return nil, nil
	}
	return cloneDistribution(d), nil
}

func (r *distributionRepo) List(_ context.Context, f repository.DocumentFilter) ([]*entity.Distribution, error) {
	list := collect(r.ss, &r.ss.store.distributions, r.pending(), func(d *entity.Distribution) bool {
		return (f.StoreID == "" || d.FromStoreID == f.StoreID) &&
			(f.ToStoreID == "" || d.ToStoreID == f.ToStoreID) &&
			(f.Status == "" || d.Status == f.Status)
	}, func(d *entity.Distribution) int64 { return d.CreatedAt.UnixNano() })
	out := page(list, f.Limit, f.Offset)
	for i := range out {
		out[i] = cloneDistribution(out[i])
	}
	return out, nil
}

// ── Ajustes ───────────────────────────────────────────────────────────────────

type adjustmentRepo struct {
	ss *session
}

func cloneAdjustment(a *entity.Adjustment) *entity.Adjustment {
	c := *a
	c.Items = slices.Clone(a.Items)
	return &c
}

func (r *adjustmentRepo) Create(_ context.Context, a *entity.Adjustment) error {
	var pending *[]*entity.Adjustment
	if r.ss.tx != nil {
		pending = &r.ss.tx.adjustments
	}
	stage(r.ss, cloneAdjustment(a), pending, &r.ss.store.adjustments)
	return nil
}

func (r *adjustmentRepo) GetByID(_ context.Context, id string) (*entity.Adjustment, error) {
	var pending []*entity.Adjustment
	if r.ss.tx != nil {
		pending = r.ss.tx.adjustments
	}
	a := find(r.ss, &r.ss.store.adjustments, pending, func(a *entity.Adjustment) bool { return a.ID == id })
	if a == nil {
		return nil, nil
	}
	return cloneAdjustment(a), nil
}
