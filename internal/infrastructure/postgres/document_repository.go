package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.EntryRepository        = (*EntryRepo)(nil)
	_ repository.SaleRepository         = (*SaleRepo)(nil)
	_ repository.DistributionRepository = (*DistributionRepo)(nil)
	_ repository.AdjustmentRepository   = (*AdjustmentRepo)(nil)
)

// execBatch encola una sentencia por línea y las envía en un solo round-trip.
func execBatch(ctx context.Context, q Querier, op string, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	br := q.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return wrapErr(op, err)
		}
	}
	if err := br.Close(); err != nil {
		return wrapErr(op, err)
	}
	return nil
}

func documentFilter(f *sqlFilter, filter repository.DocumentFilter, storeCol, partnerCol string) {
	if filter.StoreID != "" {
		f.add(storeCol+" = $%d", filter.StoreID)
	}
	if filter.PartnerID != "" && partnerCol != "" {
		f.add(partnerCol+" = $%d", filter.PartnerID)
	}
	if filter.Status != "" {
		f.add("status = $%d", filter.Status)
	}
}

// ── Entradas ──────────────────────────────────────────────────────────────────

// EntryRepo entradas de mercancía (product_entries + product_entry_items).
type EntryRepo struct {
	q Querier
}

func NewEntryRepository(q Querier) *EntryRepo {
	return &EntryRepo{q: q}
}

const selectEntry = `
	SELECT id, store_id, supplier_id, invoice_number, status, entry_date, total_value, created_by, created_at
	FROM product_entries`

// Create persiste la cabecera y sus líneas.
func (r *EntryRepo) Create(ctx context.Context, e *entity.Entry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_entries (id, store_id, supplier_id, invoice_number, status, entry_date, total_value, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.StoreID, e.SupplierID, e.InvoiceNumber, e.Status, e.EntryDate, e.TotalValue, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return wrapErr("create entry", err)
	}
	batch := &pgx.Batch{}
	for _, it := range e.Items {
		batch.Queue(`
			INSERT INTO product_entry_items (id, entry_id, product_id, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, e.ID, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice)
	}
	return execBatch(ctx, r.q, "create entry items", batch)
}

func scanEntry(row pgx.Row) (*entity.Entry, error) {
	var e entity.Entry
	err := row.Scan(&e.ID, &e.StoreID, &e.SupplierID, &e.InvoiceNumber, &e.Status, &e.EntryDate, &e.TotalValue, &e.CreatedBy, &e.CreatedAt)
	return &e, err
}

// GetByID obtiene una entrada con sus líneas; nil si no existe.
func (r *EntryRepo) GetByID(ctx context.Context, id string) (*entity.Entry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, selectEntry+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get entry", err)
	}
	if err := r.loadItems(ctx, []*entity.Entry{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// List lista entradas (más recientes primero) con sus líneas.
func (r *EntryRepo) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Entry, error) {
	var f sqlFilter
	documentFilter(&f, filter, "store_id", "supplier_id")
	query := selectEntry + f.where() + ` ORDER BY created_at DESC, id` + f.page(filter.Limit, filter.Offset)
	rows, err := r.q.Query(ctx, query, f.args...)
	if err != nil {
		return nil, wrapErr("list entries", err)
	}
	defer rows.Close()
	list := []*entity.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, wrapErr("scan entry", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list entries", err)
	}
	rows.Close()
	return list, r.loadItems(ctx, list)
}

func (r *EntryRepo) loadItems(ctx context.Context, entries []*entity.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Entry, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		e.Items = []entity.EntryItem{}
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, entry_id, product_id, quantity, unit_price, total_price
		FROM product_entry_items WHERE entry_id = ANY($1) ORDER BY entry_id, id`, ids)
	if err != nil {
		return wrapErr("list entry items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.EntryItem
		if err := rows.Scan(&it.ID, &it.EntryID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return wrapErr("scan entry item", err)
		}
		byID[it.EntryID].Items = append(byID[it.EntryID].Items, it)
	}
	return rows.Err()
}

// ── Ventas ────────────────────────────────────────────────────────────────────

// SaleRepo ventas (sales + sale_items).
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const selectSale = `
	SELECT id, store_id, client_id, delivery_type, tracking_code, status, sale_date, predicted_delivery, delivered_at,
	       total_value, created_by, created_at
	FROM sales`

// Create persiste la cabecera y sus líneas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, store_id, client_id, delivery_type, tracking_code, status, sale_date, predicted_delivery, delivered_at,
		                   total_value, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.StoreID, s.ClientID, s.DeliveryType, s.TrackingCode, s.Status, s.SaleDate, s.PredictedDelivery, s.DeliveredAt,
		s.TotalValue, s.CreatedBy, s.CreatedAt,
	)
	if err != nil {
		return wrapErr("create sale", err)
	}
	batch := &pgx.Batch{}
	for _, it := range s.Items {
		batch.Queue(`
			INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, s.ID, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice)
	}
	return execBatch(ctx, r.q, "create sale items", batch)
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.StoreID, &s.ClientID, &s.DeliveryType, &s.TrackingCode, &s.Status, &s.SaleDate,
		&s.PredictedDelivery, &s.DeliveredAt, &s.TotalValue, &s.CreatedBy, &s.CreatedAt)
	return &s, err
}

// GetByID obtiene una venta con sus líneas; nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, selectSale+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get sale", err)
	}
	if err := r.loadItems(ctx, []*entity.Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// List lista ventas (más recientes primero) con sus líneas.
func (r *SaleRepo) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Sale, error) {
	var f sqlFilter
	documentFilter(&f, filter, "store_id", "client_id")
	query := selectSale + f.where() + ` ORDER BY created_at DESC, id` + f.page(filter.Limit, filter.Offset)
	rows, err := r.q.Query(ctx, query, f.args...)
	if err != nil {
		return nil, wrapErr("list sales", err)
	}
	defer rows.Close()
	list := []*entity.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, wrapErr("scan sale", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list sales", err)
	}
	rows.Close()
	return list, r.loadItems(ctx, list)
}

func (r *SaleRepo) loadItems(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Sale, len(sales))
	ids := make([]string, 0, len(sales))
	for _, s := range sales {
		s.Items = []entity.SaleItem{}
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, total_price
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY sale_id, id`, ids)
	if err != nil {
		return wrapErr("list sale items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return wrapErr("scan sale item", err)
		}
		byID[it.SaleID].Items = append(byID[it.SaleID].Items, it)
	}
	return rows.Err()
}

// ── Distribuciones internas ───────────────────────────────────────────────────

// DistributionRepo distribuciones internas (internal_distributions + internal_distribution_items).
type DistributionRepo struct {
	q Querier
}

func NewDistributionRepository(q Querier) *DistributionRepo {
	return &DistributionRepo{q: q}
}

const selectDistribution = `
	SELECT id, from_store_id, to_store_id, status, distribution_date, created_by, created_at
	FROM internal_distributions`

// Create persiste la cabecera y sus líneas.
func (r *DistributionRepo) Create(ctx context.Context, d *entity.Distribution) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO internal_distributions (id, from_store_id, to_store_id, status, distribution_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.FromStoreID, d.ToStoreID, d.Status, d.DistributionDate, d.CreatedBy, d.CreatedAt,
	)
	if err != nil {
		return wrapErr("create distribution", err)
	}
	batch := &pgx.Batch{}
	for _, it := range d.Items {
		batch.Queue(`
			INSERT INTO internal_distribution_items (id, distribution_id, product_id, quantity)
			VALUES ($1, $2, $3, $4)`,
			it.ID, d.ID, it.ProductID, it.Quantity)
	}
	return execBatch(ctx, r.q, "create distribution items", batch)
}

func scanDistribution(row pgx.Row) (*entity.Distribution, error) {
	var d entity.Distribution
	err := row.Scan(&d.ID, &d.FromStoreID, &d.ToStoreID, &d.Status, &d.DistributionDate, &d.CreatedBy, &d.CreatedAt)
	return &d, err
}

// GetByID obtiene una distribución con sus líneas; nil si no existe.
func (r *DistributionRepo) GetByID(ctx context.Context, id string) (*entity.Distribution, error) {
	d, err := scanDistribution(r.q.QueryRow(ctx, selectDistribution+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get distribution", err)
	}
	if err := r.loadItems(ctx, []*entity.Distribution{d}); err != nil {
		return nil, err
	}
	return d, nil
}

// List lista distribuciones (más recientes primero). StoreID filtra por tienda origen.
func (r *DistributionRepo) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Distribution, error) {
	var f sqlFilter
	documentFilter(&f, filter, "from_store_id", "")
	if filter.ToStoreID != "" {
		f.add("to_store_id = $%d", filter.ToStoreID)
	}
	query := selectDistribution + f.where() + ` ORDER BY created_at DESC, id` + f.page(filter.Limit, filter.Offset)
	rows, err := r.q.Query(ctx, query, f.args...)
	if err != nil {
		return nil, wrapErr("list distributions", err)
	}
	defer rows.Close()
	list := []*entity.Distribution{}
	for rows.Next() {
		d, err := scanDistribution(rows)
		if err != nil {
			return nil, wrapErr("scan distribution", err)
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list distributions", err)
	}
	rows.Close()
	return list, r.loadItems(ctx, list)
}

func (r *DistributionRepo) loadItems(ctx context.Context, dists []*entity.Distribution) error {
	if len(dists) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Distribution, len(dists))
	ids := make([]string, 0, len(dists))
	for _, d := range dists {
		d.Items = []entity.DistributionItem{}
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, distribution_id, product_id, quantity
		FROM internal_distribution_items WHERE distribution_id = ANY($1) ORDER BY distribution_id, id`, ids)
	if err != nil {
		return wrapErr("list distribution items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.DistributionItem
		if err := rows.Scan(&it.ID, &it.DistributionID, &it.ProductID, &it.Quantity); err != nil {
			return wrapErr("scan distribution item", err)
		}
		byID[it.DistributionID].Items = append(byID[it.DistributionID].Items, it)
	}
	return rows.Err()
}

// ── Ajustes ───────────────────────────────────────────────────────────────────

// AdjustmentRepo ajustes manuales (stock_adjustments + stock_adjustment_items).
type AdjustmentRepo struct {
	q Querier
}

func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create persiste la cabecera y sus líneas.
func (r *AdjustmentRepo) Create(ctx context.Context, a *entity.Adjustment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_adjustments (id, store_id, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.StoreID, a.Reason, a.CreatedBy, a.CreatedAt,
	)
	if err != nil {
		return wrapErr("create adjustment", err)
	}
	batch := &pgx.Batch{}
	for _, it := range a.Items {
		batch.Queue(`
			INSERT INTO stock_adjustment_items (id, adjustment_id, product_id, quantity)
			VALUES ($1, $2, $3, $4)`,
			it.ID, a.ID, it.ProductID, it.Quantity)
	}
	return execBatch(ctx, r.q, "create adjustment items", batch)
}

// GetByID obtiene un ajuste con sus líneas; nil si no existe.
func (r *AdjustmentRepo) GetByID(ctx context.Context, id string) (*entity.Adjustment, error) {
	var a entity.Adjustment
	err := r.q.QueryRow(ctx, `
		SELECT id, store_id, reason, created_by, created_at FROM stock_adjustments WHERE id = $1`, id).
		Scan(&a.ID, &a.StoreID, &a.Reason, &a.CreatedBy, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get adjustment", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, adjustment_id, product_id, quantity
		FROM stock_adjustment_items WHERE adjustment_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, wrapErr("list adjustment items", err)
	}
	defer rows.Close()
	a.Items = []entity.AdjustmentItem{}
	for rows.Next() {
		var it entity.AdjustmentItem
		if err := rows.Scan(&it.ID, &it.AdjustmentID, &it.ProductID, &it.Quantity); err != nil {
			return nil, wrapErr("scan adjustment item", err)
		}
		a.Items = append(a.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list adjustment items", err)
	}
	return &a, nil
}
