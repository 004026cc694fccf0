// Package memory implementa los puertos de persistencia en memoria (desarrollo y tests).
// Cada clave (tienda, producto) tiene su propio bloqueo; no hay un bloqueo global de transacción.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// DefaultLockTimeout espera máxima por el bloqueo de una clave.
const DefaultLockTimeout = 2 * time.Second

type storedMovement struct {
	seq int64
	m   entity.StockMovement
}

// Store datos confirmados más los bloqueos por clave.
type Store struct {
	mu            sync.RWMutex
	seq           int64
	balances      map[entity.StockKey]entity.StockBalance
	movements     []storedMovement
	movementIndex map[string]int
	entries       []*entity.Entry
	sales         []*entity.Sale
	distributions []*entity.Distribution
	adjustments   []*entity.Adjustment
	stores        map[string]struct{}

	locksMu     sync.Mutex
	locks       map[entity.StockKey]chan struct{}
	lockTimeout time.Duration
}

// Option configura el Store.
type Option func(*Store)

// WithLockTimeout cambia la espera máxima por el bloqueo de una clave.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// New crea un store vacío.
func New(opts ...Option) *Store {
	s := &Store{
		balances:      make(map[entity.StockKey]entity.StockBalance),
		movementIndex: make(map[string]int),
		stores:        make(map[string]struct{}),
		locks:         make(map[entity.StockKey]chan struct{}),
		lockTimeout:   DefaultLockTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterStores da de alta tiendas en el directorio.
func (s *Store) RegisterStores(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.stores[id] = struct{}{}
	}
}

// Exists implementa repository.StoreDirectory.
func (s *Store) Exists(_ context.Context, storeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.stores[storeID]
	return ok, nil
}

// Repositories devuelve repositorios fuera de transacción: leen lo confirmado y escriben en autocommit.
func (s *Store) Repositories() repository.UnitOfWork {
	return (&session{store: s}).unitOfWork()
}

// Run implementa TxRunner. Las escrituras quedan en el estado de la transacción y se publican juntas
// solo si fn retorna nil; los bloqueos tomados se liberan siempre, también ante panic.
func (s *Store) Run(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	tx := &txState{held: make(map[entity.StockKey]chan struct{}), balances: make(map[entity.StockKey]entity.StockBalance)}
	sess := &session{store: s, tx: tx}
	defer sess.release()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(sess.unitOfWork()); err != nil {
		return err
	}
	s.commit(tx)
	return nil
}

// RunSnapshot implementa inventory.SnapshotRunner: fn lee una copia de lo confirmado tomada bajo un
// único bloqueo de lectura. Lo que fn escriba queda en la copia y se descarta.
func (s *Store) RunSnapshot(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s.clone().Repositories())
}

// clone copia los datos confirmados; los bloqueos por clave no se copian.
// Las cabeceras se comparten: los repositorios nunca modifican una cabecera ya guardada.
func (s *Store) clone() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := New(WithLockTimeout(s.lockTimeout))
	c.seq = s.seq
	maps.Copy(c.balances, s.balances)
	c.movements = slices.Clone(s.movements)
	maps.Copy(c.movementIndex, s.movementIndex)
	c.entries = slices.Clone(s.entries)
	c.sales = slices.Clone(s.sales)
	c.distributions = slices.Clone(s.distributions)
	c.adjustments = slices.Clone(s.adjustments)
	maps.Copy(c.stores, s.stores)
	return c
}

func (s *Store) lockFor(k entity.StockKey) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	ch, ok := s.locks[k]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[k] = ch
	}
	return ch
}

func (s *Store) commit(tx *txState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, b := range tx.balances {
		s.balances[k] = b
	}
	for _, m := range tx.movements {
		s.appendMovementLocked(m)
	}
	s.entries = append(s.entries, tx.entries...)
	s.sales = append(s.sales, tx.sales...)
	s.distributions = append(s.distributions, tx.distributions...)
	s.adjustments = append(s.adjustments, tx.adjustments...)
}

func (s *Store) appendMovementLocked(m entity.StockMovement) {
	s.seq++
	s.movementIndex[m.ID] = len(s.movements)
	s.movements = append(s.movements, storedMovement{seq: s.seq, m: m})
}

// txState escrituras pendientes y bloqueos de una transacción.
type txState struct {
	held          map[entity.StockKey]chan struct{}
	balances      map[entity.StockKey]entity.StockBalance
	movements     []entity.StockMovement
	entries       []*entity.Entry
	sales         []*entity.Sale
	distributions []*entity.Distribution
	adjustments   []*entity.Adjustment
}

// session es la vista que reciben los repositorios: con tx != nil escribe en el estado pendiente.
type session struct {
	store *Store
	tx    *txState
}

func (ss *session) unitOfWork() repository.UnitOfWork {
	return repository.UnitOfWork{
		Stock:         &stockRepo{ss: ss},
		Movements:     &movementRepo{ss: ss},
		Entries:       &entryRepo{ss: ss},
		Sales:         &saleRepo{ss: ss},
		Distributions: &distributionRepo{ss: ss},
		Adjustments:   &adjustmentRepo{ss: ss},
	}
}

func (ss *session) acquire(ctx context.Context, k entity.StockKey) error {
	if ss.tx == nil {
		return nil
	}
	if _, ok := ss.tx.held[k]; ok {
		return nil
	}
	ch := ss.store.lockFor(k)
	timer := time.NewTimer(ss.store.lockTimeout)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		ss.tx.held[k] = ch
		return nil
	case <-timer.C:
		return fmt.Errorf("esperando bloqueo de %s: %w", k, domain.ErrConcurrencyConflict)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (ss *session) release() {
	for k, ch := range ss.tx.held {
		<-ch
		delete(ss.tx.held, k)
	}
}

// page aplica offset y limit (0 = sin límite) sobre una lista ya ordenada.
func page[T any](list []T, limit, offset int) []T {
	offset = max(offset, 0)
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
