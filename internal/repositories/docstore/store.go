package docstore

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/models"
	"artisans-hub-api/internal/repositories"
)

// Backend loads and persists the document between transactions.
type Backend interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
	Health(ctx context.Context) error
	Close() error
}

// Store implements repositories.Store. A single mutex serializes every
// read-modify-write cycle, so at most one writer touches the backend.
type Store struct {
	mu      sync.Mutex
	driver  string
	backend Backend
	logger  *logrus.Logger
}

// New builds a store over backend. driver is reported by Driver().
func New(driver string, backend Backend, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{
		driver:  driver,
		backend: backend,
		logger:  logger,
	}
}

// NewMemory returns a store that keeps its document in process memory.
func NewMemory(logger *logrus.Logger) *Store {
	return New(repositories.DriverMemory, &memoryBackend{doc: NewDocument()}, logger)
}

func (s *Store) Driver() string {
	return s.driver
}

// WithTransaction loads the document, runs fn on a private copy and saves
// the copy only if fn succeeds.
func (s *Store) WithTransaction(ctx context.Context, fn repositories.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}
	working := doc.Clone()

	if err := fn(ctx, &docRepositories{doc: working}); err != nil {
		return err
	}

	if err := s.backend.Save(ctx, working); err != nil {
		s.logger.WithError(err).WithField("driver", s.driver).Error("Failed to save document")
		return err
	}
	return nil
}

func (s *Store) view(ctx context.Context, fn func(r *docRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}
	return fn(&docRepositories{doc: doc})
}

func (s *Store) Sellers() repositories.SellerRepository {
	return &sellerRepository{s: s}
}

func (s *Store) Products() repositories.ProductRepository {
	return &productRepository{s: s}
}

func (s *Store) Health(ctx context.Context) error {
	return s.backend.Health(ctx)
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// sellerRepository runs each call as its own transaction.
type sellerRepository struct{ s *Store }

func (r *sellerRepository) GetByMobile(ctx context.Context, mobile string) (seller *models.Seller, err error) {
	err = r.s.view(ctx, func(d *docRepositories) error {
		seller, err = d.Sellers().GetByMobile(ctx, mobile)
		return err
	})
	return seller, err
}

func (r *sellerRepository) GetByID(ctx context.Context, id int64) (seller *models.Seller, err error) {
	err = r.s.view(ctx, func(d *docRepositories) error {
		seller, err = d.Sellers().GetByID(ctx, id)
		return err
	})
	return seller, err
}

func (r *sellerRepository) Create(ctx context.Context, seller *models.Seller) error {
	return r.s.WithTransaction(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		return repos.Sellers().Create(ctx, seller)
	})
}

func (r *sellerRepository) List(ctx context.Context) (sellers []*models.Seller, err error) {
	err = r.s.view(ctx, func(d *docRepositories) error {
		sellers, err = d.Sellers().List(ctx)
		return err
	})
	return sellers, err
}

func (r *sellerRepository) Count(ctx context.Context) (n int64, err error) {
	err = r.s.view(ctx, func(d *docRepositories) error {
		n, err = d.Sellers().Count(ctx)
		return err
	})
	return n, err
}

type productRepository struct{ s *Store }

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.s.WithTransaction(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		return repos.Products().Create(ctx, product)
	})
}

func (r *productRepository) List(ctx context.Context) (products []*models.Product, err error) {
	err = r.s.view(ctx, func(d *docRepositories) error {
		products, err = d.Products().List(ctx)
		return err
	})
	return products, err
}

func (r *productRepository) Count(ctx context.Context) (n int64, err error) {
	err = r.s.view(ctx, func(d *docRepositories) error {
		n, err = d.Products().Count(ctx)
		return err
	})
	return n, err
}

func (r *productRepository) NextID(ctx context.Context) (id int64, err error) {
	err = r.s.view(ctx, func(d *docRepositories) error {
		id, err = d.Products().NextID(ctx)
		return err
	})
	return id, err
}

// memoryBackend keeps the committed document in memory.
type memoryBackend struct {
	doc *Document
}

func (m *memoryBackend) Load(ctx context.Context) (*Document, error) {
	return m.doc, nil
}

func (m *memoryBackend) Save(ctx context.Context, doc *Document) error {
	m.doc = doc
	return nil
}

func (m *memoryBackend) Health(ctx context.Context) error { return nil }
func (m *memoryBackend) Close() error                     { return nil }

func sortSellers(sellers []*models.Seller) {
	sort.Slice(sellers, func(i, j int) bool { return sellers[i].ID < sellers[j].ID })
}
