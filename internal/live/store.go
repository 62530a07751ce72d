package live

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/RenderBr/Banker/internal/models"
	"github.com/RenderBr/Banker/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Compile-time check: *Store must satisfy store.Store.
var _ store.Store = (*Store)(nil)

// Store is the live persistence variant: every save is applied to the
// in-memory state synchronously and flushed to the backing store by a single
// background goroutine. In-memory reads are always current; the backing
// store may lag briefly behind. Writes are fire-and-forget — a failed flush
// is logged once and not retried.
type Store struct {
	backing store.Store

	mu       sync.RWMutex
	accounts map[string]*models.Account
	joints   map[string]*models.JointAccount

	writes chan func(ctx context.Context) error
	done   chan struct{}
}

// NewStore loads the full record set from the backing store and starts the
// flusher. queueSize bounds the number of pending writes; a full queue
// applies backpressure to mutators.
func NewStore(ctx context.Context, backing store.Store, queueSize int) (*Store, error) {
	if queueSize <= 0 {
		queueSize = 256
	}

	s := &Store{
		backing:  backing,
		accounts: make(map[string]*models.Account),
		joints:   make(map[string]*models.JointAccount),
		writes:   make(chan func(ctx context.Context) error, queueSize),
		done:     make(chan struct{}),
	}

	accounts, err := backing.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		s.accounts[models.Key(accounts[i].Name)] = accounts[i].Clone()
	}

	joints, err := backing.ListJointAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range joints {
		s.joints[models.Key(joints[i].Name)] = joints[i].Clone()
	}

	go s.flushLoop()

	zap.L().Info("Live store initialized",
		zap.Int("accounts", len(s.accounts)),
		zap.Int("joint_accounts", len(s.joints)),
		zap.Int("queue_size", queueSize))
	return s, nil
}

// Close drains all pending writes into the backing store, then closes it.
// No store method may be called after Close.
func (s *Store) Close() {
	close(s.writes)
	<-s.done
	s.backing.Close()
}

func (s *Store) flushLoop() {
	defer close(s.done)

	// Flushes run detached from any caller's request lifetime.
	ctx := context.Background()
	for op := range s.writes {
		if err := op(ctx); err != nil {
			zap.L().Error("Live store flush failed", zap.Error(err))
		}
	}
}

func (s *Store) GetAccount(_ context.Context, name string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[models.Key(name)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return acct.Clone(), nil
}

func (s *Store) GetOrCreateAccount(_ context.Context, name string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acct, ok := s.accounts[models.Key(name)]; ok {
		return acct.Clone(), nil
	}

	now := time.Now().UTC()
	acct := &models.Account{
		Id:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.accounts[models.Key(name)] = acct.Clone()

	s.writes <- func(ctx context.Context) error {
		_, err := s.backing.GetOrCreateAccount(ctx, name)
		return err
	}
	return acct, nil
}

func (s *Store) SaveAccount(_ context.Context, acct *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.Key(acct.Name)
	if _, ok := s.accounts[key]; !ok {
		return store.ErrNotFound
	}

	saved := acct.Clone()
	saved.UpdatedAt = time.Now().UTC()
	s.accounts[key] = saved

	flush := saved.Clone()
	s.writes <- func(ctx context.Context) error {
		return s.backing.SaveAccount(ctx, flush)
	}
	return nil
}

func (s *Store) ListAccounts(_ context.Context) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]models.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		accounts = append(accounts, *acct.Clone())
	}
	sort.Slice(accounts, func(i, j int) bool {
		return models.Key(accounts[i].Name) < models.Key(accounts[j].Name)
	})
	return accounts, nil
}

func (s *Store) TopAccounts(ctx context.Context, limit int) ([]models.Account, error) {
	if limit <= 0 {
		return nil, nil
	}

	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Currency.GreaterThan(accounts[j].Currency)
	})
	if len(accounts) > limit {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

func (s *Store) GetJointAccount(_ context.Context, name string) (*models.JointAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	joint, ok := s.joints[models.Key(name)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return joint.Clone(), nil
}

func (s *Store) CreateJointAccount(_ context.Context, joint *models.JointAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.Key(joint.Name)
	if _, ok := s.joints[key]; ok {
		return store.ErrDuplicateName
	}

	if joint.Id == "" {
		joint.Id = uuid.New().String()
	}
	now := time.Now().UTC()
	joint.CreatedAt = now
	joint.UpdatedAt = now
	s.joints[key] = joint.Clone()

	flush := joint.Clone()
	s.writes <- func(ctx context.Context) error {
		return s.backing.CreateJointAccount(ctx, flush)
	}
	return nil
}

func (s *Store) SaveJointAccount(_ context.Context, joint *models.JointAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.Key(joint.Name)
	if _, ok := s.joints[key]; !ok {
		return store.ErrNotFound
	}

	saved := joint.Clone()
	saved.UpdatedAt = time.Now().UTC()
	s.joints[key] = saved

	flush := saved.Clone()
	s.writes <- func(ctx context.Context) error {
		return s.backing.SaveJointAccount(ctx, flush)
	}
	return nil
}

func (s *Store) ListJointAccounts(_ context.Context) ([]models.JointAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	joints := make([]models.JointAccount, 0, len(s.joints))
	for _, joint := range s.joints {
		joints = append(joints, *joint.Clone())
	}
	sort.Slice(joints, func(i, j int) bool {
		return models.Key(joints[i].Name) < models.Key(joints[j].Name)
	})
	return joints, nil
}
