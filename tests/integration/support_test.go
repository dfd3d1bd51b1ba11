package integration

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	confirmationapp "github.com/coopfin/backend/internal/application/confirmation"
	memberapp "github.com/coopfin/backend/internal/application/member"
	transactionapp "github.com/coopfin/backend/internal/application/transaction"
	"github.com/coopfin/backend/internal/domain/member"
	"github.com/coopfin/backend/internal/domain/payment"
	"github.com/coopfin/backend/internal/domain/shared"
	"github.com/coopfin/backend/internal/domain/transaction"
	"github.com/coopfin/backend/internal/infrastructure/auth"
	"github.com/coopfin/backend/internal/infrastructure/cache"
	"github.com/coopfin/backend/internal/interfaces/http/handler"
	"github.com/coopfin/backend/internal/interfaces/http/middleware"
	"github.com/coopfin/backend/internal/interfaces/http/router"
	"github.com/coopfin/backend/tests/testutil"
)

// memoryMemberRepo is an in-memory member.Repository for full-stack tests.
type memoryMemberRepo struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*member.Member
	byNum map[string]uuid.UUID
}

func newMemoryMemberRepo() *memoryMemberRepo {
	return &memoryMemberRepo{
		byID:  make(map[uuid.UUID]*member.Member),
		byNum: make(map[string]uuid.UUID),
	}
}

func (r *memoryMemberRepo) Create(_ context.Context, m *member.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[m.ID] = m
	r.byNum[m.MemberNumber] = m.ID
	return nil
}

func (r *memoryMemberRepo) FindByID(_ context.Context, id uuid.UUID) (*member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return m, nil
}

func (r *memoryMemberRepo) FindByNumber(_ context.Context, memberNumber string) (*member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byNum[memberNumber]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *memoryMemberRepo) List(_ context.Context, filter member.Filter) ([]*member.Member, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*member.Member
	for _, m := range r.byID {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *memoryMemberRepo) Save(_ context.Context, m *member.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[m.ID]; !ok {
		return shared.ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *memoryMemberRepo) UpdateBalance(_ context.Context, id uuid.UUID, kind member.AccountKind, delta decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	if delta.IsNegative() {
		if m.Balance(kind).Add(delta).IsNegative() {
			return member.ErrInsufficientFunds
		}
		return m.Debit(kind, delta.Neg())
	}
	return m.Credit(kind, delta)
}

var _ member.Repository = (*memoryMemberRepo)(nil)

// memoryTransactionRepo is an in-memory transaction.Repository.
type memoryTransactionRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*transaction.Transaction
}

func newMemoryTransactionRepo() *memoryTransactionRepo {
	return &memoryTransactionRepo{byID: make(map[uuid.UUID]*transaction.Transaction)}
}

func (r *memoryTransactionRepo) Create(_ context.Context, t *transaction.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[t.ID] = t
	return nil
}

func (r *memoryTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (r *memoryTransactionRepo) FindByMember(_ context.Context, memberID uuid.UUID, filter transaction.Filter) ([]*transaction.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*transaction.Transaction
	for _, t := range r.byID {
		if t.MemberID != memberID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *memoryTransactionRepo) Save(_ context.Context, t *transaction.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; !ok {
		return shared.ErrNotFound
	}
	r.byID[t.ID] = t
	return nil
}

// status returns the stored status for a transaction.
func (r *memoryTransactionRepo) status(id uuid.UUID) transaction.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byID[id]; ok {
		return t.Status
	}
	return ""
}

var _ transaction.Repository = (*memoryTransactionRepo)(nil)

// scriptedGateway plays back a fixed sequence of status responses for any
// confirmation session it opens.
type scriptedGateway struct {
	mu       sync.Mutex
	handle   string
	statuses []*payment.StatusResponse
}

func newScriptedGateway(handle string, statuses ...*payment.StatusResponse) *scriptedGateway {
	return &scriptedGateway{handle: handle, statuses: statuses}
}

func (g *scriptedGateway) RequestToPay(_ context.Context, _ *payment.ChargeRequest) (*payment.ChargeResponse, error) {
	return &payment.ChargeResponse{
		SessionHandle: g.handle,
		Status:        "ACCEPTED",
	}, nil
}

func (g *scriptedGateway) CheckStatus(_ context.Context, _ string) (*payment.StatusResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.statuses) == 0 {
		return &payment.StatusResponse{Outcome: payment.PollOutcomePending, RawStatus: "PENDING"}, nil
	}
	next := g.statuses[0]
	if len(g.statuses) > 1 {
		g.statuses = g.statuses[1:]
	}
	return next, nil
}

var _ payment.PushGateway = (*scriptedGateway)(nil)

// stack is a fully wired HTTP stack over in-memory infrastructure.
type stack struct {
	engine       *gin.Engine
	jwt          *auth.JWTService
	members      *memoryMemberRepo
	transactions *memoryTransactionRepo
	controller   *confirmationapp.Controller
	hub          *handler.NotificationHub
	invalidator  *cache.MemoryViewInvalidator
}

// newStack wires the service the way cmd/server does, with in-memory
// repositories and the given gateway. Poll interval is kept short so
// confirmation outcomes resolve within the test.
func newStack(t *testing.T, gateway payment.PushGateway) *stack {
	t.Helper()

	members := newMemoryMemberRepo()
	transactions := newMemoryTransactionRepo()
	invalidator := cache.NewMemoryViewInvalidator()
	jwtService := testutil.NewTestJWTService()

	hub := handler.NewNotificationHub(zap.NewNop())
	notifier := confirmationapp.NewSettlementNotifier(confirmationapp.SettlementConfig{
		Members:      members,
		Transactions: transactions,
		Next:         hub,
	})
	controller := confirmationapp.NewController(confirmationapp.ControllerConfig{
		Gateway:     gateway,
		Invalidator: invalidator,
		Notifier:    notifier,
	})

	submissions := transactionapp.NewSubmissionService(transactionapp.SubmissionServiceConfig{
		Members:      members,
		Transactions: transactions,
		Gateway:      gateway,
		Config: transactionapp.SubmissionConfig{
			AttemptLimit: 5,
			PollInterval: 10 * time.Millisecond,
			Currency:     "KES",
		},
	})
	memberService := memberapp.NewService(memberapp.ServiceConfig{Members: members})

	memberHandler := handler.NewMemberHandler(memberService, transactions)
	transactionHandler := handler.NewTransactionHandler(handler.TransactionHandlerConfig{
		Submissions:  submissions,
		Controller:   controller,
		Transactions: transactions,
		PollCtx:      t.Context(),
	})

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.JWTAuthMiddleware(jwtService))

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(memberHandler).
		Register(transactionHandler).
		Register(hub).
		Setup()

	return &stack{
		engine:       engine,
		jwt:          jwtService,
		members:      members,
		transactions: transactions,
		controller:   controller,
		hub:          hub,
		invalidator:  invalidator,
	}
}

// do performs an authenticated request against the stack.
func (s *stack) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req = httptest.NewRequest(method, path, nil)
	if body != nil {
		req = httptest.NewRequest(method, path, testutil.ToJSONReader(t, body))
		req.Header.Set("Content-Type", "application/json")
	}
	testutil.SetAuthHeader(t, req, s.jwt)

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// seedMember registers an active member with the given savings balance.
func (s *stack) seedMember(t *testing.T, memberNumber string, savings decimal.Decimal) *member.Member {
	t.Helper()

	m, err := member.NewMember(memberNumber, "Jane Achieng", "+254700000001")
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
	if savings.IsPositive() {
		if err := m.Credit(member.AccountKindSavings, savings); err != nil {
			t.Fatalf("seed balance: %v", err)
		}
	}
	if err := s.members.Create(context.Background(), m); err != nil {
		t.Fatalf("store member: %v", err)
	}
	return m
}
