package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Tanvirgit07/TK-Anii-server/internal/models"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs the test suites
// and local development without a database; one lock over all mutations gives
// the same serialized read-check-mutate scope the postgres store gets from
// row locks.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   uint
	accounts map[uint]*models.Account

	nextRequestID uint
	requests      map[uint]*models.CashInRequest

	nextRecordID uint

	sendMoney []models.SendMoneyRecord
	cashOut   []models.CashOutRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[uint]*models.Account),
		requests: make(map[uint]*models.CashInRequest),
	}
}

func (s *MemoryStore) CreateAccount(_ context.Context, acc *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.Mobile == acc.Mobile || existing.Email == acc.Email {
			return models.ErrDuplicateAccount
		}
	}
	s.nextID++
	acc.ID = s.nextID
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = time.Now()
	}
	stored := *acc
	s.accounts[acc.ID] = &stored
	return nil
}

func (s *MemoryStore) AccountByID(_ context.Context, id uint) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	out := *acc
	return &out, nil
}

func (s *MemoryStore) AccountByMobile(_ context.Context, mobile string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.findByMobile(mobile)
	if acc == nil {
		return nil, models.ErrAccountNotFound
	}
	out := *acc
	return &out, nil
}

func (s *MemoryStore) AccountByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.Email == email {
			out := *acc
			return &out, nil
		}
	}
	return nil, models.ErrAccountNotFound
}

func (s *MemoryStore) AgentByMobile(_ context.Context, mobile string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.findByMobile(mobile)
	if acc == nil || acc.Role != models.RoleAgent {
		return nil, models.ErrAgentNotFound
	}
	out := *acc
	return &out, nil
}

func (s *MemoryStore) SearchAccounts(_ context.Context, name string) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToLower(name)
	var out []models.Account
	for _, acc := range s.accounts {
		if needle == "" || strings.Contains(strings.ToLower(acc.Name), needle) {
			out = append(out, *acc)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateAccountStatus(_ context.Context, id uint, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.ErrAccountNotFound
	}
	acc.Status = status
	return nil
}

func (s *MemoryStore) RecordSendMoney(_ context.Context, rec *models.SendMoneyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sender, ok := s.accounts[rec.SenderID]
	if !ok {
		return models.ErrAccountNotFound
	}
	recipient, ok := s.accounts[rec.RecipientID]
	if !ok {
		return models.ErrAccountNotFound
	}
	if sender.Balance.LessThan(rec.TotalAmount) {
		return models.ErrInsufficientBalance
	}
	sender.Balance = sender.Balance.Sub(rec.TotalAmount)
	recipient.Balance = recipient.Balance.Add(rec.Amount.Add(rec.Fee))

	s.stampRecord(&rec.ID, &rec.CreatedAt)
	s.sendMoney = append(s.sendMoney, *rec)
	return nil
}

func (s *MemoryStore) RecordCashOut(_ context.Context, rec *models.CashOutRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.accounts[rec.UserID]
	if !ok {
		return models.ErrAccountNotFound
	}
	agent, ok := s.accounts[rec.AgentID]
	if !ok {
		return models.ErrAgentNotFound
	}
	if user.Balance.LessThan(rec.TotalDeduction) {
		return models.ErrInsufficientBalance
	}
	user.Balance = user.Balance.Sub(rec.TotalDeduction)
	agent.Balance = agent.Balance.Add(rec.Amount.Add(rec.Fee))

	s.stampRecord(&rec.ID, &rec.CreatedAt)
	s.cashOut = append(s.cashOut, *rec)
	return nil
}

func (s *MemoryStore) CreateCashInRequest(_ context.Context, req *models.CashInRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRequestID++
	req.ID = s.nextRequestID
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	stored := *req
	s.requests[req.ID] = &stored
	return nil
}

func (s *MemoryStore) PendingCashIn(_ context.Context, agentMobile string) ([]models.CashInRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CashInRequest
	for _, req := range s.requests {
		if req.AgentMobile == agentMobile && req.Status == models.CashInPending {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (s *MemoryStore) ApproveCashIn(_ context.Context, requestID uint, agentMobile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok || req.AgentMobile != agentMobile || req.Status != models.CashInPending {
		return models.ErrRequestNotFound
	}
	user := s.findByMobile(req.UserMobile)
	if user == nil {
		return models.ErrAccountNotFound
	}
	agent := s.findByMobile(req.AgentMobile)
	if agent == nil {
		return models.ErrAgentNotFound
	}
	if agent.Balance.LessThan(req.Amount) {
		return models.ErrInsufficientBalance
	}
	agent.Balance = agent.Balance.Sub(req.Amount)
	user.Balance = user.Balance.Add(req.Amount)
	req.Status = models.CashInAccepted
	return nil
}

func (s *MemoryStore) RejectCashIn(_ context.Context, requestID uint, agentMobile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok || req.AgentMobile != agentMobile || req.Status != models.CashInPending {
		return models.ErrRequestNotFound
	}
	req.Status = models.CashInRejected
	return nil
}

func (s *MemoryStore) SendMoneyRecords(_ context.Context) ([]models.SendMoneyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SendMoneyRecord, len(s.sendMoney))
	copy(out, s.sendMoney)
	return out, nil
}

func (s *MemoryStore) CashOutRecords(_ context.Context) ([]models.CashOutRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CashOutRecord, len(s.cashOut))
	copy(out, s.cashOut)
	return out, nil
}

func (s *MemoryStore) CashInRequests(_ context.Context) ([]models.CashInRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CashInRequest, 0, len(s.requests))
	for _, req := range s.requests {
		out = append(out, *req)
	}
	return out, nil
}

// callers hold s.mu
func (s *MemoryStore) findByMobile(mobile string) *models.Account {
	for _, acc := range s.accounts {
		if acc.Mobile == mobile {
			return acc
		}
	}
	return nil
}

// callers hold s.mu
func (s *MemoryStore) stampRecord(id *uint, createdAt *time.Time) {
	s.nextRecordID++
	*id = s.nextRecordID
	if createdAt.IsZero() {
		*createdAt = time.Now()
	}
}
