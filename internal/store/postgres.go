package store

import (
	"context"
	"errors"

	"github.com/Tanvirgit07/TK-Anii-server/internal/logger"
	"github.com/Tanvirgit07/TK-Anii-server/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: false,
	}), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	logger.Log.Info("connected to the database")
	return db
}

func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Account{},
		&models.SendMoneyRecord{},
		&models.CashOutRecord{},
		&models.CashInRequest{},
	)
	if err != nil {
		logger.Log.Fatal("migration failed", zap.Error(err))
	}
	logger.Log.Info("migrations loaded")
}

// PostgresStore implements Store on gorm/postgres. Movement operations run
// inside one transaction with SELECT ... FOR UPDATE over the touched account
// rows, acquired in ascending id order to avoid lock cycles.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateAccount(ctx context.Context, acc *models.Account) error {
	if err := s.db.WithContext(ctx).Create(acc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrDuplicateAccount
		}
		return err
	}
	return nil
}

func (s *PostgresStore) AccountByID(ctx context.Context, id uint) (*models.Account, error) {
	var acc models.Account
	if err := s.db.WithContext(ctx).First(&acc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (s *PostgresStore) AccountByMobile(ctx context.Context, mobile string) (*models.Account, error) {
	var acc models.Account
	if err := s.db.WithContext(ctx).Where("mobile = ?", mobile).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (s *PostgresStore) AccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var acc models.Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (s *PostgresStore) AgentByMobile(ctx context.Context, mobile string) (*models.Account, error) {
	var acc models.Account
	err := s.db.WithContext(ctx).
		Where("mobile = ? AND role = ?", mobile, models.RoleAgent).
		First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAgentNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (s *PostgresStore) SearchAccounts(ctx context.Context, name string) ([]models.Account, error) {
	var accounts []models.Account
	q := s.db.WithContext(ctx)
	if name != "" {
		q = q.Where("name ILIKE ?", "%"+name+"%")
	}
	if err := q.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *PostgresStore) UpdateAccountStatus(ctx context.Context, id uint, status string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

func (s *PostgresStore) RecordSendMoney(ctx context.Context, rec *models.SendMoneyRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accounts, err := lockAccounts(tx, rec.SenderID, rec.RecipientID)
		if err != nil {
			return err
		}
		sender, ok := accounts[rec.SenderID]
		if !ok {
			return models.ErrAccountNotFound
		}
		if _, ok := accounts[rec.RecipientID]; !ok {
			return models.ErrAccountNotFound
		}
		if sender.Balance.LessThan(rec.TotalAmount) {
			return models.ErrInsufficientBalance
		}

		credit := rec.Amount.Add(rec.Fee)
		if err := adjustBalance(tx, rec.SenderID, "balance - ?", rec.TotalAmount); err != nil {
			return err
		}
		if err := adjustBalance(tx, rec.RecipientID, "balance + ?", credit); err != nil {
			return err
		}
		return tx.Create(rec).Error
	})
}

func (s *PostgresStore) RecordCashOut(ctx context.Context, rec *models.CashOutRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accounts, err := lockAccounts(tx, rec.UserID, rec.AgentID)
		if err != nil {
			return err
		}
		user, ok := accounts[rec.UserID]
		if !ok {
			return models.ErrAccountNotFound
		}
		if _, ok := accounts[rec.AgentID]; !ok {
			return models.ErrAgentNotFound
		}
		if user.Balance.LessThan(rec.TotalDeduction) {
			return models.ErrInsufficientBalance
		}

		credit := rec.Amount.Add(rec.Fee)
		if err := adjustBalance(tx, rec.UserID, "balance - ?", rec.TotalDeduction); err != nil {
			return err
		}
		if err := adjustBalance(tx, rec.AgentID, "balance + ?", credit); err != nil {
			return err
		}
		return tx.Create(rec).Error
	})
}

func (s *PostgresStore) CreateCashInRequest(ctx context.Context, req *models.CashInRequest) error {
	return s.db.WithContext(ctx).Create(req).Error
}

func (s *PostgresStore) PendingCashIn(ctx context.Context, agentMobile string) ([]models.CashInRequest, error) {
	var requests []models.CashInRequest
	err := s.db.WithContext(ctx).
		Where("agent_mobile = ? AND status = ?", agentMobile, models.CashInPending).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// ApproveCashIn moves the amount from agent to user and flips the request to
// accepted in one transaction. The pending-status filter on the locked lookup
// is the idempotency guard: a retried approve finds nothing and fails without
// a second transfer.
func (s *PostgresStore) ApproveCashIn(ctx context.Context, requestID uint, agentMobile string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.CashInRequest
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND agent_mobile = ? AND status = ?", requestID, agentMobile, models.CashInPending).
			First(&req).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRequestNotFound
			}
			return err
		}

		var accounts []models.Account
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("mobile IN ?", []string{req.UserMobile, req.AgentMobile}).
			Order("id").
			Find(&accounts).Error
		if err != nil {
			return err
		}
		var user, agent *models.Account
		for i := range accounts {
			if accounts[i].Mobile == req.UserMobile {
				user = &accounts[i]
			}
			if accounts[i].Mobile == req.AgentMobile {
				agent = &accounts[i]
			}
		}
		if user == nil {
			return models.ErrAccountNotFound
		}
		if agent == nil {
			return models.ErrAgentNotFound
		}
		if agent.Balance.LessThan(req.Amount) {
			return models.ErrInsufficientBalance
		}

		if err := adjustBalance(tx, agent.ID, "balance - ?", req.Amount); err != nil {
			return err
		}
		if err := adjustBalance(tx, user.ID, "balance + ?", req.Amount); err != nil {
			return err
		}

		res := tx.Model(&models.CashInRequest{}).
			Where("id = ? AND status = ?", requestID, models.CashInPending).
			Update("status", models.CashInAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrConflict
		}
		return nil
	})
}

func (s *PostgresStore) RejectCashIn(ctx context.Context, requestID uint, agentMobile string) error {
	res := s.db.WithContext(ctx).
		Model(&models.CashInRequest{}).
		Where("id = ? AND agent_mobile = ? AND status = ?", requestID, agentMobile, models.CashInPending).
		Update("status", models.CashInRejected)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrRequestNotFound
	}
	return nil
}

func (s *PostgresStore) SendMoneyRecords(ctx context.Context) ([]models.SendMoneyRecord, error) {
	var records []models.SendMoneyRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *PostgresStore) CashOutRecords(ctx context.Context) ([]models.CashOutRecord, error) {
	var records []models.CashOutRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *PostgresStore) CashInRequests(ctx context.Context) ([]models.CashInRequest, error) {
	var requests []models.CashInRequest
	if err := s.db.WithContext(ctx).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// lockAccounts takes FOR UPDATE locks on both accounts in ascending id order.
func lockAccounts(tx *gorm.DB, a, b uint) (map[uint]*models.Account, error) {
	ids := make([]uint, 0, 2)
	if a < b {
		ids = append(ids, a, b)
	} else if a > b {
		ids = append(ids, b, a)
	} else {
		ids = append(ids, a)
	}

	var accounts []models.Account
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Account, len(accounts))
	for i := range accounts {
		byID[accounts[i].ID] = &accounts[i]
	}
	return byID, nil
}

func adjustBalance(tx *gorm.DB, id uint, expr string, amount interface{}) error {
	res := tx.Model(&models.Account{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr(expr, amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrConflict
	}
	return nil
}
