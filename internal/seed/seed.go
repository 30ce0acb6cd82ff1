package seed

import (
	"github.com/Tanvirgit07/TK-Anii-server/internal/ledger"
	"github.com/Tanvirgit07/TK-Anii-server/internal/logger"
	"github.com/Tanvirgit07/TK-Anii-server/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var seedAccounts = []struct {
	Name   string
	Mobile string
	Email  string
	Role   string
}{
	{"Platform Admin", "01700000001", "admin@taka.local", models.RoleAdmin},
	{"Agent One", "01800000001", "agent1@taka.local", models.RoleAgent},
	{"Agent Two", "01800000002", "agent2@taka.local", models.RoleAgent},
	{"Demo User 1", "01900000001", "user1@taka.local", models.RoleUser},
	{"Demo User 2", "01900000002", "user2@taka.local", models.RoleUser},
}

// Run creates the demo accounts once: a platform admin, two agents with the
// operating float, and two zero-balance users. All share the given PIN.
func Run(db *gorm.DB, pin string) {
	var count int64
	if err := db.Model(&models.Account{}).Where("email = ?", seedAccounts[0].Email).Count(&count).Error; err != nil {
		logger.Log.Fatal("seed check failed", zap.Error(err))
	}
	if count > 0 {
		logger.Log.Info("seed already applied, skipping")
		return
	}

	credential, err := ledger.HashPIN(pin)
	if err != nil {
		logger.Log.Fatal("failed to hash seed pin", zap.Error(err))
	}

	operatorBalance := decimal.NewFromInt(10000)

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, s := range seedAccounts {
			balance := decimal.Zero
			if s.Role != models.RoleUser {
				balance = operatorBalance
			}
			acc := models.Account{
				Name:    s.Name,
				Mobile:  s.Mobile,
				Email:   s.Email,
				PIN:     credential,
				Role:    s.Role,
				Status:  models.AccountAccepted,
				Balance: balance,
			}
			if err := tx.Create(&acc).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Log.Fatal("seed failed", zap.Error(err))
	}
	logger.Log.Info("seeded demo accounts", zap.Int("count", len(seedAccounts)))
}
