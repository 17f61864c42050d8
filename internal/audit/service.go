package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lijinmangal/janananma/internal/database"
	"github.com/lijinmangal/janananma/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrLogNotFound   = errors.New("audit log not found")
	ErrAlreadyUndone = errors.New("this action has already been undone")
	ErrNotUndoable   = errors.New("this action cannot be undone")
	// the record changed after the logged action
	ErrUndoBlocked = errors.New("undo blocked by later records")
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	return writeLog(database.DB, opts)
}

func writeLog(db *gorm.DB, opts LogOptions) error {
	// jsonb columns take "null", not an empty string
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := db.Create(&log).Error; err != nil {
		return errors.Wrap(err, "write audit log")
	}
	return nil
}

// UndoLog reverses a logged create or delete, marks the log undone and records
// the undo as a log of its own, all in one transaction.
func UndoLog(logID uint, userID uint, userName string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var log models.AuditLog
		err := tx.First(&log, "id = ?", logID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLogNotFound
		}
		if err != nil {
			return errors.Wrap(err, "load audit log")
		}

		if log.IsUndone {
			return ErrAlreadyUndone
		}

		switch log.Action {
		case models.AuditActionCreate:
			err = undoCreate(tx, log)
		case models.AuditActionDelete:
			err = undoDelete(tx, log)
		default:
			err = ErrNotUndoable
		}
		if err != nil {
			return err
		}

		now := time.Now()
		log.IsUndone = true
		log.UndoneBy = &userID
		log.UndoneAt = &now
		if err := tx.Save(&log).Error; err != nil {
			return errors.Wrap(err, "mark audit log undone")
		}

		undoLog := models.AuditLog{
			UserID:      userID,
			UserName:    userName,
			EntityType:  log.EntityType,
			EntityID:    log.EntityID,
			Action:      models.AuditActionUndo,
			Description: fmt.Sprintf("Undone: %s", log.Description),
			BeforeData:  log.AfterData,
			AfterData:   log.BeforeData,
			Undone:      true,
		}
		if err := tx.Create(&undoLog).Error; err != nil {
			return errors.Wrap(err, "write undo log")
		}
		return nil
	})
}

func undoCreate(tx *gorm.DB, log models.AuditLog) error {
	switch log.EntityType {
	case models.EntityWholesaler:
		var purchases int64
		if err := tx.Model(&models.Purchase{}).Where("wholesaler_id = ?", log.EntityID).Count(&purchases).Error; err != nil {
			return errors.Wrap(err, "count wholesaler purchases")
		}
		if purchases > 0 {
			return errors.Wrap(ErrUndoBlocked, "wholesaler already has purchases")
		}
		return deleteOne(tx, &models.Wholesaler{}, log.EntityID)

	case models.EntityPurchase:
		var p models.Purchase
		if err := tx.First(&p, "id = ?", log.EntityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Wrap(ErrUndoBlocked, "purchase no longer exists")
			}
			return errors.Wrap(err, "load purchase")
		}
		// later purchases carried this one's credit forward
		var later int64
		err := tx.Model(&models.Purchase{}).
			Where("wholesaler_id = ? AND (date > ? OR (date = ? AND id > ?))", p.WholesalerID, p.Date, p.Date, p.ID).
			Count(&later).Error
		if err != nil {
			return errors.Wrap(err, "count later purchases")
		}
		if later > 0 {
			return errors.Wrap(ErrUndoBlocked, "a later purchase depends on this one")
		}
		return deleteOne(tx, &models.Purchase{}, p.ID)

	case models.EntityDailyFinance:
		var f models.DailyFinance
		if err := tx.First(&f, "id = ?", log.EntityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Wrap(ErrUndoBlocked, "finance entry no longer exists")
			}
			return errors.Wrap(err, "load finance entry")
		}
		return deleteDay(tx, f.Date)

	case models.EntityMonthlySummary:
		return deleteOne(tx, &models.MonthlySummary{}, log.EntityID)

	default:
		return ErrNotUndoable
	}
}

func undoDelete(tx *gorm.DB, log models.AuditLog) error {
	if log.EntityType != models.EntityDailyFinance {
		return ErrNotUndoable
	}

	var snap *models.DaySnapshot
	if err := json.Unmarshal([]byte(log.BeforeData), &snap); err != nil {
		return errors.Wrap(err, "decode deleted day")
	}
	if snap == nil {
		return errors.Wrap(ErrNotUndoable, "nothing was deleted")
	}

	var count int64
	if err := tx.Model(&models.DailyFinance{}).Where("date = ?", snap.Finance.Date).Count(&count).Error; err != nil {
		return errors.Wrap(err, "check finance date")
	}
	if count > 0 {
		return errors.Wrap(ErrUndoBlocked, "the date has been entered again")
	}

	if err := tx.Create(&snap.Finance).Error; err != nil {
		return errors.Wrap(err, "restore finance entry")
	}
	if len(snap.BankTransactions) > 0 {
		if err := tx.Create(&snap.BankTransactions).Error; err != nil {
			return errors.Wrap(err, "restore bank transactions")
		}
	}
	if len(snap.CreditTransactions) > 0 {
		if err := tx.Create(&snap.CreditTransactions).Error; err != nil {
			return errors.Wrap(err, "restore credit transactions")
		}
	}
	return nil
}

func deleteOne(tx *gorm.DB, model any, id uint) error {
	res := tx.Delete(model, "id = ?", id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete record")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrUndoBlocked, "record no longer exists")
	}
	return nil
}

func deleteDay(tx *gorm.DB, date time.Time) error {
	for _, model := range []any{&models.DailyFinance{}, &models.BankTransaction{}, &models.CreditTransaction{}} {
		if err := tx.Where("date = ?", date).Delete(model).Error; err != nil {
			return errors.Wrap(err, "delete finance day")
		}
	}
	return nil
}
