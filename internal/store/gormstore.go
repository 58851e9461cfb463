package store

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/venueup/kassad/config"
	"github.com/venueup/kassad/internal/domain"
)

// GormStore is the postgres backend for venues that already run a
// database server.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(cfg config.DBConfig) (*GormStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name)
	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open postgres store")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "postgres pool")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConn)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
		return nil, errors.Wrap(err, "migrate schema")
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load() (*domain.State, error) {
	state := &domain.State{Blobs: make(map[string]string)}
	if err := s.db.Order("timestamp asc").Find(&state.Transactions).Error; err != nil {
		return nil, errors.Wrap(err, "load transactions")
	}
	if err := s.db.Find(&state.Loyalty).Error; err != nil {
		return nil, errors.Wrap(err, "load loyalty accounts")
	}
	var blobs []domain.SysBlob
	if err := s.db.Find(&blobs).Error; err != nil {
		return nil, errors.Wrap(err, "load blobs")
	}
	for _, b := range blobs {
		state.Blobs[b.Kind] = b.Value
	}
	return state, nil
}

func (s *GormStore) AppendTransaction(tx domain.Transaction) error {
	return errors.Wrap(s.db.Create(&tx).Error, "append transaction")
}

func (s *GormStore) DeleteTransactions(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return errors.Wrap(s.db.Where("id IN ?", ids).Delete(&domain.Transaction{}).Error,
		"delete transactions")
}

func (s *GormStore) SaveLoyalty(account domain.LoyaltyAccount) error {
	return errors.Wrap(s.db.Save(&account).Error, "save loyalty account")
}

func (s *GormStore) DeleteLoyalty(name string) error {
	return errors.Wrap(s.db.Where("name = ?", name).Delete(&domain.LoyaltyAccount{}).Error,
		"delete loyalty account")
}

func (s *GormStore) SaveBlob(kind, value string) error {
	blob := domain.SysBlob{Kind: kind, Value: value, UpdatedAt: time.Now()}
	return errors.Wrap(s.db.Save(&blob).Error, "save blob")
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
