package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/tracker/internal/domain/model"
	"github.com/okian/tracker/pkg/logger"
	"github.com/okian/tracker/pkg/metrics"
)

// accountRow is the sqlite shape of an account. Students holds the same
// array-of-arrays JSON the document store writes.
type accountRow struct {
	Username string `gorm:"primaryKey"`
	Position int    `gorm:"not null;index"`
	Password string `gorm:"not null"`
	Email    string `gorm:"not null"`
	Students string `gorm:"not null"`
}

func (accountRow) TableName() string { return "accounts" }

// SQLStore keeps the directory in a sqlite database through gorm.
type SQLStore struct {
	db     *gorm.DB
	path   string
	logger logger.Logger
}

// NewSQLStore opens (creating if needed) the database at path and migrates
// the accounts table.
func NewSQLStore(ctx context.Context, path string, opts ...Option) (*SQLStore, error) {
	s := newSettings(opts)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStorageUnavailable, path, err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&accountRow{}); err != nil {
		return nil, fmt.Errorf("%w: migrate: %w", ErrStorageUnavailable, err)
	}
	return &SQLStore{db: db, path: path, logger: s.logger}, nil
}

// Load implements Store.
func (s *SQLStore) Load(ctx context.Context) *model.Directory {
	dir, err := s.read(ctx)
	if err == nil {
		metrics.UpdateAccounts(dir.Len())
		return dir
	}

	metrics.RecordStoreRecovery()
	s.logger.Warn(ctx, "account table unusable; starting empty", logger.String("path", s.path), logger.Error(err))
	dir = model.NewDirectory()
	if saveErr := s.Save(ctx, dir); saveErr != nil {
		s.logger.Error(ctx, "could not initialise account table", logger.Error(saveErr))
	}
	metrics.UpdateAccounts(0)
	return dir
}

func (s *SQLStore) read(ctx context.Context) (*model.Directory, error) {
	var rows []accountRow
	if err := s.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	dir := model.NewDirectory()
	for _, row := range rows {
		var students []model.StudentRecord
		if err := json.Unmarshal([]byte(row.Students), &students); err != nil {
			return nil, fmt.Errorf("%w: students of %q: %w", ErrMalformedDocument, row.Username, err)
		}
		dir.Add(model.Account{
			Username: row.Username,
			Password: row.Password,
			Email:    row.Email,
			Students: students,
		})
	}
	return dir, nil
}

// Save implements Store. The table is rewritten inside one transaction.
func (s *SQLStore) Save(ctx context.Context, dir *model.Directory) error {
	start := time.Now()
	err := s.write(ctx, dir)
	metrics.RecordStoreSaveLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordStoreSaveError()
		s.logger.Error(ctx, "account table not saved", logger.String("path", s.path), logger.Error(err))
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	metrics.UpdateAccounts(dir.Len())
	return nil
}

func (s *SQLStore) write(ctx context.Context, dir *model.Directory) error {
	rows := make([]accountRow, 0, dir.Len())
	for i, a := range dir.Accounts() {
		students := a.Students
		if students == nil {
			students = []model.StudentRecord{}
		}
		data, err := json.Marshal(students)
		if err != nil {
			return fmt.Errorf("encode students of %q: %w", a.Username, err)
		}
		rows = append(rows, accountRow{
			Username: a.Username,
			Position: i,
			Password: a.Password,
			Email:    a.Email,
			Students: string(data),
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&accountRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// Close implements Store.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
