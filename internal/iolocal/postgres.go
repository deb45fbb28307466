package iolocal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVSnapshot is a row of the kv_snapshots table.
type KVSnapshot struct {
	Key       string `gorm:"primaryKey;type:varchar(255)"`
	Payload   []byte `gorm:"type:bytea;not null"`
	UpdatedAt time.Time
}

// TableName returns the PostgreSQL table name.
func (KVSnapshot) TableName() string {
	return "kv_snapshots"
}

// pgStore keeps the payload in PostgreSQL. The pool is managed by pgx,
// the table and upserts by GORM.
type pgStore struct {
	pool *pgxpool.Pool
	gdb  *gorm.DB
	key  string
}

// NewPostgres connects to PostgreSQL and migrates the kv_snapshots table.
func NewPostgres(
	ctx context.Context,
	cfg config.DatabaseConfig,
	key string,
) (store.LocalStorage, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	db := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db}),
		&gorm.Config{},
	)
	if err != nil {
		pool.Close()
		return nil, OpenError("postgres", cfg.Database, err)
	}

	if err = gdb.WithContext(ctx).AutoMigrate(&KVSnapshot{}); err != nil {
		pool.Close()
		return nil, OpenError("postgres", cfg.Database, err)
	}

	return &pgStore{pool: pool, gdb: gdb, key: key}, nil
}

func (p *pgStore) Load(ctx context.Context) ([]byte, error) {
	if p.gdb == nil {
		return nil, NotConnectedError()
	}
	var snap KVSnapshot
	err := p.gdb.WithContext(ctx).Where("key = ?", p.key).Take(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNoData
	}
	if err != nil {
		return nil, LoadError(p.key, err)
	}
	return snap.Payload, nil
}

func (p *pgStore) Save(ctx context.Context, data []byte) error {
	if p.gdb == nil {
		return NotConnectedError()
	}
	snap := KVSnapshot{Key: p.key, Payload: data, UpdatedAt: time.Now()}
	err := p.gdb.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&snap).Error
	if err != nil {
		return SaveError(p.key, err)
	}
	return nil
}

func (p *pgStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
		p.gdb = nil
	}
	return nil
}
