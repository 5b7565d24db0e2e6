package tracing

import (
	"errors"
	"time"

	"capstone-guard/config"

	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"
)

const (
	gormSpanKey  = "sentry:span"
	gormStartKey = "sentry:start"
)

// GormPlugin 为每条 SQL 创建 span，描述只记录表名
type GormPlugin struct {
	slow time.Duration
}

func NewGormPlugin() *GormPlugin {
	ms := config.Get().Sentry.Tracing.DBSlowThresholdMs
	return &GormPlugin{slow: time.Duration(ms) * time.Millisecond}
}

func (p *GormPlugin) Name() string {
	return "capstone:sentry"
}

func (p *GormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("capstone:before_create", p.before("db.sql.create")),
		cb.Query().Before("gorm:query").Register("capstone:before_query", p.before("db.sql.query")),
		cb.Update().Before("gorm:update").Register("capstone:before_update", p.before("db.sql.update")),
		cb.Delete().Before("gorm:delete").Register("capstone:before_delete", p.before("db.sql.delete")),
		cb.Row().Before("gorm:row").Register("capstone:before_row", p.before("db.sql.row")),
		cb.Raw().Before("gorm:raw").Register("capstone:before_raw", p.before("db.sql.raw")),

		cb.Create().After("gorm:create").Register("capstone:after_create", p.after),
		cb.Query().After("gorm:query").Register("capstone:after_query", p.after),
		cb.Update().After("gorm:update").Register("capstone:after_update", p.after),
		cb.Delete().After("gorm:delete").Register("capstone:after_delete", p.after),
		cb.Row().After("gorm:row").Register("capstone:after_row", p.after),
		cb.Raw().After("gorm:raw").Register("capstone:after_raw", p.after),
	)
}

func (p *GormPlugin) before(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement == nil {
			return
		}
		db.InstanceSet(gormStartKey, time.Now())
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		span := child(db.Statement.Context, op, table)
		if span == nil {
			return
		}
		span.SetData("db.system", "mysql")
		db.InstanceSet(gormSpanKey, span)
		db.Statement.Context = span.Context()
	}
}

func (p *GormPlugin) after(db *gorm.DB) {
	if db.Statement == nil {
		return
	}
	start, ok := db.InstanceGet(gormStartKey)
	if !ok {
		return
	}
	v, ok := db.InstanceGet(gormSpanKey)
	if !ok {
		return
	}
	span, _ := v.(*sentry.Span)
	if span == nil {
		return
	}
	span.SetData("db.rows_affected", db.RowsAffected)
	err := db.Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
	}
	finish(span, time.Since(start.(time.Time)), p.slow, err)
}
