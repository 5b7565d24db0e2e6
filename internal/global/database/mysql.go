package database

import (
	"errors"
	"fmt"

	"capstone-guard/config"
	"capstone-guard/internal/global/sentry/tracing"
	"capstone-guard/internal/model"
	"capstone-guard/tools"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

const errDuplicateEntry = 1062

func dsn(c config.Mysql) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.DBName)
}

func Init() {
	cfg := config.Get()
	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         gormlogger.Discard,
	}
	if cfg.Mode == config.ModeDebug {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(mysql.Open(dsn(cfg.Mysql)), gormConfig)
	tools.PanicOnErr(err)
	if tracing.Enabled() {
		tools.PanicOnErr(db.Use(tracing.NewGormPlugin()))
	}
	tools.PanicOnErr(db.AutoMigrate(model.All()...))
	DB = db

	tools.PanicOnErr(Seed(DB, cfg.Admin))
}

// IsDuplicateKey 判断是否违反唯一索引
func IsDuplicateKey(err error) bool {
	var me *mysqldriver.MySQLError
	if errors.As(err, &me) {
		return me.Number == errDuplicateEntry
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
