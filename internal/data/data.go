package data

import (
	"slotmath/internal/conf"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	kredis "github.com/yola1107/kratos/v2/library/db/redis"
	kxorm "github.com/yola1107/kratos/v2/library/db/xorm"
	"go.uber.org/zap"
	"xorm.io/xorm"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(NewData, NewRedis, NewMysql, NewPublisher, NewRecordStore, NewResultCache)

// Data 外部资源的聚合。任一资源未配置时对应字段为nil，
// 上层通过RecordStore/ResultCache的空实现感知降级
type Data struct {
	db  *xorm.Engine
	rdb redis.UniversalClient
	pub *Publisher
	log *zap.Logger
}

// NewData .
func NewData(c *conf.Data, logger *zap.Logger, db *xorm.Engine, rdb redis.UniversalClient, pub *Publisher) (*Data, func(), error) {
	cleanup := func() {
		logger.Info("closing the data resources")
	}
	return &Data{
		db:  db,
		rdb: rdb,
		pub: pub,
		log: logger,
	}, cleanup, nil
}

func NewRedis(c *conf.Data, logger *zap.Logger) redis.UniversalClient {
	if c == nil || c.Redis == nil || c.Redis.Addr == "" {
		logger.Info("redis not configured, result cache disabled")
		return nil
	}
	return kredis.NewClient(kredis.WithAddress(c.Redis.Addr))
}

func NewMysql(c *conf.Data, logger *zap.Logger) (*xorm.Engine, func(), error) {
	if c == nil || c.Database == nil || c.Database.Source == "" {
		logger.Info("database not configured, spin records disabled")
		return nil, func() {}, nil
	}
	engine, err := kxorm.NewEngine(
		kxorm.WithDriver(c.Database.Driver),
		kxorm.WithDataSource(c.Database.Source),
	)
	if err != nil {
		return nil, nil, err
	}
	return engine, func() { engine.Close() }, nil
}
