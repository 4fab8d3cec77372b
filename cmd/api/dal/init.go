package dal

import (
	"gorm.io/gorm"

	interactiondb "reelhub.com/cmd/interaction/dal/db"
	relationdb "reelhub.com/cmd/relation/dal/db"
	userdb "reelhub.com/cmd/user/dal/db"
	videodb "reelhub.com/cmd/video/dal/db"
	"reelhub.com/config"
	"reelhub.com/pkg/database"
	"reelhub.com/pkg/utils"
)

// Init 打开 MySQL, 迁移表结构, 并注入各领域的 dal
func Init() (*gorm.DB, error) {
	cfg := config.ConfigInfo
	db, err := database.OpenMySQL(utils.GetMysqlDsn(), database.Options{
		MaxOpenConns:    cfg.Mysql.MaxOpenConns,
		MaxIdleConns:    cfg.Mysql.MaxIdleConns,
		ConnMaxLifetime: cfg.Mysql.ConnMaxLifetime,
		Tracing:         cfg.Jaeger.AgentAddr != "",
	})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	Use(db)
	return db, nil
}

// Use points every domain dal at db.
func Use(db *gorm.DB) {
	userdb.Init(db)
	relationdb.Init(db)
	interactiondb.Init(db)
	videodb.Init(db)
}
