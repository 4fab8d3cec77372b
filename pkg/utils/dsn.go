package utils

import (
	"strings"

	"reelhub.com/config"
)

func GetMysqlDsn() string {
	charset := config.ConfigInfo.Mysql.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	dsn := strings.Join([]string{config.ConfigInfo.Mysql.Username, ":",
		config.ConfigInfo.Mysql.Password, "@tcp(", config.ConfigInfo.Mysql.Addr, ")/",
		config.ConfigInfo.Mysql.Database, "?charset=" + charset + "&parseTime=True&loc=Local"}, "") //nolint:lll

	return dsn
}
