package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var ConfigInfo config

// Init 读取config.yml, 环境变量覆盖同名配置项 (mysql.addr -> MYSQL_ADDR)
func Init() {
	wd, _ := os.Getwd()
	logrus.Infof("Current working directory: %s", wd)

	setDefaults()
	viper.SetConfigType("yaml")
	viper.SetConfigName("config.yml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configPaths := []string{
		"./config",
		"../config",
		"../../config",
		".",
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
		absPath, _ := filepath.Abs(path)
		logrus.Debugf("Added config path: %s (absolute: %s)", path, absPath)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Warnf("config file not found, falling back to defaults: %v", err)
		} else {
			logrus.Errorf("config error: %v", err)
		}
	} else {
		logrus.Infof("Successfully read config file: %s", viper.ConfigFileUsed())
	}

	load()

	logrus.Infof("Config loaded - MySQL: %s:%s@%s/%s",
		ConfigInfo.Mysql.Username, "***", ConfigInfo.Mysql.Addr, ConfigInfo.Mysql.Database)
}

func setDefaults() {
	viper.SetDefault("server.addr", "0.0.0.0:8888")
	viper.SetDefault("server.max_body_size", 16*1024*1024)
	viper.SetDefault("server.allow_origins", []string{"http://localhost:3000"})
	viper.SetDefault("server.snowflake_node", 1)
	viper.SetDefault("server.bcrypt_cost", 10)

	viper.SetDefault("mysql.charset", "utf8mb4")
	viper.SetDefault("mysql.max_open_conns", 50)
	viper.SetDefault("mysql.max_idle_conns", 10)
	viper.SetDefault("mysql.conn_max_lifetime", time.Hour)

	viper.SetDefault("minio.video_bucket", "video")
	viper.SetDefault("minio.image_bucket", "picture")
	viper.SetDefault("minio.presign_expiry", 15*time.Minute)

	viper.SetDefault("jwt.realm", "reelhub")
	viper.SetDefault("jwt.timeout", 30*24*time.Hour)
	viper.SetDefault("jwt.max_refresh", 30*24*time.Hour)

	viper.SetDefault("jaeger.service_name", "reelhub-api")

	viper.SetDefault("sentinel.follow_qps", 200)
	viper.SetDefault("sentinel.like_qps", 500)
	viper.SetDefault("sentinel.comment_qps", 200)

	viper.SetDefault("consistency.interval", 10*time.Minute)
}

// 手动从viper获取配置值, 避免Unmarshal对duration与嵌套结构的问题
func load() {
	ConfigInfo.Server.Addr = viper.GetString("server.addr")
	ConfigInfo.Server.MaxBodySize = viper.GetInt("server.max_body_size")
	ConfigInfo.Server.AllowOrigins = viper.GetStringSlice("server.allow_origins")
	ConfigInfo.Server.PprofAddr = viper.GetString("server.pprof_addr")
	ConfigInfo.Server.SnowflakeNode = viper.GetInt64("server.snowflake_node")
	ConfigInfo.Server.BcryptCost = viper.GetInt("server.bcrypt_cost")

	ConfigInfo.Mysql.Addr = viper.GetString("mysql.addr")
	ConfigInfo.Mysql.Database = viper.GetString("mysql.database")
	ConfigInfo.Mysql.Username = viper.GetString("mysql.username")
	ConfigInfo.Mysql.Password = viper.GetString("mysql.password")
	ConfigInfo.Mysql.Charset = viper.GetString("mysql.charset")
	ConfigInfo.Mysql.MaxOpenConns = viper.GetInt("mysql.max_open_conns")
	ConfigInfo.Mysql.MaxIdleConns = viper.GetInt("mysql.max_idle_conns")
	ConfigInfo.Mysql.ConnMaxLifetime = viper.GetDuration("mysql.conn_max_lifetime")

	ConfigInfo.Redis.Addr = viper.GetString("redis.addr")
	ConfigInfo.Redis.Password = viper.GetString("redis.password")
	ConfigInfo.Redis.DB = viper.GetInt("redis.db")

	ConfigInfo.RabbitMq.Addr = viper.GetString("rabbitmq.addr")
	ConfigInfo.RabbitMq.Username = viper.GetString("rabbitmq.username")
	ConfigInfo.RabbitMq.Password = viper.GetString("rabbitmq.password")

	ConfigInfo.Minio.Endpoint = viper.GetString("minio.endpoint")
	ConfigInfo.Minio.AccessKey = viper.GetString("minio.access_key")
	ConfigInfo.Minio.SecretKey = viper.GetString("minio.secret_key")
	ConfigInfo.Minio.UseSSL = viper.GetBool("minio.use_ssl")
	ConfigInfo.Minio.VideoBucket = viper.GetString("minio.video_bucket")
	ConfigInfo.Minio.ImageBucket = viper.GetString("minio.image_bucket")
	ConfigInfo.Minio.PresignExpiry = viper.GetDuration("minio.presign_expiry")
	ConfigInfo.Minio.PublicURL = viper.GetString("minio.public_url")

	ConfigInfo.Jwt.Secret = viper.GetString("jwt.secret")
	ConfigInfo.Jwt.Realm = viper.GetString("jwt.realm")
	ConfigInfo.Jwt.Timeout = viper.GetDuration("jwt.timeout")
	ConfigInfo.Jwt.MaxRefresh = viper.GetDuration("jwt.max_refresh")

	ConfigInfo.Jaeger.AgentAddr = viper.GetString("jaeger.agent_addr")
	ConfigInfo.Jaeger.ServiceName = viper.GetString("jaeger.service_name")

	ConfigInfo.Sentinel.FollowQPS = viper.GetFloat64("sentinel.follow_qps")
	ConfigInfo.Sentinel.LikeQPS = viper.GetFloat64("sentinel.like_qps")
	ConfigInfo.Sentinel.CommentQPS = viper.GetFloat64("sentinel.comment_qps")

	ConfigInfo.Consistency.Interval = viper.GetDuration("consistency.interval")
}
