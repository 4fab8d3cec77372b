package config

import "time"

type config struct {
	Server      server      `yaml:"server" mapstructure:"server"`
	Mysql       mysql       `yaml:"mysql" mapstructure:"mysql"`
	Redis       redis       `yaml:"redis" mapstructure:"redis"`
	RabbitMq    rabbitmq    `yaml:"rabbitmq" mapstructure:"rabbitmq"`
	Minio       minio       `yaml:"minio" mapstructure:"minio"`
	Jwt         jwt         `yaml:"jwt" mapstructure:"jwt"`
	Jaeger      jaeger      `yaml:"jaeger" mapstructure:"jaeger"`
	Sentinel    sentinel    `yaml:"sentinel" mapstructure:"sentinel"`
	Consistency consistency `yaml:"consistency" mapstructure:"consistency"`
}

type server struct {
	Addr          string   `yaml:"addr"`
	MaxBodySize   int      `yaml:"max_body_size" mapstructure:"max_body_size"`
	AllowOrigins  []string `yaml:"allow_origins" mapstructure:"allow_origins"`
	PprofAddr     string   `yaml:"pprof_addr" mapstructure:"pprof_addr"`
	SnowflakeNode int64    `yaml:"snowflake_node" mapstructure:"snowflake_node"`
	BcryptCost    int      `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
}

type mysql struct {
	Addr            string        `yaml:"addr"`
	Database        string        `yaml:"database"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	Charset         string        `yaml:"charset"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

type redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type rabbitmq struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type minio struct {
	Endpoint      string        `yaml:"endpoint"`
	AccessKey     string        `yaml:"access_key" mapstructure:"access_key"`
	SecretKey     string        `yaml:"secret_key" mapstructure:"secret_key"`
	UseSSL        bool          `yaml:"use_ssl" mapstructure:"use_ssl"`
	VideoBucket   string        `yaml:"video_bucket" mapstructure:"video_bucket"`
	ImageBucket   string        `yaml:"image_bucket" mapstructure:"image_bucket"`
	PresignExpiry time.Duration `yaml:"presign_expiry" mapstructure:"presign_expiry"`
	PublicURL     string        `yaml:"public_url" mapstructure:"public_url"`
}

type jwt struct {
	Secret     string        `yaml:"secret"`
	Realm      string        `yaml:"realm"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRefresh time.Duration `yaml:"max_refresh" mapstructure:"max_refresh"`
}

type jaeger struct {
	AgentAddr   string `yaml:"agent_addr" mapstructure:"agent_addr"`
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
}

type sentinel struct {
	FollowQPS  float64 `yaml:"follow_qps" mapstructure:"follow_qps"`
	LikeQPS    float64 `yaml:"like_qps" mapstructure:"like_qps"`
	CommentQPS float64 `yaml:"comment_qps" mapstructure:"comment_qps"`
}

type consistency struct {
	Interval time.Duration `yaml:"interval"`
}
