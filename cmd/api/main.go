package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hzutils "github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/cors"
	"github.com/sirupsen/logrus"

	"reelhub.com/cmd/api/dal"
	"reelhub.com/cmd/api/handlers/notify"
	"reelhub.com/cmd/api/router"
	"reelhub.com/cmd/interaction/infras/redis"
	"reelhub.com/cmd/interaction/service"
	"reelhub.com/config"
	"reelhub.com/config/pprof"
	"reelhub.com/pkg/constants"
	"reelhub.com/pkg/errno"
	"reelhub.com/pkg/jwt"
	"reelhub.com/pkg/middleware"
	"reelhub.com/pkg/mq"
	"reelhub.com/pkg/oss"
	"reelhub.com/pkg/tracer"
	"reelhub.com/pkg/utils"
)

// Init 读取配置并连接各外部依赖, 返回的函数在退出时释放消息队列连接
func Init(ctx context.Context, hub *notify.Hub) func() {
	config.Init()
	cfg := config.ConfigInfo

	if err := utils.InitSnowflake(cfg.Server.SnowflakeNode); err != nil {
		logrus.Fatalf("init snowflake failed: %v", err)
	}
	if cfg.Server.BcryptCost > 0 {
		utils.BcryptCost = cfg.Server.BcryptCost
	}
	if _, err := dal.Init(); err != nil {
		logrus.Fatalf("init dal failed: %+v", err)
	}
	if err := redis.Load(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		// 缓存与锁不可用时退化为直接读写数据库
		logrus.Warnf("redis unavailable, running without cache: %v", err)
	}
	if err := oss.InitMinio(ctx); err != nil {
		logrus.Warnf("minio unavailable, upload authorization disabled: %v", err)
	}
	release := initNotification(ctx, hub)

	if err := jwt.Init(jwt.Options{
		Secret:     cfg.Jwt.Secret,
		Realm:      cfg.Jwt.Realm,
		Timeout:    cfg.Jwt.Timeout,
		MaxRefresh: cfg.Jwt.MaxRefresh,
	}); err != nil {
		logrus.Fatalf("init jwt failed: %v", err)
	}
	if err := middleware.InitSentinel(map[string]float64{
		constants.FollowResource:  cfg.Sentinel.FollowQPS,
		constants.LikeResource:    cfg.Sentinel.LikeQPS,
		constants.CommentResource: cfg.Sentinel.CommentQPS,
	}); err != nil {
		logrus.Fatalf("init sentinel failed: %v", err)
	}
	return release
}

// initNotification 配置了 rabbitmq 时经由交换机广播, 否则进程内直接推送
func initNotification(ctx context.Context, hub *notify.Hub) func() {
	local := func() {}
	cfg := config.ConfigInfo.RabbitMq
	if cfg.Addr == "" {
		mq.SetProducer(mq.NewLocalProducer(hub))
		logrus.Info("rabbitmq not configured, notifications delivered in-process")
		return local
	}
	url := mq.BuildURL(cfg.Addr, cfg.Username, cfg.Password)
	producer, err := mq.NewProducer(url)
	if err != nil {
		logrus.Warnf("rabbitmq producer unavailable, falling back to in-process delivery: %v", err)
		mq.SetProducer(mq.NewLocalProducer(hub))
		return local
	}
	consumer, err := mq.NewConsumer(url)
	if err != nil {
		_ = producer.Close()
		logrus.Warnf("rabbitmq consumer unavailable, falling back to in-process delivery: %v", err)
		mq.SetProducer(mq.NewLocalProducer(hub))
		return local
	}
	if err := consumer.ConsumeNotificationEvents(ctx, hub); err != nil {
		_ = producer.Close()
		_ = consumer.Close()
		logrus.Warnf("consume notification events failed, falling back to in-process delivery: %v", err)
		mq.SetProducer(mq.NewLocalProducer(hub))
		return local
	}
	mq.SetProducer(producer)
	logrus.Infof("notifications routed through rabbitmq %s", cfg.Addr)
	return func() {
		if err := consumer.Close(); err != nil {
			hlog.Warnf("close consumer failed: %v", err)
		}
		if err := producer.Close(); err != nil {
			hlog.Warnf("close producer failed: %v", err)
		}
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := notify.NewHub()
	release := Init(ctx, hub)
	cfg := config.ConfigInfo

	closer, err := tracer.InitJaeger(cfg.Jaeger.ServiceName, cfg.Jaeger.AgentAddr)
	if err != nil {
		logrus.Fatalf("init jaeger failed: %v", err)
	}
	defer closer.Close()
	pprof.Load(cfg.Server.PprofAddr)

	counterSync := service.NewCounterSync(cfg.Consistency.Interval)
	go func() {
		// 启动时先修复一轮
		if _, err := counterSync.RunOnce(ctx); err != nil {
			hlog.Errorf("initial counter sync failed: %+v", err)
		}
	}()
	if err := counterSync.Start(ctx); err != nil {
		logrus.Warnf("counter sync not started: %v", err)
	}

	h := server.New(
		server.WithHostPorts(cfg.Server.Addr),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(cfg.Server.MaxBodySize),
		server.WithExitWaitTime(5*time.Second),
	)
	// websocket 升级需要独占连接
	h.NoHijackConnPool = true

	// 配置 CORS
	h.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 错误处理
	h.Use(recovery.Recovery(recovery.WithRecoveryHandler(recoverHandler)))
	h.Use(middleware.Tracing())

	// 注册路由
	router.Register(h.Engine, hub)

	h.OnShutdown = append(h.OnShutdown, func(ctx context.Context) {
		counterSync.Stop()
		cancel()
		release()
		if err := redis.Close(); err != nil {
			hlog.Warnf("close redis failed: %v", err)
		}
	})

	fmt.Printf("reelhub api listening on %s\n", cfg.Server.Addr)
	h.Spin()
}

// recoverHandler 记录 panic 现场, 客户端只看到通用错误
func recoverHandler(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte) {
	hlog.SystemLogger().CtxErrorf(ctx, "[Recovery] err=%v\nstack=%s", err, stack)
	c.JSON(consts.StatusInternalServerError, hzutils.H{
		"success": false,
		"error":   errno.ServiceErr.ErrMsg,
	})
}
