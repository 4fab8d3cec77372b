package tracer

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// InitJaeger 初始化全局 tracer, agentAddr 为空时保持 opentracing 的 NoopTracer
func InitJaeger(service, agentAddr string) (io.Closer, error) {
	if agentAddr == "" {
		logrus.Info("jaeger agent not configured, tracing disabled")
		return nopCloser{}, nil
	}
	cfg := jaegercfg.Configuration{
		ServiceName: service,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans:           false,
			LocalAgentHostPort: agentAddr,
		},
	}
	tracer, closer, err := cfg.NewTracer(jaegercfg.Logger(jaeger.StdLogger))
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(tracer)
	logrus.Infof("jaeger tracer started, service=%s agent=%s", service, agentAddr)
	return closer, nil
}
