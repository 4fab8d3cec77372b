package middleware

import (
	"context"

	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/base"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/pkg/errors"

	"reelhub.com/pkg/errno"
)

// InitSentinel 初始化 sentinel 并按资源加载 QPS 规则, qps<=0 的资源不限流
func InitSentinel(qps map[string]float64) error {
	if err := sentinel.InitDefault(); err != nil {
		return errors.Wrap(err, "init sentinel failed")
	}
	return LoadFlowRules(qps)
}

func LoadFlowRules(qps map[string]float64) error {
	rules := make([]*flow.Rule, 0, len(qps))
	for resource, threshold := range qps {
		if threshold <= 0 {
			continue
		}
		rules = append(rules, &flow.Rule{
			Resource:               resource,
			TokenCalculateStrategy: flow.Direct,
			ControlBehavior:        flow.Reject,
			Threshold:              threshold,
			StatIntervalInMs:       1000,
		})
	}
	if _, err := flow.LoadRules(rules); err != nil {
		return errors.Wrap(err, "load sentinel flow rules failed")
	}
	hlog.Infof("sentinel loaded %d flow rules", len(rules))
	return nil
}

// FlowControl rejects requests over the resource's QPS with 429.
func FlowControl(resource string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		e, blocked := sentinel.Entry(resource, sentinel.WithTrafficType(base.Inbound))
		if blocked != nil {
			hlog.CtxWarnf(ctx, "request blocked by sentinel, resource=%s", resource)
			c.AbortWithStatusJSON(errno.TooManyRequestsErr.HTTPStatus(), utils.H{
				"success": false,
				"error":   errno.TooManyRequestsErr.ErrMsg,
			})
			return
		}
		defer e.Exit()
		c.Next(ctx)
	}
}
