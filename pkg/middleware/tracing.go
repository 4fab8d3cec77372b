package middleware

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// Tracing opens a server span per request and stores it in ctx so gorm
// queries issued with that ctx become child spans.
func Tracing() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		tracer := opentracing.GlobalTracer()

		header := http.Header{}
		c.Request.Header.VisitAll(func(k, v []byte) {
			header.Add(string(k), string(v))
		})
		parent, err := tracer.Extract(opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(header))
		if err != nil {
			parent = nil
		}

		operation := string(c.Method()) + " " + c.FullPath()
		span := tracer.StartSpan(operation, ext.RPCServerOption(parent))
		defer span.Finish()

		ext.HTTPMethod.Set(span, string(c.Method()))
		ext.HTTPUrl.Set(span, string(c.Request.URI().Path()))

		c.Next(opentracing.ContextWithSpan(ctx, span))

		status := c.Response.StatusCode()
		ext.HTTPStatusCode.Set(span, uint16(status))
		if status >= http.StatusInternalServerError {
			ext.Error.Set(span, true)
		}
	}
}
