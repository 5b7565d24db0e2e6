package tracing

import (
	"net/url"

	"capstone-guard/config"

	"github.com/getsentry/sentry-go"
	"github.com/go-resty/resty/v2"
)

// SetupResty 让 resty 的外部请求出现在 Sentry 中，未开启 TraceHTTPCalls 时不做任何事
func SetupResty(client *resty.Client) {
	if !config.Get().Sentry.Tracing.TraceHTTPCalls {
		return
	}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		span := child(req.Context(), "http.client", req.Method+" "+stripQuery(req.URL))
		if span == nil {
			return nil
		}
		span.SetData("http.request.method", req.Method)
		req.SetHeader("sentry-trace", span.ToSentryTrace())
		if baggage := span.ToBaggage(); baggage != "" {
			req.SetHeader("baggage", baggage)
		}
		req.SetContext(span.Context())
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		span := sentry.SpanFromContext(resp.Request.Context())
		if span == nil {
			return nil
		}
		span.SetData("http.response.status_code", resp.StatusCode())
		span.Status = sentry.HTTPtoSpanStatus(resp.StatusCode())
		span.Finish()
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		if req == nil {
			return
		}
		span := sentry.SpanFromContext(req.Context())
		if span == nil {
			return
		}
		finish(span, 0, 0, err)
	})
}

// stripQuery 去掉查询参数，API key 可能出现在其中
func stripQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Scheme + "://" + u.Host + u.Path
}
