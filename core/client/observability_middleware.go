package client

import (
	"context"

	"github.com/leofalp/chatmemory/internal/utils"
	"github.com/leofalp/chatmemory/providers/ai"
	"github.com/leofalp/chatmemory/providers/observability"
)

// NewObservabilityMiddleware creates a Middleware that records a span and
// log events for every call through the chain.
//
// Both the span and the observer are injected into the context before calling
// next, so memory stores and providers further down can retrieve them via
// [observability.SpanFromContext] and [observability.ObserverFromContext].
//
// [New] prepends it automatically when [WithObserver] is provided.
func NewObservabilityMiddleware(observer observability.Provider, defaultModel string) Middleware {
	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			model := request.Model
			if model == "" {
				model = defaultModel
			}

			ctx, span := observer.StartSpan(ctx, observability.SpanClientSendMessage,
				observability.String(observability.AttrClientModel, model),
			)
			defer span.End()
			ctx = observability.ContextWithSpan(ctx, span)
			ctx = observability.ContextWithObserver(ctx, observer)

			observer.Debug(ctx, "client send",
				observability.String(observability.AttrClientModel, model),
				observability.Int(observability.AttrClientRequestMessages, len(request.Messages)),
			)

			timer := utils.NewTimer()
			response, err := next(ctx, request)
			elapsed := timer.Stop()

			if err != nil {
				span.RecordError(err)
				span.SetStatus(observability.StatusError, "client send failed")
				observer.Error(ctx, "client send failed",
					observability.Error(err),
					observability.Duration(observability.AttrDuration, elapsed),
					observability.String(observability.AttrClientModel, model),
				)
				return nil, err
			}

			attrs := []observability.Attribute{
				observability.String(observability.AttrClientModel, model),
				observability.Duration(observability.AttrDuration, elapsed),
			}
			if response.FinishReason != "" {
				attrs = append(attrs, observability.String(observability.AttrClientFinishReason, response.FinishReason))
			}
			if response.Usage != nil {
				attrs = append(attrs, observability.Int(observability.AttrClientTotalTokens, response.Usage.TotalTokens))
			}
			span.SetAttributes(attrs...)
			span.SetStatus(observability.StatusOK, "")
			observer.Info(ctx, "client send completed", attrs...)

			return response, nil
		}
	}
}
