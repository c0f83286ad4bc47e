// Package client threads chat requests through an interceptor chain before
// they reach an [ai.Provider]. The chain is built from [Middleware] values;
// the memory middleware in the middleware subpackage uses it to replay a
// conversation's history and record each new turn.
//
// The primary entry point is [New], which accepts an [ai.Provider] and a set of
// functional options (e.g. [WithMiddleware], [WithObserver], [WithSystemPrompt]).
// [BuildChain] is exported for callers that want a chain without a Client.
package client
