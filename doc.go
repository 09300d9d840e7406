// Package cyro is a small request-dispatch framework for Go web servers:
// an ordered middleware chain, a pattern router, and an explicit response
// state machine, glued together by a dispatcher that guarantees exactly
// one terminal response per request.
//
// # Example
//
// Here's a simple complete program using cyro:
//
//	package main
//
//	import (
//	    "log"
//	    "net/http"
//
//	    "github.com/y4zdev/cyro"
//	)
//
//	func main() {
//	    app := cyro.Default()
//	    app.Get("/hello/:name", func(r *http.Request, res *cyro.Response, c *cyro.Context) error {
//	        res.Text("Hello, " + c.Param("name") + "!")
//	        return nil
//	    })
//	    if err := http.ListenAndServe(":8080", app); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Routing
//
// Routes are registered per verb (Get, Post, Put, Delete, Patch, Head,
// Options) with path patterns made of literal segments, ":name" parameters
// that capture exactly one segment, and a trailing "*" that captures the
// remaining suffix. Patterns are compiled into segment sequences at
// registration time and matched by walking both sequences together at
// request time.
//
// Resolution order is registration order: among several patterns that
// accept the same path, the first one registered wins. Register literal
// routes such as "/users/new" before parametrized siblings such as
// "/users/:id" when both could match.
//
// # Middleware
//
// Middleware runs before routing, strictly in registration order. A
// middleware that finishes the response (via Send, JSON, Redirect, End,
// ...) halts the chain and skips routing — that is how auth gates and
// rate limiters short-circuit. A middleware that returns an error or
// panics halts the chain with a sanitized 500; the real failure only
// reaches the server logs.
//
// # Responses
//
// The Response is a mutable accumulator with one irreversible transition:
// once finished, further mutation is a reported no-op. Every terminal
// method funnels through the same transition, so "finished" is an
// unambiguous stop signal for the chain and the dispatcher alike.
//
// # Errors
//
// Handlers abort by returning an error. Return a plain error for a
// generic 500, or a cyro.Error to choose the status code and the
// client-facing message while keeping internal detail in the logs:
//
//	return cyro.Error{Code: 404, ClientMsg: "No such user", Cause: err}
package cyro
