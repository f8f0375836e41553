// Package http connects the container to net/http and provides JSON
// response helpers.
//
// # Request scopes
//
// ScopeMiddleware gives every request its own container Scope:
//
//	router := routing.New(gohttp.RequestLogger(log), gohttp.ScopeMiddleware(c, log))
//
//	router.Get("/orders", func(w http.ResponseWriter, r *http.Request) {
//	    scope := gohttp.ScopeFrom(r.Context())
//	    uow, err := container.Resolve[*UnitOfWork](scope, "unitOfWork")
//	    ...
//	})
//
// The scope is disposed when the handler returns, even if it panics, so
// scoped instances that implement container.Releaser are always released.
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.JSON(200, data)           // raw JSON with status
//	res.Success(data)             // 200 {"data": ...}
//	res.Error(400, "bad input")   // {"message": "bad input"}
//	res.NotFound()                // 404 {"message": "Not found."}
//	res.ServerError()             // 500 {"message": "Server Error."}
package http
