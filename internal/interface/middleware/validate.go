package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/rkrajat/fullstack-monorpo-starter/pkg/apperr"
	"github.com/rkrajat/fullstack-monorpo-starter/pkg/validation"
)

// Context keys for the parsed request slots.
const (
	ctxBodyKey  = "validatedBody"
	ctxQueryKey = "validatedQuery"
	ctxURIKey   = "validatedURI"
)

const msgInvalidRequest = "Invalid request data"

// ValidateBody parses and validates the JSON body against T. On success the
// parsed value replaces the raw body for the handler (fetched via Body[T]);
// on failure the request short-circuits with a 400 carrying every violated
// constraint, and the handler never runs. All-or-nothing: nothing is stored
// on failure.
func ValidateBody[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req T
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWith(c, apperr.BadRequest(msgInvalidRequest).WithDetails(validation.ToViolations(err)))
			return
		}
		c.Set(ctxBodyKey, &req)
		c.Next()
	}
}

// ValidateQuery is ValidateBody for the query string slot.
func ValidateQuery[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req T
		if err := c.ShouldBindQuery(&req); err != nil {
			abortWith(c, apperr.BadRequest(msgInvalidRequest).WithDetails(validation.ToViolations(err)))
			return
		}
		c.Set(ctxQueryKey, &req)
		c.Next()
	}
}

// ValidateURI is ValidateBody for path parameters.
func ValidateURI[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req T
		if err := c.ShouldBindUri(&req); err != nil {
			abortWith(c, apperr.BadRequest(msgInvalidRequest).WithDetails(validation.ToViolations(err)))
			return
		}
		c.Set(ctxURIKey, &req)
		c.Next()
	}
}

// Body returns the value parsed by ValidateBody[T]. It panics if the route
// was not wired through the matching middleware; that is a programming error.
func Body[T any](c *gin.Context) *T {
	return mustGet[T](c, ctxBodyKey)
}

// Query returns the value parsed by ValidateQuery[T].
func Query[T any](c *gin.Context) *T {
	return mustGet[T](c, ctxQueryKey)
}

// URI returns the value parsed by ValidateURI[T].
func URI[T any](c *gin.Context) *T {
	return mustGet[T](c, ctxURIKey)
}

func mustGet[T any](c *gin.Context, key string) *T {
	v, ok := c.Get(key)
	if !ok {
		panic("validate: route not wired through validation middleware for " + key)
	}
	out, ok := v.(*T)
	if !ok {
		panic("validate: mismatched request type for " + key)
	}
	return out
}
