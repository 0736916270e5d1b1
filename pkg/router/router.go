package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/xcontext"
)

type HandlerFunc[Request, Response any] func(context.Context, *Request) (*Response, error)

// MiddlewareFunc runs before or after the handler. It may return a new context
// to pass values forward. A nil context keeps the current one.
type MiddlewareFunc func(context.Context) (context.Context, error)

// CloserFunc runs at the end of every request, even if a middleware or the
// handler failed.
type CloserFunc func(context.Context)

// WebsocketHandler serves an upgraded connection. It blocks until the
// connection is closed.
type WebsocketHandler func(context.Context, *websocket.Conn) error

type Router struct {
	ctx    context.Context
	engine *gin.Engine

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// New creates a router whose request contexts derive from ctx, so every
// request inherits the configs, logger, database and token engine bound to it.
func New(ctx context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	r := &Router{ctx: ctx, engine: gin.New()}
	r.engine.Use(gin.Recovery())
	r.AddCloser(handleResponse())
	return r
}

// Branch returns a router sharing the routes of r. Middlewares added to the
// branch do not affect r.
func (r *Router) Branch() *Router {
	return &Router{
		ctx:     r.ctx,
		engine:  r.engine,
		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]MiddlewareFunc{}, r.afters...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) After(m MiddlewareFunc) {
	r.afters = append(r.afters, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

func (r *Router) Static(relativePath, root string) {
	r.engine.Static(relativePath, root)
}

// Handler returns the http.Handler of all routes, wrapped by CORS handling.
func (r *Router) Handler(allowedOrigins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		AllowCredentials: true,
	}).Handler(r.engine)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.GET(pattern, wrapHandler(r, handler, bindQuery[Request]))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.POST(pattern, wrapHandler(r, handler, bindBody[Request]))
}

// Websocket registers a GET route which upgrades the connection after all
// before-middlewares passed.
func (r *Router) Websocket(pattern string, handler WebsocketHandler) {
	befores := r.befores
	r.engine.GET(pattern, func(c *gin.Context) {
		ctx := r.newContext(c)
		ctx, err := runMiddlewares(ctx, befores)
		if err != nil {
			r.close(xcontext.WithError(ctx, err))
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot upgrade websocket: %v", err)
			return
		}

		if err := handler(ctx, conn); err != nil {
			xcontext.Logger(ctx).Debugf("Websocket closed: %v", err)
		}
	})
}

func (r *Router) newContext(c *gin.Context) context.Context {
	ctx := r.ctx
	ctx = xcontext.WithHTTPRequest(ctx, c.Request)
	ctx = xcontext.WithResponseWriter(ctx, c.Writer)
	return ctx
}

func (r *Router) close(ctx context.Context) {
	for _, closer := range r.closers {
		closer(ctx)
	}
}

func wrapHandler[Request, Response any](
	r *Router,
	handler HandlerFunc[Request, Response],
	bind func(*gin.Context, *Request) error,
) gin.HandlerFunc {
	befores, afters, closers := r.befores, r.afters, r.closers
	return func(c *gin.Context) {
		ctx := r.newContext(c)
		defer func() {
			for _, closer := range closers {
				closer(ctx)
			}
		}()

		ctx, err := runMiddlewares(ctx, befores)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			return
		}

		var req Request
		if err := bind(c, &req); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request"))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			return
		}

		ctx = xcontext.WithResponse(ctx, resp)
		ctx, err = runMiddlewares(ctx, afters)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
		}
	}
}

func runMiddlewares(ctx context.Context, middlewares []MiddlewareFunc) (context.Context, error) {
	for _, m := range middlewares {
		newCtx, err := m(ctx)
		if err != nil {
			return ctx, err
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, nil
}

func bindQuery[Request any](c *gin.Context, req *Request) error {
	return c.ShouldBindQuery(req)
}

// bindBody decodes a JSON body. Multipart requests are left to the handler,
// which reads the files from the request in the context.
func bindBody[Request any](c *gin.Context, req *Request) error {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil
	}

	err := c.ShouldBindJSON(req)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}
