package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/etnz/taxreform"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// allowed are the methods accepted by the computation routes.
var allowed = []string{http.MethodPost}

// Server exposes an Engine over HTTP.
type Server struct {
	engine *taxreform.Engine
	cfg    Config
	log    *zap.Logger
	router *gin.Engine
}

// NewServer creates a server computing with engine.
func NewServer(engine *taxreform.Engine, cfg Config, log *zap.Logger) *Server {
	if cfg.Stage == StageProd {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{engine: engine, cfg: cfg, log: log}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestID())
	r.Use(s.accessLog())
	r.Use(configureCORS(cfg.AllowedOrigins))

	s.route(r, "/api", s.Calculate)
	s.route(r, "/api/calculate", s.Calculate)
	s.route(r, "/api/estimate", s.Estimate)
	r.GET("/healthz", s.Health)

	s.router = r
	return s
}

// route registers a computation handler on path: POST computes, OPTIONS is a
// pre-flight and every other method is refused.
func (s *Server) route(r *gin.Engine, path string, h gin.HandlerFunc) {
	r.POST(path, h)
	r.OPTIONS(path, s.Preflight)
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		r.Handle(m, path, s.MethodNotAllowed)
	}
}

// Handler returns the http.Handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", srv.Addr), zap.String("stage", s.cfg.Stage))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func configureCORS(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowMethods = []string{http.MethodPost, http.MethodOptions}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept"}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	return cors.New(corsConfig)
}

// requestID makes sure every request has an id, echoed in the response.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			s.log.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			s.log.Warn("request", fields...)
		default:
			s.log.Info("request", fields...)
		}
	}
}

// allowHeader is the value of the Allow header of the computation routes.
func allowHeader() string {
	return strings.Join(append(append([]string{}, allowed...), http.MethodOptions), ", ")
}
