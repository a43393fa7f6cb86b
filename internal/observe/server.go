package observe

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/trichroma/internal/ipc"
	"github.com/GriffinCanCode/trichroma/internal/logging"
	"github.com/GriffinCanCode/trichroma/internal/supervisor"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Diagnostics endpoint, meant for same-host use.
		return true
	},
}

// StatusReport is the /status payload.
type StatusReport struct {
	Service     string              `json:"service"`
	Channel     ipc.Stats           `json:"channel"`
	Search      supervisor.Snapshot `json:"search"`
	Subscribers int                 `json:"subscribers"`
}

// Server exposes search diagnostics over HTTP while the supervisor
// runs.
type Server struct {
	httpSrv *http.Server
	hub     *Hub
	stats   func() ipc.Stats
	snap    func() supervisor.Snapshot
	log     *logging.Logger
}

// NewServer wires the health, status, metrics and stream routes.
func NewServer(addr string, metrics *Metrics, hub *Hub, stats func() ipc.Stats, snap func() supervisor.Snapshot, log *logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		hub:   hub,
		stats: stats,
		snap:  snap,
		log:   log,
	}

	router.GET("/healthz", s.health)
	router.GET("/status", s.status)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))
	router.GET("/stream", s.stream)

	s.httpSrv = &http.Server{Addr: addr, Handler: router}
	return s
}

// Handler returns the route handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	s.log.Info("📡 Diagnostics listening", zap.String("addr", s.httpSrv.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "trichroma-supervisor",
		"channel": s.stats(),
	})
}

func (s *Server) status(c *gin.Context) {
	report := StatusReport{
		Service:     "trichroma-supervisor",
		Channel:     s.stats(),
		Search:      s.snap(),
		Subscribers: s.hub.Len(),
	}
	buf, err := sonic.Marshal(report)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf)
}

// stream upgrades to a websocket and forwards progress events until
// the client disconnects or the hub closes.
func (s *Server) stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	events, cancel := s.hub.Subscribe()
	defer cancel()

	// The read pump only detects the client going away.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	hello, _ := sonic.Marshal(gin.H{"type": "system", "message": "connected"})
	if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
		return
	}
	s.log.Debug("Stream subscriber connected", zap.String("remote", conn.RemoteAddr().String()))

	for {
		select {
		case <-clientGone:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			buf, err := sonic.Marshal(ev)
			if err != nil {
				s.log.Warn("Event encode failed", zap.Error(err))
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, buf); err != nil {
				return
			}
		}
	}
}
