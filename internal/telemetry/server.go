package telemetry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/markusressel/steer2go/internal/configuration"
	"github.com/markusressel/steer2go/internal/control"
	"github.com/markusressel/steer2go/internal/ui"
)

// Driver computes the reply for a telemetry sample
type Driver interface {
	Tick(sample control.Sample) control.Command
}

// Server accepts simulator websocket connections on any path
// and answers every telemetry event with a steer command.
type Server struct {
	address string
	driver  Driver
	echo    *echo.Echo

	connections atomic.Int64
}

func NewServer(config configuration.TelemetryConfig, driver Driver) *Server {
	s := &Server{
		address: config.Address(),
		driver:  driver,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Any("/*", s.handleConnection)
	s.echo = e

	return s
}

// Handler returns the http.Handler of the server
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Connections returns the number of currently connected clients
func (s *Server) Connections() int64 {
	return s.connections.Load()
}

// Run serves websocket connections until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	// connections are hijacked, so they only see the cancellation through their request context
	s.echo.Server.BaseContext = func(net.Listener) context.Context {
		return ctx
	}

	ui.Info("Listening for telemetry on %s", s.address)

	errs := make(chan error, 1)
	go func() {
		errs <- s.echo.Start(s.address)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		ui.Info("Stopping telemetry server...")
		timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		return s.echo.Shutdown(timeoutCtx)
	}
}

func (s *Server) handleConnection(c echo.Context) error {
	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		// the simulator does not send an Origin header matching our host
		InsecureSkipVerify: true,
	})
	if err != nil {
		ui.Warning("Rejected telemetry connection from %s: %v", c.RealIP(), err)
		return nil
	}
	defer conn.CloseNow()

	remote := c.RealIP()
	s.connections.Add(1)
	ui.Info("Telemetry client connected: %s", remote)
	defer func() {
		s.connections.Add(-1)
		ui.Info("Telemetry client disconnected: %s", remote)
	}()

	ctx := c.Request().Context()
	for {
		_, message, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				ui.Debug("Telemetry connection of %s closed: %v", remote, err)
			}
			return nil
		}

		reply, ok := s.HandleMessage(message)
		if !ok {
			continue
		}
		err = conn.Write(ctx, websocket.MessageText, []byte(reply))
		if err != nil {
			ui.Debug("Cannot reply to %s: %v", remote, err)
			return nil
		}
	}
}

// HandleMessage processes a single websocket message and returns the reply.
// ok is false if the message must not be answered.
func (s *Server) HandleMessage(message []byte) (reply string, ok bool) {
	frame, ok, err := DecodeFrame(message)
	if !ok {
		return "", false
	}
	if err != nil {
		ui.Warning("Ignoring malformed frame: %v", err)
		return "", false
	}
	if !frame.HasData() {
		return ManualReply, true
	}
	if frame.Event != EventTelemetry {
		return "", false
	}

	sample, err := DecodeTelemetry(frame.Data)
	if err != nil {
		ui.Warning("Ignoring malformed telemetry: %v", err)
		return "", false
	}

	command := s.driver.Tick(sample)
	reply, err = EncodeCommand(command)
	if err != nil {
		ui.Error("Cannot encode command %+v: %v", command, err)
		return "", false
	}
	return reply, true
}
