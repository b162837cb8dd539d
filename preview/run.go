package preview

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"blockcss/render"
	"blockcss/state"
)

const shutdownTimeout = 5 * time.Second

// Run serves preview until context is cancelled.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("preview")

	listen := env.Cfg.Preview.Listen
	if l := cmd.String("listen"); len(l) > 0 {
		listen = l
	}

	store := NewStore(render.NewFromEnv(env), env.Cfg.Preview.Attribute, env.Cfg.Preview.EventBuffer, env.Log)

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", listen, err)
	}
	return Serve(ctx, ln, NewServer(store, listen, env.Log), log)
}

// Serve accepts connections on listener until context is cancelled, then
// shuts server down gracefully.
func Serve(ctx context.Context, ln net.Listener, s *Server, log *zap.Logger) error {
	srv := s.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Info("Preview server started", zap.String("address", ln.Addr().String()))

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("preview server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Preview server stopping")
	s.Close()

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("unable to stop preview server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
