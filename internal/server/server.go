// Package server implements the trainer server: the accept loop, the
// per-connection role state machine, and the quiz lifecycle.
package server

import (
	"context"
	"net"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/config"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/connection"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/message"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/store"
)

// Server accepts trainer connections and runs one session per socket.
type Server struct {
	cfg    *config.Config
	store  store.Store
	logger logrus.FieldLogger

	mu       sync.Mutex
	sessions map[*session]struct{}
	online   map[string]int

	listener net.Listener
	ready    chan struct{}
}

// New creates a server. The store's lifecycle stays with the caller.
func New(cfg *config.Config, st store.Store) *Server {
	return &Server{
		cfg:      cfg,
		store:    st,
		logger:   logrus.StandardLogger().WithField("component", "server"),
		sessions: make(map[*session]struct{}),
		online:   make(map[string]int),
		ready:    make(chan struct{}),
	}
}

// Addr returns the bound listener address. Valid once Run has started
// listening; Ready reports that.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Run listens and serves until ctx is canceled. On shutdown every live
// connection is closed, which fails its pending calls.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	s.listener = ln
	close(s.ready)
	s.logger.WithField("addr", ln.Addr()).Info("server listening")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		_ = ln.Close()
		s.closeAll()
		return nil
	})
	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				select {
				case <-gctx.Done():
					s.logger.Info("server stopped")
					return nil
				default:
				}
				var ne net.Error
				if errors.As(err, &ne) && ne.Timeout() {
					continue
				}
				return errors.Wrap(err, "accept")
			}
			go s.handle(gctx, conn)
		}
	})
	return g.Wait()
}

// handle runs one connection to completion and releases its resources.
func (s *Server) handle(ctx context.Context, conn net.Conn) {
	ch := connection.New(conn,
		connection.WithMaxFrameSize(s.cfg.Protocol.MaxFrameSize),
		connection.WithLogger(s.logger),
	)
	sess := newSession(s, ch)
	ch.SetHandler(sess)

	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()

	s.logger.WithField("remote", conn.RemoteAddr()).Info("connection accepted")
	if err := ch.Run(ctx); err != nil {
		s.logger.WithError(err).WithField("remote", conn.RemoteAddr()).Info("connection closed")
	} else {
		s.logger.WithField("remote", conn.RemoteAddr()).Info("connection closed")
	}

	s.mu.Lock()
	delete(s.sessions, sess)
	s.mu.Unlock()
	if user := sess.username(); user != "" {
		s.markOffline(user)
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	open := make([]*session, 0, len(s.sessions))
	for sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()
	for _, sess := range open {
		sess.out.Close()
	}
}

func (s *Server) markOnline(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online[username]++
}

func (s *Server) markOffline(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.online[username] <= 1 {
		delete(s.online, username)
	} else {
		s.online[username]--
	}
}

func (s *Server) isOnline(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online[username] > 0
}

// setSessionsDeactivated updates the deactivation flag on every live
// session authenticated as username, so an account change takes effect
// without waiting for a reconnect.
func (s *Server) setSessionsDeactivated(username string, deactivated bool) {
	s.mu.Lock()
	targets := make([]*session, 0, 1)
	for sess := range s.sessions {
		if sess.username() == username {
			targets = append(targets, sess)
		}
	}
	s.mu.Unlock()
	for _, sess := range targets {
		sess.setDeactivated(deactivated)
	}
}

// notifyUser pushes a fire-and-forget notice to every live connection
// authenticated as username.
func (s *Server) notifyUser(username, text string) {
	s.mu.Lock()
	targets := make([]*session, 0, 1)
	for sess := range s.sessions {
		if sess.username() == username {
			targets = append(targets, sess)
		}
	}
	s.mu.Unlock()
	for _, sess := range targets {
		if err := sess.out.Send(&message.ServerNotice{Text: text}); err != nil {
			s.logger.WithError(err).WithField("user", username).Warn("notice delivery failed")
		}
	}
}
