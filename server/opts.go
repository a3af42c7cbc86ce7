package server

import (
	"github.com/thatguystone/siteflow"
	"github.com/thatguystone/siteflow/internal/metrics"
)

// An Option is passed to New to change server options
type Option interface {
	applyTo(s *Server)
}

type option func(s *Server)

func (o option) applyTo(s *Server) { o(s) }

// Addr sets the address to listen on
func Addr(addr string) Option {
	return option(func(s *Server) {
		s.addr = addr
	})
}

// Metrics exposes the given recorder at MetricsPath
func Metrics(m *metrics.Recorder) Option {
	return option(func(s *Server) {
		s.metrics = m
	})
}

// LogTo sets the Logger that the server logs to
func LogTo(l siteflow.Logger) Option {
	return option(func(s *Server) {
		s.log = l
	})
}
