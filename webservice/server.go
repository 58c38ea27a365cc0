package webservice

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
)

type Server struct {
	listener net.Listener
	iface    string
	port     string
	mux      *http.ServeMux

	listenerMtx sync.Mutex
}

func NewServer(iface string, port string) *Server {
	s := &Server{
		iface: iface,
		port:  port,
		mux:   http.NewServeMux(),
	}
	s.mux.HandleFunc("/", indexHandler)
	s.mux.HandleFunc("/run", runHandler)
	s.mux.HandleFunc("/cfsm", cfsmHandler)
	s.mux.HandleFunc("/migo", migoHandler)
	return s
}

// Handler returns the request router of the server.
func (s *Server) Handler() http.Handler { return s.mux }

// Start serves requests until the listener is closed.
func (s *Server) Start() error {
	l, err := s.Listener()
	if err != nil {
		return err
	}
	log.Printf("Listening at %s", s.URL())
	return (&http.Server{Handler: s.mux}).Serve(l)
}

func (s *Server) Close() error {
	l, err := s.Listener()
	if err != nil {
		return err
	}
	return l.Close()
}

func (s *Server) URL() string {
	l, err := s.Listener()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("http://%s/", l.Addr())
}

func (s *Server) Listener() (net.Listener, error) {
	s.listenerMtx.Lock()
	defer s.listenerMtx.Unlock()

	if s.listener != nil {
		return s.listener, nil
	}

	listener, err := net.Listen("tcp4", net.JoinHostPort(s.iface, s.port))
	if err != nil {
		return nil, err
	}
	s.listener = listener
	return s.listener, nil
}
