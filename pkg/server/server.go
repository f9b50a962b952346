package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/lexserve/pkg/config"
	"github.com/bastiangx/lexserve/pkg/lexicon"
	"github.com/bastiangx/lexserve/pkg/router"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const statsLogInterval = 1000

// Server handles the IPC for lexicon queries
type Server struct {
	router       *router.Router
	config       *config.Config
	decoder      *msgpack.Decoder
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	requestCount int
}

// NewServer creates a server using stdin/stdout
func NewServer(rt *router.Router, cfg *config.Config) *Server {
	return NewServerWithIO(rt, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing responses to w
func NewServerWithIO(rt *router.Router, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	bw := bufio.NewWriter(w)
	return &Server{
		router:  rt,
		config:  cfg,
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		writer:  bw,
		encoder: msgpack.NewEncoder(bw),
	}
}

// Start announces readiness and serves requests until the input ends.
// A clean end of input returns nil. An undecodable message is answered with an
// error and ends the loop, since the stream position is lost.
func (s *Server) Start() error {
	log.Debug("Starting server")
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("Input closed, stopping server")
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			if sendErr := s.sendError("", "malformed request", 400); sendErr != nil {
				return sendErr
			}
			return fmt.Errorf("decoding request: %w", err)
		}

		if err := s.handleRequest(req); err != nil {
			return err
		}
	}
}

// handleRequest dispatches on the command. Only write failures are returned.
func (s *Server) handleRequest(req Request) error {
	s.requestCount++
	if s.requestCount%statsLogInterval == 0 {
		log.Debug("Server stats", "requests", s.requestCount, "stats", s.router.Stats())
	}

	switch req.Command {
	case "", "query", "prefix", "wildcard", "correct", "lookup":
		if !utf8.ValidString(req.Query) {
			return s.sendError(req.ID, "query is not valid UTF-8", 400)
		}
		if utf8.RuneCountInString(req.Query) > s.config.Server.MaxQueryLen && s.config.Server.MaxQueryLen > 0 {
			return s.sendError(req.ID, fmt.Sprintf("query exceeds maximum length of %d characters", s.config.Server.MaxQueryLen), 400)
		}
	}

	switch req.Command {
	case "", "query":
		return s.handleQuery(req)
	case "prefix", "wildcard", "correct":
		return s.handleRaw(req)
	case "lookup":
		meaning, found := s.router.Lexicon().Lookup(req.Query)
		return s.send(LookupResponse{ID: req.ID, Word: req.Query, Meaning: meaning, Found: found})
	case "health":
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})
	case "stats":
		return s.send(StatsResponse{ID: req.ID, Stats: s.router.Stats()})
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown command: %s", req.Command), 400)
	}
}

func (s *Server) handleQuery(req Request) error {
	if req.Distance != nil {
		return s.sendError(req.ID, "distance is only accepted by the correct command", 400)
	}
	start := time.Now()
	res := s.router.Route(req.Query, s.limit(req.Limit))
	elapsed := time.Since(start)

	switch res.Kind {
	case router.KindEmpty:
		return s.sendError(req.ID, "missing 'q' parameter", 400)
	case router.KindRejected:
		return s.sendError(req.ID, "query rejected", 400)
	}
	return s.send(queryResponse(req.ID, res.Kind.String(), res.Entries, res.Total, elapsed))
}

func (s *Server) handleRaw(req Request) error {
	lx := s.router.Lexicon()
	limit := s.limit(req.Limit)

	start := time.Now()
	var entries []lexicon.Entry
	total := 0
	switch req.Command {
	case "prefix":
		entries = lx.Search(req.Query)
		total = len(entries)
		if len(entries) > limit {
			entries = entries[:limit]
		}
	case "wildcard":
		entries = lx.WildcardSearch(req.Query, limit)
		total = len(entries)
	case "correct":
		dist := s.config.Lexicon.MaxDistance
		if req.Distance != nil {
			dist = *req.Distance
		}
		if dist < 0 {
			return s.sendError(req.ID, "distance must not be negative", 400)
		}
		entries = lx.AutoCorrect(req.Query, dist, limit)
		total = len(entries)
	}
	elapsed := time.Since(start)

	return s.send(queryResponse(req.ID, req.Command, entries, total, elapsed))
}

// limit applies the default and upper bound to a requested limit
func (s *Server) limit(requested int) int {
	if requested < 1 {
		requested = s.config.Lexicon.DefaultLimit
	}
	if requested > s.config.Server.MaxLimit {
		requested = s.config.Server.MaxLimit
	}
	return requested
}

func queryResponse(id, kind string, entries []lexicon.Entry, total int, elapsed time.Duration) QueryResponse {
	results := make([]Entry, len(entries))
	for i, e := range entries {
		results[i] = Entry{Word: e.Word, Meaning: e.Meaning}
	}
	return QueryResponse{
		ID:        id,
		Kind:      kind,
		Results:   results,
		Count:     len(results),
		Total:     total,
		TimeTaken: elapsed.Microseconds(),
	}
}

// send encodes one response and flushes it to the client
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("encoding response: %w", err)
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	log.Debugf("Request %q failed: %s", id, message)
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
