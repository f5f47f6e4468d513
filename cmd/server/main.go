package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"talon/engine"
	tm "talon/talonmg"
)

type analyzeRequest struct {
	FEN        string `json:"fen"`
	Depth      int    `json:"depth"`
	MoveTimeMS int    `json:"movetime_ms"`
	Nodes      uint64 `json:"nodes"`
}

type analyzeResponse struct {
	BestMove    string   `json:"best_move"`
	Score       int      `json:"score_cp"`
	Depth       int      `json:"depth"`
	Nodes       uint64   `json:"nodes"`
	TimeMS      int64    `json:"time_ms"`
	PV          []string `json:"pv"`
	Termination string   `json:"termination"`
	TTHitRate   float64  `json:"tt_hit_rate"`
	CutoffRate  float64  `json:"cutoff_rate"`
}

type evalResponse struct {
	FEN   string `json:"fen"`
	Score int    `json:"score_cp"`
}

type legalResponse struct {
	FEN   string   `json:"fen"`
	Moves []string `json:"moves"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("writeJSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func requestLimits(req analyzeRequest) engine.Limits {
	limits := engine.Limits{
		Depth:      req.Depth,
		MoveTimeMS: req.MoveTimeMS,
		Nodes:      req.Nodes,
	}
	if limits.Depth == 0 && limits.MoveTimeMS == 0 && limits.Nodes == 0 {
		limits.MoveTimeMS = 2000
	}
	return limits
}

func resultToResponse(res engine.Result) analyzeResponse {
	pv := make([]string, len(res.PV))
	for i, m := range res.PV {
		pv[i] = m.String()
	}
	return analyzeResponse{
		BestMove:    res.BestMove.String(),
		Score:       res.Score,
		Depth:       res.Depth,
		Nodes:       res.Nodes,
		TimeMS:      res.Time.Milliseconds(),
		PV:          pv,
		Termination: res.Termination.String(),
		TTHitRate:   res.TTHitRate,
		CutoffRate:  res.CutoffRate,
	}
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	hashMB := flag.Int("hash", engine.DefaultOptions().HashMB, "transposition table size in MB")
	flag.Parse()

	opts := engine.DefaultOptions()
	opts.HashMB = *hashMB

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/eval", func(w http.ResponseWriter, r *http.Request) {
		fen := r.URL.Query().Get("fen")
		pos, err := tm.ParseFEN(fen)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, evalResponse{FEN: pos.ToFEN(), Score: engine.Evaluate(pos)})
	})

	r.Get("/api/legal", func(w http.ResponseWriter, r *http.Request) {
		fen := r.URL.Query().Get("fen")
		pos, err := tm.ParseFEN(fen)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		moves := pos.GenerateMoves()
		out := make([]string, len(moves))
		for i, m := range moves {
			out[i] = m.String()
		}
		writeJSON(w, http.StatusOK, legalResponse{FEN: pos.ToFEN(), Moves: out})
	})

	r.Get("/api/perft", func(w http.ResponseWriter, r *http.Request) {
		fen := r.URL.Query().Get("fen")
		if fen == "" {
			fen = tm.StartFEN
		}
		depth, _ := strconv.Atoi(r.URL.Query().Get("depth"))
		if depth < 1 || depth > 7 {
			writeError(w, http.StatusBadRequest, errors.New("depth must be between 1 and 7"))
			return
		}
		pos, err := tm.ParseFEN(fen)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"fen":   pos.ToFEN(),
			"depth": depth,
			"nodes": tm.Perft(pos, depth),
		})
	})

	r.Post("/api/analyze", func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid payload"))
			return
		}
		// One engine per request keeps searches independent.
		eng := engine.New(opts)
		if err := eng.SetPositionFEN(req.FEN); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		res, err := eng.Search(requestLimits(req))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, resultToResponse(res))
	})

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	// The socket streams one JSON event per completed iteration, then a
	// final "result" event.
	r.Get("/ws/analyze", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("ws upgrade: %v", err)
			return
		}
		defer conn.Close()

		var req analyzeRequest
		if err := conn.ReadJSON(&req); err != nil {
			_ = conn.WriteJSON(map[string]string{"error": "invalid payload"})
			return
		}
		eng := engine.New(opts)
		if err := eng.SetPositionFEN(req.FEN); err != nil {
			_ = conn.WriteJSON(map[string]string{"error": err.Error()})
			return
		}
		eng.SetOutput(&wsInfoWriter{conn: conn})
		res, err := eng.Search(requestLimits(req))
		if err != nil {
			_ = conn.WriteJSON(map[string]string{"error": err.Error()})
			return
		}
		_ = conn.WriteJSON(map[string]any{"event": "result", "data": resultToResponse(res)})
	})

	srv := &http.Server{Addr: *addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("talon server listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// wsInfoWriter forwards each search info line as a websocket event.
type wsInfoWriter struct {
	conn *websocket.Conn
}

func (w *wsInfoWriter) Write(p []byte) (int, error) {
	line := string(p)
	if err := w.conn.WriteJSON(map[string]string{"event": "info", "line": line}); err != nil {
		return 0, err
	}
	return len(p), nil
}
