package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thorgrid/tabletop-engine/internal/config"
	"github.com/thorgrid/tabletop-engine/internal/persistence/snapshot"
	"github.com/thorgrid/tabletop-engine/internal/protocol"
	"github.com/thorgrid/tabletop-engine/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogFile)
	defer logger.Sync()

	store := snapshot.NewStore(filepath.Join(cfg.DataDir, cfg.SnapshotFile), cfg.CompressSnapshots)
	scene := loadScene(cfg, store, logger)

	session := NewSession(cfg, logger, scene, store, ws.NewHub(), NewDiceRoller(time.Now().UnixNano()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionDone := make(chan struct{})
	go func() {
		session.Run(ctx)
		close(sessionDone)
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", serveWS(session, logger))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infow("listening", "addr", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("server failed", "error", err)
	}

	// The session loop writes a final snapshot on shutdown; wait for it.
	<-sessionDone
	logger.Infow("shutdown complete")
}

// loadScene restores the persisted scene, falling back to an empty default
// grid when no snapshot exists or the file cannot be read.
func loadScene(cfg config.Config, store *snapshot.Store, log *zap.SugaredLogger) *Scene {
	data, err := store.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Infow("no saved state, starting fresh")
		} else {
			log.Warnw("could not read saved state, starting fresh", "path", store.Path(), "error", err)
		}
		return NewScene(cfg.DefaultGridWidth, cfg.DefaultGridHeight)
	}
	var snap protocol.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Warnw("saved state is corrupt, starting fresh", "path", store.Path(), "error", err)
		return NewScene(cfg.DefaultGridWidth, cfg.DefaultGridHeight)
	}
	scene := SceneFromSnapshot(snap, cfg.MinGridSize, cfg.MaxGridSize)
	log.Infow("state loaded", "path", store.Path(), "tokens", len(scene.Tokens),
		"width", scene.Grid.Width, "height", scene.Grid.Height)
	return scene
}

// serveWS upgrades the connection and runs its read pump. Writes go through
// the hub's per-client queue, so this goroutine only ever reads.
func serveWS(s *Session, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// Sessions are hosted on a LAN or behind a trusted proxy; the
			// login handshake is the access gate, not the origin header.
			InsecureSkipVerify: true,
		})
		if err != nil {
			log.Warnw("websocket accept failed", "remote", r.RemoteAddr, "error", err)
			return
		}

		id := uuid.NewString()
		s.Connect(id, conn)
		defer s.Disconnect(id)

		for {
			msgType, data, err := conn.Read(r.Context())
			if err != nil {
				return
			}
			if msgType != websocket.MessageText {
				continue
			}
			s.Dispatch(id, data)
		}
	}
}
