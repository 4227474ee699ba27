package main

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/thorgrid/tabletop-engine/internal/config"
	"github.com/thorgrid/tabletop-engine/internal/persistence/snapshot"
	"github.com/thorgrid/tabletop-engine/internal/protocol"
	"github.com/thorgrid/tabletop-engine/internal/ws"
)

type inboundKind int

const (
	inboundConnect inboundKind = iota
	inboundDisconnect
	inboundIntent
)

type inbound struct {
	kind   inboundKind
	connID string
	data   []byte
}

type saveRequest struct {
	data   []byte
	manual bool
}

// Session owns the authoritative scene and processes every intent on a single
// goroutine: connection read pumps feed the inbox, Run drains it, and each
// intent is handled to completion (validate, mutate, broadcast) before the
// next one. That serialization is what makes mutations atomic to observers
// and totally ordered across connections without locks. Only snapshot writes
// leave the loop; they run on pre-marshaled bytes in a background writer so
// disk latency never stalls intent handling.
type Session struct {
	cfg      config.Config
	log      *zap.SugaredLogger
	scene    *Scene
	hub      *ws.Hub
	registry *ConnectionRegistry
	store    *snapshot.Store
	dice     *DiceRoller

	inbox chan inbound
	saves chan saveRequest

	sequence uint64

	// fogCache holds lazily computed per-viewer fog maps, keyed by username.
	// Any mutation that feeds visibility clears it; entries are rebuilt on
	// the next requestVisibility or interaction check.
	fogCache map[string]*FogMap

	saveTimer *time.Timer
	dirty     bool

	now func() time.Time
}

func NewSession(cfg config.Config, log *zap.SugaredLogger, scene *Scene, store *snapshot.Store, hub *ws.Hub, dice *DiceRoller) *Session {
	s := &Session{
		cfg:      cfg,
		log:      log,
		scene:    scene,
		hub:      hub,
		registry: NewConnectionRegistry(),
		store:    store,
		dice:     dice,
		inbox:    make(chan inbound, 256),
		saves:    make(chan saveRequest, 8),
		fogCache: make(map[string]*FogMap),
		now:      time.Now,
	}
	s.saveTimer = time.NewTimer(cfg.SaveDebounce)
	if !s.saveTimer.Stop() {
		<-s.saveTimer.C
	}
	return s
}

// Connect registers a websocket with the hub and queues the connection for
// the session loop.
func (s *Session) Connect(id string, conn *websocket.Conn) {
	s.hub.Add(id, conn)
	s.inbox <- inbound{kind: inboundConnect, connID: id}
}

func (s *Session) Disconnect(id string) {
	s.inbox <- inbound{kind: inboundDisconnect, connID: id}
}

// Dispatch queues one raw intent frame from a connection read pump.
func (s *Session) Dispatch(id string, data []byte) {
	s.inbox <- inbound{kind: inboundIntent, connID: id, data: data}
}

// Run drains the inbox until the context is cancelled. The debounce timer and
// the periodic sweep both fire here so persistence scheduling shares the
// loop's ordering; a final synchronous save runs on shutdown.
func (s *Session) Run(ctx context.Context) {
	go s.runSaveWriter()

	sweep := time.NewTicker(s.cfg.SaveInterval)
	defer sweep.Stop()

	for {
		select {
		case msg := <-s.inbox:
			s.handleInbound(msg)
		case <-s.saveTimer.C:
			s.persist(false)
		case <-sweep.C:
			// Unconditional backstop, independent of the debounce.
			s.persist(false)
		case <-ctx.Done():
			close(s.saves)
			s.persistFinal()
			return
		}
	}
}

func (s *Session) handleInbound(msg inbound) {
	switch msg.kind {
	case inboundConnect:
		s.registry.Add(msg.connID)
		s.log.Debugw("connection opened", "conn", msg.connID)
	case inboundDisconnect:
		conn := s.registry.Get(msg.connID)
		s.registry.Remove(msg.connID)
		s.hub.Remove(msg.connID)
		if conn != nil && conn.LoggedIn {
			s.log.Infow("connection closed", "conn", msg.connID, "username", conn.Username)
			delete(s.fogCache, conn.Username)
			s.broadcastEvent(protocol.EventClients, protocol.Clients{Usernames: s.registry.Usernames()})
		}
	case inboundIntent:
		s.handleIntent(msg.connID, msg.data)
	}
}

// --- events ---

func (s *Session) envelope(eventType string, payload any) []byte {
	seq := atomic.AddUint64(&s.sequence, 1)
	data, err := json.Marshal(protocol.EventEnvelope{Sequence: seq, Type: eventType, Payload: payload})
	if err != nil {
		s.log.Errorw("marshal event", "type", eventType, "error", err)
		return nil
	}
	return data
}

func (s *Session) broadcastEvent(eventType string, payload any) {
	if data := s.envelope(eventType, payload); data != nil {
		s.hub.Broadcast(data)
	}
}

func (s *Session) sendEvent(connID, eventType string, payload any) {
	if data := s.envelope(eventType, payload); data != nil {
		s.hub.Send(connID, data)
	}
}

func (s *Session) sendEventTo(connIDs []string, eventType string, payload any) {
	if len(connIDs) == 0 {
		return
	}
	if data := s.envelope(eventType, payload); data != nil {
		s.hub.SendMany(connIDs, data)
	}
}

func (s *Session) sendError(connID string, err error) {
	if gameErr, ok := err.(*GameError); ok {
		s.sendEvent(connID, protocol.EventError, protocol.ErrorEvent{Code: gameErr.Code, Message: gameErr.Message})
		return
	}
	s.sendEvent(connID, protocol.EventError, protocol.ErrorEvent{Message: err.Error()})
}

// --- visibility cache ---

func (s *Session) invalidateFog() {
	clear(s.fogCache)
}

func (s *Session) fogFor(conn *Connection) *FogMap {
	if fog, ok := s.fogCache[conn.Username]; ok {
		return fog
	}
	fog := ComputeViewerFog(s.scene, conn.Role, conn.Username, s.cfg.FeetPerCell)
	s.fogCache[conn.Username] = fog
	return fog
}

// --- persistence ---

// markDirty restarts the debounce window; a burst of mutations coalesces
// into one write when the window finally elapses.
func (s *Session) markDirty() {
	s.dirty = true
	if !s.saveTimer.Stop() {
		select {
		case <-s.saveTimer.C:
		default:
		}
	}
	s.saveTimer.Reset(s.cfg.SaveDebounce)
}

// persist marshals the current scene and hands it to the background writer.
// manual saves announce success; autosaves stay quiet.
func (s *Session) persist(manual bool) {
	data, err := json.MarshalIndent(s.scene.Snapshot(), "", "  ")
	if err != nil {
		s.log.Errorw("marshal snapshot", "error", err)
		return
	}
	s.dirty = false
	select {
	case s.saves <- saveRequest{data: data, manual: manual}:
	default:
		// Writer is backed up; the periodic sweep will retry. In-memory
		// state stays authoritative either way.
		s.dirty = true
		s.log.Warnw("save queue full, deferring snapshot write")
	}
}

func (s *Session) runSaveWriter() {
	for req := range s.saves {
		if err := s.store.Save(req.data); err != nil {
			s.log.Errorw("snapshot write failed", "path", s.store.Path(), "error", err)
			s.broadcastEvent(protocol.EventError, protocol.ErrorEvent{
				Code:    protocol.ErrPersistence,
				Message: "failed to save game state; will retry",
			})
			continue
		}
		s.log.Infow("snapshot written", "path", s.store.Path(), "bytes", len(req.data))
		if req.manual {
			s.broadcastEvent(protocol.EventSaveSuccess, protocol.SaveSuccess{Message: "Game state saved."})
		}
	}
}

// persistFinal writes synchronously on shutdown so the last mutations are
// not lost to a pending debounce window.
func (s *Session) persistFinal() {
	data, err := json.MarshalIndent(s.scene.Snapshot(), "", "  ")
	if err != nil {
		s.log.Errorw("marshal final snapshot", "error", err)
		return
	}
	if err := s.store.Save(data); err != nil {
		s.log.Errorw("final snapshot write failed", "path", s.store.Path(), "error", err)
		return
	}
	s.log.Infow("final snapshot written", "path", s.store.Path())
}
