package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/nethmitharushika56/portfolio/internal/content"
	"github.com/nethmitharushika56/portfolio/internal/core"
	"github.com/nethmitharushika56/portfolio/internal/navigation"
	"github.com/nethmitharushika56/portfolio/internal/overlay"
	"github.com/nethmitharushika56/portfolio/internal/scene"
	"github.com/nethmitharushika56/portfolio/internal/store"
)

// Services are the components the HTTP surface exposes.
type Services struct {
	Registry   *content.Registry
	Navigation *navigation.Machine
	Scene      *scene.Presenter
	Overlay    *overlay.Presenter
	Renderer   *overlay.Renderer
	Chat       *core.ChatWidget
	StreamRate int // frames per second pushed over the websocket
	Debug      bool
}

type APIHandler struct {
	reg        *content.Registry
	nav        *navigation.Machine
	scene      *scene.Presenter
	overlay    *overlay.Presenter
	renderer   *overlay.Renderer
	chat       *core.ChatWidget
	hub        *Hub
	streamRate int
	debug      bool

	unsubscribe []func()
}

// NewAPIHandler wires the websocket hub to navigation changes, scene frames
// and chat updates.
func NewAPIHandler(s Services) *APIHandler {
	h := &APIHandler{
		reg:        s.Registry,
		nav:        s.Navigation,
		scene:      s.Scene,
		overlay:    s.Overlay,
		renderer:   s.Renderer,
		chat:       s.Chat,
		hub:        NewHub(s.Debug),
		streamRate: s.StreamRate,
		debug:      s.Debug,
	}

	h.unsubscribe = append(h.unsubscribe,
		h.nav.Subscribe(func(c navigation.Change) {
			if h.debug {
				log.Printf("Navigation %s -> %s", c.From, c.To)
			}
			h.hub.Broadcast(Event{Type: EventNavigation, Navigation: &c})
		}),
		h.scene.Subscribe(throttleFrames(h.streamRate, func(f scene.Frame) {
			h.hub.Broadcast(Event{Type: EventFrame, Frame: &f})
		})),
	)
	h.chat.OnChange(func(st core.WidgetState) {
		h.hub.Broadcast(Event{Type: EventChat, Chat: &st})
	})
	return h
}

// Close detaches the handler from its sources and disconnects every
// websocket client.
func (h *APIHandler) Close() {
	for _, fn := range h.unsubscribe {
		fn()
	}
	h.hub.Close()
}

type HealthResponse struct {
	Status   string `json:"status"`
	Messages int    `json:"messages"`
	Clients  int    `json:"clients"`
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.chat.MessageCount()
	if err != nil {
		log.Printf("Error counting chat messages: %v", err)
		http.Error(w, "Transcript unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Messages: count, Clients: h.hub.Clients()})
}

func (h *APIHandler) PageHandler(w http.ResponseWriter, r *http.Request) {
	st, err := h.chat.State()
	if err != nil {
		log.Printf("Error loading chat state: %v", err)
		http.Error(w, "Failed to load chat", http.StatusInternalServerError)
		return
	}

	page := overlay.Page{
		View:       h.overlay.Current(),
		Chat:       chatView(st),
		StreamRate: h.streamRate,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderPage(w, page); err != nil {
		log.Printf("Error rendering page: %v", err)
	}
}

func (h *APIHandler) OverlayHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderPanel(w, h.overlay.Current()); err != nil {
		log.Printf("Error rendering overlay: %v", err)
	}
}

type StateResponse struct {
	Active  content.Section `json:"active"`
	Overlay overlay.View    `json:"overlay"`
}

func (h *APIHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	view := h.overlay.Current()
	writeJSON(w, http.StatusOK, StateResponse{Active: h.nav.Active(), Overlay: view})
}

type NavigateRequest struct {
	Section string `json:"section"`
}

type NavigateResponse struct {
	Active content.Section `json:"active"`
}

func (h *APIHandler) NavigateHandler(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	section, err := content.ParseSection(req.Section)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.nav.Navigate(section); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, NavigateResponse{Active: h.nav.Active()})
}

func (h *APIHandler) SceneHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scene.Frame())
}

type PointerResponse struct {
	Cursor scene.Cursor `json:"cursor"`
}

func (h *APIHandler) PointerHandler(w http.ResponseWriter, r *http.Request) {
	var ptr scene.Pointer
	if err := json.NewDecoder(r.Body).Decode(&ptr); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, PointerResponse{Cursor: h.scene.PointerMove(ptr)})
}

type ClickResponse struct {
	Active content.Section `json:"active"`
}

func (h *APIHandler) ClickHandler(w http.ResponseWriter, r *http.Request) {
	var ptr scene.Pointer
	if err := json.NewDecoder(r.Body).Decode(&ptr); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, ClickResponse{Active: h.scene.Click(ptr)})
}

func (h *APIHandler) SkillsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.reg.SkillGroups())
}

// ChatStateHandler returns the widget state as JSON, or the rendered widget
// with ?format=html.
func (h *APIHandler) ChatStateHandler(w http.ResponseWriter, r *http.Request) {
	st, err := h.chat.State()
	if err != nil {
		log.Printf("Error loading chat state: %v", err)
		http.Error(w, "Failed to load chat", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := h.renderer.RenderChat(w, chatView(st)); err != nil {
			log.Printf("Error rendering chat: %v", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, st)
}

const defaultHistoryLimit = 50

// ChatHistoryHandler pages through the whole transcript with ?limit and
// ?offset.
func (h *APIHandler) ChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultHistoryLimit)
	if err != nil || limit <= 0 {
		http.Error(w, "Invalid limit", http.StatusBadRequest)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		http.Error(w, "Invalid offset", http.StatusBadRequest)
		return
	}

	msgs, err := h.chat.History(limit, offset)
	if err != nil {
		log.Printf("Error loading chat history: %v", err)
		http.Error(w, "Failed to load chat history", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []store.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

type ToggleResponse struct {
	Open bool `json:"open"`
}

func (h *APIHandler) ChatToggleHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ToggleResponse{Open: h.chat.Toggle()})
}

type PostMessageRequest struct {
	Text string `json:"text"`
}

// PostMessageHandler accepts a visitor message. The reply is delivered
// later over the websocket and through GET /api/chat.
func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	msg, err := h.chat.Submit(r.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyMessage):
			http.Error(w, "Message text cannot be empty", http.StatusBadRequest)
		case errors.Is(err, core.ErrMessagePending):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, core.ErrUnmounted):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		default:
			log.Printf("Error posting chat message: %v", err)
			http.Error(w, "Failed to post message", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusAccepted, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func chatView(st core.WidgetState) overlay.ChatView {
	lines := make([]overlay.ChatLine, 0, len(st.Messages))
	for _, m := range st.Messages {
		lines = append(lines, overlay.ChatLine{Role: m.Role, Text: m.Text})
	}
	return overlay.ChatView{Open: st.Open, Pending: st.Pending, Messages: lines}
}
