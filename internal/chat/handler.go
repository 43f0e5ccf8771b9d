package chat

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pingchat/internal/apperr"
	"pingchat/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for now (Dev mode)
	},
}

type Handler struct {
	service  *Service
	registry *Registry
}

func NewHandler(service *Service, registry *Registry) *Handler {
	return &Handler{service: service, registry: registry}
}

// SendMessage handles POST /api/messages/{receiverId}.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	senderID, ok := authedUser(r)
	if !ok {
		apperr.Respond(w, apperr.Unauthorized("unauthorized"))
		return
	}

	receiverID, err := uuid.Parse(chi.URLParam(r, "receiverId"))
	if err != nil {
		apperr.Respond(w, apperr.InvalidArg("invalid receiver id"))
		return
	}

	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Respond(w, apperr.InvalidArg("invalid request body"))
		return
	}

	msg, err := h.service.SendMessage(r.Context(), senderID, receiverID, req.Text, req.Media)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}

// GetMessages handles GET /api/messages/{partnerId}.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(r)
	if !ok {
		apperr.Respond(w, apperr.Unauthorized("unauthorized"))
		return
	}

	partnerID, err := uuid.Parse(chi.URLParam(r, "partnerId"))
	if err != nil {
		apperr.Respond(w, apperr.InvalidArg("invalid partner id"))
		return
	}

	msgs, err := h.service.GetConversation(r.Context(), userID, partnerID)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(msgs)
}

// GetContacts handles GET /api/contacts: every other user, for starting a
// first conversation.
func (h *Handler) GetContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(r)
	if !ok {
		apperr.Respond(w, apperr.Unauthorized("unauthorized"))
		return
	}

	contacts, err := h.service.ListContacts(r.Context(), userID)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(contacts)
}

// GetChatPartners handles GET /api/conversation-partners: the contact list
// derived from message history.
func (h *Handler) GetChatPartners(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(r)
	if !ok {
		apperr.Respond(w, apperr.Unauthorized("unauthorized"))
		return
	}

	partners, err := h.service.ListPartners(r.Context(), userID)
	if err != nil {
		apperr.Respond(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(partners)
}

// ServeWs upgrades to a websocket and binds it as the user's live
// connection. The read pump unbinds on disconnect.
func (h *Handler) ServeWs(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(r)
	if !ok {
		apperr.Respond(w, apperr.Unauthorized("unauthorized"))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	client := NewClient(userID, conn, h.registry)
	h.registry.Bind(userID, client)

	go client.WritePump()
	go client.ReadPump()
}

func authedUser(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(middleware.UserKey).(uuid.UUID)
	return id, ok
}
