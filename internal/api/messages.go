package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/openHPI/herostore/pkg/messages"
)

const (
	ListMessagesRoute  = "listMessages"
	ClearMessagesRoute = "clearMessages"
)

type MessageController struct {
	journal *messages.Journal
}

// ConfigureRoutes configures a given router with the message routes of our API.
func (m *MessageController) ConfigureRoutes(router *mux.Router) {
	messagesRouter := router.PathPrefix(MessagesPath).Subrouter()
	messagesRouter.HandleFunc("", m.list).Methods(http.MethodGet).Name(ListMessagesRoute)
	messagesRouter.HandleFunc("", m.clear).Methods(http.MethodDelete).Name(ClearMessagesRoute)
}

// list handles the messages route with the method GET.
// It responds all retained messages in insertion order.
func (m *MessageController) list(writer http.ResponseWriter, request *http.Request) {
	sendJSON(request.Context(), writer, m.journal.List(), http.StatusOK)
}

// clear handles the messages route with the method DELETE.
// It removes all retained messages.
func (m *MessageController) clear(writer http.ResponseWriter, _ *http.Request) {
	m.journal.Clear()
	writer.WriteHeader(http.StatusNoContent)
}
