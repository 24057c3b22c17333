package router

import (
	"net/http"

	docHandler "github.com/pasternak-karmel/google-clone/internal/document"
	"github.com/pasternak-karmel/google-clone/internal/document/service"
	"github.com/pasternak-karmel/google-clone/internal/identity"
	"github.com/pasternak-karmel/google-clone/middleware"
	"github.com/pasternak-karmel/google-clone/socket"
)

func Setup(docService *service.DocumentService, authHandler *identity.AuthHandler, verifier identity.Verifier, hub *socket.Hub) http.Handler {
	mux := http.NewServeMux()

	// WebSocket. No auth middleware here: the gateway resolves the
	// identity from the in-band handshake and tolerates missing
	// tokens.
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		socket.ServeWs(hub, w, r)
	})

	// REST API
	docs := docHandler.NewDocumentHandler(docService)
	auth := middleware.Auth(verifier)

	mux.Handle("/api/users", http.HandlerFunc(authHandler.Register))
	mux.Handle("/api/login", http.HandlerFunc(authHandler.Login))

	mux.Handle("/api/documents/create", auth(http.HandlerFunc(docs.CreateDocument)))
	mux.Handle("/api/documents/get", auth(http.HandlerFunc(docs.GetDocument)))
	mux.Handle("/api/documents/update", auth(http.HandlerFunc(docs.UpdateDocument)))
	mux.Handle("/api/documents/delete", auth(http.HandlerFunc(docs.DeleteDocument)))
	mux.Handle("/api/documents/share", auth(http.HandlerFunc(docs.ShareDocument)))
	mux.Handle("/api/documents/versions", auth(http.HandlerFunc(docs.GetVersions)))
	mux.Handle("/api/documents/revert", auth(http.HandlerFunc(docs.RevertDocument)))
	mux.Handle("/api/documents", auth(http.HandlerFunc(docs.GetDocuments)))

	return middleware.CORSMiddleware(mux)
}
