package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, resolver CredentialResolver) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.Handle("GET /v1/connectivity", OptionalAuth(resolver, http.HandlerFunc(handler.Connectivity)))
}

func registerSessionRoutes(mux *http.ServeMux, handler *Handler, resolver CredentialResolver) {
	mux.Handle("GET /v1/profile", RequireAuth(resolver, http.HandlerFunc(handler.GetProfile)))
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler, resolver CredentialResolver) {
	mux.Handle("GET /v1/matches", RequireAuth(resolver, http.HandlerFunc(handler.ListMatches)))
	mux.Handle("POST /v1/matches/{matchID}/join", RequireAuth(resolver, http.HandlerFunc(handler.JoinMatch)))
	mux.Handle("POST /v1/matches/{matchID}/leave", RequireAuth(resolver, http.HandlerFunc(handler.LeaveMatch)))
	mux.Handle("DELETE /v1/matches/{matchID}", RequireAuth(resolver, http.HandlerFunc(handler.DeleteMatch)))

	mux.Handle("POST /v1/matches/{matchID}/team-selector", RequireAuth(resolver, http.HandlerFunc(handler.OpenTeamSelector)))
	mux.Handle("GET /v1/matches/{matchID}/team-selector", RequireAuth(resolver, http.HandlerFunc(handler.GetTeamSelector)))
	mux.Handle("DELETE /v1/matches/{matchID}/team-selector", RequireAuth(resolver, http.HandlerFunc(handler.CloseTeamSelector)))
	mux.Handle("PUT /v1/matches/{matchID}/team-selector/selection", RequireAuth(resolver, http.HandlerFunc(handler.SelectPosition)))
	mux.Handle("POST /v1/matches/{matchID}/team-selector/confirm", RequireAuth(resolver, http.HandlerFunc(handler.ConfirmTeamSelection)))
}

func registerWizardRoutes(mux *http.ServeMux, handler *Handler, resolver CredentialResolver) {
	mux.Handle("POST /v1/wizards", RequireAuth(resolver, http.HandlerFunc(handler.StartWizard)))
	mux.Handle("GET /v1/wizards/{draftID}", RequireAuth(resolver, http.HandlerFunc(handler.GetWizard)))
	mux.Handle("PATCH /v1/wizards/{draftID}", RequireAuth(resolver, http.HandlerFunc(handler.UpdateWizard)))
	mux.Handle("DELETE /v1/wizards/{draftID}", RequireAuth(resolver, http.HandlerFunc(handler.DiscardWizard)))
	mux.Handle("POST /v1/wizards/{draftID}/next", RequireAuth(resolver, http.HandlerFunc(handler.NextWizardStep)))
	mux.Handle("POST /v1/wizards/{draftID}/back", RequireAuth(resolver, http.HandlerFunc(handler.BackWizardStep)))
	mux.Handle("POST /v1/wizards/{draftID}/submit", RequireAuth(resolver, http.HandlerFunc(handler.SubmitWizard)))
}

func registerNotificationRoutes(mux *http.ServeMux, handler *Handler, resolver CredentialResolver) {
	mux.Handle("GET /v1/notifications", RequireAuth(resolver, http.HandlerFunc(handler.ListNotifications)))
	mux.Handle("POST /v1/notifications/read", RequireAuth(resolver, http.HandlerFunc(handler.MarkNotificationsRead)))
	mux.Handle("GET /v1/notifications/stream", RequireAuth(resolver, http.HandlerFunc(handler.StreamNotifications)))
}
