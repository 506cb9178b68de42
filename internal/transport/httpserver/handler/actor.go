package handler

import (
	"net/http"

	"housing-coop-go/internal/transport/httpserver/middleware"
)

func requireActor(w http.ResponseWriter, r *http.Request) (middleware.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing_actor", "X-Household-ID header is required")
		return middleware.Actor{}, false
	}
	return actor, true
}

// requireSelfOrAdmin lets households act on their own records and admins on anyone's.
func requireSelfOrAdmin(w http.ResponseWriter, r *http.Request, householdID string) (middleware.Actor, bool) {
	actor, ok := requireActor(w, r)
	if !ok {
		return middleware.Actor{}, false
	}
	if actor.ID != householdID && !actor.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden", "not allowed for another household")
		return middleware.Actor{}, false
	}
	return actor, true
}
