package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	householddomain "housing-coop-go/internal/domain/household"
	"housing-coop-go/pkg/logger"
)

// HeaderHouseholdID names the acting household. Authentication happens in front of this service.
const HeaderHouseholdID = "X-Household-ID"

type contextKey int

const actorKey contextKey = iota

type Actor struct {
	ID   string
	Name string
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == householddomain.RoleAdmin
}

type HouseholdLookup interface {
	GetHousehold(ctx context.Context, id string) (*householddomain.Household, error)
}

type ActorResolver struct {
	households HouseholdLookup
	log        logger.Logger
}

func NewActorResolver(households HouseholdLookup, log logger.Logger) *ActorResolver {
	return &ActorResolver{households: households, log: log}
}

func (a *ActorResolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderHouseholdID))
		if id == "" {
			writeError(w, http.StatusUnauthorized, "missing_actor", "X-Household-ID header is required")
			return
		}

		household, err := a.households.GetHousehold(r.Context(), id)
		if err != nil {
			if errors.Is(err, householddomain.ErrHouseholdNotFound) {
				a.log.BusinessError("actor: unknown household", err, "household_id", id)
				writeError(w, http.StatusUnauthorized, "unknown_actor", "unknown household")
				return
			}
			a.log.InternalError("actor: lookup failed", err, "household_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		if !household.Active {
			writeError(w, http.StatusForbidden, "inactive_actor", "household is not active")
			return
		}

		actor := Actor{ID: household.ID, Name: household.Name, Role: household.Role}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireAdmin rejects actors without the admin role. It must run after the resolver.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_actor", "X-Household-ID header is required")
			return
		}
		if !actor.IsAdmin() {
			writeError(w, http.StatusForbidden, "forbidden", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	if !ok || actor.ID == "" {
		return Actor{}, false
	}
	return actor, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
