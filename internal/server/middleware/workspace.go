package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header-based tenancy: every API request names its workspace and user.
// X-Workspace-Id must be a UUID; X-User-Id is an opaque identity string
// (a UUID or a name pseudo-id).
const (
	HeaderWorkspaceID = "X-Workspace-Id"
	HeaderUserID      = "X-User-Id"
)

// Workspace extracts the workspace and user identity headers into the
// request context, rejecting requests that carry neither.
func Workspace() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawWorkspace := r.Header.Get(HeaderWorkspaceID)
			userID := r.Header.Get(HeaderUserID)
			if rawWorkspace == "" || userID == "" {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"missing X-Workspace-Id or X-User-Id headers"}`, http.StatusUnauthorized)
				return
			}

			workspaceID, err := uuid.Parse(rawWorkspace)
			if err != nil {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"X-Workspace-Id must be a UUID"}`, http.StatusUnauthorized)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, ContextKeyWorkspaceID, workspaceID)
			ctx = context.WithValue(ctx, ContextKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
