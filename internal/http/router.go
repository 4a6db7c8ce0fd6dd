package http

import (
	"log/slog"
	"net/http"
	"strings"
)

// RouterConfig collects the handlers and middleware the router serves.
type RouterConfig struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Bands         *BandHandler
	Songs         *SongHandler
	Setlists      *SetlistHandler
	Rehearsals    *RehearsalHandler
	Availability  *AvailabilityHandler
	Notifications *NotificationHandler
	Logger        *slog.Logger
	Middleware    []Middleware
}

// NewRouter builds the HTTP routing table. Middleware wraps the whole
// table, first entry outermost.
func NewRouter(cfg RouterConfig) http.Handler {
	resp := newResponder(cfg.Logger)
	mux := http.NewServeMux()

	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(resp, w, r, http.MethodPost)
			return
		}
		cfg.Auth.CreateSession(w, r)
	})

	mux.HandleFunc("/sessions/current", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			methodNotAllowed(resp, w, r, http.MethodDelete)
			return
		}
		cfg.Auth.DeleteCurrentSession(w, r)
	})

	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(resp, w, r, http.MethodPost)
			return
		}
		cfg.Users.Register(w, r)
	})

	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimPrefix(r.URL.Path, "/users/")
		if userID == "" || strings.Contains(userID, "/") {
			notFound(resp, w, r)
			return
		}
		r = r.WithContext(contextWithUserID(r.Context(), userID))

		switch r.Method {
		case http.MethodGet:
			cfg.Users.Get(w, r)
		case http.MethodPut:
			cfg.Users.Update(w, r)
		default:
			methodNotAllowed(resp, w, r, http.MethodGet, http.MethodPut)
		}
	})

	mux.HandleFunc("/bands", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Bands.List(w, r)
		case http.MethodPost:
			cfg.Bands.Create(w, r)
		default:
			methodNotAllowed(resp, w, r, http.MethodGet, http.MethodPost)
		}
	})

	mux.HandleFunc("/bands/", func(w http.ResponseWriter, r *http.Request) {
		segments := splitPath(strings.TrimPrefix(r.URL.Path, "/bands/"))
		if len(segments) == 0 {
			notFound(resp, w, r)
			return
		}
		r = r.WithContext(contextWithBandID(r.Context(), segments[0]))

		switch {
		case len(segments) == 1:
			switch r.Method {
			case http.MethodGet:
				cfg.Bands.Get(w, r)
			case http.MethodPut:
				cfg.Bands.Update(w, r)
			case http.MethodDelete:
				cfg.Bands.Delete(w, r)
			default:
				methodNotAllowed(resp, w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		case len(segments) == 2 && segments[1] == "members":
			switch r.Method {
			case http.MethodGet:
				cfg.Bands.ListMembers(w, r)
			case http.MethodPost:
				cfg.Bands.AddMember(w, r)
			default:
				methodNotAllowed(resp, w, r, http.MethodGet, http.MethodPost)
			}
		case len(segments) == 3 && segments[1] == "members":
			if r.Method != http.MethodDelete {
				methodNotAllowed(resp, w, r, http.MethodDelete)
				return
			}
			r = r.WithContext(contextWithMemberID(r.Context(), segments[2]))
			cfg.Bands.RemoveMember(w, r)
		case len(segments) == 2 && segments[1] == "songs":
			switch r.Method {
			case http.MethodGet:
				cfg.Songs.List(w, r)
			case http.MethodPost:
				cfg.Songs.Create(w, r)
			default:
				methodNotAllowed(resp, w, r, http.MethodGet, http.MethodPost)
			}
		case len(segments) == 2 && segments[1] == "setlists":
			switch r.Method {
			case http.MethodGet:
				cfg.Setlists.List(w, r)
			case http.MethodPost:
				cfg.Setlists.Create(w, r)
			default:
				methodNotAllowed(resp, w, r, http.MethodGet, http.MethodPost)
			}
		case len(segments) == 2 && segments[1] == "rehearsals":
			switch r.Method {
			case http.MethodGet:
				cfg.Rehearsals.List(w, r)
			case http.MethodPost:
				cfg.Rehearsals.Create(w, r)
			default:
				methodNotAllowed(resp, w, r, http.MethodGet, http.MethodPost)
			}
		case len(segments) == 2 && segments[1] == "calendar.ics":
			if r.Method != http.MethodGet {
				methodNotAllowed(resp, w, r, http.MethodGet)
				return
			}
			cfg.Bands.Calendar(w, r)
		default:
			notFound(resp, w, r)
		}
	})

	mux.HandleFunc("/songs/", func(w http.ResponseWriter, r *http.Request) {
		songID := strings.TrimPrefix(r.URL.Path, "/songs/")
		if songID == "" || strings.Contains(songID, "/") {
			notFound(resp, w, r)
			return
		}
		r = r.WithContext(contextWithSongID(r.Context(), songID))

		switch r.Method {
		case http.MethodGet:
			cfg.Songs.Get(w, r)
		case http.MethodPut:
			cfg.Songs.Update(w, r)
		case http.MethodDelete:
			cfg.Songs.Delete(w, r)
		default:
			methodNotAllowed(resp, w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
	})

	mux.HandleFunc("/setlists/", func(w http.ResponseWriter, r *http.Request) {
		setlistID := strings.TrimPrefix(r.URL.Path, "/setlists/")
		if setlistID == "" || strings.Contains(setlistID, "/") {
			notFound(resp, w, r)
			return
		}
		r = r.WithContext(contextWithSetlistID(r.Context(), setlistID))

		switch r.Method {
		case http.MethodGet:
			cfg.Setlists.Get(w, r)
		case http.MethodPut:
			cfg.Setlists.Update(w, r)
		case http.MethodDelete:
			cfg.Setlists.Delete(w, r)
		default:
			methodNotAllowed(resp, w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
	})

	mux.HandleFunc("/rehearsals/", func(w http.ResponseWriter, r *http.Request) {
		segments := splitPath(strings.TrimPrefix(r.URL.Path, "/rehearsals/"))
		if len(segments) == 0 {
			notFound(resp, w, r)
			return
		}
		r = r.WithContext(contextWithRehearsalID(r.Context(), segments[0]))

		switch {
		case len(segments) == 1:
			switch r.Method {
			case http.MethodGet:
				cfg.Rehearsals.Get(w, r)
			case http.MethodPut:
				cfg.Rehearsals.Update(w, r)
			case http.MethodDelete:
				cfg.Rehearsals.Delete(w, r)
			default:
				methodNotAllowed(resp, w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		case len(segments) == 2 && segments[1] == "attendance":
			switch r.Method {
			case http.MethodGet:
				cfg.Rehearsals.ListAttendance(w, r)
			case http.MethodPut:
				cfg.Rehearsals.RecordAttendance(w, r)
			default:
				methodNotAllowed(resp, w, r, http.MethodGet, http.MethodPut)
			}
		default:
			notFound(resp, w, r)
		}
	})

	mux.HandleFunc("/availability", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Availability.List(w, r)
		case http.MethodPost:
			cfg.Availability.Create(w, r)
		default:
			methodNotAllowed(resp, w, r, http.MethodGet, http.MethodPost)
		}
	})

	mux.HandleFunc("/availability/", func(w http.ResponseWriter, r *http.Request) {
		windowID := strings.TrimPrefix(r.URL.Path, "/availability/")
		if windowID == "" || strings.Contains(windowID, "/") {
			notFound(resp, w, r)
			return
		}
		r = r.WithContext(contextWithWindowID(r.Context(), windowID))

		switch r.Method {
		case http.MethodPut:
			cfg.Availability.Update(w, r)
		case http.MethodDelete:
			cfg.Availability.Delete(w, r)
		default:
			methodNotAllowed(resp, w, r, http.MethodPut, http.MethodDelete)
		}
	})

	mux.HandleFunc("/notifications", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(resp, w, r, http.MethodGet)
			return
		}
		cfg.Notifications.List(w, r)
	})

	mux.HandleFunc("/notifications/", func(w http.ResponseWriter, r *http.Request) {
		segments := splitPath(strings.TrimPrefix(r.URL.Path, "/notifications/"))
		if len(segments) != 2 || segments[1] != "read" {
			notFound(resp, w, r)
			return
		}
		if r.Method != http.MethodPost {
			methodNotAllowed(resp, w, r, http.MethodPost)
			return
		}
		r = r.WithContext(contextWithNotificationID(r.Context(), segments[0]))
		cfg.Notifications.MarkRead(w, r)
	})

	return applyMiddleware(mux, cfg.Middleware)
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func methodNotAllowed(resp responder, w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	resp.writeJSON(r.Context(), w, http.StatusMethodNotAllowed, errorResponse{
		Message: "the method is not allowed for this resource",
	})
}

func notFound(resp responder, w http.ResponseWriter, r *http.Request) {
	resp.writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{
		Message: "the requested resource was not found",
	})
}
