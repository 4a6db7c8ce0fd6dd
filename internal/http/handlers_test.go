package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/rehearsal-scheduler/internal/application"
	"github.com/example/rehearsal-scheduler/internal/reconcile"
)

type authServiceStub struct {
	authenticate func(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error)
	revoke       func(ctx context.Context, token string) error
}

func (s *authServiceStub) Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
	return s.authenticate(ctx, params)
}

func (s *authServiceStub) RevokeSession(ctx context.Context, token string) error {
	return s.revoke(ctx, token)
}

type userServiceStub struct {
	register func(ctx context.Context, params application.RegisterUserParams) (application.User, error)
	get      func(ctx context.Context, principal application.Principal, userID string) (application.User, error)
	update   func(ctx context.Context, params application.UpdateUserParams) (application.User, error)
}

func (s *userServiceStub) RegisterUser(ctx context.Context, params application.RegisterUserParams) (application.User, error) {
	return s.register(ctx, params)
}

func (s *userServiceStub) GetUser(ctx context.Context, principal application.Principal, userID string) (application.User, error) {
	return s.get(ctx, principal, userID)
}

func (s *userServiceStub) UpdateUser(ctx context.Context, params application.UpdateUserParams) (application.User, error) {
	return s.update(ctx, params)
}

type bandServiceStub struct {
	create       func(ctx context.Context, params application.CreateBandParams) (application.Band, error)
	get          func(ctx context.Context, principal application.Principal, bandID string) (application.Band, error)
	list         func(ctx context.Context, principal application.Principal) ([]application.Band, error)
	update       func(ctx context.Context, params application.UpdateBandParams) (application.Band, error)
	deleteBand   func(ctx context.Context, principal application.Principal, bandID string) error
	addMember    func(ctx context.Context, params application.AddMemberParams) (application.BandMember, error)
	removeMember func(ctx context.Context, principal application.Principal, memberID string) error
	listMembers  func(ctx context.Context, principal application.Principal, bandID string, asOf time.Time) ([]application.BandMember, error)
	listSchedule func(ctx context.Context, params application.ListRehearsalsParams) ([]application.Rehearsal, error)
}

func (s *bandServiceStub) CreateBand(ctx context.Context, params application.CreateBandParams) (application.Band, error) {
	return s.create(ctx, params)
}

func (s *bandServiceStub) GetBand(ctx context.Context, principal application.Principal, bandID string) (application.Band, error) {
	return s.get(ctx, principal, bandID)
}

func (s *bandServiceStub) ListBands(ctx context.Context, principal application.Principal) ([]application.Band, error) {
	return s.list(ctx, principal)
}

func (s *bandServiceStub) UpdateBand(ctx context.Context, params application.UpdateBandParams) (application.Band, error) {
	return s.update(ctx, params)
}

func (s *bandServiceStub) DeleteBand(ctx context.Context, principal application.Principal, bandID string) error {
	return s.deleteBand(ctx, principal, bandID)
}

func (s *bandServiceStub) AddMember(ctx context.Context, params application.AddMemberParams) (application.BandMember, error) {
	return s.addMember(ctx, params)
}

func (s *bandServiceStub) RemoveMember(ctx context.Context, principal application.Principal, memberID string) error {
	return s.removeMember(ctx, principal, memberID)
}

func (s *bandServiceStub) ListMembers(ctx context.Context, principal application.Principal, bandID string, asOf time.Time) ([]application.BandMember, error) {
	return s.listMembers(ctx, principal, bandID, asOf)
}

func (s *bandServiceStub) ListRehearsals(ctx context.Context, params application.ListRehearsalsParams) ([]application.Rehearsal, error) {
	return s.listSchedule(ctx, params)
}

type rehearsalServiceStub struct {
	create     func(ctx context.Context, params application.CreateRehearsalParams) (application.Rehearsal, error)
	get        func(ctx context.Context, principal application.Principal, rehearsalID string) (application.RehearsalDetail, error)
	list       func(ctx context.Context, params application.ListRehearsalsParams) ([]application.Rehearsal, error)
	update     func(ctx context.Context, params application.UpdateRehearsalParams) (application.Rehearsal, error)
	deleteFn   func(ctx context.Context, principal application.Principal, rehearsalID string) error
	attendance func(ctx context.Context, params application.RecordAttendanceParams) (application.Attendance, error)
}

func (s *rehearsalServiceStub) CreateRehearsal(ctx context.Context, params application.CreateRehearsalParams) (application.Rehearsal, error) {
	return s.create(ctx, params)
}

func (s *rehearsalServiceStub) GetRehearsal(ctx context.Context, principal application.Principal, rehearsalID string) (application.RehearsalDetail, error) {
	return s.get(ctx, principal, rehearsalID)
}

func (s *rehearsalServiceStub) ListRehearsals(ctx context.Context, params application.ListRehearsalsParams) ([]application.Rehearsal, error) {
	return s.list(ctx, params)
}

func (s *rehearsalServiceStub) UpdateRehearsal(ctx context.Context, params application.UpdateRehearsalParams) (application.Rehearsal, error) {
	return s.update(ctx, params)
}

func (s *rehearsalServiceStub) DeleteRehearsal(ctx context.Context, principal application.Principal, rehearsalID string) error {
	return s.deleteFn(ctx, principal, rehearsalID)
}

func (s *rehearsalServiceStub) RecordAttendance(ctx context.Context, params application.RecordAttendanceParams) (application.Attendance, error) {
	return s.attendance(ctx, params)
}

type changeNotifierStub struct {
	calls    int
	lastText string
}

func (s *changeNotifierStub) NotifyRehearsalChanged(ctx context.Context, actorID string, rehearsal application.Rehearsal, message string) error {
	s.calls++
	s.lastText = message
	return nil
}

type availabilityServiceStub struct {
	create   func(ctx context.Context, params application.CreateWindowParams) (application.AvailabilityWindow, error)
	list     func(ctx context.Context, principal application.Principal, userID string) ([]application.AvailabilityWindow, error)
	update   func(ctx context.Context, params application.UpdateWindowParams) (application.AvailabilityWindow, error)
	deleteFn func(ctx context.Context, principal application.Principal, windowID string) error
}

func (s *availabilityServiceStub) CreateWindow(ctx context.Context, params application.CreateWindowParams) (application.AvailabilityWindow, error) {
	return s.create(ctx, params)
}

func (s *availabilityServiceStub) ListWindows(ctx context.Context, principal application.Principal, userID string) ([]application.AvailabilityWindow, error) {
	return s.list(ctx, principal, userID)
}

func (s *availabilityServiceStub) UpdateWindow(ctx context.Context, params application.UpdateWindowParams) (application.AvailabilityWindow, error) {
	return s.update(ctx, params)
}

func (s *availabilityServiceStub) DeleteWindow(ctx context.Context, principal application.Principal, windowID string) error {
	return s.deleteFn(ctx, principal, windowID)
}

type notificationServiceStub struct {
	list     func(ctx context.Context, principal application.Principal) ([]application.Notification, error)
	markRead func(ctx context.Context, principal application.Principal, notificationID string) (application.Notification, error)
}

func (s *notificationServiceStub) ListNotifications(ctx context.Context, principal application.Principal) ([]application.Notification, error) {
	return s.list(ctx, principal)
}

func (s *notificationServiceStub) MarkRead(ctx context.Context, principal application.Principal, notificationID string) (application.Notification, error) {
	return s.markRead(ctx, principal, notificationID)
}

type routerStubs struct {
	auth         *authServiceStub
	users        *userServiceStub
	bands        *bandServiceStub
	rehearsals   *rehearsalServiceStub
	notifier     *changeNotifierStub
	availability *availabilityServiceStub
	inbox        *notificationServiceStub
}

func principalInjector(principal application.Principal) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

func newTestRouter(t *testing.T, stubs routerStubs, middleware ...Middleware) http.Handler {
	t.Helper()

	if stubs.auth == nil {
		stubs.auth = &authServiceStub{}
	}
	if stubs.users == nil {
		stubs.users = &userServiceStub{}
	}
	if stubs.bands == nil {
		stubs.bands = &bandServiceStub{}
	}
	if stubs.rehearsals == nil {
		stubs.rehearsals = &rehearsalServiceStub{}
	}
	if stubs.availability == nil {
		stubs.availability = &availabilityServiceStub{}
	}
	if stubs.inbox == nil {
		stubs.inbox = &notificationServiceStub{}
	}

	return NewRouter(RouterConfig{
		Auth:          NewAuthHandler(stubs.auth, nil),
		Users:         NewUserHandler(stubs.users, nil),
		Bands:         NewBandHandler(stubs.bands, stubs.bands, nil),
		Songs:         NewSongHandler(nil, nil),
		Setlists:      NewSetlistHandler(nil, nil),
		Rehearsals:    NewRehearsalHandler(stubs.rehearsals, stubs.notifier, nil),
		Availability:  NewAvailabilityHandler(stubs.availability, nil),
		Notifications: NewNotificationHandler(stubs.inbox, nil),
		Middleware:    middleware,
	})
}

func TestCreateSession(t *testing.T) {
	t.Parallel()

	expiresAt := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	stubs := routerStubs{
		auth: &authServiceStub{
			authenticate: func(_ context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
				if params.Email != "ana@example.com" {
					return application.AuthenticateResult{}, application.ErrInvalidCredentials
				}
				return application.AuthenticateResult{
					User:    application.User{ID: "u1", Email: params.Email, DisplayName: "Ana"},
					Session: application.Session{ID: "s1", Token: "tok-1", ExpiresAt: expiresAt},
				}, nil
			},
		},
	}
	router := newTestRouter(t, stubs)

	t.Run("issues a token and cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"email":"ana@example.com","password":"pw"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		if got := rec.Header().Get("X-Session-Token"); got != "tok-1" {
			t.Errorf("X-Session-Token = %q, want %q", got, "tok-1")
		}

		var foundCookie bool
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == sessionCookieName {
				foundCookie = true
				if cookie.Value != "tok-1" {
					t.Errorf("cookie value = %q, want %q", cookie.Value, "tok-1")
				}
				if !cookie.HttpOnly {
					t.Error("session cookie must be HttpOnly")
				}
			}
		}
		if !foundCookie {
			t.Error("session cookie was not set")
		}

		var body sessionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Token != "tok-1" || body.User.ID != "u1" {
			t.Errorf("unexpected body: %+v", body)
		}
	})

	t.Run("wrong password yields 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"email":"mallory@example.com","password":"pw"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("malformed body yields 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
		if got := rec.Header().Get("Allow"); got != http.MethodPost {
			t.Errorf("Allow = %q, want %q", got, http.MethodPost)
		}
	})
}

func TestRegisterUser(t *testing.T) {
	t.Parallel()

	stubs := routerStubs{
		users: &userServiceStub{
			register: func(_ context.Context, params application.RegisterUserParams) (application.User, error) {
				return application.User{ID: "u1", Email: params.Input.Email, DisplayName: params.Input.DisplayName}, nil
			},
		},
	}
	router := newTestRouter(t, stubs)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"email":"ana@example.com","display_name":"Ana","password":"long enough"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var body userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ID != "u1" || body.Email != "ana@example.com" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestGetUserMeAlias(t *testing.T) {
	t.Parallel()

	stubs := routerStubs{
		users: &userServiceStub{
			get: func(_ context.Context, _ application.Principal, userID string) (application.User, error) {
				if userID != "u1" {
					return application.User{}, application.ErrNotFound
				}
				return application.User{ID: "u1", Email: "ana@example.com"}, nil
			},
		},
	}
	router := newTestRouter(t, stubs, principalInjector(application.Principal{UserID: "u1"}))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var body userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ID != "u1" {
		t.Errorf("id = %q, want %q", body.ID, "u1")
	}
}

func TestValidationErrorsSerializeFieldMap(t *testing.T) {
	t.Parallel()

	stubs := routerStubs{
		users: &userServiceStub{
			register: func(context.Context, application.RegisterUserParams) (application.User, error) {
				vErr := &application.ValidationError{FieldErrors: map[string]string{"email": "email is required"}}
				return application.User{}, vErr
			},
		},
	}
	router := newTestRouter(t, stubs)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Errors["email"] != "email is required" {
		t.Errorf("field errors = %v", body.Errors)
	}
}

func TestBandRoutes(t *testing.T) {
	t.Parallel()

	principal := application.Principal{UserID: "u1"}
	stubs := routerStubs{
		bands: &bandServiceStub{
			create: func(_ context.Context, params application.CreateBandParams) (application.Band, error) {
				return application.Band{ID: "b1", Name: params.Input.Name, Timezone: "UTC", CreatorID: params.Principal.UserID}, nil
			},
			get: func(_ context.Context, _ application.Principal, bandID string) (application.Band, error) {
				if bandID != "b1" {
					return application.Band{}, application.ErrNotFound
				}
				return application.Band{ID: "b1", Name: "The Sevens", Timezone: "UTC"}, nil
			},
			listSchedule: func(_ context.Context, params application.ListRehearsalsParams) ([]application.Rehearsal, error) {
				return []application.Rehearsal{{
					ID:     "r1",
					BandID: params.BandID,
					Title:  "Weekly run-through",
					Start:  time.Date(2024, 3, 4, 19, 0, 0, 0, time.UTC),
					End:    time.Date(2024, 3, 4, 21, 0, 0, 0, time.UTC),
				}}, nil
			},
			removeMember: func(_ context.Context, _ application.Principal, memberID string) error {
				if memberID != "m1" {
					return application.ErrNotFound
				}
				return nil
			},
		},
	}
	router := newTestRouter(t, stubs, principalInjector(principal))

	t.Run("create records the caller as principal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/bands", strings.NewReader(`{"name":"The Sevens"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var body bandResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.CreatorID != "u1" {
			t.Errorf("creator_id = %q, want %q", body.CreatorID, "u1")
		}
	})

	t.Run("get unknown band yields 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bands/nope", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("remove member resolves the nested id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/bands/b1/members/m1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}
	})

	t.Run("calendar feed is served as text/calendar", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bands/b1/calendar.ics", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/calendar") {
			t.Errorf("Content-Type = %q, want text/calendar", got)
		}
		if !strings.Contains(rec.Body.String(), "BEGIN:VEVENT") {
			t.Error("feed does not contain the scheduled rehearsal")
		}
	})
}

func TestRehearsalRoutes(t *testing.T) {
	t.Parallel()

	principal := application.Principal{UserID: "u1"}
	joined := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	detail := application.RehearsalDetail{
		Rehearsal: application.Rehearsal{
			ID:     "r1",
			BandID: "b1",
			Title:  "Weekly run-through",
			Start:  time.Date(2024, 3, 4, 19, 0, 0, 0, time.UTC),
			End:    time.Date(2024, 3, 4, 21, 0, 0, 0, time.UTC),
		},
		Roster: []application.MemberStanding{
			{
				Member:     application.BandMember{ID: "m1", BandID: "b1", UserID: "u1", Role: application.RoleLeader, JoinedAt: joined},
				Status:     application.AttendanceConfirmed,
				Prediction: reconcile.PredictionAvailable,
			},
			{
				Member:     application.BandMember{ID: "m2", BandID: "b1", UserID: "u2", Role: application.RoleMember, JoinedAt: joined},
				Status:     application.AttendancePending,
				Prediction: reconcile.PredictionUnknown,
			},
		},
	}

	notifier := &changeNotifierStub{}
	stubs := routerStubs{
		rehearsals: &rehearsalServiceStub{
			get: func(_ context.Context, _ application.Principal, rehearsalID string) (application.RehearsalDetail, error) {
				if rehearsalID != "r1" {
					return application.RehearsalDetail{}, application.ErrNotFound
				}
				return detail, nil
			},
			update: func(_ context.Context, params application.UpdateRehearsalParams) (application.Rehearsal, error) {
				updated := detail.Rehearsal
				updated.Title = params.Input.Title
				return updated, nil
			},
			attendance: func(_ context.Context, params application.RecordAttendanceParams) (application.Attendance, error) {
				return application.Attendance{
					ID:          "a1",
					RehearsalID: params.RehearsalID,
					UserID:      params.Principal.UserID,
					Status:      params.Status,
				}, nil
			},
		},
		notifier: notifier,
	}
	router := newTestRouter(t, stubs, principalInjector(principal))

	t.Run("detail includes roster standings", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/rehearsals/r1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		var body rehearsalDetailResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(body.Roster) != 2 {
			t.Fatalf("roster size = %d, want 2", len(body.Roster))
		}
		if body.Roster[0].Prediction != "available" || body.Roster[1].Prediction != "unknown" {
			t.Errorf("predictions = %q, %q", body.Roster[0].Prediction, body.Roster[1].Prediction)
		}
	})

	t.Run("update broadcasts a change notification", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/rehearsals/r1", strings.NewReader(`{"title":"Moved to the big room","start":"2024-03-04T19:00:00Z","end":"2024-03-04T21:00:00Z"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		if notifier.calls != 1 {
			t.Errorf("notifier calls = %d, want 1", notifier.calls)
		}
	})

	t.Run("attendance overlay lists the roster", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/rehearsals/r1/attendance", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		var body []standingResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(body) != 2 || body[1].Status != "pending" {
			t.Errorf("unexpected body: %+v", body)
		}
	})

	t.Run("attendance is recorded for the caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/rehearsals/r1/attendance", strings.NewReader(`{"status":"confirmed"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		var body attendanceResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.UserID != "u1" || body.Status != "confirmed" {
			t.Errorf("unexpected body: %+v", body)
		}
	})
}

func TestAvailabilityRoutes(t *testing.T) {
	t.Parallel()

	principal := application.Principal{UserID: "u1"}
	stubs := routerStubs{
		availability: &availabilityServiceStub{
			create: func(_ context.Context, params application.CreateWindowParams) (application.AvailabilityWindow, error) {
				return application.AvailabilityWindow{
					ID:        "w1",
					UserID:    params.UserID,
					Weekday:   params.Input.Weekday,
					StartTime: params.Input.StartTime,
					EndTime:   params.Input.EndTime,
					Available: params.Input.Available,
				}, nil
			},
			list: func(_ context.Context, _ application.Principal, userID string) ([]application.AvailabilityWindow, error) {
				return []application.AvailabilityWindow{{ID: "w1", UserID: userID}}, nil
			},
		},
	}
	router := newTestRouter(t, stubs, principalInjector(principal))

	t.Run("create defaults to the caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/availability", strings.NewReader(`{"weekday":1,"start_time":"18:00","end_time":"22:00","available":true}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var body windowResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.UserID != "u1" {
			t.Errorf("user_id = %q, want %q", body.UserID, "u1")
		}
	})

	t.Run("list honours the user_id parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/availability?user_id=u2", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		var body []windowResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(body) != 1 || body[0].UserID != "u2" {
			t.Errorf("unexpected body: %+v", body)
		}
	})
}

func TestNotificationRoutes(t *testing.T) {
	t.Parallel()

	principal := application.Principal{UserID: "u1"}
	readAt := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	stubs := routerStubs{
		inbox: &notificationServiceStub{
			markRead: func(_ context.Context, _ application.Principal, notificationID string) (application.Notification, error) {
				if notificationID != "n1" {
					return application.Notification{}, application.ErrNotFound
				}
				return application.Notification{ID: "n1", UserID: "u1", Kind: application.NotificationRehearsalReminder, ReadAt: &readAt}, nil
			},
		},
	}
	router := newTestRouter(t, stubs, principalInjector(principal))

	t.Run("mark read", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/notifications/n1/read", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		var body notificationResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.ReadAt == nil {
			t.Error("read_at was not set")
		}
	})

	t.Run("unknown subpath yields 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/notifications/n1/archive", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}
