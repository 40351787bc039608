package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/vlebedev/go-task-manager/internal/service"
	"github.com/vlebedev/go-task-manager/internal/store"
	"github.com/vlebedev/go-task-manager/models"
)

func TestSignupHandler_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, authSvc, _, _ := newTestHandler(t, ctrl)

	user := models.User{
		UserID:   1,
		Name:     "John",
		Email:    "john@example.com",
		Password: "$2a$08$secret-hash",
		Tokens:   []string{"issued-token"},
	}
	token := models.Token{SignedString: "issued-token", UserID: 1}

	authSvc.EXPECT().Signup(gomock.Any(), service.UserInput{
		Name:     "John",
		Email:    "john@example.com",
		Password: "long-enough-secret",
		Age:      30,
	}).Return(user, token, nil)

	body := `{"name":"John","email":"john@example.com","password":"long-enough-secret","age":30}`
	req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.AuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding body failed: %v", err)
	}
	if resp.Token != "issued-token" {
		t.Errorf("expected issued token in response, got %q", resp.Token)
	}
	if resp.User.UserID != 1 {
		t.Errorf("expected UserID=1, got %d", resp.User.UserID)
	}

	// the serialized user must never expose secrets
	raw := rec.Body.String()
	for _, forbidden := range []string{"password", "tokens", "avatar"} {
		if strings.Contains(raw, `"`+forbidden+`"`) {
			t.Errorf("response body leaks %q: %s", forbidden, raw)
		}
	}
}

func TestSignupHandler_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, authSvc, _, _ := newTestHandler(t, ctrl)

	authSvc.EXPECT().Signup(gomock.Any(), gomock.Any()).
		Return(models.User{}, models.Token{}, &service.ValidationError{
			Fields: []service.FieldError{{Field: "email", Message: "incorrect email format"}},
		})

	req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(`{"email":"broken"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeError(t, rec); !strings.Contains(body.Error, "email") {
		t.Errorf("expected field detail in error, got %q", body.Error)
	}
}

func TestSignupHandler_EmailTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, authSvc, _, _ := newTestHandler(t, ctrl)

	authSvc.EXPECT().Signup(gomock.Any(), gomock.Any()).
		Return(models.User{}, models.Token{}, store.ErrEmailAlreadyExists)

	body := `{"email":"taken@example.com","password":"long-enough-secret"}`
	req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSignupHandler_MalformedJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _, _, _ := newTestHandler(t, ctrl)

	req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, authSvc, _, _ := newTestHandler(t, ctrl)

	t.Run("success", func(t *testing.T) {
		authSvc.EXPECT().Login(gomock.Any(), "john@example.com", "long-enough-secret").
			Return(models.User{UserID: 7}, models.Token{SignedString: "fresh-token"}, nil)

		body := `{"email":"john@example.com","password":"long-enough-secret"}`
		req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp models.AuthResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding body failed: %v", err)
		}
		if resp.Token != "fresh-token" {
			t.Errorf("expected fresh token, got %q", resp.Token)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		authSvc.EXPECT().Login(gomock.Any(), "john@example.com", "wrong").
			Return(models.User{}, models.Token{}, service.ErrInvalidCredentials)

		body := `{"email":"john@example.com","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.Error != service.ErrInvalidCredentials.Error() {
			t.Errorf("unexpected error body: %q", body.Error)
		}
	})
}

func TestLogoutHandler_RevokesExactlyPresentedToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, authSvc, _, _ := newTestHandler(t, ctrl)

	user := models.User{UserID: 7}
	gomock.InOrder(
		authSvc.EXPECT().Authenticate(gomock.Any(), "session-a").Return(user, nil),
		authSvc.EXPECT().Logout(gomock.Any(), int64(7), "session-a").Return(nil),
	)

	req := httptest.NewRequest(http.MethodPost, "/users/logout", nil)
	req.Header.Set("Authorization", "Bearer session-a")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLogoutAllHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, authSvc, _, _ := newTestHandler(t, ctrl)

	user := models.User{UserID: 7}
	authSvc.EXPECT().Authenticate(gomock.Any(), "session-a").Return(user, nil)
	authSvc.EXPECT().LogoutAll(gomock.Any(), int64(7)).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/users/logoutAll", nil)
	req.Header.Set("Authorization", "Bearer session-a")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, authSvc, _, _ := newTestHandler(t, ctrl)

	user := models.User{UserID: 7}
	authSvc.EXPECT().Authenticate(gomock.Any(), "valid").Return(user, nil)
	authSvc.EXPECT().ActiveSessions(gomock.Any(), int64(7)).Return(3, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/me/sessions", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	raw := rec.Body.String()
	if strings.Contains(raw, "token") {
		t.Errorf("sessions response must not expose tokens: %s", raw)
	}

	var resp models.SessionsResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("decoding body failed: %v", err)
	}
	if resp.Sessions != 3 {
		t.Errorf("expected 3 sessions, got %d", resp.Sessions)
	}
}

func TestUpdateMeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, authSvc, userSvc, _ := newTestHandler(t, ctrl)

	user := models.User{UserID: 7}

	t.Run("success", func(t *testing.T) {
		authSvc.EXPECT().Authenticate(gomock.Any(), "valid").Return(user, nil)
		userSvc.EXPECT().UpdateProfile(gomock.Any(), int64(7), map[string]any{"name": "Johnny"}).
			Return(models.User{UserID: 7, Name: "Johnny"}, nil)

		req := httptest.NewRequest(http.MethodPatch, "/users/me", strings.NewReader(`{"name":"Johnny"}`))
		req.Header.Set("Authorization", "Bearer valid")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("disallowed field", func(t *testing.T) {
		authSvc.EXPECT().Authenticate(gomock.Any(), "valid").Return(user, nil)
		userSvc.EXPECT().UpdateProfile(gomock.Any(), int64(7), gomock.Any()).
			Return(models.User{}, service.ErrInvalidOperation)

		req := httptest.NewRequest(http.MethodPatch, "/users/me", strings.NewReader(`{"tokens":[]}`))
		req.Header.Set("Authorization", "Bearer valid")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.Error != "invalid updates" {
			t.Errorf("unexpected error body: %q", body.Error)
		}
	})
}

func TestDeleteMeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, authSvc, userSvc, _ := newTestHandler(t, ctrl)

	user := models.User{UserID: 7, Name: "John", Email: "john@example.com"}
	authSvc.EXPECT().Authenticate(gomock.Any(), "valid").Return(user, nil)
	userSvc.EXPECT().DeleteAccount(gomock.Any(), user).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got models.User
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding body failed: %v", err)
	}
	if got.UserID != 7 {
		t.Errorf("expected deleted profile echoed back, got %+v", got)
	}
}

func TestServeAvatarHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _, userSvc, _ := newTestHandler(t, ctrl)

	t.Run("success", func(t *testing.T) {
		userSvc.EXPECT().GetAvatar(gomock.Any(), int64(7)).
			Return([]byte{0x89, 0x50, 0x4e, 0x47}, nil)

		req := httptest.NewRequest(http.MethodGet, "/users/7/avatar", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("expected image/png, got %q", ct)
		}
	})

	t.Run("no avatar stored", func(t *testing.T) {
		userSvc.EXPECT().GetAvatar(gomock.Any(), int64(7)).
			Return(nil, store.ErrAvatarNotFound)

		req := httptest.NewRequest(http.MethodGet, "/users/7/avatar", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("non-numeric id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/abc/avatar", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
