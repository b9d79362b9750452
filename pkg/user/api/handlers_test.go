package api

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gomock "github.com/golang/mock/gomock"

	"blogapi/pkg/common"
	"blogapi/pkg/logger"
	"blogapi/pkg/middleware"
	"blogapi/pkg/user"
)

var (
	userId         = "1"
	username       = "pike"
	salt           = "12345678"
	password       = "sdfsdfsdf"
	hashedPassword = common.HashPass("sdfsdfsdf", salt)
	jwtToken       = "test-jwt-token"
)

func TestLogIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	existingUser := user.User{Id: userId, Username: username, Password: hashedPassword}
	mockRepo := NewMockUserRepo(ctrl)
	mockSm := NewMockSessionManager(ctrl)
	mockService := &UserHandler{
		Repo:           mockRepo,
		SessionManager: mockSm,
	}

	// Add AccessLog middleware for `/login` because we use it in handler methods
	logMiddleware := middleware.NewLoggingMiddleware(logger.Run("fatal"))
	testServer := httptest.NewServer(logMiddleware.AccessLog(http.HandlerFunc(mockService.LogIn)))

	loginReq := func(un, pw, url string) *http.Request {
		body := strings.NewReader(`{"username": "` + un + `", "password": "` + pw + `"}`)
		return httptest.NewRequest("POST", url, body)
	}

	t.Run("login is OK", func(t *testing.T) {
		mockRepo.EXPECT().GetByUsernameAndPass(username, password).Return(&existingUser, nil)
		mockSm.EXPECT().CleanupUserSessions(userId).Return(nil)
		mockSm.EXPECT().CreateToken(&existingUser).Return(jwtToken, nil)

		w := httptest.NewRecorder()
		mockService.LogIn(w, loginReq(username, password, testServer.URL))
		resp := w.Result()

		body, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			t.Errorf("error reading login response body")
			return
		}

		if !bytes.Contains(body, []byte(jwtToken)) {
			t.Errorf("login response doesn't contain JWT token")
			return
		}
	})

	t.Run("user not found", func(t *testing.T) {
		badUsername, badPassword := "notexists", "nevermind"
		mockRepo.EXPECT().GetByUsernameAndPass(badUsername, badPassword).
			Return(nil, fmt.Errorf("user not found"))
		w := httptest.NewRecorder()
		mockService.LogIn(w, loginReq(badUsername, badPassword, testServer.URL))
		badResp := w.Result()
		if badResp.StatusCode != 404 {
			t.Errorf("expected 404, got %d", badResp.StatusCode)
			return
		}
	})
}

func TestRegister(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockUserRepo(ctrl)
	mockSm := NewMockSessionManager(ctrl)
	handler := &UserHandler{
		Repo:           mockRepo,
		SessionManager: mockSm,
	}

	registerReq := func(un, pw string) *http.Request {
		body := strings.NewReader(`{"username": "` + un + `", "password": "` + pw + `", "name": "Rob Pike"}`)
		return httptest.NewRequest("POST", "/api/register", body)
	}

	t.Run("register is OK", func(t *testing.T) {
		mockRepo.EXPECT().UserExists(username).Return(false)
		mockRepo.EXPECT().Add(gomock.Any()).Return(userId, nil)
		mockSm.EXPECT().CreateToken(gomock.Any()).Return(jwtToken, nil)

		w := httptest.NewRecorder()
		handler.Register(w, registerReq(username, password))
		resp := w.Result()
		if resp.StatusCode != 201 {
			t.Errorf("expected 201, got %d", resp.StatusCode)
			return
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		mockRepo.EXPECT().UserExists(username).Return(true)

		w := httptest.NewRecorder()
		handler.Register(w, registerReq(username, password))
		resp := w.Result()
		if resp.StatusCode != 409 {
			t.Errorf("expected 409, got %d", resp.StatusCode)
			return
		}
	})
}
