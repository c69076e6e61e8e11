package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/imartins/task-api/internal/domain"
	"github.com/imartins/task-api/internal/dto"
	"github.com/imartins/task-api/internal/token"
)

func (s *Suite) postJSON(path string, payload any) *http.Response {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)

	resp, err := http.Post(s.BaseURL+path, "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	return resp
}

func (s *Suite) decodeJSON(resp *http.Response, target any) {
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(target))
}

func (s *Suite) register(username, password string) dto.RegisterResponse {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name:     "Test User",
		Username: username,
		Password: password,
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var registered dto.RegisterResponse
	s.decodeJSON(resp, &registered)
	return registered
}

func (s *Suite) login(username, password string) domain.TokenPair {
	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Username: username,
		Password: password,
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var pair domain.TokenPair
	s.decodeJSON(resp, &pair)
	return pair
}

func (s *Suite) refreshTokenCount() int {
	var count int
	err := s.Postgres.DB.QueryRow("SELECT COUNT(*) FROM refresh_tokens").Scan(&count)
	s.Require().NoError(err)
	return count
}

func (s *Suite) TestRegister_Success() {
	registered := s.register("alice", "Password123")

	s.NotZero(registered.ID)
	s.Len(registered.APIKey, 32)
	s.Equal("Registered", registered.Message)
}

func (s *Suite) TestRegister_DuplicateUsername() {
	s.register("alice", "Password123")

	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name:     "Other Alice",
		Username: "alice",
		Password: "Password456",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.decodeJSON(resp, &errResp)
	s.Equal("username already taken", errResp.Message)
}

func (s *Suite) TestRegister_ShortPassword() {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name:     "Alice",
		Username: "alice",
		Password: "short",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_Success() {
	s.register("alice", "Password123")

	pair := s.login("alice", "Password123")

	s.Len(strings.Split(pair.AccessToken, "."), 3)
	s.Len(strings.Split(pair.RefreshToken, "."), 3)
	s.Equal(1, s.refreshTokenCount(), "login must whitelist the refresh token")
}

func (s *Suite) TestLogin_WrongPassword() {
	s.register("alice", "Password123")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Username: "alice",
		Password: "WrongPassword",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.decodeJSON(resp, &errResp)
	s.Equal("invalid authentication", errResp.Message)
}

func (s *Suite) TestLogin_UnknownUsername() {
	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Username: "nobody",
		Password: "Password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.decodeJSON(resp, &errResp)
	s.Equal("invalid authentication", errResp.Message)
}

func (s *Suite) TestRefresh_RotatesToken() {
	s.register("alice", "Password123")
	pair := s.login("alice", "Password123")

	resp := s.postJSON("/api/v1/auth/refresh", dto.TokenRequest{Token: pair.RefreshToken})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var newPair domain.TokenPair
	s.decodeJSON(resp, &newPair)
	s.NotEqual(pair.RefreshToken, newPair.RefreshToken)
	s.Equal(1, s.refreshTokenCount(), "rotation must replace the old record, not add to it")

	// The replaced token is no longer accepted
	replay := s.postJSON("/api/v1/auth/refresh", dto.TokenRequest{Token: pair.RefreshToken})
	defer replay.Body.Close()
	s.Equal(http.StatusBadRequest, replay.StatusCode)

	var errResp dto.ErrorResponse
	s.decodeJSON(replay, &errResp)
	s.Equal("invalid token (not in whitelist)", errResp.Message)
}

func (s *Suite) TestRefresh_ForgedToken() {
	codec := token.NewCodec([]byte("another-secret-that-is-also-32-chars-long"))
	forged, err := codec.Encode(token.Claims{
		Subject:   1,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	s.Require().NoError(err)

	resp := s.postJSON("/api/v1/auth/refresh", dto.TokenRequest{Token: forged})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.decodeJSON(resp, &errResp)
	s.Equal("invalid token", errResp.Message)
}

func (s *Suite) TestRefresh_WhitelistedButValidTokenOfDeletedUser() {
	registered := s.register("alice", "Password123")
	pair := s.login("alice", "Password123")

	_, err := s.Postgres.DB.Exec("DELETE FROM users WHERE id = $1", registered.ID)
	s.Require().NoError(err)

	resp := s.postJSON("/api/v1/auth/refresh", dto.TokenRequest{Token: pair.RefreshToken})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.decodeJSON(resp, &errResp)
	s.Equal("invalid authentication", errResp.Message)
}

func (s *Suite) TestLogout_RevokesToken() {
	s.register("alice", "Password123")
	pair := s.login("alice", "Password123")

	resp := s.postJSON("/api/v1/auth/logout", dto.TokenRequest{Token: pair.RefreshToken})
	defer resp.Body.Close()

	s.Equal(http.StatusNoContent, resp.StatusCode)
	s.Equal(0, s.refreshTokenCount())

	// Refreshing after logout forces a re-login
	refresh := s.postJSON("/api/v1/auth/refresh", dto.TokenRequest{Token: pair.RefreshToken})
	defer refresh.Body.Close()
	s.Equal(http.StatusBadRequest, refresh.StatusCode)
}

func (s *Suite) TestLogout_MalformedToken() {
	s.register("alice", "Password123")
	s.login("alice", "Password123")

	resp := s.postJSON("/api/v1/auth/logout", dto.TokenRequest{Token: "not-a-token"})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal(1, s.refreshTokenCount(), "malformed logout must not touch the whitelist")
}
