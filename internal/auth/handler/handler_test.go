package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"qrgen/internal/auth/handler/mocks"
	"qrgen/internal/auth/models"
	id "qrgen/pkg/domain"
	dErrors "qrgen/pkg/domain-errors"
	"qrgen/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/auth-mocks.go -package=mocks Service
type AuthHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = chi.NewRouter()
	New(s.service, logger).Register(s.router)
}

func (s *AuthHandlerSuite) TestSignup() {
	s.Run("returns 201 with token", func() {
		s.service.EXPECT().Register(gomock.Any(), &models.RegisterRequest{
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "pw",
		}).Return(&models.AuthResult{UserID: id.NewUserID(), Token: "tok"}, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/signup", map[string]string{
			"firstName": "Ada", "lastName": "Lovelace", "email": " ADA@example.com", "password": "pw",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[models.AuthResponse](s.T(), rr)
		s.Equal("User registered successfully", resp.Message)
		s.Equal("tok", resp.Token)
	})

	s.Run("duplicate email is a 400 with the conflict message", func() {
		s.service.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "User already exists"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/signup", map[string]string{
			"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "password": "pw",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		testutil.AssertMessage(s.T(), rr, "User already exists")
	})

	s.Run("missing fields are rejected before the service", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/signup", map[string]string{"email": "ada@example.com"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("malformed JSON is a bad request", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/signup", "{not json")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	s.Run("store failure is a 500 without the cause", func() {
		s.service.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(errors.New("mongo: connection refused"), dErrors.CodeInternal, "Error registering user"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/signup", map[string]string{
			"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "password": "pw",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
		s.NotContains(rr.Body.String(), "connection refused")
	})
}

func (s *AuthHandlerSuite) TestLogin() {
	s.Run("returns 200 with token", func() {
		s.service.EXPECT().Login(gomock.Any(), &models.LoginRequest{Email: "ada@example.com", Password: "pw"}).
			Return(&models.AuthResult{UserID: id.NewUserID(), Token: "tok"}, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/login", map[string]string{"email": "ada@example.com", "password": "pw"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "message", "Login successful!")
	})

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"unknown user", dErrors.New(dErrors.CodeNotFound, "User not found."), http.StatusNotFound, "User not found."},
		{"wrong password", dErrors.New(dErrors.CodeUnauthorized, "Invalid credentials."), http.StatusUnauthorized, "Invalid credentials."},
		{"locked out", dErrors.New(dErrors.CodeTooManyRequests, "Too many failed login attempts. Try again later."), http.StatusTooManyRequests, "Too many failed login attempts. Try again later."},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.service.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, tc.err)

			req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/login", map[string]string{"email": "ada@example.com", "password": "pw"})
			rr := testutil.DoRequest(s.router, req)

			testutil.AssertStatus(s.T(), rr, tc.status)
			testutil.AssertMessage(s.T(), rr, tc.message)
		})
	}
}
