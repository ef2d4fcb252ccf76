/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package introspect

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/clientauth"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	"github.com/drsect0r/server-library/internal/system/config"
)

type introspectionServiceMock struct {
	mock.Mock
}

func (m *introspectionServiceMock) IntrospectToken(token, tokenTypeHint string) (*IntrospectResponse, error) {
	ret := m.Called(token, tokenTypeHint)
	if ret.Get(0) != nil {
		return ret.Get(0).(*IntrospectResponse), ret.Error(1)
	}
	return nil, ret.Error(1)
}

type clientAuthenticatorMock struct {
	mock.Mock
}

func (m *clientAuthenticatorMock) Authenticate(r *http.Request,
	tokenRequest *model.TokenRequest) (*clientauth.AuthenticationResult, *model.ErrorResponse) {
	ret := m.Called(r, tokenRequest)
	var result *clientauth.AuthenticationResult
	if ret.Get(0) != nil {
		result = ret.Get(0).(*clientauth.AuthenticationResult)
	}
	var errResp *model.ErrorResponse
	if ret.Get(1) != nil {
		errResp = ret.Get(1).(*model.ErrorResponse)
	}
	return result, errResp
}

type TokenIntrospectionHandlerTestSuite struct {
	suite.Suite
	serviceMock       *introspectionServiceMock
	authenticatorMock *clientAuthenticatorMock
	handler           *TokenIntrospectionHandler
}

func TestTokenIntrospectionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TokenIntrospectionHandlerTestSuite))
}

func (s *TokenIntrospectionHandlerTestSuite) SetupTest() {
	config.ResetServerRuntime()
	err := config.InitializeServerRuntime("test", &config.Config{
		OAuth: config.OAuthConfig{Realm: "test-realm"},
	})
	assert.NoError(s.T(), err)

	s.serviceMock = &introspectionServiceMock{}
	s.authenticatorMock = &clientAuthenticatorMock{}
	s.handler = &TokenIntrospectionHandler{
		service:       s.serviceMock,
		authenticator: s.authenticatorMock,
	}
}

func (s *TokenIntrospectionHandlerTestSuite) TearDownTest() {
	config.ResetServerRuntime()
}

func (s *TokenIntrospectionHandlerTestSuite) newRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/oauth2/introspect", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func (s *TokenIntrospectionHandlerTestSuite) expectAuthenticatedClient() {
	s.authenticatorMock.On("Authenticate", mock.Anything, mock.Anything).Return(
		&clientauth.AuthenticationResult{
			Client: &clientmodel.OAuthClient{ClientID: "client123"},
			Method: constants.ClientAuthMethodBasic,
		}, nil)
}

func (s *TokenIntrospectionHandlerTestSuite) TestHandleIntrospectParseFormError() {
	req := httptest.NewRequest(http.MethodPost, "/oauth2/introspect", strings.NewReader("%"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	s.handler.HandleIntrospect(rr, req)
	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)
	assert.Contains(s.T(), rr.Body.String(), constants.ErrorInvalidRequest)
}

func (s *TokenIntrospectionHandlerTestSuite) TestHandleIntrospectAuthenticationFailure() {
	s.authenticatorMock.On("Authenticate", mock.Anything, mock.Anything).Return(nil,
		&model.ErrorResponse{
			Error:            constants.ErrorInvalidClient,
			ErrorDescription: "Invalid client credentials",
		})

	form := url.Values{}
	form.Add(constants.Token, "some-token")
	rr := httptest.NewRecorder()

	s.handler.HandleIntrospect(rr, s.newRequest(form))
	assert.Equal(s.T(), http.StatusUnauthorized, rr.Code)
	assert.Contains(s.T(), rr.Body.String(), constants.ErrorInvalidClient)
	assert.Equal(s.T(), `Basic realm="test-realm"`, rr.Header().Get("WWW-Authenticate"))
}

func (s *TokenIntrospectionHandlerTestSuite) TestHandleIntrospectMissingToken() {
	s.expectAuthenticatedClient()

	rr := httptest.NewRecorder()

	s.handler.HandleIntrospect(rr, s.newRequest(url.Values{}))
	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)
	assert.Contains(s.T(), rr.Body.String(), constants.ErrorInvalidRequest)
	assert.Contains(s.T(), rr.Body.String(), "Token parameter is required")
}

func (s *TokenIntrospectionHandlerTestSuite) TestHandleIntrospectUnsupportedTokenTypeHint() {
	s.expectAuthenticatedClient()

	form := url.Values{}
	form.Add(constants.Token, "valid-token")
	form.Add(constants.TokenTypeHint, "saml2")
	rr := httptest.NewRecorder()

	s.handler.HandleIntrospect(rr, s.newRequest(form))
	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)
	assert.Contains(s.T(), rr.Body.String(), constants.ErrorUnsupportedTokenType)
	s.serviceMock.AssertNotCalled(s.T(), "IntrospectToken", mock.Anything, mock.Anything)
}

func (s *TokenIntrospectionHandlerTestSuite) TestHandleIntrospectIntrospectionError() {
	s.expectAuthenticatedClient()
	s.serviceMock.On("IntrospectToken", "valid-token", "").Return(nil, errors.New("introspection error"))

	form := url.Values{}
	form.Add(constants.Token, "valid-token")
	rr := httptest.NewRecorder()

	s.handler.HandleIntrospect(rr, s.newRequest(form))
	assert.Equal(s.T(), http.StatusInternalServerError, rr.Code)
	assert.Contains(s.T(), rr.Body.String(), constants.ErrorServerError)
	assert.Contains(s.T(), rr.Body.String(), "Server error while introspecting token")
	s.serviceMock.AssertExpectations(s.T())
}

func (s *TokenIntrospectionHandlerTestSuite) TestHandleIntrospectActiveToken() {
	s.expectAuthenticatedClient()

	activeResponse := &IntrospectResponse{
		Active:    true,
		TokenType: constants.TokenTypeBearer,
		Scope:     "openid profile",
		ClientID:  "client123",
		Username:  "user@example.com",
		Sub:       "user123",
		Aud:       "api.example.com",
		Iss:       "https://example.com",
		Jti:       "token-id-123",
		Exp:       1620000000,
		Iat:       1619990000,
		Nbf:       1619990000,
	}
	s.serviceMock.On("IntrospectToken", "valid-token", constants.TokenTypeBearer).Return(activeResponse, nil)

	form := url.Values{}
	form.Add(constants.Token, "valid-token")
	form.Add(constants.TokenTypeHint, constants.TokenTypeBearer)
	rr := httptest.NewRecorder()

	s.handler.HandleIntrospect(rr, s.newRequest(form))
	assert.Equal(s.T(), http.StatusOK, rr.Code)
	assert.Contains(s.T(), rr.Body.String(), `"active":true`)
	assert.Contains(s.T(), rr.Body.String(), `"scope":"openid profile"`)
	assert.Contains(s.T(), rr.Body.String(), `"client_id":"client123"`)
	s.serviceMock.AssertExpectations(s.T())
}

func (s *TokenIntrospectionHandlerTestSuite) TestHandleIntrospectInactiveToken() {
	s.expectAuthenticatedClient()
	s.serviceMock.On("IntrospectToken", "invalid-token", "").Return(&IntrospectResponse{Active: false}, nil)

	form := url.Values{}
	form.Add(constants.Token, "invalid-token")
	rr := httptest.NewRecorder()

	s.handler.HandleIntrospect(rr, s.newRequest(form))
	assert.Equal(s.T(), http.StatusOK, rr.Code)
	assert.Contains(s.T(), rr.Body.String(), `"active":false`)
	s.serviceMock.AssertExpectations(s.T())
}
