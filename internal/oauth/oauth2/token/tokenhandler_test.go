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

package token

import (
	"encoding/json"
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
	"github.com/drsect0r/server-library/internal/oauth/oauth2/granthandlers"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	"github.com/drsect0r/server-library/internal/system/config"
)

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

type grantHandlerMock struct {
	mock.Mock
}

func (m *grantHandlerMock) ValidateGrant(tokenRequest *model.TokenRequest,
	client *clientmodel.OAuthClient) *model.ErrorResponse {
	ret := m.Called(tokenRequest, client)
	if ret.Get(0) != nil {
		return ret.Get(0).(*model.ErrorResponse)
	}
	return nil
}

func (m *grantHandlerMock) HandleGrant(tokenRequest *model.TokenRequest,
	client *clientmodel.OAuthClient, context *model.TokenContext) (*model.TokenResponseDTO, *model.ErrorResponse) {
	ret := m.Called(tokenRequest, client, context)

	var response *model.TokenResponseDTO
	if ret.Get(0) != nil {
		response = ret.Get(0).(*model.TokenResponseDTO)
	}
	var errResp *model.ErrorResponse
	if ret.Get(1) != nil {
		errResp = ret.Get(1).(*model.ErrorResponse)
	}
	return response, errResp
}

type grantHandlerProviderMock struct {
	mock.Mock
}

func (m *grantHandlerProviderMock) GetGrantHandler(grantType string) granthandlers.GrantHandlerInterface {
	ret := m.Called(grantType)
	if ret.Get(0) != nil {
		return ret.Get(0).(granthandlers.GrantHandlerInterface)
	}
	return nil
}

type TokenHandlerTestSuite struct {
	suite.Suite
	authenticator *clientAuthenticatorMock
	provider      *grantHandlerProviderMock
	handler       *TokenHandler
}

func TestTokenHandlerSuite(t *testing.T) {
	suite.Run(t, new(TokenHandlerTestSuite))
}

func (suite *TokenHandlerTestSuite) SetupTest() {
	config.ResetServerRuntime()
	err := config.InitializeServerRuntime("test", &config.Config{
		Server: config.ServerConfig{
			HTTPOnly: true,
		},
		OAuth: config.OAuthConfig{
			Realm: "test-realm",
			JWT: config.JWTConfig{
				ValidityPeriod: 3600,
			},
		},
	})
	assert.NoError(suite.T(), err)

	suite.authenticator = &clientAuthenticatorMock{}
	suite.provider = &grantHandlerProviderMock{}
	suite.handler = &TokenHandler{
		ClientAuthenticator:  suite.authenticator,
		GrantHandlerProvider: suite.provider,
	}
}

func (suite *TokenHandlerTestSuite) TearDownTest() {
	config.ResetServerRuntime()
}

func (suite *TokenHandlerTestSuite) postForm(formData url.Values) *httptest.ResponseRecorder {
	req, err := http.NewRequest(http.MethodPost, "/oauth2/token", strings.NewReader(formData.Encode()))
	assert.NoError(suite.T(), err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	suite.handler.HandleTokenRequest(rr, req)
	return rr
}

func (suite *TokenHandlerTestSuite) assertErrorResponse(rr *httptest.ResponseRecorder,
	expectedStatusCode int, expectedError, expectedErrorDescription string) {
	assert.Equal(suite.T(), expectedStatusCode, rr.Code)

	var response map[string]interface{}
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), expectedError, response["error"])
	assert.Equal(suite.T(), expectedErrorDescription, response["error_description"])
}

func (suite *TokenHandlerTestSuite) TestNewTokenHandler() {
	handler := NewTokenHandler()
	assert.NotNil(suite.T(), handler)
	assert.Implements(suite.T(), (*TokenHandlerInterface)(nil), handler)
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestInsecureTransport() {
	config.ResetServerRuntime()
	err := config.InitializeServerRuntime("test", &config.Config{})
	assert.NoError(suite.T(), err)

	rr := suite.postForm(url.Values{constants.GrantType: {constants.GrantTypeClientCredentials}})

	suite.assertErrorResponse(rr, http.StatusBadRequest, "invalid_request", "The request must be secured.")
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestNonPostRejected() {
	req, err := http.NewRequest(http.MethodGet, "/oauth2/token", nil)
	assert.NoError(suite.T(), err)

	rr := httptest.NewRecorder()
	suite.handler.HandleTokenRequest(rr, req)

	suite.assertErrorResponse(rr, http.StatusBadRequest, "invalid_request",
		"Only POST requests are accepted")
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestInvalidFormData() {
	req, err := http.NewRequest(http.MethodPost, "/oauth2/token", strings.NewReader("invalid-form-data%"))
	assert.NoError(suite.T(), err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	suite.handler.HandleTokenRequest(rr, req)

	suite.assertErrorResponse(rr, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestMissingGrantType() {
	rr := suite.postForm(url.Values{
		constants.ClientID:     {"test-client-id"},
		constants.ClientSecret: {"test-secret"},
	})

	suite.assertErrorResponse(rr, http.StatusBadRequest, "invalid_request", "Missing grant_type parameter")
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestUnsupportedGrantType() {
	suite.provider.On("GetGrantHandler", "invalid_grant").Return(nil)

	rr := suite.postForm(url.Values{
		constants.GrantType:    {"invalid_grant"},
		constants.ClientID:     {"test-client-id"},
		constants.ClientSecret: {"test-secret"},
	})

	suite.assertErrorResponse(rr, http.StatusNotImplemented, "unsupported_grant_type", "Unsupported grant type")
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestClientAuthenticationFailure() {
	grantHandler := &grantHandlerMock{}
	suite.provider.On("GetGrantHandler", constants.GrantTypeClientCredentials).Return(grantHandler)
	suite.authenticator.On("Authenticate", mock.Anything, mock.Anything).Return(nil, &model.ErrorResponse{
		Error:            constants.ErrorInvalidClient,
		ErrorDescription: "Invalid client credentials",
	})

	rr := suite.postForm(url.Values{
		constants.GrantType:    {constants.GrantTypeClientCredentials},
		constants.ClientID:     {"test-client-id"},
		constants.ClientSecret: {"wrong-secret"},
	})

	suite.assertErrorResponse(rr, http.StatusUnauthorized, "invalid_client", "Invalid client credentials")
	assert.Equal(suite.T(), `Basic realm="test-realm"`, rr.Header().Get("WWW-Authenticate"))
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestGrantTypeNotAllowedForClient() {
	grantHandler := &grantHandlerMock{}
	suite.provider.On("GetGrantHandler", constants.GrantTypeClientCredentials).Return(grantHandler)
	suite.authenticator.On("Authenticate", mock.Anything, mock.Anything).Return(&clientauth.AuthenticationResult{
		Client: &clientmodel.OAuthClient{
			ClientID:          "test-client-id",
			Type:              clientmodel.ClientTypeConfidential,
			AllowedGrantTypes: []string{constants.GrantTypeAuthorizationCode},
		},
		Method: constants.ClientAuthMethodBasic,
	}, nil)

	rr := suite.postForm(url.Values{
		constants.GrantType:    {constants.GrantTypeClientCredentials},
		constants.ClientID:     {"test-client-id"},
		constants.ClientSecret: {"test-secret"},
	})

	suite.assertErrorResponse(rr, http.StatusBadRequest, "unauthorized_client",
		"The authenticated client is not authorized to use this grant type")
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestResourceServerRejected() {
	grantHandler := &grantHandlerMock{}
	suite.provider.On("GetGrantHandler", constants.GrantTypeClientCredentials).Return(grantHandler)
	suite.authenticator.On("Authenticate", mock.Anything, mock.Anything).Return(&clientauth.AuthenticationResult{
		Client: &clientmodel.OAuthClient{
			ClientID:          "resource-server-1",
			Type:              clientmodel.ClientTypeResourceServer,
			AllowedGrantTypes: []string{constants.GrantTypeClientCredentials},
		},
		Method: constants.ClientAuthMethodBasic,
	}, nil)

	rr := suite.postForm(url.Values{
		constants.GrantType:    {constants.GrantTypeClientCredentials},
		constants.ClientID:     {"resource-server-1"},
		constants.ClientSecret: {"test-secret"},
	})

	suite.assertErrorResponse(rr, http.StatusBadRequest, "unauthorized_client",
		"Resource servers cannot request tokens")
	grantHandler.AssertNotCalled(suite.T(), "HandleGrant", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestGrantValidationFailure() {
	grantHandler := &grantHandlerMock{}
	grantHandler.On("ValidateGrant", mock.Anything, mock.Anything).Return(&model.ErrorResponse{
		Error:            constants.ErrorInvalidGrant,
		ErrorDescription: "Invalid authorization code",
	})
	suite.provider.On("GetGrantHandler", constants.GrantTypeAuthorizationCode).Return(grantHandler)
	suite.authenticator.On("Authenticate", mock.Anything, mock.Anything).Return(&clientauth.AuthenticationResult{
		Client: &clientmodel.OAuthClient{
			ClientID:          "test-client-id",
			Type:              clientmodel.ClientTypeConfidential,
			AllowedGrantTypes: []string{constants.GrantTypeAuthorizationCode},
		},
		Method: constants.ClientAuthMethodBasic,
	}, nil)

	rr := suite.postForm(url.Values{
		constants.GrantType:    {constants.GrantTypeAuthorizationCode},
		constants.Code:         {"stale-code"},
		constants.ClientID:     {"test-client-id"},
		constants.ClientSecret: {"test-secret"},
	})

	suite.assertErrorResponse(rr, http.StatusBadRequest, "invalid_grant", "Invalid authorization code")
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestSuccess() {
	client := &clientmodel.OAuthClient{
		ClientID:          "test-client-id",
		Type:              clientmodel.ClientTypeConfidential,
		AllowedGrantTypes: []string{constants.GrantTypeClientCredentials},
	}

	grantHandler := &grantHandlerMock{}
	grantHandler.On("ValidateGrant", mock.Anything, client).Return(nil)
	grantHandler.On("HandleGrant", mock.Anything, client, mock.Anything).Return(&model.TokenResponseDTO{
		AccessToken: model.TokenDTO{
			Token:     "issued-access-token",
			TokenType: constants.TokenTypeBearer,
			ExpiresIn: 3600,
			Scopes:    []string{"read", "write"},
			ClientID:  "test-client-id",
		},
	}, nil)
	suite.provider.On("GetGrantHandler", constants.GrantTypeClientCredentials).Return(grantHandler)
	suite.authenticator.On("Authenticate", mock.Anything, mock.Anything).Return(&clientauth.AuthenticationResult{
		Client: client,
		Method: constants.ClientAuthMethodBasic,
	}, nil)

	rr := suite.postForm(url.Values{
		constants.GrantType:    {constants.GrantTypeClientCredentials},
		constants.ClientID:     {"test-client-id"},
		constants.ClientSecret: {"test-secret"},
		constants.Scope:        {"read write"},
	})

	assert.Equal(suite.T(), http.StatusOK, rr.Code)
	assert.Equal(suite.T(), "no-store, private", rr.Header().Get("Cache-Control"))
	assert.Equal(suite.T(), "no-cache", rr.Header().Get("Pragma"))

	var response map[string]interface{}
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "issued-access-token", response["access_token"])
	assert.Equal(suite.T(), constants.TokenTypeBearer, response["token_type"])
	assert.Equal(suite.T(), float64(3600), response["expires_in"])
	assert.Equal(suite.T(), "read write", response["scope"])
	_, hasRefreshToken := response["refresh_token"]
	assert.False(suite.T(), hasRefreshToken)
}
