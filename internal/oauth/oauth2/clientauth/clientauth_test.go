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

package clientauth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	clientservice "github.com/drsect0r/server-library/internal/client/service"
	clientstore "github.com/drsect0r/server-library/internal/client/store"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	"github.com/drsect0r/server-library/internal/system/config"
	"github.com/drsect0r/server-library/tests/mocks/jwtmock"
)

type clientServiceMock struct {
	mock.Mock
}

func (m *clientServiceMock) GetOAuthClient(clientID string) (*clientmodel.OAuthClient, error) {
	ret := m.Called(clientID)
	if ret.Get(0) != nil {
		return ret.Get(0).(*clientmodel.OAuthClient), ret.Error(1)
	}
	return nil, ret.Error(1)
}

func (m *clientServiceMock) ValidateClientSecret(client *clientmodel.OAuthClient, clientSecret string) bool {
	ret := m.Called(client, clientSecret)
	return ret.Bool(0)
}

type clientProviderMock struct {
	clientService *clientServiceMock
}

func (m *clientProviderMock) GetClientService() clientservice.ClientServiceInterface {
	return m.clientService
}

type ClientAuthenticatorTestSuite struct {
	suite.Suite
	clientServiceMock *clientServiceMock
	jwtServiceMock    *jwtmock.JWTServiceInterfaceMock
	authenticator     *ClientAuthenticator
}

func TestClientAuthenticatorTestSuite(t *testing.T) {
	suite.Run(t, new(ClientAuthenticatorTestSuite))
}

func (s *ClientAuthenticatorTestSuite) SetupTest() {
	config.ResetServerRuntime()
	err := config.InitializeServerRuntime("test", &config.Config{
		OAuth: config.OAuthConfig{Realm: "test-realm"},
	})
	assert.NoError(s.T(), err)

	s.clientServiceMock = &clientServiceMock{}
	s.jwtServiceMock = jwtmock.NewJWTServiceInterfaceMock(s.T())
	s.authenticator = &ClientAuthenticator{
		ClientProvider: &clientProviderMock{clientService: s.clientServiceMock},
		JWTService:     s.jwtServiceMock,
	}
}

func (s *ClientAuthenticatorTestSuite) TearDownTest() {
	config.ResetServerRuntime()
}

func (s *ClientAuthenticatorTestSuite) confidentialClient() *clientmodel.OAuthClient {
	return &clientmodel.OAuthClient{
		ClientID:           "client123",
		HashedClientSecret: "hashed-secret",
		Type:               clientmodel.ClientTypeConfidential,
	}
}

func (s *ClientAuthenticatorTestSuite) newRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/oauth2/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func (s *ClientAuthenticatorTestSuite) TestAuthenticateBasicAuth() {
	client := s.confidentialClient()
	s.clientServiceMock.On("GetOAuthClient", "client123").Return(client, nil)
	s.clientServiceMock.On("ValidateClientSecret", client, "secret123").Return(true)

	req := s.newRequest(url.Values{})
	req.SetBasicAuth("client123", "secret123")

	result, errResp := s.authenticator.Authenticate(req, &model.TokenRequest{})
	assert.Nil(s.T(), errResp)
	assert.NotNil(s.T(), result)
	assert.Equal(s.T(), "client123", result.Client.ClientID)
	assert.Equal(s.T(), constants.ClientAuthMethodBasic, result.Method)
}

func (s *ClientAuthenticatorTestSuite) TestAuthenticateBasicAuthInvalidSecret() {
	client := s.confidentialClient()
	s.clientServiceMock.On("GetOAuthClient", "client123").Return(client, nil)
	s.clientServiceMock.On("ValidateClientSecret", client, "wrong-secret").Return(false)

	req := s.newRequest(url.Values{})
	req.SetBasicAuth("client123", "wrong-secret")

	result, errResp := s.authenticator.Authenticate(req, &model.TokenRequest{})
	assert.Nil(s.T(), result)
	assert.NotNil(s.T(), errResp)
	assert.Equal(s.T(), constants.ErrorInvalidClient, errResp.Error)
}

func (s *ClientAuthenticatorTestSuite) TestAuthenticatePostSecret() {
	client := s.confidentialClient()
	s.clientServiceMock.On("GetOAuthClient", "client123").Return(client, nil)
	s.clientServiceMock.On("ValidateClientSecret", client, "secret123").Return(true)

	result, errResp := s.authenticator.Authenticate(s.newRequest(url.Values{}), &model.TokenRequest{
		ClientID:     "client123",
		ClientSecret: "secret123",
	})
	assert.Nil(s.T(), errResp)
	assert.NotNil(s.T(), result)
	assert.Equal(s.T(), constants.ClientAuthMethodPost, result.Method)
}

func (s *ClientAuthenticatorTestSuite) TestAuthenticateMultipleMethodsRejected() {
	req := s.newRequest(url.Values{})
	req.SetBasicAuth("client123", "secret123")

	result, errResp := s.authenticator.Authenticate(req, &model.TokenRequest{
		ClientID:     "client123",
		ClientSecret: "secret123",
	})
	assert.Nil(s.T(), result)
	assert.NotNil(s.T(), errResp)
	assert.Equal(s.T(), constants.ErrorInvalidRequest, errResp.Error)
	assert.Equal(s.T(), "Only one client authentication method may be used", errResp.ErrorDescription)
}

func (s *ClientAuthenticatorTestSuite) TestAuthenticateNoCredentials() {
	result, errResp := s.authenticator.Authenticate(s.newRequest(url.Values{}), &model.TokenRequest{})
	assert.Nil(s.T(), result)
	assert.NotNil(s.T(), errResp)
	assert.Equal(s.T(), constants.ErrorInvalidClient, errResp.Error)
	assert.Equal(s.T(), "Client authentication required", errResp.ErrorDescription)
}

func (s *ClientAuthenticatorTestSuite) TestAuthenticatePublicClient() {
	publicClient := &clientmodel.OAuthClient{
		ClientID:                 "public-client",
		Type:                     clientmodel.ClientTypePublic,
		TokenEndpointAuthMethods: []string{constants.ClientAuthMethodNone},
	}
	s.clientServiceMock.On("GetOAuthClient", "public-client").Return(publicClient, nil)

	result, errResp := s.authenticator.Authenticate(s.newRequest(url.Values{}), &model.TokenRequest{
		ClientID: "public-client",
	})
	assert.Nil(s.T(), errResp)
	assert.NotNil(s.T(), result)
	assert.Equal(s.T(), constants.ClientAuthMethodNone, result.Method)
}

func (s *ClientAuthenticatorTestSuite) TestAuthenticateConfidentialClientWithoutCredentials() {
	client := s.confidentialClient()
	s.clientServiceMock.On("GetOAuthClient", "client123").Return(client, nil)

	result, errResp := s.authenticator.Authenticate(s.newRequest(url.Values{}), &model.TokenRequest{
		ClientID: "client123",
	})
	assert.Nil(s.T(), result)
	assert.NotNil(s.T(), errResp)
	assert.Equal(s.T(), constants.ErrorInvalidClient, errResp.Error)
	assert.Equal(s.T(), "Client authentication required", errResp.ErrorDescription)
}

func (s *ClientAuthenticatorTestSuite) TestAuthenticateUnknownClient() {
	s.clientServiceMock.On("GetOAuthClient", "unknown").Return(nil, clientstore.ErrClientNotFound)
	s.clientServiceMock.On("ValidateClientSecret", mock.Anything, mock.Anything).Return(false).Maybe()

	req := s.newRequest(url.Values{})
	req.SetBasicAuth("unknown", "secret123")

	result, errResp := s.authenticator.Authenticate(req, &model.TokenRequest{})
	assert.Nil(s.T(), result)
	assert.NotNil(s.T(), errResp)
	assert.Equal(s.T(), constants.ErrorInvalidClient, errResp.Error)
	assert.Equal(s.T(), "Invalid client credentials", errResp.ErrorDescription)
}

func (s *ClientAuthenticatorTestSuite) TestAuthenticateDisallowedAuthMethod() {
	client := s.confidentialClient()
	client.TokenEndpointAuthMethods = []string{constants.ClientAuthMethodPrivateKeyJWT}
	s.clientServiceMock.On("GetOAuthClient", "client123").Return(client, nil)

	req := s.newRequest(url.Values{})
	req.SetBasicAuth("client123", "secret123")

	result, errResp := s.authenticator.Authenticate(req, &model.TokenRequest{})
	assert.Nil(s.T(), result)
	assert.NotNil(s.T(), errResp)
	assert.Equal(s.T(), constants.ErrorInvalidClient, errResp.Error)
	assert.Equal(s.T(), "Client authentication method not allowed", errResp.ErrorDescription)
}

func (s *ClientAuthenticatorTestSuite) TestAuthenticateUnregisteredClientAllowed() {
	config.GetServerRuntime().Config.OAuth.AllowUnregisteredClients = true
	s.clientServiceMock.On("GetOAuthClient", "ghost-client").Return(nil, clientstore.ErrClientNotFound)

	result, errResp := s.authenticator.Authenticate(s.newRequest(url.Values{}), &model.TokenRequest{
		ClientID: "ghost-client",
	})
	assert.Nil(s.T(), errResp)
	assert.NotNil(s.T(), result)
	assert.Equal(s.T(), constants.ClientAuthMethodNone, result.Method)
	assert.Equal(s.T(), "ghost-client", result.Client.ClientID)
	assert.Equal(s.T(), clientmodel.ClientTypeUnregistered, result.Client.Type)
	assert.True(s.T(), result.Client.RequirePKCE)
	assert.Equal(s.T(), []string{constants.GrantTypeAuthorizationCode}, result.Client.AllowedGrantTypes)
}

func (s *ClientAuthenticatorTestSuite) TestAuthenticateUnregisteredClientRejectedByDefault() {
	s.clientServiceMock.On("GetOAuthClient", "ghost-client").Return(nil, clientstore.ErrClientNotFound)

	result, errResp := s.authenticator.Authenticate(s.newRequest(url.Values{}), &model.TokenRequest{
		ClientID: "ghost-client",
	})
	assert.Nil(s.T(), result)
	assert.NotNil(s.T(), errResp)
	assert.Equal(s.T(), constants.ErrorInvalidClient, errResp.Error)
}

func (s *ClientAuthenticatorTestSuite) TestAuthenticateResourceServer() {
	resourceServer := &clientmodel.OAuthClient{
		ClientID:           "resource-server-1",
		HashedClientSecret: "hashed-secret",
		Type:               clientmodel.ClientTypeResourceServer,
	}
	s.clientServiceMock.On("GetOAuthClient", "resource-server-1").Return(resourceServer, nil)
	s.clientServiceMock.On("ValidateClientSecret", resourceServer, "secret123").Return(true)

	req := s.newRequest(url.Values{})
	req.SetBasicAuth("resource-server-1", "secret123")

	result, errResp := s.authenticator.Authenticate(req, &model.TokenRequest{})
	assert.Nil(s.T(), errResp)
	assert.NotNil(s.T(), result)
	assert.Equal(s.T(), clientmodel.ClientTypeResourceServer, result.Client.Type)
}

func (s *ClientAuthenticatorTestSuite) TestAuthenticateUnsupportedAssertionType() {
	result, errResp := s.authenticator.Authenticate(s.newRequest(url.Values{}), &model.TokenRequest{
		ClientID:            "client123",
		ClientAssertion:     "some-assertion",
		ClientAssertionType: "urn:example:unsupported",
	})
	assert.Nil(s.T(), result)
	assert.NotNil(s.T(), errResp)
	assert.Equal(s.T(), constants.ErrorInvalidRequest, errResp.Error)
	assert.Equal(s.T(), "Unsupported client assertion type", errResp.ErrorDescription)
}
