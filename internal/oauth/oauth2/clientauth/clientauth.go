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

// Package clientauth provides client authentication for the token, introspection
// and revocation endpoints.
package clientauth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	clientprovider "github.com/drsect0r/server-library/internal/client/provider"
	clientstore "github.com/drsect0r/server-library/internal/client/store"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	"github.com/drsect0r/server-library/internal/system/config"
	"github.com/drsect0r/server-library/internal/system/jwt"
	"github.com/drsect0r/server-library/internal/system/log"
	"github.com/drsect0r/server-library/internal/system/utils"
)

// AuthenticationResult holds the authenticated client and the method that authenticated it.
type AuthenticationResult struct {
	Client *clientmodel.OAuthClient
	Method string
}

// ClientAuthenticatorInterface defines the interface for authenticating OAuth clients.
type ClientAuthenticatorInterface interface {
	Authenticate(r *http.Request, tokenRequest *model.TokenRequest) (*AuthenticationResult, *model.ErrorResponse)
}

// ClientAuthenticator aggregates the supported client authentication methods
// and enforces that exactly one method is used per request.
type ClientAuthenticator struct {
	ClientProvider clientprovider.ClientProviderInterface
	JWTService     jwt.JWTServiceInterface
}

// NewClientAuthenticator creates a new instance of ClientAuthenticator.
func NewClientAuthenticator() ClientAuthenticatorInterface {
	return &ClientAuthenticator{
		ClientProvider: clientprovider.NewClientProvider(),
		JWTService:     jwt.GetJWTService(),
	}
}

// Authenticate authenticates the client behind a token request. At most one
// credential channel may be present; presenting two valid channels at once is
// rejected outright so a client can never be authenticated through a channel
// it did not choose.
func (ca *ClientAuthenticator) Authenticate(r *http.Request,
	tokenRequest *model.TokenRequest) (*AuthenticationResult, *model.ErrorResponse) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "ClientAuthenticator"))

	basicClientID, basicClientSecret, basicErr := utils.ExtractBasicAuthCredentials(r)
	hasBasicAuth := basicErr == nil
	hasPostSecret := tokenRequest.ClientSecret != ""
	hasAssertion := tokenRequest.ClientAssertion != "" || tokenRequest.ClientAssertionType != ""

	presented := 0
	for _, present := range []bool{hasBasicAuth, hasPostSecret, hasAssertion} {
		if present {
			presented++
		}
	}
	if presented > 1 {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Only one client authentication method may be used",
		}
	}

	switch {
	case hasBasicAuth:
		return ca.authenticateWithSecret(basicClientID, basicClientSecret, constants.ClientAuthMethodBasic)
	case hasPostSecret:
		return ca.authenticateWithSecret(tokenRequest.ClientID, tokenRequest.ClientSecret,
			constants.ClientAuthMethodPost)
	case hasAssertion:
		return ca.authenticateWithAssertion(tokenRequest)
	}

	if tokenRequest.ClientID == "" {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidClient,
			ErrorDescription: "Client authentication required",
		}
	}

	// A bare client_id is acceptable only for public clients, or for
	// unregistered clients when the deployment allows them.
	client, err := ca.ClientProvider.GetClientService().GetOAuthClient(tokenRequest.ClientID)
	if err != nil {
		if errors.Is(err, clientstore.ErrClientNotFound) {
			if config.GetServerRuntime().Config.OAuth.AllowUnregisteredClients {
				return &AuthenticationResult{
					Client: unregisteredClient(tokenRequest.ClientID),
					Method: constants.ClientAuthMethodNone,
				}, nil
			}
			return nil, &model.ErrorResponse{
				Error:            constants.ErrorInvalidClient,
				ErrorDescription: "Invalid client credentials",
			}
		}
		logger.Error("Failed to retrieve client", log.Error(err))
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorServerError,
			ErrorDescription: "Failed to authenticate client",
		}
	}
	if client.IsConfidential() || !client.IsAllowedAuthMethod(constants.ClientAuthMethodNone) {
		logger.Debug("Confidential client attempted unauthenticated access",
			log.String("clientID", client.ClientID))
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidClient,
			ErrorDescription: "Client authentication required",
		}
	}

	return &AuthenticationResult{Client: client, Method: constants.ClientAuthMethodNone}, nil
}

// authenticateWithSecret authenticates a confidential client with a shared secret.
func (ca *ClientAuthenticator) authenticateWithSecret(clientID, clientSecret,
	method string) (*AuthenticationResult, *model.ErrorResponse) {
	if clientID == "" || clientSecret == "" {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidClient,
			ErrorDescription: "Invalid client credentials",
		}
	}

	client, errResp := ca.findClient(clientID)
	if errResp != nil {
		return nil, errResp
	}

	if !client.IsConfidential() || !client.IsAllowedAuthMethod(method) {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidClient,
			ErrorDescription: "Client authentication method not allowed",
		}
	}

	clientService := ca.ClientProvider.GetClientService()
	if !clientService.ValidateClientSecret(client, clientSecret) {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidClient,
			ErrorDescription: "Invalid client credentials",
		}
	}

	return &AuthenticationResult{Client: client, Method: method}, nil
}

// authenticateWithAssertion authenticates a client through a signed JWT client assertion.
func (ca *ClientAuthenticator) authenticateWithAssertion(
	tokenRequest *model.TokenRequest) (*AuthenticationResult, *model.ErrorResponse) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "ClientAuthenticator"))

	if tokenRequest.ClientAssertionType != constants.ClientAssertionTypeJWTBearer {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Unsupported client assertion type",
		}
	}
	if tokenRequest.ClientAssertion == "" {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Client assertion is required",
		}
	}

	claims, err := jwt.DecodeJWTPayload(tokenRequest.ClientAssertion)
	if err != nil {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidClient,
			ErrorDescription: "Malformed client assertion",
		}
	}

	subject, _ := claims["sub"].(string)
	issuer, _ := claims["iss"].(string)
	if subject == "" || issuer != subject {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidClient,
			ErrorDescription: "Client assertion issuer and subject must identify the client",
		}
	}

	client, errResp := ca.findClient(subject)
	if errResp != nil {
		return nil, errResp
	}
	if client.PublicKey == "" || !client.IsAllowedAuthMethod(constants.ClientAuthMethodPrivateKeyJWT) {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidClient,
			ErrorDescription: "Client authentication method not allowed",
		}
	}

	if err := validateAssertionTimes(claims); err != nil {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidClient,
			ErrorDescription: err.Error(),
		}
	}
	if !audienceMatchesIssuer(claims["aud"]) {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidClient,
			ErrorDescription: "Client assertion audience does not match this server",
		}
	}

	if err := ca.JWTService.VerifyJWTSignatureWithPEM(tokenRequest.ClientAssertion, client.PublicKey); err != nil {
		logger.Debug("Client assertion signature verification failed", log.Error(err))
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidClient,
			ErrorDescription: "Invalid client assertion signature",
		}
	}

	return &AuthenticationResult{Client: client, Method: constants.ClientAuthMethodPrivateKeyJWT}, nil
}

// unregisteredClient synthesizes a client for a client_id no registration
// exists for. Such clients are confined to the PKCE-protected authorization
// code grant.
func unregisteredClient(clientID string) *clientmodel.OAuthClient {
	return &clientmodel.OAuthClient{
		ClientID:          clientID,
		Type:              clientmodel.ClientTypeUnregistered,
		AllowedGrantTypes: []string{constants.GrantTypeAuthorizationCode},
		RequirePKCE:       true,
		ScopePolicy:       clientmodel.ScopePolicyNone,
	}
}

func (ca *ClientAuthenticator) findClient(clientID string) (*clientmodel.OAuthClient, *model.ErrorResponse) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "ClientAuthenticator"))

	client, err := ca.ClientProvider.GetClientService().GetOAuthClient(clientID)
	if err != nil {
		if errors.Is(err, clientstore.ErrClientNotFound) {
			return nil, &model.ErrorResponse{
				Error:            constants.ErrorInvalidClient,
				ErrorDescription: "Invalid client credentials",
			}
		}
		logger.Error("Failed to retrieve client", log.Error(err))
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorServerError,
			ErrorDescription: "Failed to authenticate client",
		}
	}
	return client, nil
}

// validateAssertionTimes checks the exp and nbf claims of a client assertion.
func validateAssertionTimes(claims map[string]interface{}) error {
	now := time.Now().Unix()

	exp, ok := claims["exp"].(float64)
	if !ok {
		return fmt.Errorf("client assertion must carry an expiration time")
	}
	if int64(exp) <= now {
		return fmt.Errorf("client assertion has expired")
	}

	if nbf, ok := claims["nbf"].(float64); ok && int64(nbf) > now {
		return fmt.Errorf("client assertion is not yet valid")
	}

	return nil
}

// audienceMatchesIssuer checks whether the aud claim names this server's
// issuer identifier or token endpoint.
func audienceMatchesIssuer(aud interface{}) bool {
	issuer := jwt.GetJWTTokenIssuer()

	matches := func(value string) bool {
		return value == issuer || strings.TrimSuffix(value, constants.OAuth2TokenEndpoint) == issuer
	}

	switch v := aud.(type) {
	case string:
		return matches(v)
	case []interface{}:
		for _, entry := range v {
			if value, ok := entry.(string); ok && matches(value) {
				return true
			}
		}
	}
	return false
}
