/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
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

// Package token provides handlers for managing OAuth 2.0 token requests.
package token

import (
	"encoding/json"
	"net/http"

	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/clientauth"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/granthandlers"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/oautherror"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/tokentype"
	"github.com/drsect0r/server-library/internal/oauth/oidc"
	"github.com/drsect0r/server-library/internal/oauth/scope"
	"github.com/drsect0r/server-library/internal/system/config"
	"github.com/drsect0r/server-library/internal/system/log"
)

// TokenHandlerInterface defines the interface for handling OAuth 2.0 token requests.
type TokenHandlerInterface interface {
	HandleTokenRequest(w http.ResponseWriter, r *http.Request)
}

// TokenHandler handles OAuth 2.0 token requests.
type TokenHandler struct {
	ClientAuthenticator  clientauth.ClientAuthenticatorInterface
	GrantHandlerProvider granthandlers.GrantHandlerProviderInterface
	Extensions           []oidc.TokenEndpointExtensionInterface
}

// NewTokenHandler creates a new instance of TokenHandler.
func NewTokenHandler() TokenHandlerInterface {
	return &TokenHandler{
		ClientAuthenticator:  clientauth.NewClientAuthenticator(),
		GrantHandlerProvider: granthandlers.NewGrantHandlerProvider(),
		Extensions: []oidc.TokenEndpointExtensionInterface{
			oidc.NewIDTokenExtension(),
		},
	}
}

// HandleTokenRequest handles the token request for OAuth 2.0. It authenticates
// the client and delegates to the grant handler registered for the grant type.
func (th *TokenHandler) HandleTokenRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "TokenHandler"))

	// Token requests carry credentials and must arrive over a secured transport.
	if r.TLS == nil && !config.GetServerRuntime().Config.Server.HTTPOnly {
		oautherror.WriteErrorWithStatus(w, &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "The request must be secured.",
		}, http.StatusBadRequest)
		return
	}

	if r.Method != http.MethodPost {
		oautherror.WriteErrorWithStatus(w, &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Only POST requests are accepted",
		}, http.StatusBadRequest)
		return
	}

	// Parse the form data from the request body.
	if err := r.ParseForm(); err != nil {
		oautherror.WriteErrorWithStatus(w, &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Failed to parse request body",
		}, http.StatusBadRequest)
		return
	}

	// Validate the grant_type.
	grantType := r.FormValue(constants.GrantType)
	if grantType == "" {
		oautherror.WriteErrorWithStatus(w, &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Missing grant_type parameter",
		}, http.StatusBadRequest)
		return
	}

	grantHandler := th.GrantHandlerProvider.GetGrantHandler(grantType)
	if grantHandler == nil {
		oautherror.WriteError(w, &model.ErrorResponse{
			Error:            constants.ErrorUnsupportedGrantType,
			ErrorDescription: "Unsupported grant type",
		})
		return
	}

	// Construct the token request.
	tokenRequest := &model.TokenRequest{
		GrantType:           grantType,
		ClientID:            r.FormValue(constants.ClientID),
		ClientSecret:        r.FormValue(constants.ClientSecret),
		Scope:               r.FormValue(constants.Scope),
		Username:            r.FormValue(constants.Username),
		Password:            r.FormValue(constants.Password),
		RefreshToken:        r.FormValue(constants.RefreshToken),
		CodeVerifier:        r.FormValue(constants.CodeVerifier),
		Code:                r.FormValue(constants.Code),
		RedirectURI:         r.FormValue(constants.RedirectURI),
		Assertion:           r.FormValue(constants.Assertion),
		ClientAssertion:     r.FormValue(constants.ClientAssertion),
		ClientAssertionType: r.FormValue(constants.ClientAssertionType),
		TokenType:           r.FormValue(constants.TokenType),
	}

	// Authenticate the client.
	authResult, errResp := th.ClientAuthenticator.Authenticate(r, tokenRequest)
	if errResp != nil {
		oautherror.WriteError(w, errResp)
		return
	}
	client := authResult.Client
	tokenRequest.ClientID = client.ClientID

	// Resource servers authenticate only to introspect and revoke tokens.
	if client.Type == clientmodel.ClientTypeResourceServer {
		oautherror.WriteErrorWithStatus(w, &model.ErrorResponse{
			Error:            constants.ErrorUnauthorizedClient,
			ErrorDescription: "Resource servers cannot request tokens",
		}, http.StatusBadRequest)
		return
	}

	// Validate grant type against the client.
	if !client.IsAllowedGrantType(tokenRequest.GrantType) {
		oautherror.WriteErrorWithStatus(w, &model.ErrorResponse{
			Error:            constants.ErrorUnauthorizedClient,
			ErrorDescription: "The authenticated client is not authorized to use this grant type",
		}, http.StatusBadRequest)
		return
	}

	// Validate the token request.
	if errResp := grantHandler.ValidateGrant(tokenRequest, client); errResp != nil {
		oautherror.WriteError(w, errResp)
		return
	}

	// Delegate to the grant handler.
	tokenContext := &model.TokenContext{TokenAttributes: map[string]interface{}{}}
	tokenResponse, errResp := grantHandler.HandleGrant(tokenRequest, client, tokenContext)
	if errResp != nil {
		oautherror.WriteError(w, errResp)
		return
	}

	// Run the token endpoint extensions over the grant outcome.
	grantedScopes := tokenResponse.AccessToken.Scopes
	extensionParams := make(map[string]interface{})
	for _, extension := range th.Extensions {
		params, err := extension.Process(client, grantedScopes, tokenContext)
		if err != nil {
			logger.Error("Token endpoint extension failed", log.Error(err))
			oautherror.WriteError(w, &model.ErrorResponse{
				Error:            constants.ErrorServerError,
				ErrorDescription: "Failed to process token response",
			})
			return
		}
		for key, value := range params {
			extensionParams[key] = value
		}
	}

	// Resolve the token surface presenting the access token.
	tokenType, err := tokentype.ResolveTokenType(tokenRequest.TokenType, client)
	if err != nil {
		oautherror.WriteErrorWithStatus(w, &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Unsupported token type",
		}, http.StatusBadRequest)
		return
	}

	responseParams, err := tokenType.BuildResponseParameters(tokenResponse.AccessToken)
	if err != nil {
		logger.Error("Failed to build token response parameters", log.Error(err))
		oautherror.WriteError(w, &model.ErrorResponse{
			Error:            constants.ErrorServerError,
			ErrorDescription: "Failed to process token response",
		})
		return
	}
	if len(grantedScopes) > 0 {
		responseParams[constants.Scope] = scope.JoinScopes(grantedScopes)
	}
	if tokenResponse.RefreshToken != nil {
		responseParams[constants.RefreshToken] = tokenResponse.RefreshToken.Token
	}
	for key, value := range extensionParams {
		responseParams[key] = value
	}

	logger.Debug("Token generated successfully", log.String("client_id", client.ClientID))

	// Set the response headers.
	w.Header().Set("Content-Type", "application/json")
	// Must include the following headers when sensitive data is returned.
	w.Header().Set("Cache-Control", "no-store, private")
	w.Header().Set("Pragma", "no-cache")

	// Write the token response.
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(responseParams); err != nil {
		logger.Error("Failed to write token response", log.Error(err))
	}
}
