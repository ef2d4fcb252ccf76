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
	"encoding/json"
	"net/http"

	"github.com/drsect0r/server-library/internal/oauth/oauth2/clientauth"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/oautherror"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/tokentype"
	serverconst "github.com/drsect0r/server-library/internal/system/constants"
	"github.com/drsect0r/server-library/internal/system/log"
)

// TokenIntrospectionHandler handles OAuth 2.0 token introspection requests.
type TokenIntrospectionHandler struct {
	service       TokenIntrospectionServiceInterface
	authenticator clientauth.ClientAuthenticatorInterface
}

// NewTokenIntrospectionHandler creates a new token introspection handler.
func NewTokenIntrospectionHandler(introspectionService TokenIntrospectionServiceInterface) *TokenIntrospectionHandler {
	return &TokenIntrospectionHandler{
		service:       introspectionService,
		authenticator: clientauth.NewClientAuthenticator(),
	}
}

// HandleIntrospect handles token introspection requests
func (h *TokenIntrospectionHandler) HandleIntrospect(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "TokenIntrospectionHandler"))

	if err := r.ParseForm(); err != nil {
		oautherror.WriteErrorWithStatus(w, &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Failed to decode request body",
		}, http.StatusBadRequest)
		return
	}

	// Introspection is served only to authenticated clients.
	if _, errResp := h.authenticator.Authenticate(r, &model.TokenRequest{
		ClientID:            r.FormValue(constants.ClientID),
		ClientSecret:        r.FormValue(constants.ClientSecret),
		ClientAssertion:     r.FormValue(constants.ClientAssertion),
		ClientAssertionType: r.FormValue(constants.ClientAssertionType),
	}); errResp != nil {
		oautherror.WriteError(w, errResp)
		return
	}

	// Extract request parameters
	tokenTypeHint := r.FormValue(constants.TokenTypeHint)
	token, err := tokentype.ExtractTokenFromRequest(r, tokenTypeHint)
	if err != nil {
		oautherror.WriteErrorWithStatus(w, &model.ErrorResponse{
			Error:            constants.ErrorUnsupportedTokenType,
			ErrorDescription: "Unsupported token_type_hint",
		}, http.StatusBadRequest)
		return
	}
	if token == "" {
		oautherror.WriteErrorWithStatus(w, &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Token parameter is required",
		}, http.StatusBadRequest)
		return
	}

	response, err := h.service.IntrospectToken(token, tokenTypeHint)
	if err != nil {
		oautherror.WriteErrorWithStatus(w, &model.ErrorResponse{
			Error:            constants.ErrorServerError,
			ErrorDescription: "Server error while introspecting token",
		}, http.StatusInternalServerError)
		return
	}

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("Error encoding response", log.Error(err))
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
