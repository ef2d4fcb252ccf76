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

package revoke

import (
	"net/http"

	"github.com/drsect0r/server-library/internal/oauth/oauth2/clientauth"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/oautherror"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/tokentype"
)

// TokenRevocationHandler handles OAuth 2.0 token revocation requests.
type TokenRevocationHandler struct {
	service       TokenRevocationServiceInterface
	authenticator clientauth.ClientAuthenticatorInterface
}

// NewTokenRevocationHandler creates a new token revocation handler.
func NewTokenRevocationHandler() *TokenRevocationHandler {
	return &TokenRevocationHandler{
		service:       NewTokenRevocationService(),
		authenticator: clientauth.NewClientAuthenticator(),
	}
}

// HandleRevoke handles token revocation requests. A successful revocation and
// a revocation of an unknown or foreign token are indistinguishable to the
// caller. Both return an empty 200 response.
func (h *TokenRevocationHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		oautherror.WriteErrorWithStatus(w, &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Failed to decode request body",
		}, http.StatusBadRequest)
		return
	}

	result, errResp := h.authenticator.Authenticate(r, &model.TokenRequest{
		ClientID:            r.FormValue(constants.ClientID),
		ClientSecret:        r.FormValue(constants.ClientSecret),
		ClientAssertion:     r.FormValue(constants.ClientAssertion),
		ClientAssertionType: r.FormValue(constants.ClientAssertionType),
	})
	if errResp != nil {
		oautherror.WriteError(w, errResp)
		return
	}

	token, err := tokentype.ExtractTokenFromRequest(r, r.FormValue(constants.TokenTypeHint))
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

	if err := h.service.RevokeToken(token, result.Client.ClientID); err != nil {
		oautherror.WriteErrorWithStatus(w, &model.ErrorResponse{
			Error:            constants.ErrorServerError,
			ErrorDescription: "Server error while revoking token",
		}, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
