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

package granthandlers

import (
	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	tokenservice "github.com/drsect0r/server-library/internal/oauth/oauth2/token/service"
	"github.com/drsect0r/server-library/internal/oauth/scope"
	scopeprovider "github.com/drsect0r/server-library/internal/oauth/scope/provider"
	"github.com/drsect0r/server-library/internal/oauth/scope/validator"
)

// clientCredentialsGrantHandler handles the client credentials grant type.
type clientCredentialsGrantHandler struct {
	TokenService   tokenservice.TokenServiceInterface
	ScopeValidator validator.ScopeValidatorInterface
}

// newClientCredentialsGrantHandler creates a new instance of ClientCredentialsGrantHandler.
func newClientCredentialsGrantHandler() GrantHandlerInterface {
	return &clientCredentialsGrantHandler{
		TokenService:   tokenservice.NewTokenService(),
		ScopeValidator: scopeprovider.NewScopeValidatorProvider().GetScopeValidator(),
	}
}

// ValidateGrant validates the client credentials grant type.
func (h *clientCredentialsGrantHandler) ValidateGrant(tokenRequest *model.TokenRequest,
	client *clientmodel.OAuthClient) *model.ErrorResponse {
	if tokenRequest.GrantType != constants.GrantTypeClientCredentials {
		return &model.ErrorResponse{
			Error:            constants.ErrorUnsupportedGrantType,
			ErrorDescription: "Unsupported grant type",
		}
	}

	// The client credentials grant is restricted to confidential clients.
	if !client.IsConfidential() {
		return &model.ErrorResponse{
			Error:            constants.ErrorUnauthorizedClient,
			ErrorDescription: "Public clients cannot use the client credentials grant",
		}
	}

	return nil
}

// HandleGrant handles the client credentials grant type.
func (h *clientCredentialsGrantHandler) HandleGrant(tokenRequest *model.TokenRequest,
	client *clientmodel.OAuthClient, ctx *model.TokenContext) (
	*model.TokenResponseDTO, *model.ErrorResponse) {
	validatedScope, errResp := validateRequestedScopes(tokenRequest.Scope, client, h.ScopeValidator)
	if errResp != nil {
		return nil, errResp
	}
	scopes := scope.ParseScopes(validatedScope)

	// The client itself is the resource owner for this grant.
	accessToken, err := h.TokenService.IssueAccessToken(client, client.ClientID, scopes, nil)
	if err != nil {
		return nil, serverErrorResponse("Failed to generate token")
	}

	if ctx.TokenAttributes == nil {
		ctx.TokenAttributes = make(map[string]interface{})
	}
	ctx.TokenAttributes[model.AttrSubject] = client.ClientID

	tokenResponse := &model.TokenResponseDTO{
		AccessToken: *accessToken,
	}

	// Refresh token issuance for this grant is an opt-in via the client's
	// allowed grant types.
	if client.IsAllowedGrantType(constants.GrantTypeRefreshToken) {
		refreshToken, err := h.TokenService.IssueRefreshToken(client, client.ClientID, scopes)
		if err != nil {
			return nil, serverErrorResponse("Failed to generate refresh token")
		}
		tokenResponse.RefreshToken = refreshToken
	}

	return tokenResponse, nil
}
