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
	"errors"
	"time"

	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	authzconstants "github.com/drsect0r/server-library/internal/oauth/oauth2/authz/constants"
	authzmodel "github.com/drsect0r/server-library/internal/oauth/oauth2/authz/model"
	authzstore "github.com/drsect0r/server-library/internal/oauth/oauth2/authz/store"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/pkce"
	tokenservice "github.com/drsect0r/server-library/internal/oauth/oauth2/token/service"
	"github.com/drsect0r/server-library/internal/oauth/scope"
	"github.com/drsect0r/server-library/internal/system/log"
)

// authorizationCodeGrantHandler handles the authorization code grant type.
type authorizationCodeGrantHandler struct {
	TokenService tokenservice.TokenServiceInterface
	AuthZStore   authzstore.AuthorizationCodeStoreInterface
}

// newAuthorizationCodeGrantHandler creates a new instance of AuthorizationCodeGrantHandler.
func newAuthorizationCodeGrantHandler() GrantHandlerInterface {
	return &authorizationCodeGrantHandler{
		TokenService: tokenservice.NewTokenService(),
		AuthZStore:   authzstore.NewAuthorizationCodeStore(),
	}
}

// ValidateGrant validates the authorization code grant type.
func (h *authorizationCodeGrantHandler) ValidateGrant(tokenRequest *model.TokenRequest,
	client *clientmodel.OAuthClient) *model.ErrorResponse {
	if tokenRequest.GrantType != constants.GrantTypeAuthorizationCode {
		return &model.ErrorResponse{
			Error:            constants.ErrorUnsupportedGrantType,
			ErrorDescription: "Unsupported grant type",
		}
	}
	if tokenRequest.Code == "" {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Authorization code is required",
		}
	}
	return nil
}

// HandleGrant exchanges an authorization code for tokens. The code is
// consumed atomically so that concurrent exchanges of the same code succeed
// at most once.
func (h *authorizationCodeGrantHandler) HandleGrant(tokenRequest *model.TokenRequest,
	client *clientmodel.OAuthClient, ctx *model.TokenContext) (
	*model.TokenResponseDTO, *model.ErrorResponse) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizationCodeGrantHandler"))

	authzCode, errResp := h.validateAuthorizationCode(tokenRequest, client)
	if errResp != nil {
		return nil, errResp
	}

	if errResp := h.verifyPKCE(tokenRequest, client, authzCode); errResp != nil {
		return nil, errResp
	}

	consumed, err := h.AuthZStore.ConsumeAuthorizationCode(authzCode)
	if err != nil {
		logger.Error("Failed to consume authorization code", log.Error(err))
		return nil, serverErrorResponse("Failed to process authorization code")
	}
	if !consumed {
		// Another exchange won the race or the code was already invalidated.
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidGrant,
			ErrorDescription: "Invalid authorization code",
		}
	}

	scopes := scope.ParseScopes(authzCode.Scopes)
	accessToken, err := h.TokenService.IssueAccessToken(client, authzCode.AuthorizedUserID, scopes, nil)
	if err != nil {
		logger.Error("Failed to generate access token", log.Error(err))
		return nil, serverErrorResponse("Failed to generate token")
	}

	if ctx.TokenAttributes == nil {
		ctx.TokenAttributes = make(map[string]interface{})
	}
	ctx.TokenAttributes[model.AttrSubject] = authzCode.AuthorizedUserID
	ctx.TokenAttributes[model.AttrAuthTime] = authzCode.AuthTime
	ctx.TokenAttributes[model.AttrAuthorizationCode] = authzCode.Code
	ctx.TokenAttributes[model.AttrAccessToken] = accessToken.Token
	if authzCode.Nonce != "" {
		ctx.TokenAttributes[model.AttrNonce] = authzCode.Nonce
	}

	tokenResponse := &model.TokenResponseDTO{
		AccessToken: *accessToken,
	}

	if client.IsAllowedGrantType(constants.GrantTypeRefreshToken) {
		refreshToken, err := h.TokenService.IssueRefreshToken(client, authzCode.AuthorizedUserID, scopes)
		if err != nil {
			logger.Error("Failed to generate refresh token", log.Error(err))
			return nil, serverErrorResponse("Failed to generate refresh token")
		}
		tokenResponse.RefreshToken = refreshToken
	}

	return tokenResponse, nil
}

// validateAuthorizationCode loads the stored code and checks ownership,
// redirect URI binding, state and expiry.
func (h *authorizationCodeGrantHandler) validateAuthorizationCode(tokenRequest *model.TokenRequest,
	client *clientmodel.OAuthClient) (authzmodel.AuthorizationCode, *model.ErrorResponse) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizationCodeGrantHandler"))

	invalidGrant := &model.ErrorResponse{
		Error:            constants.ErrorInvalidGrant,
		ErrorDescription: "Invalid authorization code",
	}

	authzCode, err := h.AuthZStore.GetAuthorizationCode(client.ClientID, tokenRequest.Code)
	if err != nil {
		if errors.Is(err, authzconstants.ErrAuthorizationCodeNotFound) {
			return authzmodel.AuthorizationCode{}, invalidGrant
		}
		logger.Error("Failed to retrieve authorization code", log.Error(err))
		return authzmodel.AuthorizationCode{}, serverErrorResponse("Failed to process authorization code")
	}

	// The redirect URI must match the one bound to the code at issuance.
	if authzCode.RedirectURI != tokenRequest.RedirectURI {
		return authzmodel.AuthorizationCode{}, invalidGrant
	}

	switch authzCode.State {
	case authzconstants.AuthCodeStateActive:
	case authzconstants.AuthCodeStateInactive, authzconstants.AuthCodeStateRevoked:
		return authzmodel.AuthorizationCode{}, invalidGrant
	default:
		return authzmodel.AuthorizationCode{}, &model.ErrorResponse{
			Error:            constants.ErrorInvalidGrant,
			ErrorDescription: "Expired authorization code",
		}
	}

	if authzCode.ExpiryTime.Before(time.Now()) {
		if err := h.AuthZStore.ExpireAuthorizationCode(authzCode); err != nil {
			logger.Error("Failed to mark authorization code as expired", log.Error(err))
		}
		return authzmodel.AuthorizationCode{}, &model.ErrorResponse{
			Error:            constants.ErrorInvalidGrant,
			ErrorDescription: "Expired authorization code",
		}
	}

	return authzCode, nil
}

// verifyPKCE verifies the code verifier against the challenge bound to the
// authorization code. Verification is mandatory when a challenge was sent
// with the authorization request, when the client mandates PKCE, or when the
// client is public.
func (h *authorizationCodeGrantHandler) verifyPKCE(tokenRequest *model.TokenRequest,
	client *clientmodel.OAuthClient, authzCode authzmodel.AuthorizationCode) *model.ErrorResponse {
	pkceRequired := authzCode.CodeChallenge != "" || client.RequirePKCE || !client.IsConfidential()
	if !pkceRequired {
		return nil
	}

	if authzCode.CodeChallenge == "" {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidGrant,
			ErrorDescription: "PKCE is required for this client",
		}
	}

	method, err := pkce.GetChallengeMethod(authzCode.CodeChallengeMethod)
	if err != nil {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidGrant,
			ErrorDescription: "Unsupported code challenge method",
		}
	}

	if err := method.Verify(authzCode.CodeChallenge, tokenRequest.CodeVerifier); err != nil {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidGrant,
			ErrorDescription: "PKCE validation failed",
		}
	}

	return nil
}
