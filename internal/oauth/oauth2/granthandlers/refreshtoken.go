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

	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	tokenservice "github.com/drsect0r/server-library/internal/oauth/oauth2/token/service"
	"github.com/drsect0r/server-library/internal/oauth/scope"
	"github.com/drsect0r/server-library/internal/system/config"
	"github.com/drsect0r/server-library/internal/system/log"
)

// refreshTokenGrantHandler handles the refresh token grant type.
type refreshTokenGrantHandler struct {
	TokenService tokenservice.TokenServiceInterface
}

// newRefreshTokenGrantHandler creates a new instance of RefreshTokenGrantHandler.
func newRefreshTokenGrantHandler() GrantHandlerInterface {
	return &refreshTokenGrantHandler{
		TokenService: tokenservice.NewTokenService(),
	}
}

// ValidateGrant validates the refresh token grant type.
func (h *refreshTokenGrantHandler) ValidateGrant(tokenRequest *model.TokenRequest,
	client *clientmodel.OAuthClient) *model.ErrorResponse {
	if tokenRequest.GrantType != constants.GrantTypeRefreshToken {
		return &model.ErrorResponse{
			Error:            constants.ErrorUnsupportedGrantType,
			ErrorDescription: "Unsupported grant type",
		}
	}
	if tokenRequest.RefreshToken == "" {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Refresh token is required",
		}
	}
	return nil
}

// HandleGrant exchanges a refresh token for a new token pair. The requested
// scope may narrow the originally granted scope but never widen it.
func (h *refreshTokenGrantHandler) HandleGrant(tokenRequest *model.TokenRequest,
	client *clientmodel.OAuthClient, ctx *model.TokenContext) (
	*model.TokenResponseDTO, *model.ErrorResponse) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "RefreshTokenGrantHandler"))

	claims, err := h.TokenService.ValidateRefreshToken(tokenRequest.RefreshToken, client.ClientID)
	if err != nil {
		if errors.Is(err, tokenservice.ErrInvalidRefreshToken) {
			return nil, &model.ErrorResponse{
				Error:            constants.ErrorInvalidGrant,
				ErrorDescription: "Invalid refresh token",
			}
		}
		logger.Error("Failed to validate refresh token", log.Error(err))
		return nil, serverErrorResponse("Failed to process refresh token")
	}

	subject, _ := claims["sub"].(string)
	grantedScope, _ := claims["scope"].(string)
	grantedScopes := scope.ParseScopes(grantedScope)

	scopes := grantedScopes
	if tokenRequest.Scope != "" {
		requestedScopes := scope.ParseScopes(tokenRequest.Scope)
		if !scope.IsSubset(requestedScopes, grantedScopes) {
			return nil, &model.ErrorResponse{
				Error:            constants.ErrorInvalidScope,
				ErrorDescription: "Requested scope exceeds the originally granted scope",
			}
		}
		scopes = requestedScopes
	}

	accessToken, err := h.TokenService.IssueAccessToken(client, subject, scopes, nil)
	if err != nil {
		logger.Error("Failed to generate access token", log.Error(err))
		return nil, serverErrorResponse("Failed to generate token")
	}

	if ctx.TokenAttributes == nil {
		ctx.TokenAttributes = make(map[string]interface{})
	}
	ctx.TokenAttributes[model.AttrSubject] = subject

	tokenResponse := &model.TokenResponseDTO{
		AccessToken: *accessToken,
	}

	if config.GetServerRuntime().Config.OAuth.RefreshToken.RenewOnGrant {
		// Rotate: revoke the presented token and mint a replacement carrying
		// the original scope.
		if err := h.TokenService.RevokeToken(tokenRequest.RefreshToken, client.ClientID); err != nil {
			logger.Error("Failed to revoke refresh token on rotation", log.Error(err))
			return nil, serverErrorResponse("Failed to renew refresh token")
		}
		refreshToken, err := h.TokenService.IssueRefreshToken(client, subject, grantedScopes)
		if err != nil {
			logger.Error("Failed to generate refresh token", log.Error(err))
			return nil, serverErrorResponse("Failed to generate refresh token")
		}
		tokenResponse.RefreshToken = refreshToken
	}

	return tokenResponse, nil
}
