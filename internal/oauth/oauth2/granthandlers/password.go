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
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	tokenservice "github.com/drsect0r/server-library/internal/oauth/oauth2/token/service"
	"github.com/drsect0r/server-library/internal/oauth/scope"
	scopeprovider "github.com/drsect0r/server-library/internal/oauth/scope/provider"
	"github.com/drsect0r/server-library/internal/oauth/scope/validator"
	"github.com/drsect0r/server-library/internal/system/log"
	userprovider "github.com/drsect0r/server-library/internal/user/provider"
	userservice "github.com/drsect0r/server-library/internal/user/service"
)

// passwordGrantHandler handles the resource owner password credentials grant type.
type passwordGrantHandler struct {
	TokenService   tokenservice.TokenServiceInterface
	ScopeValidator validator.ScopeValidatorInterface
	UserService    userservice.UserServiceInterface
}

// newPasswordGrantHandler creates a new instance of PasswordGrantHandler.
func newPasswordGrantHandler() GrantHandlerInterface {
	return &passwordGrantHandler{
		TokenService:   tokenservice.NewTokenService(),
		ScopeValidator: scopeprovider.NewScopeValidatorProvider().GetScopeValidator(),
		UserService:    userprovider.NewUserProvider().GetUserService(),
	}
}

// ValidateGrant validates the password grant type.
func (h *passwordGrantHandler) ValidateGrant(tokenRequest *model.TokenRequest,
	client *clientmodel.OAuthClient) *model.ErrorResponse {
	if tokenRequest.GrantType != constants.GrantTypePassword {
		return &model.ErrorResponse{
			Error:            constants.ErrorUnsupportedGrantType,
			ErrorDescription: "Unsupported grant type",
		}
	}
	if tokenRequest.Username == "" || tokenRequest.Password == "" {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Username and password are required",
		}
	}
	return nil
}

// HandleGrant authenticates the resource owner with the presented credentials
// and issues tokens on their behalf.
func (h *passwordGrantHandler) HandleGrant(tokenRequest *model.TokenRequest,
	client *clientmodel.OAuthClient, ctx *model.TokenContext) (
	*model.TokenResponseDTO, *model.ErrorResponse) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "PasswordGrantHandler"))

	user, err := h.UserService.AuthenticateUser(tokenRequest.Username, tokenRequest.Password)
	if err != nil {
		if errors.Is(err, userservice.ErrInvalidCredentials) {
			return nil, &model.ErrorResponse{
				Error:            constants.ErrorInvalidGrant,
				ErrorDescription: "Invalid resource owner credentials",
			}
		}
		logger.Error("Failed to authenticate resource owner", log.Error(err))
		return nil, serverErrorResponse("Failed to authenticate resource owner")
	}

	validatedScope, errResp := validateRequestedScopes(tokenRequest.Scope, client, h.ScopeValidator)
	if errResp != nil {
		return nil, errResp
	}
	scopes := scope.ParseScopes(validatedScope)

	accessToken, err := h.TokenService.IssueAccessToken(client, user.UserID, scopes, nil)
	if err != nil {
		logger.Error("Failed to generate access token", log.Error(err))
		return nil, serverErrorResponse("Failed to generate token")
	}

	if ctx.TokenAttributes == nil {
		ctx.TokenAttributes = make(map[string]interface{})
	}
	ctx.TokenAttributes[model.AttrSubject] = user.UserID
	ctx.TokenAttributes[model.AttrAuthTime] = time.Now().Unix()

	tokenResponse := &model.TokenResponseDTO{
		AccessToken: *accessToken,
	}

	if client.IsAllowedGrantType(constants.GrantTypeRefreshToken) {
		refreshToken, err := h.TokenService.IssueRefreshToken(client, user.UserID, scopes)
		if err != nil {
			logger.Error("Failed to generate refresh token", log.Error(err))
			return nil, serverErrorResponse("Failed to generate refresh token")
		}
		tokenResponse.RefreshToken = refreshToken
	}

	return tokenResponse, nil
}
