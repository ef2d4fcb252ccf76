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
	"strings"
	"time"

	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	tokenservice "github.com/drsect0r/server-library/internal/oauth/oauth2/token/service"
	"github.com/drsect0r/server-library/internal/oauth/scope"
	scopeprovider "github.com/drsect0r/server-library/internal/oauth/scope/provider"
	"github.com/drsect0r/server-library/internal/oauth/scope/validator"
	"github.com/drsect0r/server-library/internal/system/jwt"
	"github.com/drsect0r/server-library/internal/system/log"
)

// jwtBearerGrantHandler handles the JWT bearer authorization grant type
// defined in RFC 7523.
type jwtBearerGrantHandler struct {
	TokenService   tokenservice.TokenServiceInterface
	ScopeValidator validator.ScopeValidatorInterface
	JWTService     jwt.JWTServiceInterface
}

// newJWTBearerGrantHandler creates a new instance of JWTBearerGrantHandler.
func newJWTBearerGrantHandler() GrantHandlerInterface {
	return &jwtBearerGrantHandler{
		TokenService:   tokenservice.NewTokenService(),
		ScopeValidator: scopeprovider.NewScopeValidatorProvider().GetScopeValidator(),
		JWTService:     jwt.GetJWTService(),
	}
}

// ValidateGrant validates the JWT bearer grant type.
func (h *jwtBearerGrantHandler) ValidateGrant(tokenRequest *model.TokenRequest,
	client *clientmodel.OAuthClient) *model.ErrorResponse {
	if tokenRequest.GrantType != constants.GrantTypeJWTBearer {
		return &model.ErrorResponse{
			Error:            constants.ErrorUnsupportedGrantType,
			ErrorDescription: "Unsupported grant type",
		}
	}
	if tokenRequest.Assertion == "" {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Assertion is required",
		}
	}
	if client.PublicKey == "" {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidClient,
			ErrorDescription: "No public key registered for the client",
		}
	}
	return nil
}

// HandleGrant validates the presented assertion and issues an access token
// for the subject it asserts. Refresh tokens are never issued for this grant.
func (h *jwtBearerGrantHandler) HandleGrant(tokenRequest *model.TokenRequest,
	client *clientmodel.OAuthClient, ctx *model.TokenContext) (
	*model.TokenResponseDTO, *model.ErrorResponse) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "JWTBearerGrantHandler"))

	invalidGrant := func(description string) *model.ErrorResponse {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidGrant,
			ErrorDescription: description,
		}
	}

	claims, err := jwt.DecodeJWTPayload(tokenRequest.Assertion)
	if err != nil {
		return nil, invalidGrant("Malformed assertion")
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, invalidGrant("Assertion subject is required")
	}

	if !assertionAudienceMatches(claims["aud"]) {
		return nil, invalidGrant("Assertion audience does not match this server")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, invalidGrant("Assertion expiry is required")
	}
	if int64(exp) <= time.Now().Unix() {
		return nil, invalidGrant("Assertion has expired")
	}
	if nbf, ok := claims["nbf"].(float64); ok && int64(nbf) > time.Now().Unix() {
		return nil, invalidGrant("Assertion is not yet valid")
	}

	if err := h.JWTService.VerifyJWTSignatureWithPEM(tokenRequest.Assertion, client.PublicKey); err != nil {
		logger.Debug("Assertion signature verification failed", log.Error(err))
		return nil, invalidGrant("Invalid assertion signature")
	}

	validatedScope, errResp := validateRequestedScopes(tokenRequest.Scope, client, h.ScopeValidator)
	if errResp != nil {
		return nil, errResp
	}
	scopes := scope.ParseScopes(validatedScope)

	accessToken, err := h.TokenService.IssueAccessToken(client, subject, scopes, nil)
	if err != nil {
		logger.Error("Failed to generate access token", log.Error(err))
		return nil, serverErrorResponse("Failed to generate token")
	}

	if ctx.TokenAttributes == nil {
		ctx.TokenAttributes = make(map[string]interface{})
	}
	ctx.TokenAttributes[model.AttrSubject] = subject

	return &model.TokenResponseDTO{
		AccessToken: *accessToken,
	}, nil
}

// assertionAudienceMatches checks whether the aud claim names this server's
// issuer identifier or token endpoint.
func assertionAudienceMatches(aud interface{}) bool {
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
