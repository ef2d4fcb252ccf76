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

// Package responsetype provides handlers for the supported OAuth2 response types.
package responsetype

import (
	"errors"
	"strconv"

	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	authzstore "github.com/drsect0r/server-library/internal/oauth/oauth2/authz/store"
	authzutils "github.com/drsect0r/server-library/internal/oauth/oauth2/authz/utils"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	tokenservice "github.com/drsect0r/server-library/internal/oauth/oauth2/token/service"
	"github.com/drsect0r/server-library/internal/oauth/oidc"
	"github.com/drsect0r/server-library/internal/oauth/scope"
	sessionmodel "github.com/drsect0r/server-library/internal/oauth/session/model"
)

// ErrUnsupportedResponseType is returned when no handler is registered for a response type.
var ErrUnsupportedResponseType = errors.New("unsupported response type")

// ResponseTypeHandlerInterface mints the redirect parameters contributed by a
// single response type.
type ResponseTypeHandlerInterface interface {
	// IssueParameters mints the artifacts of the response type and returns
	// them as redirect parameters.
	IssueParameters(client *clientmodel.OAuthClient,
		sessionData *sessionmodel.SessionData) (map[string]string, error)
	// DefaultResponseMode returns the response mode used when the request
	// does not name one.
	DefaultResponseMode() string
}

// GetResponseTypeHandler returns the handler registered for the given
// response type.
func GetResponseTypeHandler(responseType string) (ResponseTypeHandlerInterface, error) {
	switch responseType {
	case constants.ResponseTypeCode:
		return &codeResponseTypeHandler{
			AuthZStore: authzstore.NewAuthorizationCodeStore(),
		}, nil
	case constants.ResponseTypeToken:
		return &tokenResponseTypeHandler{
			TokenService: tokenservice.NewTokenService(),
		}, nil
	case constants.ResponseTypeIDToken:
		return &idTokenResponseTypeHandler{
			IDTokenService: oidc.NewIDTokenService(),
		}, nil
	case constants.ResponseTypeIDTokenToken:
		return &idTokenTokenResponseTypeHandler{
			TokenService:   tokenservice.NewTokenService(),
			IDTokenService: oidc.NewIDTokenService(),
		}, nil
	case constants.ResponseTypeNone:
		return &noneResponseTypeHandler{}, nil
	default:
		return nil, ErrUnsupportedResponseType
	}
}

// codeResponseTypeHandler issues an authorization code.
type codeResponseTypeHandler struct {
	AuthZStore authzstore.AuthorizationCodeStoreInterface
}

func (h *codeResponseTypeHandler) IssueParameters(client *clientmodel.OAuthClient,
	sessionData *sessionmodel.SessionData) (map[string]string, error) {
	authzCode, err := authzutils.BuildAuthorizationCode(sessionData)
	if err != nil {
		return nil, err
	}
	if err := h.AuthZStore.InsertAuthorizationCode(authzCode); err != nil {
		return nil, err
	}
	return map[string]string{
		constants.Code: authzCode.Code,
	}, nil
}

func (h *codeResponseTypeHandler) DefaultResponseMode() string {
	return constants.ResponseModeQuery
}

// tokenResponseTypeHandler issues an access token directly from the
// authorization endpoint.
type tokenResponseTypeHandler struct {
	TokenService tokenservice.TokenServiceInterface
}

func (h *tokenResponseTypeHandler) IssueParameters(client *clientmodel.OAuthClient,
	sessionData *sessionmodel.SessionData) (map[string]string, error) {
	params := sessionData.OAuthParameters
	scopes := scope.ParseScopes(params.Scopes)

	accessToken, err := h.TokenService.IssueAccessToken(client, sessionData.LoggedInUser.UserID,
		scopes, nil)
	if err != nil {
		return nil, err
	}

	responseParams := map[string]string{
		"access_token": accessToken.Token,
		"token_type":   accessToken.TokenType,
		"expires_in":   strconv.FormatInt(accessToken.ExpiresIn, 10),
	}
	if params.Scopes != "" {
		responseParams[constants.Scope] = params.Scopes
	}
	return responseParams, nil
}

func (h *tokenResponseTypeHandler) DefaultResponseMode() string {
	return constants.ResponseModeFragment
}

// idTokenResponseTypeHandler issues an ID token without an accompanying
// access token.
type idTokenResponseTypeHandler struct {
	IDTokenService oidc.IDTokenServiceInterface
}

func (h *idTokenResponseTypeHandler) IssueParameters(client *clientmodel.OAuthClient,
	sessionData *sessionmodel.SessionData) (map[string]string, error) {
	params := sessionData.OAuthParameters
	if params.Nonce == "" {
		return nil, errors.New("nonce is required for the id_token response type")
	}

	idToken, err := h.IDTokenService.IssueIDToken(oidc.IDTokenRequest{
		Client:   client,
		Subject:  sessionData.LoggedInUser.UserID,
		AuthTime: sessionData.AuthTime.Unix(),
		Nonce:    params.Nonce,
	})
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"id_token": idToken,
	}, nil
}

func (h *idTokenResponseTypeHandler) DefaultResponseMode() string {
	return constants.ResponseModeFragment
}

// idTokenTokenResponseTypeHandler issues an access token and an ID token
// carrying the matching at_hash.
type idTokenTokenResponseTypeHandler struct {
	TokenService   tokenservice.TokenServiceInterface
	IDTokenService oidc.IDTokenServiceInterface
}

func (h *idTokenTokenResponseTypeHandler) IssueParameters(client *clientmodel.OAuthClient,
	sessionData *sessionmodel.SessionData) (map[string]string, error) {
	params := sessionData.OAuthParameters
	if params.Nonce == "" {
		return nil, errors.New("nonce is required for the id_token token response type")
	}

	scopes := scope.ParseScopes(params.Scopes)
	accessToken, err := h.TokenService.IssueAccessToken(client, sessionData.LoggedInUser.UserID,
		scopes, nil)
	if err != nil {
		return nil, err
	}

	idToken, err := h.IDTokenService.IssueIDToken(oidc.IDTokenRequest{
		Client:      client,
		Subject:     sessionData.LoggedInUser.UserID,
		AuthTime:    sessionData.AuthTime.Unix(),
		Nonce:       params.Nonce,
		AccessToken: accessToken.Token,
	})
	if err != nil {
		return nil, err
	}

	responseParams := map[string]string{
		"access_token": accessToken.Token,
		"token_type":   accessToken.TokenType,
		"expires_in":   strconv.FormatInt(accessToken.ExpiresIn, 10),
		"id_token":     idToken,
	}
	if params.Scopes != "" {
		responseParams[constants.Scope] = params.Scopes
	}
	return responseParams, nil
}

func (h *idTokenTokenResponseTypeHandler) DefaultResponseMode() string {
	return constants.ResponseModeFragment
}

// noneResponseTypeHandler completes the flow without issuing any artifact.
type noneResponseTypeHandler struct{}

func (h *noneResponseTypeHandler) IssueParameters(client *clientmodel.OAuthClient,
	sessionData *sessionmodel.SessionData) (map[string]string, error) {
	return map[string]string{}, nil
}

func (h *noneResponseTypeHandler) DefaultResponseMode() string {
	return constants.ResponseModeQuery
}
