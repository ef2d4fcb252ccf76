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

// Package service provides the token issuance, validation and revocation service.
package service

import (
	"errors"
	"time"

	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/token/store"
	"github.com/drsect0r/server-library/internal/oauth/scope"
	"github.com/drsect0r/server-library/internal/system/config"
	"github.com/drsect0r/server-library/internal/system/jwt"
	"github.com/drsect0r/server-library/internal/system/log"
)

// Claim key marking refresh tokens.
const claimTokenUse = "token_use"
const tokenUseRefresh = "refresh"

// ErrInvalidRefreshToken is returned when a refresh token fails validation.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// TokenServiceInterface defines the token lifecycle operations.
type TokenServiceInterface interface {
	IssueAccessToken(client *clientmodel.OAuthClient, subject string, scopes []string,
		claims map[string]interface{}) (*model.TokenDTO, error)
	IssueRefreshToken(client *clientmodel.OAuthClient, subject string, scopes []string) (*model.TokenDTO, error)
	ValidateRefreshToken(refreshToken, clientID string) (map[string]interface{}, error)
	RevokeToken(token, clientID string) error
}

// TokenService issues, validates and revokes the tokens minted by this server.
type TokenService struct {
	JWTService jwt.JWTServiceInterface
}

// NewTokenService creates a new instance of TokenService.
func NewTokenService() TokenServiceInterface {
	return &TokenService{
		JWTService: jwt.GetJWTService(),
	}
}

// IssueAccessToken mints a signed access token for the given client and subject.
func (ts *TokenService) IssueAccessToken(client *clientmodel.OAuthClient, subject string,
	scopes []string, claims map[string]interface{}) (*model.TokenDTO, error) {
	validityPeriod := client.AccessTokenValidity
	if validityPeriod == 0 {
		validityPeriod = jwt.GetJWTTokenValidityPeriod()
	}

	tokenClaims := map[string]interface{}{
		"scope":     scope.JoinScopes(scopes),
		"client_id": client.ClientID,
	}
	for key, value := range claims {
		tokenClaims[key] = value
	}

	token, iat, err := ts.JWTService.GenerateJWT(subject, client.ClientID, validityPeriod, tokenClaims)
	if err != nil {
		return nil, err
	}

	return &model.TokenDTO{
		Token:     token,
		TokenType: constants.TokenTypeBearer,
		IssuedAt:  iat,
		ExpiresIn: validityPeriod,
		Scopes:    scopes,
		ClientID:  client.ClientID,
		Subject:   subject,
	}, nil
}

// IssueRefreshToken mints a signed refresh token for the given client and subject.
func (ts *TokenService) IssueRefreshToken(client *clientmodel.OAuthClient, subject string,
	scopes []string) (*model.TokenDTO, error) {
	validityPeriod := client.RefreshTokenValidity
	if validityPeriod == 0 {
		validityPeriod = config.GetServerRuntime().Config.OAuth.RefreshToken.ValidityPeriod
	}

	tokenClaims := map[string]interface{}{
		"scope":       scope.JoinScopes(scopes),
		"client_id":   client.ClientID,
		claimTokenUse: tokenUseRefresh,
	}

	token, iat, err := ts.JWTService.GenerateJWT(subject, client.ClientID, validityPeriod, tokenClaims)
	if err != nil {
		return nil, err
	}

	return &model.TokenDTO{
		Token:     token,
		TokenType: constants.TokenTypeBearer,
		IssuedAt:  iat,
		ExpiresIn: validityPeriod,
		Scopes:    scopes,
		ClientID:  client.ClientID,
		Subject:   subject,
	}, nil
}

// ValidateRefreshToken verifies a refresh token's signature, expiry, ownership
// and revocation state, returning its claims on success.
func (ts *TokenService) ValidateRefreshToken(refreshToken, clientID string) (map[string]interface{}, error) {
	if err := ts.JWTService.VerifyJWTSignature(refreshToken, ts.JWTService.GetPublicKey()); err != nil {
		return nil, ErrInvalidRefreshToken
	}

	claims, err := jwt.DecodeJWTPayload(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if tokenUse, _ := claims[claimTokenUse].(string); tokenUse != tokenUseRefresh {
		return nil, ErrInvalidRefreshToken
	}

	exp, ok := claims["exp"].(float64)
	if !ok || int64(exp) <= time.Now().Unix() {
		return nil, ErrInvalidRefreshToken
	}

	if owner, _ := claims["client_id"].(string); owner != clientID {
		return nil, ErrInvalidRefreshToken
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, ErrInvalidRefreshToken
	}
	revoked, err := store.IsTokenRevoked(jti)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidRefreshToken
	}

	return claims, nil
}

// RevokeToken revokes a token issued by this server. Revocation is idempotent
// and deliberately oracle-free: malformed tokens, unknown tokens and tokens
// owned by another client all succeed without changing state.
func (ts *TokenService) RevokeToken(token, clientID string) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "TokenService"))

	if err := ts.JWTService.VerifyJWTSignature(token, ts.JWTService.GetPublicKey()); err != nil {
		logger.Debug("Revocation requested for a token this server did not issue")
		return nil
	}

	claims, err := jwt.DecodeJWTPayload(token)
	if err != nil {
		return nil
	}

	if owner, _ := claims["client_id"].(string); owner != clientID {
		return nil
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil
	}

	expiryTime := time.Now()
	if exp, ok := claims["exp"].(float64); ok {
		expiryTime = time.Unix(int64(exp), 0)
	}

	return store.InsertRevokedToken(jti, clientID, expiryTime)
}
