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

// Package revoke provides functionality for the OAuth2 token revocation endpoint.
package revoke

import (
	"time"

	tokenstore "github.com/drsect0r/server-library/internal/oauth/oauth2/token/store"
	"github.com/drsect0r/server-library/internal/system/jwt"
	"github.com/drsect0r/server-library/internal/system/log"
)

// RecordRevocationFunc persists a revocation record for the token with the given identifier.
type RecordRevocationFunc func(tokenID, clientID string, expiryTime time.Time) error

// TokenRevocationServiceInterface defines the interface for OAuth 2.0 token revocation.
type TokenRevocationServiceInterface interface {
	RevokeToken(token, clientID string) error
}

// TokenRevocationService implements the TokenRevocationServiceInterface.
type TokenRevocationService struct {
	jwtService       jwt.JWTServiceInterface
	recordRevocation RecordRevocationFunc
}

// NewTokenRevocationService creates a new TokenRevocationService instance.
func NewTokenRevocationService() TokenRevocationServiceInterface {
	return &TokenRevocationService{
		jwtService:       jwt.GetJWTService(),
		recordRevocation: tokenstore.InsertRevokedToken,
	}
}

// RevokeToken revokes the given token for the authenticated client. Tokens that
// are malformed, expired, not issued by this server or not owned by the client
// are ignored without error, so the endpoint never reveals whether a token
// exists. An error is returned only when the revocation record cannot be
// persisted.
func (s *TokenRevocationService) RevokeToken(token, clientID string) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "TokenRevocationService"))

	pubKey := s.jwtService.GetPublicKey()
	if pubKey == nil {
		logger.Error("Server public key is not available for JWT verification")
		return nil
	}
	if err := s.jwtService.VerifyJWTSignature(token, pubKey); err != nil {
		logger.Debug("Ignoring revocation request for a token not signed by this server", log.Error(err))
		return nil
	}

	_, payload, err := jwt.DecodeJWT(token)
	if err != nil {
		logger.Debug("Ignoring revocation request for a malformed token", log.Error(err))
		return nil
	}

	tokenID, _ := payload["jti"].(string)
	if tokenID == "" {
		logger.Debug("Ignoring revocation request for a token without an identifier")
		return nil
	}

	tokenClientID, _ := payload["client_id"].(string)
	if tokenClientID != clientID {
		logger.Debug("Ignoring revocation request for a token owned by another client",
			log.String("clientID", clientID))
		return nil
	}

	exp, ok := payload["exp"].(float64)
	if !ok || int64(exp) < time.Now().Unix() {
		return nil
	}

	if err := s.recordRevocation(tokenID, clientID, time.Unix(int64(exp), 0)); err != nil {
		logger.Error("Failed to persist token revocation", log.Error(err))
		return err
	}

	return nil
}
