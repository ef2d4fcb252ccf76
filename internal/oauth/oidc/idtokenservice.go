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

// Package oidc provides ID token issuance per OpenID Connect Core.
package oidc

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"hash"
	"strings"

	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	"github.com/drsect0r/server-library/internal/system/config"
	"github.com/drsect0r/server-library/internal/system/jwt"
)

// IDTokenRequest carries the inputs for minting an ID token.
type IDTokenRequest struct {
	Client            *clientmodel.OAuthClient
	Subject           string
	AuthTime          int64
	Nonce             string
	AccessToken       string
	AuthorizationCode string
	ExtraClaims       map[string]interface{}
}

// IDTokenServiceInterface defines the interface for ID token issuance.
type IDTokenServiceInterface interface {
	IssueIDToken(request IDTokenRequest) (string, error)
}

// IDTokenService mints signed ID tokens through the system JWT service.
type IDTokenService struct {
	JWTService jwt.JWTServiceInterface
}

// NewIDTokenService creates a new instance of IDTokenService.
func NewIDTokenService() IDTokenServiceInterface {
	return &IDTokenService{
		JWTService: jwt.GetJWTService(),
	}
}

// IssueIDToken mints an ID token for the given request. The at_hash and c_hash
// claims are added when an access token or authorization code accompanies the
// ID token in the same response.
func (its *IDTokenService) IssueIDToken(request IDTokenRequest) (string, error) {
	if request.Client == nil {
		return "", errors.New("client is required to issue an ID token")
	}
	if request.Subject == "" {
		return "", errors.New("subject is required to issue an ID token")
	}

	validityPeriod := config.GetServerRuntime().Config.OAuth.IDToken.ValidityPeriod
	if validityPeriod == 0 {
		validityPeriod = jwt.GetJWTTokenValidityPeriod()
	}

	alg := its.JWTService.GetSignatureAlgorithm()

	claims := map[string]interface{}{
		"auth_time": request.AuthTime,
	}
	if request.Nonce != "" {
		claims["nonce"] = request.Nonce
	}
	if request.AccessToken != "" {
		claims["at_hash"] = computeTokenHash(request.AccessToken, alg)
	}
	if request.AuthorizationCode != "" {
		claims["c_hash"] = computeTokenHash(request.AuthorizationCode, alg)
	}
	for key, value := range request.ExtraClaims {
		claims[key] = value
	}

	idToken, _, err := its.JWTService.GenerateJWT(request.Subject, request.Client.ClientID,
		validityPeriod, claims)
	return idToken, err
}

// computeTokenHash computes the OIDC token hash: the base64url encoding of the
// left half of the token's digest, where the digest function matches the
// signature algorithm family.
func computeTokenHash(token, alg string) string {
	var hasher hash.Hash
	switch {
	case strings.HasSuffix(alg, "384"):
		hasher = sha512.New384()
	case strings.HasSuffix(alg, "512"):
		hasher = sha512.New()
	default:
		hasher = sha256.New()
	}

	hasher.Write([]byte(token))
	digest := hasher.Sum(nil)
	return base64.RawURLEncoding.EncodeToString(digest[:len(digest)/2])
}
