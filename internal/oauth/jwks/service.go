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

// Package jwks provides the implementation for retrieving JSON Web Key Sets (JWKS).
package jwks

import (
	"encoding/base64"

	"github.com/drsect0r/server-library/internal/oauth/jwks/constants"
	"github.com/drsect0r/server-library/internal/system/error/serviceerror"
	"github.com/drsect0r/server-library/internal/system/jwt"
)

// JWKS represents a single JSON Web Key.
type JWKS struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSResponse represents the JSON Web Key Set document.
type JWKSResponse struct {
	Keys []JWKS `json:"keys"`
}

// supportedAlgorithms lists the JWS algorithms the key set can advertise.
var supportedAlgorithms = map[string]bool{
	"RS256": true,
	"RS384": true,
	"RS512": true,
}

// JWKSServiceInterface defines the interface for JWKS service.
type JWKSServiceInterface interface {
	GetJWKS() (*JWKSResponse, *serviceerror.ServiceError)
}

// JWKSService implements the JWKSServiceInterface.
type JWKSService struct {
	jwtService jwt.JWTServiceInterface
}

// NewJWKSService creates a new instance of JWKSService.
func NewJWKSService() JWKSServiceInterface {
	return &JWKSService{
		jwtService: jwt.GetJWTService(),
	}
}

// GetJWKS builds the JSON Web Key Set from the server's token signing key.
func (s *JWKSService) GetJWKS() (*JWKSResponse, *serviceerror.ServiceError) {
	pubKey := s.jwtService.GetPublicKey()
	if pubKey == nil {
		return nil, constants.ErrorPublicKeyNotAvailable
	}

	alg := s.jwtService.GetSignatureAlgorithm()
	if !supportedAlgorithms[alg] {
		return nil, constants.ErrorUnsupportedSignatureAlgorithm
	}

	n := base64.RawURLEncoding.EncodeToString(pubKey.N.Bytes())

	// Encode the exponent as a big-endian byte slice trimmed of leading zeros.
	eBytes := make([]byte, 0, 8)
	e := pubKey.E
	for e > 0 {
		eBytes = append([]byte{byte(e & 0xff)}, eBytes...)
		e >>= 8
	}
	if len(eBytes) == 0 {
		eBytes = []byte{0}
	}

	key := JWKS{
		Kid: s.jwtService.GetKid(),
		Kty: "RSA",
		Use: "sig",
		Alg: alg,
		N:   n,
		E:   base64.RawURLEncoding.EncodeToString(eBytes),
	}

	return &JWKSResponse{
		Keys: []JWKS{key},
	}, nil
}
