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

package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/drsect0r/server-library/internal/system/config"
)

type JWTServiceTestSuite struct {
	suite.Suite
	jwtService     *JWTService
	testPrivateKey *rsa.PrivateKey
	tempDir        string
}

func TestJWTServiceSuite(t *testing.T) {
	suite.Run(t, new(JWTServiceTestSuite))
}

func (suite *JWTServiceTestSuite) SetupTest() {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(suite.T(), err)
	suite.testPrivateKey = privateKey

	suite.tempDir = suite.T().TempDir()
	keyPath := filepath.Join(suite.tempDir, "server.key")

	keyBytes := x509.MarshalPKCS1PrivateKey(privateKey)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: keyBytes})
	assert.NoError(suite.T(), os.WriteFile(keyPath, keyPEM, 0600))

	config.ResetServerRuntime()
	err = config.InitializeServerRuntime(suite.tempDir, &config.Config{
		Security: config.SecurityConfig{
			KeyFile: "server.key",
		},
		OAuth: config.OAuthConfig{
			JWT: config.JWTConfig{
				Issuer:             "https://localhost:8090/oauth2/token",
				SignatureAlgorithm: "RS256",
				ValidityPeriod:     3600,
			},
		},
	})
	assert.NoError(suite.T(), err)

	suite.jwtService = &JWTService{}
	assert.NoError(suite.T(), suite.jwtService.Init())
}

func (suite *JWTServiceTestSuite) TestInitWithPKCS8Key() {
	keyPath := filepath.Join(suite.tempDir, "pkcs8.key")
	keyBytes, err := x509.MarshalPKCS8PrivateKey(suite.testPrivateKey)
	assert.NoError(suite.T(), err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyBytes})
	assert.NoError(suite.T(), os.WriteFile(keyPath, keyPEM, 0600))

	config.ResetServerRuntime()
	err = config.InitializeServerRuntime(suite.tempDir, &config.Config{
		Security: config.SecurityConfig{KeyFile: "pkcs8.key"},
	})
	assert.NoError(suite.T(), err)

	svc := &JWTService{}
	assert.NoError(suite.T(), svc.Init())
	assert.NotNil(suite.T(), svc.GetPublicKey())
	assert.NotEmpty(suite.T(), svc.GetKid())
}

func (suite *JWTServiceTestSuite) TestInitWithMissingKeyFile() {
	config.ResetServerRuntime()
	err := config.InitializeServerRuntime(suite.tempDir, &config.Config{
		Security: config.SecurityConfig{KeyFile: "missing.key"},
	})
	assert.NoError(suite.T(), err)

	svc := &JWTService{}
	err = svc.Init()
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "key file not found")
}

func (suite *JWTServiceTestSuite) TestGenerateJWT() {
	claims := map[string]interface{}{
		"scope":     "read write",
		"auth_time": int64(1700000000),
	}
	token, iat, err := suite.jwtService.GenerateJWT("user-123", "client-abc", 3600, claims)

	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), token)
	assert.NotZero(suite.T(), iat)

	header, err := DecodeJWTHeader(token)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "RS256", header["alg"])
	assert.Equal(suite.T(), "JWT", header["typ"])
	assert.Equal(suite.T(), suite.jwtService.GetKid(), header["kid"])

	payload, err := DecodeJWTPayload(token)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "user-123", payload["sub"])
	assert.Equal(suite.T(), "client-abc", payload["aud"])
	assert.Equal(suite.T(), "https://localhost:8090/oauth2/token", payload["iss"])
	assert.Equal(suite.T(), "read write", payload["scope"])
	assert.Equal(suite.T(), float64(1700000000), payload["auth_time"])
	assert.NotEmpty(suite.T(), payload["jti"])

	// The token must verify against the service's own public key.
	assert.NoError(suite.T(), suite.jwtService.VerifyJWTSignature(token, suite.jwtService.GetPublicKey()))
}

func (suite *JWTServiceTestSuite) TestGenerateJWTWithoutPrivateKey() {
	svc := &JWTService{}
	token, _, err := svc.GenerateJWT("sub", "aud", 3600, nil)

	assert.Error(suite.T(), err)
	assert.Empty(suite.T(), token)
	assert.Contains(suite.T(), err.Error(), "private key not loaded")
}

func (suite *JWTServiceTestSuite) TestVerifyJWTSignatureWithWrongKey() {
	token, _, err := suite.jwtService.GenerateJWT("user-123", "client-abc", 3600, nil)
	assert.NoError(suite.T(), err)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(suite.T(), err)

	err = suite.jwtService.VerifyJWTSignature(token, &otherKey.PublicKey)
	assert.Error(suite.T(), err)
}

func (suite *JWTServiceTestSuite) TestVerifyJWTSignatureInvalidFormat() {
	err := suite.jwtService.VerifyJWTSignature("not-a-jwt", suite.jwtService.GetPublicKey())
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "invalid JWT token format")
}

func (suite *JWTServiceTestSuite) TestVerifyJWTSignatureWithPEM() {
	token, _, err := suite.jwtService.GenerateJWT("user-123", "client-abc", 3600, nil)
	assert.NoError(suite.T(), err)

	pubDER, err := x509.MarshalPKIXPublicKey(suite.jwtService.GetPublicKey())
	assert.NoError(suite.T(), err)
	pubPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}))

	assert.NoError(suite.T(), suite.jwtService.VerifyJWTSignatureWithPEM(token, pubPEM))
}

func (suite *JWTServiceTestSuite) TestVerifyJWTSignatureWithPEMInvalidBlock() {
	err := suite.jwtService.VerifyJWTSignatureWithPEM("a.b.c", "not a pem block")
	assert.Error(suite.T(), err)
}

func (suite *JWTServiceTestSuite) TestGetSignatureAlgorithmFallback() {
	config.ResetServerRuntime()
	err := config.InitializeServerRuntime(suite.tempDir, &config.Config{
		OAuth: config.OAuthConfig{
			JWT: config.JWTConfig{SignatureAlgorithm: "HS256"},
		},
	})
	assert.NoError(suite.T(), err)

	assert.Equal(suite.T(), "RS256", suite.jwtService.GetSignatureAlgorithm())
}

func (suite *JWTServiceTestSuite) TestVerifyJWTSignatureWithJWKS() {
	token, _, err := suite.jwtService.GenerateJWT("user-123", "client-abc", 3600, nil)
	assert.NoError(suite.T(), err)

	pubKey := suite.jwtService.GetPublicKey()
	jwks := map[string]interface{}{
		"keys": []map[string]interface{}{
			{
				"kty": "RSA",
				"kid": suite.jwtService.GetKid(),
				"n":   base64.RawURLEncoding.EncodeToString(pubKey.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString([]byte{1, 0, 1}),
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwks)
	}))
	defer server.Close()

	assert.NoError(suite.T(), suite.jwtService.VerifyJWTSignatureWithJWKS(token, server.URL))
}

func (suite *JWTServiceTestSuite) TestVerifyJWTSignatureWithJWKSNoMatchingKey() {
	token, _, err := suite.jwtService.GenerateJWT("user-123", "client-abc", 3600, nil)
	assert.NoError(suite.T(), err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"keys":[{"kty":"RSA","kid":"other-key"}]}`))
	}))
	defer server.Close()

	err = suite.jwtService.VerifyJWTSignatureWithJWKS(token, server.URL)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "no matching key")
}
