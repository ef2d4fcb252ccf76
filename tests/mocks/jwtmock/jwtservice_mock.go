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

// Package jwtmock provides a mock implementation of the JWT service interface.
package jwtmock

import (
	"crypto/rsa"

	"github.com/stretchr/testify/mock"
)

// JWTServiceInterfaceMock is a mock implementation of the JWTServiceInterface.
type JWTServiceInterfaceMock struct {
	mock.Mock
}

// NewJWTServiceInterfaceMock creates a new instance of JWTServiceInterfaceMock.
func NewJWTServiceInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *JWTServiceInterfaceMock {
	m := &JWTServiceInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Init mocks the Init method.
func (m *JWTServiceInterfaceMock) Init() error {
	ret := m.Called()
	return ret.Error(0)
}

// GetPublicKey mocks the GetPublicKey method.
func (m *JWTServiceInterfaceMock) GetPublicKey() *rsa.PublicKey {
	ret := m.Called()
	if ret.Get(0) != nil {
		return ret.Get(0).(*rsa.PublicKey)
	}
	return nil
}

// GetSignatureAlgorithm mocks the GetSignatureAlgorithm method.
func (m *JWTServiceInterfaceMock) GetSignatureAlgorithm() string {
	ret := m.Called()
	return ret.String(0)
}

// GetKid mocks the GetKid method.
func (m *JWTServiceInterfaceMock) GetKid() string {
	ret := m.Called()
	return ret.String(0)
}

// GenerateJWT mocks the GenerateJWT method.
func (m *JWTServiceInterfaceMock) GenerateJWT(sub, aud string, validityPeriod int64,
	claims map[string]interface{}) (string, int64, error) {
	ret := m.Called(sub, aud, validityPeriod, claims)
	return ret.String(0), ret.Get(1).(int64), ret.Error(2)
}

// VerifyJWTSignature mocks the VerifyJWTSignature method.
func (m *JWTServiceInterfaceMock) VerifyJWTSignature(jwtToken string, jwtPublicKey *rsa.PublicKey) error {
	ret := m.Called(jwtToken, jwtPublicKey)
	return ret.Error(0)
}

// VerifyJWTSignatureWithPEM mocks the VerifyJWTSignatureWithPEM method.
func (m *JWTServiceInterfaceMock) VerifyJWTSignatureWithPEM(jwtToken string, publicKeyPEM string) error {
	ret := m.Called(jwtToken, publicKeyPEM)
	return ret.Error(0)
}

// VerifyJWTSignatureWithJWKS mocks the VerifyJWTSignatureWithJWKS method.
func (m *JWTServiceInterfaceMock) VerifyJWTSignatureWithJWKS(jwtToken string, jwksURL string) error {
	ret := m.Called(jwtToken, jwksURL)
	return ret.Error(0)
}
