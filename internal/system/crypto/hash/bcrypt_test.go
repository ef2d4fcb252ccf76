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

package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBcryptHashAndCompare(t *testing.T) {
	hashed, err := BcryptHash("client-secret")
	assert.NoError(t, err)
	assert.NotEmpty(t, hashed)
	assert.NotEqual(t, "client-secret", hashed)

	assert.True(t, BcryptCompare(hashed, "client-secret"))
	assert.False(t, BcryptCompare(hashed, "wrong-secret"))
}

func TestBcryptHashSalted(t *testing.T) {
	hash1, err := BcryptHash("client-secret")
	assert.NoError(t, err)
	hash2, err := BcryptHash("client-secret")
	assert.NoError(t, err)

	// Each hash carries its own salt.
	assert.NotEqual(t, hash1, hash2)
	assert.True(t, BcryptCompare(hash1, "client-secret"))
	assert.True(t, BcryptCompare(hash2, "client-secret"))
}

func TestBcryptCompareMalformedHash(t *testing.T) {
	assert.False(t, BcryptCompare("not-a-bcrypt-hash", "client-secret"))
	assert.False(t, BcryptCompare("", "client-secret"))
	assert.False(t, BcryptCompare("", ""))
}
