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

package pkce

// ChallengeMethodInterface defines a PKCE proof-of-possession verifier.
type ChallengeMethodInterface interface {
	Name() string
	Verify(codeChallenge, codeVerifier string) error
}

type plainChallengeMethod struct{}

func (m *plainChallengeMethod) Name() string {
	return CodeChallengeMethodPlain
}

func (m *plainChallengeMethod) Verify(codeChallenge, codeVerifier string) error {
	if err := validatePKCEParameters(codeChallenge, CodeChallengeMethodPlain, codeVerifier); err != nil {
		return err
	}
	return validatePlainChallenge(codeChallenge, codeVerifier)
}

type s256ChallengeMethod struct{}

func (m *s256ChallengeMethod) Name() string {
	return CodeChallengeMethodS256
}

func (m *s256ChallengeMethod) Verify(codeChallenge, codeVerifier string) error {
	if err := validatePKCEParameters(codeChallenge, CodeChallengeMethodS256, codeVerifier); err != nil {
		return err
	}
	return validateS256Challenge(codeChallenge, codeVerifier)
}

var challengeMethods = map[string]ChallengeMethodInterface{
	CodeChallengeMethodPlain: &plainChallengeMethod{},
	CodeChallengeMethodS256:  &s256ChallengeMethod{},
}

// GetChallengeMethod returns the challenge method registered under the given
// name. An empty name resolves to the plain method per RFC 7636.
func GetChallengeMethod(name string) (ChallengeMethodInterface, error) {
	if name == "" {
		name = CodeChallengeMethodPlain
	}
	method, ok := challengeMethods[name]
	if !ok {
		return nil, ErrInvalidChallengeMethod
	}
	return method, nil
}

// SupportedChallengeMethods returns the names of the registered challenge methods.
func SupportedChallengeMethods() []string {
	names := make([]string, 0, len(challengeMethods))
	for name := range challengeMethods {
		names = append(names, name)
	}
	return names
}
