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

// Package scope provides scope string handling and per-client scope policies.
package scope

import "strings"

// ParseScopes splits a space-delimited scope string into a slice, dropping
// duplicates while preserving order.
func ParseScopes(scopeString string) []string {
	fields := strings.Fields(scopeString)
	if len(fields) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(fields))
	scopes := make([]string, 0, len(fields))
	for _, s := range fields {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		scopes = append(scopes, s)
	}
	return scopes
}

// JoinScopes joins a scope slice into a space-delimited scope string.
func JoinScopes(scopes []string) string {
	return strings.Join(scopes, " ")
}

// IsSubset reports whether every scope in sub is present in super.
func IsSubset(sub, super []string) bool {
	superSet := make(map[string]struct{}, len(super))
	for _, s := range super {
		superSet[s] = struct{}{}
	}
	for _, s := range sub {
		if _, ok := superSet[s]; !ok {
			return false
		}
	}
	return true
}
