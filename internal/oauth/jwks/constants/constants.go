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

// Package constants defines the constants used in the JWKS service.
package constants

import "github.com/drsect0r/server-library/internal/system/error/serviceerror"

// ErrorPublicKeyNotAvailable is returned when the signing public key has not been loaded.
var ErrorPublicKeyNotAvailable = &serviceerror.ServiceError{
	Code:             "JWKS-5001",
	Type:             serviceerror.ServerErrorType,
	Error:            "Public key is not available.",
	ErrorDescription: "The server signing key has not been initialized.",
}

// ErrorUnsupportedSignatureAlgorithm is returned when the configured signature
// algorithm cannot be represented in the key set.
var ErrorUnsupportedSignatureAlgorithm = &serviceerror.ServiceError{
	Code:             "JWKS-5002",
	Type:             serviceerror.ServerErrorType,
	Error:            "Unsupported signature algorithm.",
	ErrorDescription: "The configured signature algorithm is not supported for JWKS.",
}
