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

// Package constants defines the database queries for token revocation persistence.
package constants

import dbmodel "github.com/drsect0r/server-library/internal/system/database/model"

// QueryInsertRevokedToken is the query to record a revoked token. Revoking the
// same token twice is a no-op.
var QueryInsertRevokedToken = dbmodel.DBQuery{
	ID: "TKQ-00001",
	Query: "INSERT INTO IDN_OAUTH2_REVOKED_TOKEN (TOKEN_ID, CLIENT_ID, EXPIRY_TIME, REVOKED_AT) " +
		"VALUES ($1, $2, $3, $4) ON CONFLICT (TOKEN_ID) DO NOTHING",
}

// QueryGetRevokedToken is the query to check whether a token has been revoked.
var QueryGetRevokedToken = dbmodel.DBQuery{
	ID:    "TKQ-00002",
	Query: "SELECT TOKEN_ID FROM IDN_OAUTH2_REVOKED_TOKEN WHERE TOKEN_ID = $1",
}

// QueryDeleteExpiredRevokedTokens is the query to prune revocation records for
// tokens that have since expired on their own.
var QueryDeleteExpiredRevokedTokens = dbmodel.DBQuery{
	ID:    "TKQ-00003",
	Query: "DELETE FROM IDN_OAUTH2_REVOKED_TOKEN WHERE EXPIRY_TIME < $1",
}
