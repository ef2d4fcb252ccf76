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

// Package constants defines database queries for user consent management.
package constants

import dbmodel "github.com/drsect0r/server-library/internal/system/database/model"

// QueryGetUserConsent is the query to retrieve a recorded consent by user, client and scope set.
var QueryGetUserConsent = dbmodel.DBQuery{
	ID: "CSQ-00001",
	Query: "SELECT CONSENT_ID, USER_ID, CLIENT_ID, SCOPES, GRANTED_AT FROM IDN_OAUTH2_USER_CONSENT " +
		"WHERE USER_ID = $1 AND CLIENT_ID = $2 AND SCOPES = $3",
}

// QueryInsertUserConsent is the query to record a new user consent.
var QueryInsertUserConsent = dbmodel.DBQuery{
	ID: "CSQ-00002",
	Query: "INSERT INTO IDN_OAUTH2_USER_CONSENT (CONSENT_ID, USER_ID, CLIENT_ID, SCOPES, GRANTED_AT) " +
		"VALUES ($1, $2, $3, $4, $5)",
}

// QueryDeleteUserConsents is the query to remove all consents a user granted to a client.
var QueryDeleteUserConsents = dbmodel.DBQuery{
	ID:    "CSQ-00003",
	Query: "DELETE FROM IDN_OAUTH2_USER_CONSENT WHERE USER_ID = $1 AND CLIENT_ID = $2",
}
