// Package docs registers the OpenAPI document served under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "tags": ["platform"],
                "summary": "Liveness and provider credential status",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/progress/sessions": {
            "post": {
                "tags": ["progression"],
                "summary": "Start a progression session",
                "parameters": [
                    {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/progression.StartSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/progression.ProgressResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/progress/sessions/{session_id}": {
            "get": {
                "tags": ["progression"],
                "summary": "Read session progress",
                "parameters": [
                    {"in": "path", "name": "session_id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/progression.ProgressResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/progress/sessions/{session_id}/xp": {
            "post": {
                "tags": ["progression"],
                "summary": "Award XP for an action",
                "parameters": [
                    {"in": "path", "name": "session_id", "type": "string", "required": true},
                    {"in": "header", "name": "Idempotency-Key", "type": "string"},
                    {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/progression.AddXPRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/progression.ActionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/progress/sessions/{session_id}/activities": {
            "post": {
                "tags": ["progression"],
                "summary": "Record a tracked research activity",
                "parameters": [
                    {"in": "path", "name": "session_id", "type": "string", "required": true},
                    {"in": "header", "name": "Idempotency-Key", "type": "string"},
                    {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/progression.RecordActivityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/progression.ActionResponse"}}
                }
            }
        },
        "/api/v1/progress/sessions/{session_id}/missions/{mission_id}/progress": {
            "post": {
                "tags": ["progression"],
                "summary": "Advance a mission",
                "parameters": [
                    {"in": "path", "name": "session_id", "type": "string", "required": true},
                    {"in": "path", "name": "mission_id", "type": "string", "required": true},
                    {"in": "header", "name": "Idempotency-Key", "type": "string"},
                    {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/progression.MissionProgressRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/progression.ActionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/progress/sessions/{session_id}/missions/{mission_id}/complete": {
            "post": {
                "tags": ["progression"],
                "summary": "Complete a mission whose target is reached",
                "parameters": [
                    {"in": "path", "name": "session_id", "type": "string", "required": true},
                    {"in": "path", "name": "mission_id", "type": "string", "required": true},
                    {"in": "header", "name": "Idempotency-Key", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/progression.ActionResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/progress/sessions/{session_id}/badges/{badge_id}/unlock": {
            "post": {
                "tags": ["progression"],
                "summary": "Unlock a badge",
                "parameters": [
                    {"in": "path", "name": "session_id", "type": "string", "required": true},
                    {"in": "path", "name": "badge_id", "type": "string", "required": true},
                    {"in": "header", "name": "Idempotency-Key", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/progression.ActionResponse"}}
                }
            }
        },
        "/api/v1/progress/sessions/{session_id}/leaderboard/opt-in": {
            "post": {
                "tags": ["progression"],
                "summary": "Toggle leaderboard participation",
                "parameters": [
                    {"in": "path", "name": "session_id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/progression.ProgressResponse"}}
                }
            }
        },
        "/api/v1/progress/leaderboard": {
            "get": {
                "tags": ["progression"],
                "summary": "List opted-in sessions by total XP",
                "parameters": [
                    {"in": "query", "name": "limit", "type": "integer"},
                    {"in": "query", "name": "offset", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/progression.LeaderboardResponse"}}
                }
            }
        },
        "/api/v1/jurisprudence/search": {
            "get": {
                "tags": ["jurisprudence"],
                "summary": "Search jurisprudence with sample fallback",
                "parameters": [
                    {"in": "query", "name": "q", "type": "string", "required": true},
                    {"in": "query", "name": "tribunal", "type": "string"},
                    {"in": "query", "name": "tipo_documento", "type": "string"},
                    {"in": "query", "name": "relator", "type": "string"},
                    {"in": "query", "name": "de_data", "type": "string"},
                    {"in": "query", "name": "ate_data", "type": "string"},
                    {"in": "query", "name": "ordena_por", "type": "string"},
                    {"in": "query", "name": "size", "type": "integer"},
                    {"in": "query", "name": "expand", "type": "boolean"},
                    {"in": "header", "name": "X-Session-Id", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/jurisprudence.SearchResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/jurisprudence/expand": {
            "post": {
                "tags": ["jurisprudence"],
                "summary": "Expand a query into a boolean search string",
                "parameters": [
                    {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/jurisprudence.ExpandRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/jurisprudence.ExpandResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/jurisprudence/documents/{document_type}/{document_id}": {
            "get": {
                "tags": ["jurisprudence"],
                "summary": "Resolve a document, probing document types when needed",
                "parameters": [
                    {"in": "path", "name": "document_type", "type": "string", "required": true, "description": "use _ to probe every type"},
                    {"in": "path", "name": "document_id", "type": "string", "required": true},
                    {"in": "header", "name": "X-Session-Id", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/jurisprudence.DocumentResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/jurisprudence/documents/{document_type}/{document_id}/pdf": {
            "get": {
                "tags": ["jurisprudence"],
                "summary": "Download the document PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"in": "path", "name": "document_type", "type": "string", "required": true},
                    {"in": "path", "name": "document_id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/jurisprudence/analyze": {
            "post": {
                "tags": ["jurisprudence"],
                "summary": "Extract search terms from an uploaded document",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"in": "formData", "name": "file", "type": "file", "required": true},
                    {"in": "formData", "name": "mode", "type": "string", "required": true, "enum": ["peticao", "sentenca", "raiox"]},
                    {"in": "header", "name": "X-Session-Id", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/jurisprudence.AnalyzeResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/jurisprudence/credentials": {
            "get": {
                "tags": ["jurisprudence"],
                "summary": "Report which providers are configured",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/jurisprudence.CredentialsResponse"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "progression.StartSessionRequest": {
            "type": "object",
            "properties": {"user_alias": {"type": "string"}}
        },
        "progression.AddXPRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "custom_amount": {"type": "integer"}
            }
        },
        "progression.RecordActivityRequest": {
            "type": "object",
            "properties": {"action": {"type": "string"}}
        },
        "progression.MissionProgressRequest": {
            "type": "object",
            "properties": {"increment": {"type": "integer"}}
        },
        "progression.ProgressResponse": {
            "type": "object",
            "properties": {"data": {"type": "object"}}
        },
        "progression.ActionResponse": {
            "type": "object",
            "properties": {"data": {"type": "object"}}
        },
        "progression.LeaderboardResponse": {
            "type": "object",
            "properties": {"data": {"type": "array", "items": {"type": "object"}}}
        },
        "jurisprudence.ExpandRequest": {
            "type": "object",
            "properties": {"text": {"type": "string"}}
        },
        "jurisprudence.ExpandResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {"type": "object"}
            }
        },
        "jurisprudence.SearchResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {"type": "object"}
            }
        },
        "jurisprudence.DocumentResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {"type": "object"}
            }
        },
        "jurisprudence.AnalyzeResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {"type": "object"}
            }
        },
        "jurisprudence.CredentialsResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {"type": "object"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "iJus API",
	Description:      "Progression engine and jurisprudence document resolver.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
