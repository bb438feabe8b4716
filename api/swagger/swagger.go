package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CCMS API",
        "description": "Campus clearance management service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and session profile"},
        {"name": "Students", "description": "Read-only student directory"},
        {"name": "Clearance", "description": "Clearance request workflow"},
        {"name": "Certificates", "description": "Certificate preview, save and download"},
        {"name": "Risks", "description": "Risk registry"},
        {"name": "Officials", "description": "Staff directory administration"},
        {"name": "Exports", "description": "Filtered-view downloads"},
        {"name": "Dashboard", "description": "Headline counts"}
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate a principal",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid username or password"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current session profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/eligible": {
            "get": {
                "tags": ["Students"],
                "summary": "List students without an active risk entry",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{studentId}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get a student by campus identifier",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student ID not found"}
                }
            }
        },
        "/clearance/requests": {
            "post": {
                "tags": ["Clearance"],
                "summary": "Submit a clearance request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClearanceSubmission"}}
                ],
                "responses": {
                    "200": {"description": "Decision derived", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Submission rejected with field errors"},
                    "404": {"description": "Student ID not found"}
                }
            }
        },
        "/clearance/decisions/{id}/certificate": {
            "get": {
                "tags": ["Certificates"],
                "summary": "Preview the certificate PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF bytes"},
                    "409": {"description": "No approved decision to render"}
                }
            }
        },
        "/clearance/decisions/{id}/certificate/save": {
            "post": {
                "tags": ["Certificates"],
                "summary": "Persist the certificate and return a signed URL",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "No approved decision to render"},
                    "503": {"description": "Persistent storage unavailable"}
                }
            }
        },
        "/certificates/download/{token}": {
            "get": {
                "tags": ["Certificates"],
                "summary": "Download a saved certificate",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF bytes"},
                    "403": {"description": "Invalid or expired download link"}
                }
            }
        },
        "/risks": {
            "get": {
                "tags": ["Risks"],
                "summary": "List risk entries",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Risks"],
                "summary": "Flag a student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RiskCreateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Student already has an active entry"}
                }
            }
        },
        "/risks/{id}": {
            "get": {
                "tags": ["Risks"],
                "summary": "Get a risk entry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Risks"],
                "summary": "Update a risk entry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RiskUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Risks"],
                "summary": "Delete a risk entry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "confirm", "in": "query", "required": true, "type": "boolean"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "428": {"description": "Deletion requires confirmation"}
                }
            }
        },
        "/admin/officials": {
            "get": {
                "tags": ["Officials"],
                "summary": "List officials",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Officials"],
                "summary": "Register an official",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OfficialRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/officials/{id}": {
            "get": {
                "tags": ["Officials"],
                "summary": "Get an official",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Officials"],
                "summary": "Update an official",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OfficialRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Officials"],
                "summary": "Delete an official",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "confirm", "in": "query", "required": true, "type": "boolean"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "428": {"description": "Deletion requires confirmation"}
                }
            }
        },
        "/admin/export/{resource}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export a filtered admin view",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "resource", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV or XLSX bytes"}
                }
            }
        },
        "/dashboard/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard summary",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "ClearanceSubmission": {
            "type": "object",
            "properties": {
                "academicYear": {"type": "string"},
                "semester": {"type": "string"},
                "yearOfStudy": {"type": "string"},
                "reason": {"type": "string"},
                "otherReason": {"type": "string"},
                "date": {"type": "string"}
            }
        },
        "RiskCreateRequest": {
            "type": "object",
            "properties": {
                "studentId": {"type": "string"},
                "department": {"type": "string"},
                "caseDescription": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "RiskUpdateRequest": {
            "type": "object",
            "properties": {
                "department": {"type": "string"},
                "caseDescription": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "OfficialRequest": {
            "type": "object",
            "properties": {
                "officialId": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "role": {"type": "string"},
                "profession": {"type": "string"},
                "education": {"type": "string"},
                "department": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "fields": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
