package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Queue API",
        "description": "Subject queues for the messaging front end",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Sessions", "description": "Gateway session exchange"},
        {"name": "Subjects", "description": "Subject catalog"},
        {"name": "Queues", "description": "Queue membership"},
        {"name": "Dialogs", "description": "Admin subject-management dialog"},
        {"name": "Me", "description": "Caller profile"}
    ],
    "paths": {
        "/auth/session": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Start a session for a platform user",
                "parameters": [
                    {"name": "X-Gateway-Key", "in": "header", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StartSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Session issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid gateway key"}
                }
            }
        },
        "/me": {
            "get": {
                "tags": ["Me"],
                "summary": "Get the caller's profile",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/me/queues": {
            "get": {
                "tags": ["Queues"],
                "summary": "List subject names the caller queues for",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects ordered by name",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Create subject (admin)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubjectNameRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid name"},
                    "403": {"description": "Admin role required"},
                    "409": {"description": "Duplicate name"}
                }
            }
        },
        "/subjects/{id}": {
            "get": {
                "tags": ["Subjects"],
                "summary": "Get subject by id",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Subjects"],
                "summary": "Rename subject (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubjectNameRequest"}}
                ],
                "responses": {
                    "200": {"description": "Renamed"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Duplicate name"}
                }
            },
            "delete": {
                "tags": ["Subjects"],
                "summary": "Delete subject and its queue (admin)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}
            }
        },
        "/subjects/{id}/queue": {
            "get": {
                "tags": ["Queues"],
                "summary": "Show a subject's queue in arrival order",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "post": {
                "tags": ["Queues"],
                "summary": "Join a subject's queue",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "201": {"description": "Joined"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Already in queue"}
                }
            },
            "delete": {
                "tags": ["Queues"],
                "summary": "Leave a subject's queue (idempotent)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Left"}, "404": {"description": "Not found"}}
            }
        },
        "/subjects/{id}/queue/entries": {
            "delete": {
                "tags": ["Queues"],
                "summary": "Clear a subject's queue (admin)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Cleared"},
                    "403": {"description": "Admin role required"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/subjects/{id}/queue/export": {
            "get": {
                "tags": ["Queues"],
                "summary": "Export a subject's queue roster as CSV or PDF (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "Roster file"}}
            }
        },
        "/dialog": {
            "get": {
                "tags": ["Dialogs"],
                "summary": "Inspect the caller's dialog state",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Dialogs"],
                "summary": "Start an add or rename dialog (admin)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BeginDialogRequest"}}
                ],
                "responses": {"200": {"description": "Dialog started"}, "403": {"description": "Admin role required"}}
            },
            "delete": {
                "tags": ["Dialogs"],
                "summary": "Cancel the caller's dialog",
                "responses": {"204": {"description": "Cancelled"}}
            }
        },
        "/dialog/input": {
            "post": {
                "tags": ["Dialogs"],
                "summary": "Submit the typed subject name for the active dialog",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DialogInputRequest"}}
                ],
                "responses": {
                    "200": {"description": "Applied"},
                    "400": {"description": "Invalid name, state kept"},
                    "404": {"description": "No dialog in progress"},
                    "409": {"description": "Duplicate name, state kept"}
                }
            }
        }
    },
    "definitions": {
        "StartSessionRequest": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer", "format": "int64"},
                "display_name": {"type": "string"}
            }
        },
        "SubjectNameRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            }
        },
        "BeginDialogRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "enum": ["add", "rename"]},
                "subject_id": {"type": "string"}
            }
        },
        "DialogInputRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"}
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
