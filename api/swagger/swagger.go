package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EduTrack Timetable API",
        "description": "Schedule conflict engine and timetable management for the EduTrack gradebook",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetable", "description": "Weekly lesson slot management"},
        {"name": "Availability", "description": "Free teacher and classroom lookups"},
        {"name": "Diagnostics", "description": "Timetable health checks"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/api/v1/timetable/slots": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List timetable slots",
                "responses": {
                    "200": {"description": "Slot page", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Timetable"],
                "summary": "Place a lesson in the timetable",
                "responses": {
                    "201": {"description": "Slot created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict with an existing slot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/slots/{id}": {
            "put": {
                "tags": ["Timetable"],
                "summary": "Update a timetable slot",
                "responses": {
                    "200": {"description": "Slot updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict with an existing slot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetable"],
                "summary": "Delete a timetable slot",
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/api/v1/timetable/validate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Check a slot draft for conflicts without saving it",
                "responses": {
                    "200": {"description": "Conflict report", "schema": {"$ref": "#/definitions/ConflictReport"}}
                }
            }
        },
        "/api/v1/timetable/availability/teachers": {
            "get": {
                "tags": ["Availability"],
                "summary": "List teachers free for a day and time range",
                "responses": {
                    "200": {"description": "Available teachers", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/availability/classrooms": {
            "get": {
                "tags": ["Availability"],
                "summary": "List classrooms free for a day and time range",
                "responses": {
                    "200": {"description": "Available classrooms", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/conflicts": {
            "get": {
                "tags": ["Diagnostics"],
                "summary": "Report every pairwise teacher-time overlap",
                "responses": {
                    "200": {"description": "Conflict pairs", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/slots/{id}/conflicts": {
            "get": {
                "tags": ["Diagnostics"],
                "summary": "List all conflicts for one stored slot",
                "responses": {
                    "200": {"description": "Slot conflicts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ConflictReport": {
            "type": "object",
            "properties": {
                "valid": {"type": "boolean"},
                "conflict_type": {"type": "string", "enum": ["none", "group", "teacher", "classroom"]},
                "message": {"type": "string"},
                "conflicting_slot_id": {"type": "string"}
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
                "status": {"type": "integer"}
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
