package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Sala API",
        "description": "School timetable administration backend",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Admin session management"},
        {"name": "Teachers", "description": "Teacher directory"},
        {"name": "Years", "description": "Academic years"},
        {"name": "Classrooms", "description": "Classrooms within a year"},
        {"name": "Timeslots", "description": "Per-classroom timeslot catalogs"},
        {"name": "Timetable", "description": "Weekly grid and teacher assignment"},
        {"name": "Exports", "description": "Teacher schedule downloads"}
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
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Expired or revoked token"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "204": {"description": "Logged out"}
                }
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List teachers",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Create teacher",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTeacherRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Teacher code already in use"}
                }
            }
        },
        "/teachers/search": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Search teachers for the assignment picker",
                "parameters": [
                    {"name": "q", "in": "query", "type": "string", "required": true},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/firstTwenty": {
            "get": {
                "tags": ["Teachers"],
                "summary": "First twenty teachers",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{id}": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Get teacher detail",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Teachers"],
                "summary": "Update teacher",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTeacherRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Teachers"],
                "summary": "Delete teacher",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/years": {
            "get": {
                "tags": ["Years"],
                "summary": "List academic years",
                "parameters": [
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Years"],
                "summary": "Create academic year",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateYearRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/years/{yid}/classrooms": {
            "get": {
                "tags": ["Classrooms"],
                "summary": "List classrooms of a year",
                "parameters": [
                    {"name": "yid", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Year not found"}
                }
            },
            "post": {
                "tags": ["Classrooms"],
                "summary": "Create classroom",
                "parameters": [
                    {"name": "yid", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassroomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Classroom name already used in the year"}
                }
            }
        },
        "/years/{yid}/classrooms/{cid}/timeslots": {
            "get": {
                "tags": ["Timeslots"],
                "summary": "List the classroom's timeslot catalog",
                "parameters": [
                    {"name": "yid", "in": "path", "type": "string", "required": true},
                    {"name": "cid", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Classroom not found"}
                }
            },
            "post": {
                "tags": ["Timeslots"],
                "summary": "Add a timeslot",
                "parameters": [
                    {"name": "yid", "in": "path", "type": "string", "required": true},
                    {"name": "cid", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTimeslotRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/years/{yid}/classrooms/{cid}/timeslots/default": {
            "post": {
                "tags": ["Timeslots"],
                "summary": "Seed the default catalog from the year's class duration",
                "parameters": [
                    {"name": "yid", "in": "path", "type": "string", "required": true},
                    {"name": "cid", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Catalog already seeded"}
                }
            }
        },
        "/years/{yid}/classrooms/{cid}/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Get the weekly grid snapshot",
                "parameters": [
                    {"name": "yid", "in": "path", "type": "string", "required": true},
                    {"name": "cid", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Classroom not found"}
                }
            }
        },
        "/years/{yid}/classrooms/{cid}/assign-teacher": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Assign or remove a teacher on one grid cell",
                "parameters": [
                    {"name": "yid", "in": "path", "type": "string", "required": true},
                    {"name": "cid", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignTeacherRequest"}}
                ],
                "responses": {
                    "200": {"description": "Cell updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid day or action"},
                    "404": {"description": "Unknown year, classroom, timeslot or teacher"},
                    "409": {"description": "Teacher already booked at that time", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/years/{yid}/teachers/{tid}/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a teacher's weekly schedule",
                "parameters": [
                    {"name": "yid", "in": "path", "type": "string", "required": true},
                    {"name": "tid", "in": "path", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["xlsx", "csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "404": {"description": "Not found"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "CreateTeacherRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "gender": {"type": "string", "enum": ["MALE", "FEMALE"]},
                "dob": {"type": "string"},
                "subject": {"type": "string"},
                "phone": {"type": "string"}
            },
            "required": ["code", "name", "phone"]
        },
        "UpdateTeacherRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "gender": {"type": "string", "enum": ["MALE", "FEMALE"]},
                "dob": {"type": "string"},
                "subject": {"type": "string"},
                "phone": {"type": "string"}
            },
            "required": ["code", "name", "phone"]
        },
        "CreateYearRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "class_duration": {"type": "string", "enum": ["1_hour", "1_5_hour"]},
                "start_date_kh": {"type": "string"},
                "start_date_eng": {"type": "string"}
            },
            "required": ["name", "class_duration"]
        },
        "CreateClassroomRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "leadTeacherId": {"type": "string"}
            },
            "required": ["name"]
        },
        "CreateTimeslotRequest": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "durationMinutes": {"type": "integer"},
                "sortOrder": {"type": "integer"}
            },
            "required": ["label", "durationMinutes"]
        },
        "AssignTeacherRequest": {
            "type": "object",
            "properties": {
                "timeslotId": {"type": "string"},
                "day": {"type": "string", "enum": ["MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY"]},
                "teacherId": {"type": "string", "x-nullable": true},
                "action": {"type": "string", "enum": ["ASSIGN", "REMOVE"]}
            },
            "required": ["timeslotId", "day", "action"]
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
