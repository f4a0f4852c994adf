package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Portal API",
        "description": "Read-only proxy in front of the student-management API: enrollments, attendance summaries, exam results and reports",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Portal", "description": "Pass-through lookups used by the portal front-end"},
        {"name": "Reports", "description": "Combined student report and downloads"},
        {"name": "Ops", "description": "Liveness, readiness and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Ops"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Ops"],
                "summary": "Readiness probe, pings the cache when enabled",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/student": {
            "get": {
                "tags": ["Portal"],
                "summary": "Get the program enrollment behind a student profile",
                "parameters": [
                    {"name": "enrollment", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Upstream enrollment document", "schema": {"type": "object"}},
                    "400": {"description": "Missing parameter", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Relayed upstream status", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "503": {"description": "Upstream unreachable", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/enrollment": {
            "get": {
                "tags": ["Portal"],
                "summary": "Get a program enrollment",
                "parameters": [
                    {"name": "enrollment", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Upstream enrollment document", "schema": {"type": "object"}},
                    "400": {"description": "Missing parameter", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/enrollments-by-student": {
            "get": {
                "tags": ["Portal"],
                "summary": "List enrollments by student ID or phone number",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "phone", "in": "query", "type": "string", "description": "At least 10 digits"}
                ],
                "responses": {
                    "200": {"description": "Upstream enrollment rows", "schema": {"type": "array", "items": {"type": "object"}}},
                    "400": {"description": "Neither or both parameters given", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Portal"],
                "summary": "Summarise a student's recent batch and hostel attendance",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AttendanceSummary"}},
                    "400": {"description": "Missing parameter", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "502": {"description": "Malformed upstream record", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/result": {
            "get": {
                "tags": ["Portal"],
                "summary": "List exam results for an enrollment",
                "parameters": [
                    {"name": "enrollment", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Upstream exam result rows", "schema": {"type": "array", "items": {"type": "object"}}},
                    "400": {"description": "Missing parameter", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/report": {
            "get": {
                "tags": ["Reports"],
                "summary": "Combined enrollment, attendance and exam report",
                "parameters": [
                    {"name": "enrollment", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StudentReport"}},
                    "400": {"description": "Missing parameter", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/report/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download the student report",
                "produces": ["application/pdf", "text/csv"],
                "parameters": [
                    {"name": "enrollment", "in": "query", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"], "default": "pdf"}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "details": {"type": "object"}
            }
        },
        "AttendanceSummary": {
            "type": "object",
            "properties": {
                "batch_summary": {"type": "object", "additionalProperties": {"type": "string"}},
                "hostel_summary": {"type": "object", "additionalProperties": {"type": "string"}},
                "daily_summary": {"type": "object", "additionalProperties": {"type": "string", "enum": ["At Batch", "At Hostel", "At Home"]}}
            }
        },
        "CategoryDayStats": {
            "type": "object",
            "properties": {
                "recorded_days": {"type": "integer"},
                "present_days": {"type": "integer"},
                "absent_days": {"type": "integer"},
                "present_rate": {"type": "number"}
            }
        },
        "AttendanceStats": {
            "type": "object",
            "properties": {
                "at_batch_days": {"type": "integer"},
                "at_hostel_days": {"type": "integer"},
                "at_home_days": {"type": "integer"},
                "batch": {"$ref": "#/definitions/CategoryDayStats"},
                "hostel": {"$ref": "#/definitions/CategoryDayStats"}
            }
        },
        "ExamStats": {
            "type": "object",
            "properties": {
                "exams": {"type": "integer"},
                "total_marks": {"type": "number"},
                "obtained_marks": {"type": "number"},
                "percentage": {"type": "number"}
            }
        },
        "StudentReport": {
            "type": "object",
            "properties": {
                "student": {"type": "object"},
                "enrollment_status": {"type": "string", "enum": ["Active", "Joined", "Dropped", "Cancelled"]},
                "attendance": {"$ref": "#/definitions/AttendanceSummary"},
                "attendance_stats": {"$ref": "#/definitions/AttendanceStats"},
                "exam_results": {"type": "array", "items": {"type": "object"}},
                "exam_stats": {"$ref": "#/definitions/ExamStats"}
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
