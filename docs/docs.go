// Package docs registers the OpenAPI description of the analysis service
// with swag so gin-swagger can serve it at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Service banner",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ServiceInfo"}}
                }
            }
        },
        "/api/health": {
            "get": {
                "description": "Reports service status and database reachability.",
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/scan/analyze": {
            "post": {
                "description": "Runs the detection rules over the submitted code and stores the result.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Scans"],
                "summary": "Analyze source code",
                "parameters": [
                    {"description": "Code to analyze", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ScanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ScanResult"}},
                    "400": {"description": "Malformed JSON", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "422": {"description": "Invalid request fields", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/scan/{scanId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Scans"],
                "summary": "Get a scan result",
                "parameters": [{"type": "string", "description": "Scan ID", "name": "scanId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ScanResult"}},
                    "404": {"description": "Scan not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/attack-simulation/{scanId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Scans"],
                "summary": "Get the attack simulation of a scan",
                "parameters": [{"type": "string", "description": "Scan ID", "name": "scanId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AttackSimulation"}},
                    "404": {"description": "Scan not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/secure-fix/{vulnId}": {
            "get": {
                "description": "Unknown ids receive the SQL injection remediation.",
                "produces": ["application/json"],
                "tags": ["Remediation"],
                "summary": "Get a secure fix for a vulnerability",
                "parameters": [{"type": "string", "description": "Vulnerability ID", "name": "vulnId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SecureFix"}}
                }
            }
        },
        "/api/compliance/{scanId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Remediation"],
                "summary": "Get the compliance report of a scan",
                "parameters": [{"type": "string", "description": "Scan ID", "name": "scanId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ComplianceReport"}},
                    "404": {"description": "Scan not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/demo/sample-code": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Education"],
                "summary": "Get vulnerable sample code",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/education/lessons": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Education"],
                "summary": "List security lessons",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LessonsResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ServiceInfo": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "SecureReview API"},
                "version": {"type": "string", "example": "1.0.0"}
            }
        },
        "models.ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "SCAN_NOT_FOUND"},
                "message": {"type": "string", "example": "Scan not found"},
                "details": {}
            }
        },
        "models.MetadataResponse": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {"$ref": "#/definitions/models.ErrorInfo"},
                "detail": {"type": "string", "example": "Scan not found"},
                "meta": {"$ref": "#/definitions/models.MetadataResponse"}
            }
        },
        "models.ScanRequest": {
            "type": "object",
            "required": ["code", "language", "project_context", "scan_profile"],
            "properties": {
                "code": {"type": "string"},
                "language": {"type": "string", "enum": ["python", "javascript", "java", "go", "php"]},
                "project_context": {"type": "string", "enum": ["Government", "Enterprise", "Education", "Healthcare", "Finance"]},
                "scan_profile": {"type": "string", "enum": ["Fast", "Deep", "Compliance", "demo"]}
            }
        },
        "models.Vulnerability": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string"},
                "severity": {"type": "string", "enum": ["Critical", "High", "Medium", "Low"]},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "line_number": {"type": "integer"},
                "code_snippet": {"type": "string"},
                "ai_explanation": {"type": "string"},
                "confidence_score": {"type": "number"},
                "policy_mappings": {"type": "array", "items": {"type": "string"}},
                "recommendation": {"type": "string"}
            }
        },
        "models.ScanResult": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "scan_id": {"type": "string"},
                "timestamp": {"type": "string"},
                "language": {"type": "string"},
                "project_context": {"type": "string"},
                "scan_profile": {"type": "string"},
                "total_issues": {"type": "integer"},
                "critical_count": {"type": "integer"},
                "high_count": {"type": "integer"},
                "medium_count": {"type": "integer"},
                "low_count": {"type": "integer"},
                "risk_score": {"type": "number"},
                "deployment_ready": {"type": "boolean"},
                "vulnerabilities": {"type": "array", "items": {"$ref": "#/definitions/models.Vulnerability"}}
            }
        },
        "models.Stage": {
            "type": "object",
            "properties": {
                "stage": {"type": "integer"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "status": {"type": "string", "enum": ["neutral", "success", "warning", "danger"]},
                "icon": {"type": "string"}
            }
        },
        "models.AttackSimulation": {
            "type": "object",
            "properties": {
                "scan_id": {"type": "string"},
                "feasibility_score": {"type": "number"},
                "estimated_time_to_exploit": {"type": "string"},
                "skill_level_required": {"type": "string"},
                "impact_summary": {"type": "string"},
                "citizen_impact": {"type": "string"},
                "stages": {"type": "array", "items": {"$ref": "#/definitions/models.Stage"}}
            }
        },
        "models.SecureFix": {
            "type": "object",
            "properties": {
                "vulnerability_id": {"type": "string"},
                "original_code": {"type": "string"},
                "fixed_code": {"type": "string"},
                "explanation": {"type": "string"},
                "prevents_attacks": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.ComplianceReport": {
            "type": "object",
            "properties": {
                "scan_id": {"type": "string"},
                "owasp": {"type": "object"},
                "iso27001": {"type": "object"},
                "nist": {"type": "object"},
                "gdpr": {"type": "object"}
            }
        },
        "models.Lesson": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "difficulty": {"type": "string"},
                "duration": {"type": "string"},
                "completed": {"type": "boolean"}
            }
        },
        "models.LessonsResponse": {
            "type": "object",
            "properties": {
                "lessons": {"type": "array", "items": {"$ref": "#/definitions/models.Lesson"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "SecureReview Analysis API",
	Description:      "Pattern-based code security analysis with attack simulation, secure fixes and compliance mapping.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
