// Package docs holds the OpenAPI document served under /swagger, written to
// match the swag annotations on the handlers.
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
        "/api/v1/order": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Actions: create, myOrders, submitComplete, confirmComplete.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["order"],
                "summary": "Order manager",
                "parameters": [
                    {"description": "Action and its fields", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/command.CreateOrder"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/api/v1/payment": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Actions: createPayment. paymentCallback is only accepted on /api/v1/payment/callback.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payment"],
                "summary": "Payment manager",
                "parameters": [
                    {"description": "Action and its fields", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/command.CreatePayment"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/api/v1/payment/callback": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payment"],
                "summary": "Payment gateway callback",
                "parameters": [
                    {"type": "string", "description": "Hex HMAC-SHA256 of the body, required when a callback secret is configured", "name": "X-Signature", "in": "header"},
                    {"description": "Trade result", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/command.PaymentCallback"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "402": {"description": "Payment Required", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/api/v1/review": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Actions: create, getUserReviews. getUserReviews accepts anonymous callers.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["review"],
                "summary": "Review manager",
                "parameters": [
                    {"description": "Action and its fields", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/command.CreateReview"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/api/v1/task": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Actions: create, list, detail, myPublished, myGrabbed, grab, cancel, aiEstimate.\nlist, detail and aiEstimate accept anonymous callers.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["task"],
                "summary": "Task manager",
                "parameters": [
                    {"description": "Action and its fields", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/command.CreateTask"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/api/v1/user": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Actions: register, getProfile, updateProfile.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "User manager",
                "parameters": [
                    {"description": "Action and its fields", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/command.Register"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        }
    },
    "definitions": {
        "command.CreateOrder": {
            "type": "object",
            "required": ["taskId"],
            "properties": {"taskId": {"type": "string"}}
        },
        "command.CreatePayment": {
            "type": "object",
            "required": ["orderId"],
            "properties": {"orderId": {"type": "string"}}
        },
        "command.CreateReview": {
            "type": "object",
            "required": ["taskId"],
            "properties": {
                "comment": {"type": "string"},
                "rating": {"type": "integer"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "taskId": {"type": "string"}
            }
        },
        "command.CreateTask": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "aiSuggestedPrice": {"type": "number"},
                "budgetRange": {"$ref": "#/definitions/domain.BudgetRange"},
                "deadline": {"type": "string"},
                "description": {"type": "string"},
                "finalPrice": {"type": "number"},
                "techStack": {"type": "array", "items": {"type": "string"}},
                "title": {"type": "string"}
            }
        },
        "command.PaymentCallback": {
            "type": "object",
            "required": ["orderId", "returnCode"],
            "properties": {
                "orderId": {"type": "string"},
                "outTradeNo": {"type": "string"},
                "resultCode": {"type": "string"},
                "returnCode": {"type": "string"}
            }
        },
        "command.Register": {
            "type": "object",
            "required": ["userType"],
            "properties": {
                "skills": {"type": "array", "items": {"type": "string"}},
                "userInfo": {"$ref": "#/definitions/command.UserInfo"},
                "userType": {"type": "string", "enum": ["customer", "developer"]}
            }
        },
        "command.UserInfo": {
            "type": "object",
            "properties": {
                "avatarUrl": {"type": "string"},
                "nickName": {"type": "string"}
            }
        },
        "domain.BudgetRange": {
            "type": "object",
            "properties": {
                "max": {"type": "number"},
                "min": {"type": "number"}
            }
        },
        "handler.dependencyStatus": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "dependencies": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.dependencyStatus"}},
                "status": {"type": "string"}
            }
        },
        "response.Envelope": {
            "type": "object",
            "properties": {
                "data": {},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Task Marketplace API",
	Description:      "Task marketplace: customers post tasks, developers grab them, deposits and settlement flow through the payment gateway.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
