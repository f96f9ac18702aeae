// Package docs holds the OpenAPI document served under /swagger.
// Regenerate it with `swag init -g cmd/server/main.go --v3.1` after changing
// handler annotations.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{.Description}}",
        "version": "{{.Version}}"
    },
    "servers": [{"url": "{{.BasePath}}"}],
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "gmb", "description": "Google account connection"},
        {"name": "locations"},
        {"name": "reviews"},
        {"name": "questions"},
        {"name": "posts"},
        {"name": "media"},
        {"name": "automation"}
    ],
    "paths": {
        "/gmb/oauth/start": {
            "get": {"tags": ["gmb"], "summary": "Start the Google OAuth flow", "parameters": [{"$ref": "#/components/parameters/ReturnPath"}], "responses": {"200": {"$ref": "#/components/responses/OK"}, "401": {"$ref": "#/components/responses/Error"}}}
        },
        "/gmb/oauth/callback": {
            "get": {"tags": ["gmb"], "summary": "Complete the Google OAuth flow", "security": [], "responses": {"200": {"$ref": "#/components/responses/OK"}, "302": {"description": "Redirect to the dashboard"}, "400": {"$ref": "#/components/responses/Error"}}}
        },
        "/gmb/accounts": {
            "get": {"tags": ["gmb"], "summary": "List connected accounts", "parameters": [{"$ref": "#/components/parameters/Page"}, {"$ref": "#/components/parameters/PageSize"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/gmb/accounts/{id}": {
            "get": {"tags": ["gmb"], "summary": "Get an account", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}, "404": {"$ref": "#/components/responses/Error"}}},
            "delete": {"tags": ["gmb"], "summary": "Delete an account and its data", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"204": {"description": "Deleted"}, "404": {"$ref": "#/components/responses/Error"}}}
        },
        "/gmb/accounts/{id}/sync": {
            "post": {"tags": ["gmb"], "summary": "Sync every location of an account", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}, "424": {"$ref": "#/components/responses/Error"}}}
        },
        "/gmb/accounts/{id}/disconnect": {
            "post": {"tags": ["gmb"], "summary": "Revoke tokens and disconnect an account", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/locations": {
            "get": {"tags": ["locations"], "summary": "List locations", "parameters": [{"$ref": "#/components/parameters/Page"}, {"$ref": "#/components/parameters/PageSize"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}},
            "post": {"tags": ["locations"], "summary": "Import a location", "requestBody": {"$ref": "#/components/requestBodies/JSON"}, "responses": {"201": {"$ref": "#/components/responses/OK"}, "400": {"$ref": "#/components/responses/Error"}}}
        },
        "/locations/bulk-sync": {
            "post": {"tags": ["locations"], "summary": "Sync several locations", "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/locations/{id}": {
            "get": {"tags": ["locations"], "summary": "Get a location", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}, "404": {"$ref": "#/components/responses/Error"}}},
            "put": {"tags": ["locations"], "summary": "Update a location", "parameters": [{"$ref": "#/components/parameters/ID"}], "requestBody": {"$ref": "#/components/requestBodies/JSON"}, "responses": {"200": {"$ref": "#/components/responses/OK"}}},
            "delete": {"tags": ["locations"], "summary": "Delete a location", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/locations/{id}/sync": {
            "post": {"tags": ["locations"], "summary": "Sync one location", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/locations/{id}/insights": {
            "get": {"tags": ["locations"], "summary": "Performance metrics for a location", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/reviews": {
            "get": {"tags": ["reviews"], "summary": "List reviews", "parameters": [{"$ref": "#/components/parameters/Page"}, {"$ref": "#/components/parameters/PageSize"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/reviews/stats": {
            "get": {"tags": ["reviews"], "summary": "Rating distribution and reply rate", "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/reviews/{id}": {
            "get": {"tags": ["reviews"], "summary": "Get a review", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/reviews/{id}/reply": {
            "put": {"tags": ["reviews"], "summary": "Reply to a review", "parameters": [{"$ref": "#/components/parameters/ID"}], "requestBody": {"$ref": "#/components/requestBodies/JSON"}, "responses": {"200": {"$ref": "#/components/responses/OK"}, "502": {"$ref": "#/components/responses/Error"}}},
            "delete": {"tags": ["reviews"], "summary": "Delete a review reply", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/questions": {
            "get": {"tags": ["questions"], "summary": "List questions", "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/questions/{id}": {
            "get": {"tags": ["questions"], "summary": "Get a question", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/questions/{id}/answer": {
            "put": {"tags": ["questions"], "summary": "Answer a question", "parameters": [{"$ref": "#/components/parameters/ID"}], "requestBody": {"$ref": "#/components/requestBodies/JSON"}, "responses": {"200": {"$ref": "#/components/responses/OK"}}},
            "delete": {"tags": ["questions"], "summary": "Delete the owner answer", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/posts": {
            "get": {"tags": ["posts"], "summary": "List posts", "responses": {"200": {"$ref": "#/components/responses/OK"}}},
            "post": {"tags": ["posts"], "summary": "Create a draft or scheduled post", "requestBody": {"$ref": "#/components/requestBodies/JSON"}, "responses": {"201": {"$ref": "#/components/responses/OK"}}}
        },
        "/posts/{id}": {
            "get": {"tags": ["posts"], "summary": "Get a post", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}},
            "put": {"tags": ["posts"], "summary": "Update a post", "parameters": [{"$ref": "#/components/parameters/ID"}], "requestBody": {"$ref": "#/components/requestBodies/JSON"}, "responses": {"200": {"$ref": "#/components/responses/OK"}}},
            "delete": {"tags": ["posts"], "summary": "Delete a post", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/posts/{id}/schedule": {
            "post": {"tags": ["posts"], "summary": "Schedule a post", "parameters": [{"$ref": "#/components/parameters/ID"}], "requestBody": {"$ref": "#/components/requestBodies/JSON"}, "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/posts/{id}/unschedule": {
            "post": {"tags": ["posts"], "summary": "Move a scheduled post back to draft", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/posts/{id}/publish": {
            "post": {"tags": ["posts"], "summary": "Publish a post now", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/calendar": {
            "get": {"tags": ["posts"], "summary": "Posts grouped by local day", "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/media": {
            "get": {"tags": ["media"], "summary": "List media", "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/media/uploads": {
            "post": {"tags": ["media"], "summary": "Request a presigned upload URL", "requestBody": {"$ref": "#/components/requestBodies/JSON"}, "responses": {"201": {"$ref": "#/components/responses/OK"}}}
        },
        "/media/{id}": {
            "get": {"tags": ["media"], "summary": "Get a media item", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}},
            "delete": {"tags": ["media"], "summary": "Delete a media item", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/media/{id}/confirm": {
            "post": {"tags": ["media"], "summary": "Confirm an upload", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/media/{id}/publish": {
            "post": {"tags": ["media"], "summary": "Publish a photo to Google", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/automation/rules": {
            "get": {"tags": ["automation"], "summary": "List auto-reply rules", "responses": {"200": {"$ref": "#/components/responses/OK"}}},
            "post": {"tags": ["automation"], "summary": "Create an auto-reply rule", "requestBody": {"$ref": "#/components/requestBodies/JSON"}, "responses": {"201": {"$ref": "#/components/responses/OK"}}}
        },
        "/automation/rules/{id}": {
            "get": {"tags": ["automation"], "summary": "Get a rule", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}},
            "put": {"tags": ["automation"], "summary": "Update a rule", "parameters": [{"$ref": "#/components/parameters/ID"}], "requestBody": {"$ref": "#/components/requestBodies/JSON"}, "responses": {"200": {"$ref": "#/components/responses/OK"}}},
            "delete": {"tags": ["automation"], "summary": "Delete a rule", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/automation/rules/{id}/enable": {
            "post": {"tags": ["automation"], "summary": "Enable a rule", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/automation/rules/{id}/disable": {
            "post": {"tags": ["automation"], "summary": "Disable a rule", "parameters": [{"$ref": "#/components/parameters/ID"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        },
        "/automation/rules/{id}/preview": {
            "post": {"tags": ["automation"], "summary": "Render a rule against a sample review", "parameters": [{"$ref": "#/components/parameters/ID"}], "requestBody": {"$ref": "#/components/requestBodies/JSON"}, "responses": {"200": {"$ref": "#/components/responses/OK"}}}
        }
    },
    "components": {
        "securitySchemes": {
            "BearerAuth": {"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
        },
        "parameters": {
            "ID": {"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}},
            "Page": {"name": "page", "in": "query", "schema": {"type": "integer", "minimum": 1, "default": 1}},
            "PageSize": {"name": "page_size", "in": "query", "schema": {"type": "integer", "minimum": 1, "maximum": 100, "default": 20}},
            "ReturnPath": {"name": "return_path", "in": "query", "schema": {"type": "string"}}
        },
        "requestBodies": {
            "JSON": {"required": true, "content": {"application/json": {"schema": {"type": "object"}}}}
        },
        "responses": {
            "OK": {"description": "Success", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}},
            "Error": {"description": "Error", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}}
        },
        "schemas": {
            "Response": {
                "type": "object",
                "properties": {
                    "success": {"type": "boolean"},
                    "data": {},
                    "error": {"$ref": "#/components/schemas/ErrorInfo"},
                    "meta": {"$ref": "#/components/schemas/Meta"}
                }
            },
            "ErrorInfo": {
                "type": "object",
                "properties": {
                    "code": {"type": "string", "example": "ERR_VALIDATION"},
                    "message": {"type": "string"},
                    "request_id": {"type": "string"},
                    "details": {"type": "array", "items": {"$ref": "#/components/schemas/ValidationError"}}
                }
            },
            "ValidationError": {
                "type": "object",
                "properties": {
                    "field": {"type": "string"},
                    "message": {"type": "string"},
                    "tag": {"type": "string"}
                }
            },
            "Meta": {
                "type": "object",
                "properties": {
                    "total": {"type": "integer"},
                    "page": {"type": "integer"},
                    "page_size": {"type": "integer"},
                    "total_pages": {"type": "integer"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "GBP Dashboard API",
	Description:      "Multi-tenant backend for managing Google Business Profile locations, reviews, questions, posts and media.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
