// Package docs registers the OpenAPI description served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new member",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/registerRequest"}}],
            "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/authResponse"}},
                "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorResponse"}},
                "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/errorResponse"}}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/authResponse"}},
                "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errorResponse"}}}}},
        "/v1/books": {
            "get": {"tags": ["books"], "summary": "List books",
                "parameters": [{"in": "query", "name": "title", "type": "string"}, {"in": "query", "name": "author", "type": "string"},
                    {"in": "query", "name": "genre", "type": "string"}, {"in": "query", "name": "available", "type": "boolean"}],
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["books"], "summary": "Add a book", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/bookRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/bookResponse"}}}}},
        "/v1/books/{id}": {
            "get": {"tags": ["books"], "summary": "Get a book", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/bookResponse"}}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["books"], "summary": "Update a book", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/bookResponse"}}}},
            "delete": {"tags": ["books"], "summary": "Delete a book", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}}},
        "/v1/books/{id}/borrow": {"post": {"tags": ["loans"], "summary": "Borrow a book", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/loanRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/bookResponse"}}, "409": {"description": "Conflict"}}}},
        "/v1/books/{id}/return": {"post": {"tags": ["loans"], "summary": "Return a book", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/loanRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/bookResponse"}}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}},
        "/v1/records": {"get": {"tags": ["records"], "summary": "List borrow records", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "query", "name": "status", "type": "string", "enum": ["active", "returned", "overdue"]}],
            "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/v1/records/{id}": {"get": {"tags": ["records"], "summary": "Get a borrow record", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/recordResponse"}}}}},
        "/v1/records/sweep": {"post": {"tags": ["records"], "summary": "Run the overdue sweep", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK"}}}},
        "/v1/users": {"get": {"tags": ["users"], "summary": "List users", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/v1/users/{id}": {
            "get": {"tags": ["users"], "summary": "Get a user", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["users"], "summary": "Update a user", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["users"], "summary": "Delete a user", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}}}},
        "/v1/users/{id}/history": {"get": {"tags": ["records"], "summary": "Borrowing history of a user", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}}
    },
    "definitions": {
        "errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "registerRequest": {"type": "object", "required": ["name", "email", "password"],
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string", "minLength": 6}}},
        "loginRequest": {"type": "object", "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "loanRequest": {"type": "object", "properties": {"user_id": {"type": "string"}}},
        "bookRequest": {"type": "object", "required": ["title", "author"],
            "properties": {"title": {"type": "string"}, "author": {"type": "string"}, "isbn": {"type": "string"},
                "published_year": {"type": "integer"}, "genre": {"type": "string"}, "description": {"type": "string"}, "cover_image": {"type": "string"}}},
        "bookResponse": {"type": "object",
            "properties": {"id": {"type": "string"}, "title": {"type": "string"}, "author": {"type": "string"}, "isbn": {"type": "string"},
                "published_year": {"type": "integer"}, "genre": {"type": "string"}, "description": {"type": "string"}, "cover_image": {"type": "string"},
                "available": {"type": "boolean"}, "borrowed_by": {"type": "string"}, "borrow_date": {"type": "string"}, "return_date": {"type": "string"},
                "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "userResponse": {"type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}, "role": {"type": "string"},
                "borrowed_books": {"type": "array", "items": {"type": "string"}}, "created_at": {"type": "string"}}},
        "recordResponse": {"type": "object",
            "properties": {"id": {"type": "string"}, "book_id": {"type": "string"}, "user_id": {"type": "string"}, "book_title": {"type": "string"},
                "user_name": {"type": "string"}, "borrow_date": {"type": "string"}, "due_date": {"type": "string"}, "return_date": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "returned", "overdue"]}}},
        "authResponse": {"type": "object", "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/userResponse"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Library circulation API",
	Description:      "Catalog, borrowing and overdue tracking for a lending library.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
