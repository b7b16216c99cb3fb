// Package docs registers the card service's OpenAPI document with swag.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/register": {"post": {"tags": ["Users"], "summary": "Create an account and return a token", "responses": {"201": {"description": "Created"}, "409": {"description": "Email taken"}}}},
        "/login": {"post": {"tags": ["Users"], "summary": "Exchange credentials for a token", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/boards": {
            "get": {"tags": ["Boards"], "security": [{"BearerAuth": []}], "summary": "List owned boards", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Boards"], "security": [{"BearerAuth": []}], "summary": "Create a board", "responses": {"201": {"description": "Created"}}}
        },
        "/boards/{id}": {"get": {"tags": ["Boards"], "security": [{"BearerAuth": []}], "summary": "Get a board", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/boards/{id}/columns": {"get": {"tags": ["Columns"], "security": [{"BearerAuth": []}], "summary": "Columns with nested cards ordered by sort key", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/boards/{id}/columns/order": {"patch": {"tags": ["Columns"], "security": [{"BearerAuth": []}], "summary": "Reorder every column of a board", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Ids do not match the board's columns"}}}},
        "/boards/{id}/labels": {"get": {"tags": ["Labels"], "security": [{"BearerAuth": []}], "summary": "List board labels", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/columns": {"post": {"tags": ["Columns"], "security": [{"BearerAuth": []}], "summary": "Create a column", "responses": {"201": {"description": "Created"}}}},
        "/labels": {"post": {"tags": ["Labels"], "security": [{"BearerAuth": []}], "summary": "Create a label", "responses": {"201": {"description": "Created"}}}},
        "/cards": {"post": {"tags": ["Cards"], "security": [{"BearerAuth": []}], "summary": "Create a card at the tail of a column", "responses": {"201": {"description": "Created"}}}},
        "/cards/{id}": {"get": {"tags": ["Cards"], "security": [{"BearerAuth": []}], "summary": "Get a card", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/cards/{id}/column": {"patch": {"tags": ["Cards"], "security": [{"BearerAuth": []}], "summary": "Move a card to another column", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/cards/{id}/order": {"patch": {"tags": ["Cards"], "security": [{"BearerAuth": []}], "summary": "Set a card's sort key", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Board Sync API",
	Description:      "Card service backing the board client: boards, columns, cards and their order keys.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
