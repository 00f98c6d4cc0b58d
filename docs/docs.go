// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag/v2"

//go:generate swag init -g ../cmd/server/main.go -d ../ -o .

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Hellcat Store Support",
            "email": "support@hellcat.example.com"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/catalog/products": {
            "get": {
                "tags": ["catalog"],
                "summary": "List products",
                "operationId": "listProducts",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "rank", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "login_type", "in": "query"},
                    {"type": "string", "name": "price_range", "in": "query"},
                    {"type": "integer", "name": "price_min", "in": "query"},
                    {"type": "integer", "name": "price_max", "in": "query"},
                    {"type": "string", "name": "mythic_count", "in": "query"},
                    {"type": "integer", "name": "mythic_min", "in": "query"},
                    {"type": "integer", "name": "mythic_max", "in": "query"},
                    {"type": "string", "name": "sort_by", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/catalog/products/{id}": {
            "get": {
                "tags": ["catalog"],
                "summary": "Get a product",
                "operationId": "getProduct",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/catalog/filter-options": {
            "get": {
                "tags": ["catalog"],
                "summary": "Filter choices for the storefront",
                "operationId": "getFilterOptions",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/orders": {
            "post": {
                "tags": ["orders"],
                "summary": "Create a pending order",
                "operationId": "createOrder",
                "consumes": ["application/json"],
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/orders/recent-purchases": {
            "get": {
                "tags": ["orders"],
                "summary": "Recent completed purchases with masked buyer names",
                "operationId": "recentPurchases",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/orders/{id}": {
            "get": {
                "tags": ["orders"],
                "summary": "Get an order",
                "operationId": "getOrder",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/orders/{id}/payment": {
            "post": {
                "tags": ["orders"],
                "summary": "Pay for a pending order",
                "operationId": "processPayment",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "Idempotency-Key", "in": "header"},
                    {"name": "request", "in": "body", "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "402": {"description": "Payment Required", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Envelope"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/admin/analytics": {
            "get": {
                "tags": ["admin"],
                "summary": "Dashboard analytics",
                "operationId": "getAnalytics",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/admin/orders": {
            "get": {
                "tags": ["admin"],
                "summary": "List orders",
                "operationId": "listOrders",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/admin/orders/export": {
            "get": {
                "tags": ["admin"],
                "summary": "Order export rows",
                "operationId": "exportOrders",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/admin/orders/export.csv": {
            "get": {
                "tags": ["admin"],
                "summary": "Download orders as CSV",
                "operationId": "exportOrdersCSV",
                "produces": ["text/csv"],
                "responses": {"200": {"description": "OK", "schema": {"type": "string"}}}
            }
        },
        "/admin/orders/{id}/status": {
            "patch": {
                "tags": ["admin"],
                "summary": "Change an order status",
                "operationId": "updateOrderStatus",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/admin/products": {
            "post": {
                "tags": ["admin"],
                "summary": "Add a product",
                "operationId": "createProduct",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/admin/products/{id}": {
            "put": {
                "tags": ["admin"],
                "summary": "Update a product",
                "operationId": "updateProduct",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "delete": {
                "tags": ["admin"],
                "summary": "Delete a product",
                "operationId": "deleteProduct",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/sessions": {
            "post": {
                "tags": ["sessions"],
                "summary": "Open a storefront session",
                "operationId": "createSession",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/sessions/{id}/stream": {
            "get": {
                "tags": ["sessions"],
                "summary": "Session state changes as server-sent events",
                "operationId": "streamSession",
                "produces": ["text/event-stream"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sessions/{id}/orders": {
            "get": {
                "tags": ["sessions"],
                "summary": "Load the admin order list into a session",
                "operationId": "loadSessionOrders",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "post": {
                "tags": ["sessions"],
                "summary": "Place an order from a session",
                "operationId": "createSessionOrder",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/sessions/{id}/orders/{orderId}/payment": {
            "post": {
                "tags": ["sessions"],
                "summary": "Pay for an order from a session",
                "operationId": "processSessionPayment",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "orderId", "in": "path", "required": true},
                    {"type": "string", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/sessions/{id}/orders/{orderId}/status": {
            "patch": {
                "tags": ["sessions"],
                "summary": "Change an order's status from a session",
                "operationId": "updateSessionOrderStatus",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "orderId", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/sessions/{id}/products": {
            "post": {
                "tags": ["sessions"],
                "summary": "Add a product from a session",
                "operationId": "addSessionProduct",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/sessions/{id}/products/{productId}": {
            "put": {
                "tags": ["sessions"],
                "summary": "Update a product from a session",
                "operationId": "updateSessionProduct",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "productId", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "delete": {
                "tags": ["sessions"],
                "summary": "Delete a product from a session",
                "operationId": "deleteSessionProduct",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "productId", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        }
    },
    "definitions": {
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "request_id": {"type": "string"}
                    }
                },
                "meta": {"type": "object"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Hellcat Store API",
	Description:      "Storefront for pre-levelled BGMI game accounts: catalog browsing, checkout, simulated payment and store administration.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
