// Package docs registers the OpenAPI description served under /swagger.
// Keep it in step with the handler annotations in internal/handler.
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
        "/api/data": {
            "get": {
                "tags": ["data"],
                "summary": "Dump products and raw sales",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DataResponse"}}
                }
            }
        },
        "/products": {
            "get": {
                "tags": ["products"],
                "summary": "List products",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.ProductResponse"}}}
                }
            },
            "post": {
                "tags": ["products"],
                "summary": "Create a product",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateProductRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.ProductMessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "tags": ["products"],
                "summary": "Get a product",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProductResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            },
            "patch": {
                "tags": ["products"],
                "summary": "Partially update a product",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateProductRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProductMessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.APIError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            },
            "delete": {
                "tags": ["products"],
                "summary": "Delete a product",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}}
                }
            }
        },
        "/products/{id}/add-stock": {
            "patch": {
                "tags": ["inventory"],
                "summary": "Add stock to a product",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.AddStockRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.StockTransactionMessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.APIError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/stock-transactions": {
            "get": {
                "tags": ["inventory"],
                "summary": "List stock additions",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.StockTransactionResponse"}}}
                }
            }
        },
        "/stock-alerts": {
            "get": {
                "tags": ["inventory"],
                "summary": "Products at or below the low-stock threshold",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.StockAlertResponse"}}
                }
            }
        },
        "/sales": {
            "get": {
                "tags": ["sales"],
                "summary": "List sales",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.SaleListItem"}}}
                }
            },
            "post": {
                "tags": ["sales"],
                "summary": "Record a sale",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RecordSaleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.SaleMessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.APIError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/sales/{id}": {
            "patch": {
                "tags": ["sales"],
                "summary": "Correct a sale",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateSaleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SaleMessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.APIError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            },
            "delete": {
                "tags": ["sales"],
                "summary": "Delete a sale",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Store and event queue status",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object"}}
                }
            }
        }
    },
    "definitions": {
        "apierror.APIError": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "dto.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "dto.ProductResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "price": {"type": "number"},
                "quantity": {"type": "integer"},
                "image": {"type": "string"}
            }
        },
        "dto.CreateProductRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "price": {"description": "number or numeric string, default 0"},
                "quantity": {"description": "whole number or numeric string, default 0"},
                "image": {"type": "string"}
            }
        },
        "dto.UpdateProductRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "price": {"description": "number or numeric string"},
                "quantity": {"description": "direct correction, no stock transaction"},
                "image": {"type": "string"}
            }
        },
        "dto.ProductMessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "product": {"$ref": "#/definitions/dto.ProductResponse"}
            }
        },
        "dto.AddStockRequest": {
            "type": "object",
            "properties": {"quantity": {"description": "positive whole number"}}
        },
        "dto.StockTransactionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "productId": {"type": "string"},
                "productName": {"type": "string"},
                "quantity": {"type": "integer"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "dto.StockTransactionMessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "stockTransaction": {"$ref": "#/definitions/dto.StockTransactionResponse"}
            }
        },
        "dto.StockAlertResponse": {
            "type": "object",
            "properties": {
                "threshold": {"type": "integer"},
                "products": {"type": "array", "items": {"$ref": "#/definitions/dto.ProductResponse"}}
            }
        },
        "dto.RecordSaleRequest": {
            "type": "object",
            "required": ["productId"],
            "properties": {
                "productId": {"type": "string"},
                "quantity": {"description": "positive whole number"}
            }
        },
        "dto.UpdateSaleRequest": {
            "type": "object",
            "properties": {
                "productId": {"type": "string"},
                "quantity": {"description": "positive whole number"}
            }
        },
        "dto.SaleResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "productId": {"type": "string"},
                "quantity": {"type": "integer"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "dto.SaleMessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "sale": {"$ref": "#/definitions/dto.SaleResponse"}
            }
        },
        "dto.SaleListItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "productId": {"type": "string"},
                "quantity": {"type": "integer"},
                "timestamp": {"type": "string", "format": "date-time"},
                "productName": {"type": "string"},
                "price": {"type": "number"}
            }
        },
        "dto.DataResponse": {
            "type": "object",
            "properties": {
                "products": {"type": "array", "items": {"$ref": "#/definitions/dto.ProductResponse"}},
                "transactions": {"type": "array", "items": {"$ref": "#/definitions/dto.SaleResponse"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Wings Cafe Inventory API",
	Description:      "Products, stock additions and sales for a single cafe.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
