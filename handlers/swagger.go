package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>taggate — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document for the access API.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "taggate", "version": "v0.1.0" },
  "paths": {
    "/log": {
      "post": {
        "summary": "Submit a scan and record the access decision",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["tag"],"properties":{"tag":{"type":"string"},"timestamp":{"type":"string","format":"date-time"}}}}}},
        "responses": { "200": { "description": "access granted, log persisted" }, "403": { "description": "access denied, log persisted" }, "400": { "description": "missing tag" }, "500": { "description": "storage unavailable" } }
      }
    },
    "/search": {
      "get": { "summary": "List logs recorded on a calendar day (UTC)", "parameters": [{"name":"date","in":"query","required":true,"schema":{"type":"string","format":"date"}}], "responses": { "200": { "description": "array of logs, possibly empty" }, "400": { "description": "missing or malformed date" } } }
    },
    "/events": {
      "get": { "summary": "List every stored access log", "responses": { "200": { "description": "array of logs" } } }
    },
    "/register": {
      "post": { "summary": "Register a badge holder", "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["tag"],"properties":{"tag":{"type":"string"},"name":{"type":"string"},"matric":{"type":"string"}}}}}}, "responses": { "201": { "description": "user stored" }, "400": { "description": "missing tag" } } }
    },
    "/ws": { "get": { "summary": "Real-time access_log event stream (WebSocket)", "responses": { "101": { "description": "switching protocols" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
