// Package openapi holds the OpenAPI description of the user record API.
package openapi

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed openapi.json
var document []byte

// Document returns the raw OpenAPI JSON.
func Document() []byte {
	return document
}

// Handler serves the OpenAPI document.
func Handler(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", document)
}
