package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"library/internal/apperr"
)

// errorMessage is the error envelope every endpoint shares.
type errorMessage struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

type statusEntry struct {
	status   int
	category string
}

// statusByKind is the single place failure kinds map to protocol codes.
var statusByKind = map[apperr.Kind]statusEntry{
	apperr.KindNotFound:   {http.StatusNotFound, "Not found"},
	apperr.KindBadRequest: {http.StatusBadRequest, "Bad Request"},
	apperr.KindValidation: {http.StatusBadRequest, "Arguments not valid"},
	apperr.KindInternal:   {http.StatusInternalServerError, "Unexpected error"},
}

var fallbackEntry = statusEntry{http.StatusInternalServerError, "Unexpected error"}

// writeError translates a service failure into the shared envelope. Causes of
// internal errors stay in the server log; the client only sees the category
// and the public message.
func writeError(c *gin.Context, err error) {
	entry, ok := statusByKind[apperr.KindOf(err)]
	if !ok {
		entry = fallbackEntry
	}
	log.Printf("e=%T,m=%s", err, err)
	c.JSON(entry.status, errorMessage{Message: entry.category, Errors: []string{publicMessage(err)}})
}

func publicMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
