package webservice

import (
	"fmt"
	"log"
	"net/http"
)

type ErrInternal struct {
	cause error
	msg   string
}

func NewErrInternal(cause error, message string) *ErrInternal {
	return &ErrInternal{cause: cause, msg: message}
}

func (e *ErrInternal) Error() string {
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

// Report sends internal server error to web client also logs to console.
func (e *ErrInternal) Report(w http.ResponseWriter) {
	http.Error(w, e.Error(), http.StatusInternalServerError)
	log.Println(e)
}

// ErrBadRequest is a malformed request from the client.
type ErrBadRequest struct {
	cause error
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("bad request: %v", e.cause)
}

// Report sends the error to the web client.
func (e *ErrBadRequest) Report(w http.ResponseWriter) {
	http.Error(w, e.Error(), http.StatusBadRequest)
}
